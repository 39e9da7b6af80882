// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package specparser

import (
	"math/big"

	"github.com/talisman-dev/talisman/pkg/poly"
	"github.com/talisman-dev/talisman/pkg/talerr"
	"github.com/talisman-dev/talisman/pkg/term"
)

// MultSpec builds the canonical "-mult-spec" polynomial of
// original_source/src/specpoly.cpp's mult_spec_poly: the circuit's outputs,
// read as a binary number least-significant-bit first, must equal the
// product of its inputs split into two equal halves (also read LSB first).
// The original resolves each half's boundary from AIGER symbol names
// ("a<k>"/"b<k>"); aig.Model carries no such naming, so the split here is a
// fixed convention (first half is the "a" operand, second half is "b")
// rather than a parsed one — see DESIGN.md's resolution of this gap.
func MultSpec(arith *poly.Arith, inputs, outputs []*term.Variable) (*poly.Polynomial, error) {
	if len(inputs)%2 != 0 {
		return nil, talerr.New(talerr.KindInput, "mult-spec requires an even number of inputs, got %d", len(inputs))
	}

	half := len(inputs) / 2
	a := inputs[:half]
	b := inputs[half:]

	result := arith.Zero()

	for i := len(outputs) - 1; i >= 0; i-- {
		outVar := arith.FromVariable(outputs[i])
		scaled := arith.MulConst(outVar, negPowTwo(i))
		poly.Release(arith.Pool, outVar)

		next := arith.Add(result, scaled)
		poly.Release(arith.Pool, result)
		poly.Release(arith.Pool, scaled)
		result = next
	}

	for i := half - 1; i >= 0; i-- {
		for j := half - 1; j >= 0; j-- {
			av := arith.FromVariable(a[i])
			bv := arith.FromVariable(b[j])
			prod := arith.Mul(av, bv)
			poly.Release(arith.Pool, av)
			poly.Release(arith.Pool, bv)

			scaled := arith.MulConst(prod, powTwo(i+j))
			poly.Release(arith.Pool, prod)

			next := arith.Add(result, scaled)
			poly.Release(arith.Pool, result)
			poly.Release(arith.Pool, scaled)
			result = next
		}
	}

	return result, nil
}

// MiterSpec builds the canonical "-miter-spec" polynomial: the lone output
// of a single-output miter circuit, which equivalence demands is always 0.
// Grounded on miter_spec_poly's "assert(MM == 1)" single-output contract.
func MiterSpec(arith *poly.Arith, outputs []*term.Variable) (*poly.Polynomial, error) {
	if len(outputs) != 1 {
		return nil, talerr.New(talerr.KindInput, "miter-spec requires exactly one output, got %d", len(outputs))
	}

	return arith.FromVariable(outputs[0]), nil
}

// AssertSpec builds the canonical "-assert-spec" polynomial: the sum of
// every output minus the output count, asserting that every assertion
// output signal is always 1. Grounded on assertion_spec_poly.
func AssertSpec(arith *poly.Arith, outputs []*term.Variable) *poly.Polynomial {
	result := arith.Zero()

	for i := len(outputs) - 1; i >= 0; i-- {
		v := arith.FromVariable(outputs[i])
		next := arith.Add(result, v)
		poly.Release(arith.Pool, result)
		poly.Release(arith.Pool, v)
		result = next
	}

	count := arith.FromConstant(int64(len(outputs)))
	next := arith.Sub(result, count)
	poly.Release(arith.Pool, result)
	poly.Release(arith.Pool, count)

	return next
}

func powTwo(n int) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(n))
}

func negPowTwo(n int) *big.Int {
	return new(big.Int).Neg(powTwo(n))
}
