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

// Package normalform implements the mutual-reduction pass of spec.md §4.7
// (component C7): for a sub-circuit's interior gates, taken in top-down
// (largest level first) order, each gate's constraint is reduced against
// every subsequent one, vanishing monomials are dropped, and any resulting
// linear polynomial that matches a recognizable propagation pattern is
// pushed up into the gate's parents. Grounded on
// original_source/src/subcircuit.cpp's compute_normalforms and
// original_source/src/propagate.cpp's check_if_propagate.
package normalform

import (
	"math/big"

	"github.com/talisman-dev/talisman/pkg/gate"
	"github.com/talisman-dev/talisman/pkg/poly"
	"github.com/talisman-dev/talisman/pkg/subcircuit"
)

// Compute reduces every interior gate of sc against every gate after it in
// sc.Interior's decreasing-level order, storing the mutually-reduced result
// as that gate's NormalForm and returning the same map keyed by handle.
// When proofLogging is true, pattern propagation (which would make the
// PAC proof's step sequence inconsistent with the gate graph it describes)
// is skipped, matching spec.md §4.7's explicit carve-out.
func Compute(arena *gate.Arena, arith *poly.Arith, sc *subcircuit.SubCircuit, proofLogging bool) map[gate.Handle]*poly.Polynomial {
	out := make(map[gate.Handle]*poly.Polynomial, len(sc.Interior))

	interior := sc.Interior

	for i, h := range interior {
		g := arena.Get(h)

		nf := g.GateConstraint.Clone()
		poly.Retain(arith.Pool, nf)

		for j := i + 1; j < len(interior); j++ {
			other := arena.Get(interior[j])

			reduced := arith.ReduceByOnePoly(nf, other.GateConstraint)
			poly.Release(arith.Pool, nf)
			nf = reduced

			cleaned, _ := gate.RemoveVanishingMonomials(arena, arith, nf)
			nf = cleaned
		}

		g.NormalForm = nf
		out[h] = nf

		if !proofLogging {
			propagate(arena, arith, h, nf)
		}
	}

	return out
}

// pattern identifies the shape of a degree-1, at-most-two-variable
// polynomial that is safe to push into every parent using the gate's
// variable, per spec.md §4.7's four named patterns.
type pattern int

const (
	patternNone pattern = iota
	// patternConstZero: the gate's value is forced to 0 (nf == v, or a
	// non-trivial multiple of v alone).
	patternConstZero
	// patternConstOne: the gate's value is forced to 1 (nf == v - 1).
	patternConstOne
	// patternEquality: v equals another gate's variable (nf == a*(v - w)).
	patternEquality
	// patternNegEquality: v equals the complement of another gate's
	// variable (nf == a*(v + w - 1)).
	patternNegEquality
)

func classify(nf *poly.Polynomial) pattern {
	if nf.Degree() > 1 || nf.Len() == 0 || nf.Len() > 2 {
		return patternNone
	}

	if nf.Len() == 1 {
		return patternConstZero
	}

	tail := nf.Monomial(1)
	if tail.Term == nil {
		if tail.Coeff.CmpAbs(big.NewInt(1)) == 0 {
			return patternConstOne
		}

		return patternNone
	}

	if nf.Monomial(0).Coeff.CmpAbs(tail.Coeff) != 0 {
		return patternNone
	}

	if nf.Monomial(0).Coeff.Sign() == tail.Coeff.Sign() {
		return patternNegEquality
	}

	return patternEquality
}

// propagate rewrites every parent of h's gate that uses its variable, by
// substituting nf's implied value directly, when nf matches one of the four
// patterns spec.md §4.7 names. Grounded on propagate.cpp's
// check_if_propagate/propagate_in_parents.
func propagate(arena *gate.Arena, arith *poly.Arith, h gate.Handle, nf *poly.Polynomial) {
	if classify(nf) == patternNone {
		return
	}

	g := arena.Get(h)
	parents := append([]gate.Handle(nil), g.Parents...)

	for _, p := range parents {
		pg := arena.Get(p)
		if pg.Eliminated {
			continue
		}

		rewritten := arith.ReduceByOnePoly(pg.GateConstraint, nf)
		_ = arena.UpdateGatePoly(p, rewritten)
	}
}
