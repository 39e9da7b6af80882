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
	"fmt"
	"testing"

	"github.com/talisman-dev/talisman/pkg/poly"
	"github.com/talisman-dev/talisman/pkg/term"
)

func newTestArith() *poly.Arith {
	pool := term.NewPool()
	idx := poly.NewIndexCounter()
	stack := poly.NewBuildStack(pool, idx)

	return poly.NewArith(pool, stack)
}

func makeVars(n int, prefix string, startLevel int) []*term.Variable {
	vars := make([]*term.Variable, n)

	for i := 0; i < n; i++ {
		v, _ := term.MakeDualPair(fmt.Sprintf("%s%d", prefix, i), (startLevel+i)*2, startLevel+i)
		vars[i] = v
	}

	return vars
}

// TestMultSpecBuildsNegatedOutputsPlusPartialProducts checks MultSpec's
// monomial count against the hand-expanded formula for 2-bit operands
// (a = a0 + 2a1, b = b0 + 2b1, product s = a*b as a 4-bit output).
func TestMultSpecBuildsNegatedOutputsPlusPartialProducts(t *testing.T) {
	arith := newTestArith()

	inputs := makeVars(4, "i", 1)   // a0,a1,b0,b1 (as i0..i3)
	outputs := makeVars(4, "s", 10) // s0..s3

	spec, err := MultSpec(arith, inputs, outputs)
	if err != nil {
		t.Fatalf("MultSpec failed: %v", err)
	}

	// -s0 -2s1 -4s2 -8s3 + a0b0 + 2a0b1 + 2a1b0 + 4a1b1: 4 output monomials
	// plus 4 partial-product monomials, one per (i,j) pair over a 2-bit
	// operand pair (a0b1 and a1b0 share a coefficient but are still
	// distinct monomials, since their terms differ) = 8 total.
	if spec.Len() != 8 {
		t.Fatalf("expected 8 monomials, got %d: %s", spec.Len(), spec.String(func(v *term.Variable) string { return v.Name }))
	}
}

func TestMultSpecRejectsOddInputCount(t *testing.T) {
	arith := newTestArith()

	inputs := makeVars(3, "i", 1)
	outputs := makeVars(2, "s", 10)

	if _, err := MultSpec(arith, inputs, outputs); err == nil {
		t.Fatalf("expected an odd input count to be rejected")
	}
}

func TestMiterSpecRequiresExactlyOneOutput(t *testing.T) {
	arith := newTestArith()

	if _, err := MiterSpec(arith, makeVars(2, "s", 10)); err == nil {
		t.Fatalf("expected a two-output miter to be rejected")
	}

	single := makeVars(1, "s", 10)

	spec, err := MiterSpec(arith, single)
	if err != nil {
		t.Fatalf("MiterSpec failed: %v", err)
	}

	if spec.Len() != 1 || spec.Monomials()[0].Term.Head != single[0] {
		t.Fatalf("expected miter spec to be exactly the single output variable")
	}
}

func TestAssertSpecSubtractsOutputCount(t *testing.T) {
	arith := newTestArith()

	outputs := makeVars(3, "s", 10)
	spec := AssertSpec(arith, outputs)

	// 3 output monomials plus one constant monomial (-3).
	if spec.Len() != 4 {
		t.Fatalf("expected 4 monomials, got %d", spec.Len())
	}

	lt := spec.LeadingTerm()
	if lt == nil {
		t.Fatalf("expected a non-constant leading term")
	}
}
