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
package guessprove

import (
	"math/big"
	"testing"

	"github.com/talisman-dev/talisman/pkg/aig"
	"github.com/talisman-dev/talisman/pkg/gate"
	"github.com/talisman-dev/talisman/pkg/poly"
	"github.com/talisman-dev/talisman/pkg/subcircuit"
	"github.com/talisman-dev/talisman/pkg/term"
)

func newArith() *poly.Arith {
	pool := term.NewPool()
	idx := poly.NewIndexCounter()
	stack := poly.NewBuildStack(pool, idx)

	return poly.NewArith(pool, stack)
}

// carvedAND builds a single AND gate "g = a & b" and carves the trivial
// sub-circuit rooted at it, giving fixtures shared by several tests below.
func carvedAND(t *testing.T) (*gate.Arena, *subcircuit.SubCircuit) {
	t.Helper()

	arith := newArith()
	arena := gate.NewArena(arith.Pool)

	model := aig.NewModel()
	model.Inputs = []aig.Literal{2, 4}
	model.Ands[6] = aig.And{LHS: 6, RHS0: 2, RHS1: 4}
	model.Outputs = []aig.Literal{6}

	if _, err := gate.Build(arena, model, arith); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	target, ok := arena.ByNum(6)
	if !ok {
		t.Fatalf("AND gate 6 not found")
	}

	sc, err := subcircuit.Carve(arena, target, 2, 0, false)
	if err != nil {
		t.Fatalf("Carve failed: %v", err)
	}

	return arena, sc
}

func TestBuildColumnsOrdersInputsBeforeInterior(t *testing.T) {
	arena, sc := carvedAND(t)

	cols := buildColumns(sc, arena)

	if len(cols) != len(sc.Inputs)+len(sc.Interior) {
		t.Fatalf("expected %d columns, got %d", len(sc.Inputs)+len(sc.Interior), len(cols))
	}

	for i, h := range sc.Inputs {
		if cols[i].h != h {
			t.Fatalf("column %d should be input %v, got %v", i, h, cols[i].h)
		}
	}

	for i, h := range sc.Interior {
		if cols[len(sc.Inputs)+i].h != h {
			t.Fatalf("column %d should be interior gate %v, got %v", i, h, cols[len(sc.Inputs)+i].h)
		}
	}
}

func TestConstAssignmentSetsEveryInput(t *testing.T) {
	_, sc := carvedAND(t)

	zeros := constAssignment(sc, 0)
	ones := constAssignment(sc, 1)

	for _, h := range sc.Inputs {
		if zeros[h] != 0 {
			t.Fatalf("expected input %v to be 0", h)
		}

		if ones[h] != 1 {
			t.Fatalf("expected input %v to be 1", h)
		}
	}
}

// TestEvaluateComputesANDTruthTable checks evaluate/fanInValue against all
// four input assignments of a two-input AND gate.
func TestEvaluateComputesANDTruthTable(t *testing.T) {
	arena, sc := carvedAND(t)

	andHandle := sc.Interior[0]

	cases := []struct {
		a, b, want int8
	}{
		{0, 0, 0},
		{0, 1, 0},
		{1, 0, 0},
		{1, 1, 1},
	}

	for _, c := range cases {
		vals := map[gate.Handle]int8{
			sc.Inputs[0]: c.a,
			sc.Inputs[1]: c.b,
		}

		got := evaluate(arena, sc, vals)

		if got[andHandle] != c.want {
			t.Fatalf("AND(%d,%d): got %d, want %d", c.a, c.b, got[andHandle], c.want)
		}
	}
}

func TestAllZeroDetectsAllZeroAndNonZeroVectors(t *testing.T) {
	if !allZero([]*big.Int{big.NewInt(0), big.NewInt(0)}) {
		t.Fatalf("expected an all-zero vector to report true")
	}

	if allZero([]*big.Int{big.NewInt(0), big.NewInt(3)}) {
		t.Fatalf("expected a vector with a non-zero entry to report false")
	}
}

func TestLcmBigComputesLeastCommonMultiple(t *testing.T) {
	got := lcmBig(big.NewInt(4), big.NewInt(6))
	if got.Cmp(big.NewInt(12)) != 0 {
		t.Fatalf("lcm(4,6): got %v, want 12", got)
	}

	got = lcmBig(big.NewInt(0), big.NewInt(0))
	if got.Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("lcm(0,0) with a zero GCD guard: got %v, want 1", got)
	}
}

// TestBuildCandidateSkipsZeroCoefficients checks that buildCandidate omits
// a column entirely when its integer coefficient is zero, including the
// trailing constant slot.
func TestBuildCandidateSkipsZeroCoefficients(t *testing.T) {
	arena, sc := carvedAND(t)
	arith := newArith()

	cols := buildColumns(sc, arena)

	ints := make([]*big.Int, len(cols)+1)
	for i := range ints {
		ints[i] = big.NewInt(0)
	}

	ints[0] = big.NewInt(2)

	cand := buildCandidate(arith, cols, ints)

	if cand.Len() != 1 {
		t.Fatalf("expected exactly one surviving monomial, got %d", cand.Len())
	}

	if cand.Monomials()[0].Coeff.Cmp(big.NewInt(2)) != 0 {
		t.Fatalf("expected coefficient 2, got %v", cand.Monomials()[0].Coeff)
	}
}
