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
package fglm

import (
	"math/big"
	"testing"

	"github.com/talisman-dev/talisman/pkg/aig"
	"github.com/talisman-dev/talisman/pkg/gate"
	"github.com/talisman-dev/talisman/pkg/normalform"
	"github.com/talisman-dev/talisman/pkg/poly"
	"github.com/talisman-dev/talisman/pkg/subcircuit"
	"github.com/talisman-dev/talisman/pkg/term"
)

func newArith() *poly.Arith {
	pool := term.NewPool()
	idx := poly.NewIndexCounter()

	return poly.NewArith(pool, poly.NewBuildStack(pool, idx))
}

// buildXORGadget builds the standard 3-AND XOR gadget: h0 = i0&!i1,
// h1 = !i0&i1, g = !h0&!h1 = i0 xnor i1, exercising the XOR-root linear
// constraint so the FGLM pass over its sub-circuit should find g's own
// already-linear constraint rather than crashing on degree-2 input.
func buildXORGadget(t *testing.T) (*gate.Arena, *poly.Arith, gate.Handle) {
	arith := newArith()
	arena := gate.NewArena(arith.Pool)

	model := aig.NewModel()
	model.Inputs = []aig.Literal{2, 4}
	model.Ands[6] = aig.And{LHS: 6, RHS0: 2, RHS1: 5}
	model.Ands[8] = aig.And{LHS: 8, RHS0: 3, RHS1: 4}
	model.Ands[10] = aig.And{LHS: 10, RHS0: 7, RHS1: 9}
	model.Outputs = []aig.Literal{10}

	if _, err := gate.Build(arena, model, arith); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	gHandle, ok := arena.ByNum(10)
	if !ok {
		t.Fatalf("gate 10 not found")
	}

	return arena, arith, gHandle
}

func TestLinearizeDoesNotErrorOnXORGadget(t *testing.T) {
	arena, arith, target := buildXORGadget(t)

	sc, err := subcircuit.Carve(arena, target, 2, 0, false)
	if err != nil {
		t.Fatalf("Carve failed: %v", err)
	}

	forms := normalform.Compute(arena, arith, sc, true)

	results, err := Linearize(arith, arena, sc, forms)
	if err != nil {
		t.Fatalf("Linearize failed: %v", err)
	}

	// The XOR root's own constraint is already linear by construction, so
	// a Result naming it (if any) must itself be degree <= 1.
	for _, r := range results {
		if r.Poly.Degree() > 1 {
			t.Fatalf("reconstructed polynomial is not linear: degree %d", r.Poly.Degree())
		}
	}
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	arith := newArith()

	v := term.NewVariable("v", 2, 4)
	w := term.NewVariable("w", 4, 2)

	vt := arith.Pool.BuildFromVars([]*term.Variable{v})
	wt := arith.Pool.BuildFromVars([]*term.Variable{w})

	arith.Stack.Push(big.NewInt(1), vt)
	arith.Stack.Push(big.NewInt(-1), wt)
	p := arith.Stack.Build()

	arith.Pool.Release(vt)
	arith.Pool.Release(wt)

	ids := subcircuit.NewVarIDMap()
	compressed := Compress(p, ids)

	got := Decompress(arith, compressed, ids)

	if !got.Equal(p) {
		t.Fatalf("decompressed polynomial does not match original")
	}
}
