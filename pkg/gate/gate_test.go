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
package gate

import (
	"testing"

	"github.com/talisman-dev/talisman/pkg/aig"
	"github.com/talisman-dev/talisman/pkg/poly"
	"github.com/talisman-dev/talisman/pkg/term"
)

func newArith() *poly.Arith {
	pool := term.NewPool()
	idx := poly.NewIndexCounter()
	stack := poly.NewBuildStack(pool, idx)

	return poly.NewArith(pool, stack)
}

// TestBuildSingleAND constructs the smallest possible circuit: two inputs
// feeding one AND gate that is also the sole output, and checks the gate
// graph construction of spec.md §4.3 steps 1-5.
func TestBuildSingleAND(t *testing.T) {
	arith := newArith()
	arena := NewArena(arith.Pool)

	model := aig.NewModel()
	model.Inputs = []aig.Literal{2, 4}
	model.Ands[6] = aig.And{LHS: 6, RHS0: 2, RHS1: 4}
	model.Outputs = []aig.Literal{6}

	res, err := Build(arena, model, arith)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(res.Inputs) != 2 || len(res.Outputs) != 1 {
		t.Fatalf("unexpected input/output counts: %d/%d", len(res.Inputs), len(res.Outputs))
	}

	andHandle, ok := arena.ByNum(6)
	if !ok {
		t.Fatalf("AND gate 6 not registered in arena")
	}

	andGate := arena.Get(andHandle)
	if andGate.GateConstraint.IsZero() {
		t.Fatalf("AND gate constraint must not be zero")
	}

	if andGate.GateConstraint.Degree() != 2 {
		t.Fatalf("expected AND gate constraint of degree 2, got %d", andGate.GateConstraint.Degree())
	}

	outHandle := res.Outputs[0]
	outGate := arena.Get(outHandle)

	if !outGate.Output {
		t.Fatalf("output gate not marked Output")
	}

	if !outGate.GateConstraint.IsLinear() {
		t.Fatalf("output gate constraint should be linear (s - target)")
	}

	in0 := arena.Get(res.Inputs[0])
	if !in0.Input {
		t.Fatalf("input gate not marked Input")
	}

	if in0.Var.Level >= andGate.Var.Level {
		t.Fatalf("input level %d should be below AND level %d", in0.Var.Level, andGate.Var.Level)
	}

	if andGate.Var.Level >= outGate.Var.Level {
		t.Fatalf("AND level %d should be below output level %d", andGate.Var.Level, outGate.Var.Level)
	}
}

// TestBuildDiscoversXORGadget constructs the standard three-AND XOR
// encoding (g = AND(NOT(a&!b), NOT(!a&b))) and checks the XOR-child twin
// rule and linear rewrite of spec.md §4.4.
func TestBuildDiscoversXORGadget(t *testing.T) {
	arith := newArith()
	arena := NewArena(arith.Pool)

	model := aig.NewModel()
	model.Inputs = []aig.Literal{2, 4} // a=2, b=4
	model.Ands[6] = aig.And{LHS: 6, RHS0: 2, RHS1: 5}   // h0 = a & !b
	model.Ands[8] = aig.And{LHS: 8, RHS0: 3, RHS1: 4}    // h1 = !a & b
	model.Ands[10] = aig.And{LHS: 10, RHS0: 7, RHS1: 9} // g = !h0 & !h1
	model.Outputs = []aig.Literal{10}

	_, err := Build(arena, model, arith)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	gHandle, _ := arena.ByNum(10)
	h0Handle, _ := arena.ByNum(6)
	h1Handle, _ := arena.ByNum(8)

	g := arena.Get(gHandle)
	if !g.XORRoot {
		t.Fatalf("gate 10 should be detected as an XOR root")
	}

	if !g.GateConstraint.IsLinear() {
		t.Fatalf("XOR root constraint should have been rewritten to a linear relation")
	}

	h0 := arena.Get(h0Handle)
	if _, ok := h0.VanTwins[h1Handle]; !ok {
		t.Fatalf("h0 and h1 should be registered as vanishing twins")
	}
}

func TestGateOfResolvesLeadingVariable(t *testing.T) {
	arith := newArith()
	arena := NewArena(arith.Pool)

	model := aig.NewModel()
	model.Inputs = []aig.Literal{2, 4}
	model.Ands[6] = aig.And{LHS: 6, RHS0: 2, RHS1: 4}
	model.Outputs = []aig.Literal{6}

	if _, err := Build(arena, model, arith); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	andHandle, _ := arena.ByNum(6)
	andGate := arena.Get(andHandle)

	h, err := arena.GateOf(andGate.GateConstraint)
	if err != nil {
		t.Fatalf("GateOf failed: %v", err)
	}

	if h != andHandle {
		t.Fatalf("GateOf resolved to the wrong gate")
	}
}
