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
package normalform

import (
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

	return poly.NewArith(pool, poly.NewBuildStack(pool, idx))
}

func TestComputeProducesANormalFormPerInteriorGate(t *testing.T) {
	arith := newArith()
	arena := gate.NewArena(arith.Pool)

	model := aig.NewModel()
	model.Inputs = []aig.Literal{2, 4, 6}
	model.Ands[8] = aig.And{LHS: 8, RHS0: 2, RHS1: 4}
	model.Ands[10] = aig.And{LHS: 10, RHS0: 8, RHS1: 6}
	model.Outputs = []aig.Literal{10}

	if _, err := gate.Build(arena, model, arith); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	target, ok := arena.ByNum(10)
	if !ok {
		t.Fatalf("gate 10 not found")
	}

	sc, err := subcircuit.Carve(arena, target, 2, 0, false)
	if err != nil {
		t.Fatalf("Carve failed: %v", err)
	}

	nfs := Compute(arena, arith, sc, false)

	if len(nfs) != len(sc.Interior) {
		t.Fatalf("expected one normal form per interior gate, got %d for %d gates", len(nfs), len(sc.Interior))
	}

	for _, h := range sc.Interior {
		if nfs[h] == nil {
			t.Fatalf("gate %v has no normal form", h)
		}
	}
}

func TestClassifyRecognizesConstantZeroPattern(t *testing.T) {
	arith := newArith()

	v := term.NewVariable("v", 2, 4)

	constZero := arith.FromVariable(v)

	if classify(constZero) != patternConstZero {
		t.Fatalf("expected patternConstZero")
	}

	poly.Release(arith.Pool, constZero)
}
