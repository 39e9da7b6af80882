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
package reduce

import (
	"math/big"
	"testing"

	"github.com/talisman-dev/talisman/pkg/aig"
	"github.com/talisman-dev/talisman/pkg/engine"
	"github.com/talisman-dev/talisman/pkg/pac"
	"github.com/talisman-dev/talisman/pkg/poly"
)

// singleANDModel builds the two-input, one-AND-gate circuit "g = a & b",
// with g also the sole output, matching the fixtures in pkg/gate's own
// tests.
func singleANDModel() *aig.Model {
	model := aig.NewModel()
	model.Inputs = []aig.Literal{2, 4}
	model.Ands[6] = aig.And{LHS: 6, RHS0: 2, RHS1: 4}
	model.Outputs = []aig.Literal{6}

	return model
}

func newDriver(t *testing.T, model *aig.Model) *Driver {
	t.Helper()

	ctx, err := engine.New(model, engine.DefaultConfig(), pac.NullWriter{})
	if err != nil {
		t.Fatalf("engine.New failed: %v", err)
	}

	return NewDriver(ctx)
}

// TestLinearizeSpecReusesExistingGate checks that a spec monomial naming
// exactly the term an AND gate already defines ("a*b") is replaced by that
// gate's own variable rather than by a freshly minted extension gate.
func TestLinearizeSpecReusesExistingGate(t *testing.T) {
	d := newDriver(t, singleANDModel())
	ctx := d.Ctx

	aGate := ctx.Arena.Get(ctx.Inputs[0])
	bGate := ctx.Arena.Get(ctx.Inputs[1])

	pa := ctx.Arith.FromVariable(aGate.Var)
	pb := ctx.Arith.FromVariable(bGate.Var)
	spec := ctx.Arith.Mul(pa, pb)
	poly.Release(ctx.Pool, pa)
	poly.Release(ctx.Pool, pb)

	before := ctx.Stats.ExtensionGatesCreated

	out, err := d.LinearizeSpec(spec)
	if err != nil {
		t.Fatalf("LinearizeSpec failed: %v", err)
	}

	if !out.IsLinear() {
		t.Fatalf("expected a linear result, got degree %d", out.Degree())
	}

	if ctx.Stats.ExtensionGatesCreated != before {
		t.Fatalf("expected no extension gate to be created, got %d new", ctx.Stats.ExtensionGatesCreated-before)
	}

	gHandle, ok := ctx.Arena.ByNum(6)
	if !ok {
		t.Fatalf("AND gate 6 not found")
	}

	gVar := ctx.Arena.Get(gHandle).Var

	if out.Len() != 1 || out.Monomials()[0].Term.Head != gVar {
		t.Fatalf("expected the result to name gate g's own variable, got %v", out)
	}

	if out.Monomials()[0].Coeff.Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("expected unit coefficient, got %v", out.Monomials()[0].Coeff)
	}
}

// TestLinearizeSpecMintsExtensionGate checks that a spec monomial naming a
// term with no defining gate (here, the product of the two output-level
// variable's own children is unavailable, so a three-way product forces a
// fresh term with no existing owner) is replaced by a new extension gate
// leveled strictly above the entire circuit.
func TestLinearizeSpecMintsExtensionGate(t *testing.T) {
	model := aig.NewModel()
	model.Inputs = []aig.Literal{2, 4, 6}
	model.Ands[8] = aig.And{LHS: 8, RHS0: 2, RHS1: 4}
	model.Outputs = []aig.Literal{8}

	d := newDriver(t, model)
	ctx := d.Ctx

	a := ctx.Arena.Get(ctx.Inputs[0]).Var
	b := ctx.Arena.Get(ctx.Inputs[1]).Var
	c := ctx.Arena.Get(ctx.Inputs[2]).Var

	pa := ctx.Arith.FromVariable(a)
	pb := ctx.Arith.FromVariable(b)
	pc := ctx.Arith.FromVariable(c)

	ab := ctx.Arith.Mul(pa, pb)
	spec := ctx.Arith.Mul(ab, pc)

	poly.Release(ctx.Pool, pa)
	poly.Release(ctx.Pool, pb)
	poly.Release(ctx.Pool, pc)
	poly.Release(ctx.Pool, ab)

	maxLevelBefore := 0
	for _, h := range ctx.Arena.Handles() {
		g := ctx.Arena.Get(h)
		if g.Var.Level > maxLevelBefore {
			maxLevelBefore = g.Var.Level
		}
	}

	before := ctx.Stats.ExtensionGatesCreated

	out, err := d.LinearizeSpec(spec)
	if err != nil {
		t.Fatalf("LinearizeSpec failed: %v", err)
	}

	if !out.IsLinear() {
		t.Fatalf("expected a linear result, got degree %d", out.Degree())
	}

	if ctx.Stats.ExtensionGatesCreated != before+1 {
		t.Fatalf("expected exactly one extension gate, got %d new", ctx.Stats.ExtensionGatesCreated-before)
	}

	ev := out.Monomials()[0].Term.Head

	found := false

	for _, h := range ctx.Arena.Handles() {
		g := ctx.Arena.Get(h)
		if g.Var == ev {
			if !g.Extension {
				t.Fatalf("gate backing result variable is not marked Extension")
			}

			if g.Var.Level <= maxLevelBefore {
				t.Fatalf("extension gate level %d does not outrank pre-existing max level %d", g.Var.Level, maxLevelBefore)
			}

			found = true
		}
	}

	if !found {
		t.Fatalf("result variable is not backed by any gate in the arena")
	}
}

// TestLinearizeSpecHandlesMultipleMonomials checks that a spec polynomial
// with two distinct non-linear monomials is fully linearized, one
// substitution per monomial.
func TestLinearizeSpecHandlesMultipleMonomials(t *testing.T) {
	model := aig.NewModel()
	model.Inputs = []aig.Literal{2, 4, 6, 8}
	model.Ands[10] = aig.And{LHS: 10, RHS0: 2, RHS1: 4}
	model.Ands[12] = aig.And{LHS: 12, RHS0: 6, RHS1: 8}
	model.Ands[14] = aig.And{LHS: 14, RHS0: 10, RHS1: 12}
	model.Outputs = []aig.Literal{14}

	d := newDriver(t, model)
	ctx := d.Ctx

	a := ctx.Arena.Get(ctx.Inputs[0]).Var
	b := ctx.Arena.Get(ctx.Inputs[1]).Var
	c := ctx.Arena.Get(ctx.Inputs[2]).Var
	e := ctx.Arena.Get(ctx.Inputs[3]).Var

	pa := ctx.Arith.FromVariable(a)
	pb := ctx.Arith.FromVariable(b)
	pc := ctx.Arith.FromVariable(c)
	pe := ctx.Arith.FromVariable(e)

	ab := ctx.Arith.Mul(pa, pb)
	ce := ctx.Arith.Mul(pc, pe)
	spec := ctx.Arith.Add(ab, ce)

	poly.Release(ctx.Pool, pa)
	poly.Release(ctx.Pool, pb)
	poly.Release(ctx.Pool, pc)
	poly.Release(ctx.Pool, pe)
	poly.Release(ctx.Pool, ab)
	poly.Release(ctx.Pool, ce)

	out, err := d.LinearizeSpec(spec)
	if err != nil {
		t.Fatalf("LinearizeSpec failed: %v", err)
	}

	if !out.IsLinear() {
		t.Fatalf("expected a linear result, got degree %d", out.Degree())
	}

	if out.Len() != 2 {
		t.Fatalf("expected two surviving monomials (one per product), got %d", out.Len())
	}
}
