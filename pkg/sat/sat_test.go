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
package sat

import "testing"

func TestEncodeAndGateMatchesBooleanAnd(t *testing.T) {
	c := New()

	g, a, b := c.NewVar(), c.NewVar(), c.NewVar()
	c.EncodeAndGate(g, a, b)

	// Force a=true, b=false; g must come out false.
	c.AddClause(a)
	c.AddClause(b.Not())

	sat, model, err := c.Solve(g)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	if !sat {
		t.Fatalf("expected sat")
	}

	if model[g] {
		t.Fatalf("expected g false when one input is false")
	}
}

func TestAtMostKForbidsExcess(t *testing.T) {
	c := New()

	lits := []Lit{c.NewVar(), c.NewVar(), c.NewVar()}
	c.AtMostK(lits, 1)

	for _, l := range lits {
		c.AddClause(l)
	}

	sat, _, err := c.Solve()
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	if sat {
		t.Fatalf("expected unsat: all three literals forced true violates at-most-1")
	}
}

func TestAtLeastKRequiresEnoughTrue(t *testing.T) {
	c := New()

	lits := []Lit{c.NewVar(), c.NewVar(), c.NewVar()}
	c.AtLeastK(lits, 2)

	for _, l := range lits {
		c.AddClause(l.Not())
	}

	sat, _, err := c.Solve()
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	if sat {
		t.Fatalf("expected unsat: all three literals forced false violates at-least-2")
	}
}

func TestEncodeWeightedAtLeastRejectsVanishingSum(t *testing.T) {
	c := New()

	x, y := c.NewVar(), c.NewVar()

	// x - y >= 1 forces x true, y false; assert the opposite and expect unsat.
	if err := c.EncodeWeightedAtLeast([]WeightedLit{{Weight: 1, Lit: x}, {Weight: -1, Lit: y}}, 1); err != nil {
		t.Fatalf("EncodeWeightedAtLeast failed: %v", err)
	}

	c.AddClause(x.Not())

	sat, _, err := c.Solve()
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	if sat {
		t.Fatalf("expected unsat: x-y>=1 cannot hold with x forced false")
	}
}
