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
package term

import "testing"

func TestHashConsUniqueness(t *testing.T) {
	p := NewPool()
	va := NewVariable("a", 2, 10)
	vb := NewVariable("b", 4, 8)

	t1 := p.MakeTerm(va, p.MakeTerm(vb, nil))
	t2 := p.MakeTerm(va, p.MakeTerm(vb, nil))

	if t1 != t2 {
		t.Fatalf("expected pointer equality for identical (head,rest) pairs")
	}

	if t1.RefCount() != 2 {
		// one ref from each of the two MakeTerm(va, rest) calls above.
		t.Fatalf("unexpected refcount %d", t1.RefCount())
	}
}

func TestCmpTermTotalOrder(t *testing.T) {
	p := NewPool()
	va := NewVariable("a", 2, 30)
	vb := NewVariable("b", 4, 20)
	vc := NewVariable("c", 6, 10)

	tA := p.MakeTerm(va, nil)
	tAB := p.MakeTerm(va, p.MakeTerm(vb, nil))
	tABC := p.MakeTerm(va, p.MakeTerm(vb, p.MakeTerm(vc, nil)))
	tB := p.MakeTerm(vb, nil)

	if CmpTerm(tA, tA) != 0 {
		t.Fatalf("self-comparison must be 0")
	}

	if CmpTerm(tA, tB) <= 0 {
		t.Fatalf("higher level variable must sort first")
	}

	if CmpTerm(tABC, tAB) <= 0 {
		t.Fatalf("longer term with matching prefix must sort first")
	}

	if CmpTerm(tAB, tABC) >= 0 {
		t.Fatalf("total order must be antisymmetric")
	}
}

func TestDivideMultiplyRoundTrip(t *testing.T) {
	p := NewPool()
	va := NewVariable("a", 2, 30)
	vb := NewVariable("b", 4, 20)
	vc := NewVariable("c", 6, 10)

	full := p.BuildFromVars([]*Variable{va, vb, vc})
	sub := p.BuildFromVars([]*Variable{va, vc})

	quotient := p.DivideByTerm(full, sub)
	if quotient.Degree() != 1 || quotient.Head != vb {
		t.Fatalf("expected quotient b, got degree %d", quotient.Degree())
	}

	back := p.MultiplyTerm(quotient, sub)
	if CmpTerm(back, full) != 0 {
		t.Fatalf("mul(div(t,u),u) != t")
	}
}

func TestDivideByVarToConstant(t *testing.T) {
	p := NewPool()
	va := NewVariable("a", 2, 30)

	single := p.MakeTerm(va, nil)
	result := p.DivideByVar(single, va)

	if result != nil {
		t.Fatalf("expected constant (nil) term after removing sole variable")
	}
}

func TestContainsSubterm(t *testing.T) {
	p := NewPool()
	va := NewVariable("a", 2, 30)
	vb := NewVariable("b", 4, 20)
	vc := NewVariable("c", 6, 10)

	full := p.BuildFromVars([]*Variable{va, vb, vc})
	sub := p.BuildFromVars([]*Variable{va, vc})
	notSub := p.BuildFromVars([]*Variable{vb, vb})

	if !full.ContainsSubterm(sub) {
		t.Fatalf("expected sub to divide full")
	}

	if full.ContainsSubterm(notSub) {
		t.Fatalf("did not expect b^2 to divide a*b*c")
	}
}
