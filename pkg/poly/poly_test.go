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
package poly

import (
	"math/big"
	"testing"

	"github.com/talisman-dev/talisman/pkg/term"
)

func newArith() (*Arith, *term.Pool) {
	pool := term.NewPool()
	idx := NewIndexCounter()
	stack := NewBuildStack(pool, idx)

	return NewArith(pool, stack), pool
}

func TestBuildNormalForm(t *testing.T) {
	a, pool := newArith()
	va := term.NewVariable("a", 2, 30)
	vb := term.NewVariable("b", 4, 20)

	ta := pool.MakeTerm(va, nil)
	tb := pool.MakeTerm(vb, nil)

	a.Stack.Push(big.NewInt(3), ta)
	a.Stack.Push(big.NewInt(-5), tb)
	a.Stack.Push(big.NewInt(2), ta) // merges with the first push -> coeff 5

	p := a.Stack.Build()

	if p.Len() != 2 {
		t.Fatalf("expected 2 monomials after merge, got %d", p.Len())
	}

	for i := 1; i < p.Len(); i++ {
		if term.CmpTerm(p.terms[i-1].Term, p.terms[i].Term) <= 0 {
			t.Fatalf("monomials not in strictly decreasing term order")
		}
	}

	for _, m := range p.Monomials() {
		if m.IsZero() {
			t.Fatalf("build() must drop zero-coefficient monomials")
		}
	}
}

func TestArithmeticLaws(t *testing.T) {
	a, pool := newArith()
	va := term.NewVariable("a", 2, 30)
	vb := term.NewVariable("b", 4, 20)

	ta := pool.MakeTerm(va, nil)
	tb := pool.MakeTerm(vb, nil)

	a.Stack.Push(big.NewInt(3), ta)
	a.Stack.Push(big.NewInt(4), tb)
	p := a.Stack.Build()

	diff := a.Sub(p, p)
	if !diff.IsZero() {
		t.Fatalf("p - p should be zero")
	}

	sum := a.Add(p, diff)
	if !sum.Equal(p) {
		t.Fatalf("p + (p - p) should equal p")
	}

	one := a.FromConstant(1)
	mulOne := a.Mul(p, one)

	if !mulOne.Equal(p) {
		t.Fatalf("p * 1 should equal p")
	}

	q := a.FromVariable(va)
	r := a.FromVariable(vb)

	left := a.Mul(a.Add(p, q), r)
	right := a.Add(a.Mul(p, r), a.Mul(q, r))

	if !left.Equal(right) {
		t.Fatalf("distributivity failed: mul(add(p,q),r) != add(mul(p,r),mul(q,r))")
	}
}

func TestModIdempotence(t *testing.T) {
	a, pool := newArith()
	va := term.NewVariable("a", 2, 30)
	ta := pool.MakeTerm(va, nil)

	a.Stack.Push(big.NewInt(37), ta)
	p := a.Stack.Build()

	once := a.Mod(p, 4)
	twice := a.Mod(once, 4)

	if !once.Equal(twice) {
		t.Fatalf("mod(mod(p,n),n) != mod(p,n)")
	}
}

func TestSubstituteLinearPolyReducesLeadingTerm(t *testing.T) {
	a, pool := newArith()
	vg := term.NewVariable("g", 10, 50)
	va := term.NewVariable("a", 2, 30)
	vb := term.NewVariable("b", 4, 20)

	tg := pool.MakeTerm(vg, nil)
	ta := pool.MakeTerm(va, nil)
	tb := pool.MakeTerm(vb, nil)

	// q = g - a - b  (a linear gate constraint)
	a.Stack.Push(big.NewInt(1), tg)
	a.Stack.Push(big.NewInt(-1), ta)
	a.Stack.Push(big.NewInt(-1), tb)
	q := a.Stack.Build()

	// p = 2*g + 3
	a.Stack.Push(big.NewInt(2), tg)
	a.Stack.Push(big.NewInt(3), nil)
	p := a.Stack.Build()

	result, err := a.SubstituteLinearPoly(p, q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.IsZero() {
		t.Fatalf("did not expect zero result")
	}

	if result.LeadingTerm() == tg {
		t.Fatalf("leading term of result must not still be g")
	}
}
