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

	"github.com/talisman-dev/talisman/pkg/term"
)

// Arith bundles a BuildStack and the term.Pool it shares with the rest of
// the engine so arithmetic methods don't need both passed at every call
// site.
type Arith struct {
	Pool  *term.Pool
	Stack *BuildStack
}

// NewArith constructs an Arith helper over a shared pool/stack pair.
func NewArith(pool *term.Pool, stack *BuildStack) *Arith {
	return &Arith{Pool: pool, Stack: stack}
}

// Add computes p + q.
func (a *Arith) Add(p, q *Polynomial) *Polynomial {
	for _, m := range p.Monomials() {
		a.Stack.Push(m.Coeff, m.Term)
	}

	for _, m := range q.Monomials() {
		a.Stack.Push(m.Coeff, m.Term)
	}

	return a.Stack.Build()
}

// Sub computes p - q.
func (a *Arith) Sub(p, q *Polynomial) *Polynomial {
	for _, m := range p.Monomials() {
		a.Stack.Push(m.Coeff, m.Term)
	}

	neg := new(big.Int)

	for _, m := range q.Monomials() {
		neg.Neg(m.Coeff)
		a.Stack.Push(neg, m.Term)
	}

	return a.Stack.Build()
}

// Mul computes the Cauchy product p * q via sorted-insertion auto-merging.
func (a *Arith) Mul(p, q *Polynomial) *Polynomial {
	c := new(big.Int)

	for _, pm := range p.Monomials() {
		for _, qm := range q.Monomials() {
			c.Mul(pm.Coeff, qm.Coeff)
			t := a.Pool.MultiplyTerm(pm.Term, qm.Term)
			a.Stack.Push(c, t)
			a.Pool.Release(t)
		}
	}

	return a.Stack.Build()
}

// MulConst scales every monomial of p by a constant.
func (a *Arith) MulConst(p *Polynomial, c *big.Int) *Polynomial {
	if c.Sign() == 0 {
		return a.Stack.Build()
	}

	r := new(big.Int)

	for _, m := range p.Monomials() {
		r.Mul(m.Coeff, c)
		a.Stack.Push(r, m.Term)
	}

	return a.Stack.Build()
}

// MulTerm multiplies every monomial of p by a single term t.
func (a *Arith) MulTerm(p *Polynomial, t *term.Term) *Polynomial {
	for _, m := range p.Monomials() {
		nt := a.Pool.MultiplyTerm(m.Term, t)
		a.Stack.Push(m.Coeff, nt)
		a.Pool.Release(nt)
	}

	return a.Stack.Build()
}

// MulMonomial multiplies p by a single monomial (coefficient and term).
func (a *Arith) MulMonomial(p *Polynomial, m Monomial) *Polynomial {
	c := new(big.Int)

	for _, pm := range p.Monomials() {
		c.Mul(pm.Coeff, m.Coeff)
		nt := a.Pool.MultiplyTerm(pm.Term, m.Term)
		a.Stack.Push(c, nt)
		a.Pool.Release(nt)
	}

	return a.Stack.Build()
}

// DivideByTerm keeps only monomials containing t, dividing each by t.  Used
// to extract the "negative factor" during polynomial reduction (spec.md
// §4.2, reduce_by_one_poly step 1).
func (a *Arith) DivideByTerm(p *Polynomial, t *term.Term) *Polynomial {
	for _, m := range p.Monomials() {
		if t != nil && !m.Term.ContainsSubterm(t) {
			continue
		}

		q := a.Pool.DivideByTerm(m.Term, t)
		a.Stack.Push(m.Coeff, q)
		a.Pool.Release(q)
	}

	return a.Stack.Build()
}

// Mod reduces every coefficient of p modulo 2^n (n >= 1), using the
// non-negative representative in [0, 2^n) consistent with the
// original's modular arithmetic over Z/2^N.
func (a *Arith) Mod(p *Polynomial, n uint) *Polynomial {
	modulus := new(big.Int).Lsh(big.NewInt(1), n)
	r := new(big.Int)

	for _, m := range p.Monomials() {
		r.Mod(m.Coeff, modulus)
		if r.Sign() != 0 {
			a.Stack.Push(r, m.Term)
		}
	}

	return a.Stack.Build()
}

// Zero returns the zero polynomial (consuming a fresh index).
func (a *Arith) Zero() *Polynomial {
	return a.Stack.Build()
}

// FromVariable builds the degree-1 polynomial "v".
func (a *Arith) FromVariable(v *term.Variable) *Polynomial {
	t := a.Pool.MakeTerm(v, nil)
	a.Stack.Push(big.NewInt(1), t)
	a.Pool.Release(t)

	return a.Stack.Build()
}

// FromConstant builds the constant polynomial "c".
func (a *Arith) FromConstant(c int64) *Polynomial {
	if c == 0 {
		return a.Stack.Build()
	}

	a.Stack.Push(big.NewInt(c), nil)

	return a.Stack.Build()
}
