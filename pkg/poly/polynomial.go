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
	"bytes"
	"math/big"

	"github.com/talisman-dev/talisman/pkg/term"
)

// Polynomial is a sorted sequence of monomials: no two share a term, sorted
// by strictly decreasing term order (constant last), no zero coefficients.
// Idx is a monotonically increasing proof-log identity assigned by the
// IndexCounter that built it.
type Polynomial struct {
	Idx   uint64
	terms []Monomial
}

// IndexCounter assigns monotonically increasing polynomial identities.  It
// is owned by engine.Context (spec.md §9: no hidden singletons), not a
// package-level global.
type IndexCounter struct {
	next uint64
}

// NewIndexCounter creates a counter starting at 2, matching spec.md §4.12's
// "initial circuit polynomials indexed 2.." (index 0/1 are reserved for the
// PAC calculus's constant axioms 0 and 1).
func NewIndexCounter() *IndexCounter {
	return &IndexCounter{next: 2}
}

// Next returns the next unused index.
func (c *IndexCounter) Next() uint64 {
	idx := c.next
	c.next++

	return idx
}

// Len returns the number of monomials.
func (p *Polynomial) Len() int {
	if p == nil {
		return 0
	}

	return len(p.terms)
}

// Monomial returns the ith monomial (0 = leading term).
func (p *Polynomial) Monomial(i int) Monomial {
	return p.terms[i]
}

// Monomials returns the underlying slice directly; callers must not mutate
// it.
func (p *Polynomial) Monomials() []Monomial {
	if p == nil {
		return nil
	}

	return p.terms
}

// IsZero reports whether this polynomial has no terms.
func (p *Polynomial) IsZero() bool {
	return p == nil || len(p.terms) == 0
}

// LeadingTerm returns the term of the leading (first) monomial, or nil if p
// is zero or its leading monomial is the constant.
func (p *Polynomial) LeadingTerm() *term.Term {
	if p.IsZero() {
		return nil
	}

	return p.terms[0].Term
}

// LeadingCoefficient returns the coefficient of the leading monomial, or 0
// if p is zero.
func (p *Polynomial) LeadingCoefficient() *big.Int {
	if p.IsZero() {
		return big.NewInt(0)
	}

	return p.terms[0].Coeff
}

// Degree returns the maximum term degree occurring in p (cached implicitly
// since the leading monomial, by sort order, always has maximal degree among
// ties only when the ordering is graded; TalisMan's term order is a pure lex
// order over levels, so degree is computed by scanning).
func (p *Polynomial) Degree() uint {
	var best uint

	for _, m := range p.Monomials() {
		if d := m.Term.Degree(); d > best {
			best = d
		}
	}

	return best
}

// IsLinear reports whether every monomial of p has degree <= 1.
func (p *Polynomial) IsLinear() bool {
	return p.Degree() <= 1
}

// IsConstant reports whether p has at most one monomial, and it is the
// constant term (or p is zero).
func (p *Polynomial) IsConstant() bool {
	switch p.Len() {
	case 0:
		return true
	case 1:
		return p.terms[0].Term == nil
	default:
		return false
	}
}

// Clone performs a deep copy (coefficients only).
func (p *Polynomial) Clone() *Polynomial {
	if p == nil {
		return nil
	}

	out := make([]Monomial, len(p.terms))
	for i, m := range p.terms {
		out[i] = m.Clone()
	}

	return &Polynomial{Idx: p.Idx, terms: out}
}

// VariablesSet returns the set of distinct variables occurring in p.
func (p *Polynomial) VariablesSet() map[*term.Variable]struct{} {
	out := make(map[*term.Variable]struct{})

	for _, m := range p.Monomials() {
		for c := m.Term; c != nil; c = c.Rest {
			out[c.Head] = struct{}{}
		}
	}

	return out
}

// Equal performs a structural (not pointer) equality check, comparing
// coefficients and hash-consed term pointers monomial by monomial.
func (p *Polynomial) Equal(q *Polynomial) bool {
	if p.Len() != q.Len() {
		return false
	}

	for i := range p.Monomials() {
		pm, qm := p.terms[i], q.terms[i]
		if pm.Term != qm.Term || pm.Coeff.Cmp(qm.Coeff) != 0 {
			return false
		}
	}

	return true
}

// String renders the polynomial as a signed sum, matching the textual form
// used by the spec/CNF/PAC layers (sans trailing ';', added by callers).
func (p *Polynomial) String(varName func(*term.Variable) string) string {
	if p.IsZero() {
		return "0"
	}

	var buf bytes.Buffer

	for i, m := range p.Monomials() {
		s := m.String(varName)
		if i > 0 && len(s) > 0 && s[0] != '-' {
			buf.WriteString("+")
		}

		buf.WriteString(s)
	}

	return buf.String()
}
