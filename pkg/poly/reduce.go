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

	"github.com/talisman-dev/talisman/pkg/talerr"
	"github.com/talisman-dev/talisman/pkg/term"
)

// ReduceByOnePoly performs one step of polynomial long division of p by q,
// using q as the rewriter (spec.md §4.2).  If q's leading term does not
// divide any monomial of p, a (structurally equal) copy of p is returned.
func (a *Arith) ReduceByOnePoly(p, q *Polynomial) *Polynomial {
	lt := q.LeadingTerm()

	f := a.DivideByTerm(p, lt)
	if f.IsZero() {
		Release(a.Pool, f)
		clone := p.Clone()
		Retain(a.Pool, clone)

		return clone
	}

	if q.LeadingCoefficient().Sign() > 0 {
		neg := a.MulConst(f, big.NewInt(-1))
		Release(a.Pool, f)
		f = neg
	}

	fq := a.Mul(f, q)
	Release(a.Pool, f)

	result := a.Add(p, fq)
	Release(a.Pool, fq)

	return result
}

// SubstituteLinearPoly reduces p by a degree-1 polynomial q, in place of the
// monomial of p sharing q's leading term.  If the coefficients match exactly
// the result is p - q; otherwise the quotient must divide evenly or this
// returns a KindInvariant error, matching spec.md §4.2/§7 ("division errors
// in substitute_linear_poly are fatal, not user error").
func (a *Arith) SubstituteLinearPoly(p, q *Polynomial) (*Polynomial, error) {
	if q.Degree() > 1 {
		return nil, talerr.New(talerr.KindInvariant, "SubstituteLinearPoly requires a linear poly, got degree %d", q.Degree())
	}

	lt := q.LeadingTerm()

	var target *Monomial

	for i := range p.terms {
		if p.terms[i].Term == lt {
			target = &p.terms[i]
			break
		}
	}

	if target == nil {
		clone := p.Clone()
		Retain(a.Pool, clone)

		return clone, nil
	}

	if target.Coeff.Cmp(q.LeadingCoefficient()) == 0 {
		return a.Sub(p, q), nil
	}

	quot := new(big.Int)
	rem := new(big.Int)
	quot.QuoRem(target.Coeff, q.LeadingCoefficient(), rem)

	if rem.Sign() != 0 {
		return nil, talerr.New(talerr.KindInvariant,
			"cannot reduce: coefficient %s is not a multiple of pivot %s", target.Coeff, q.LeadingCoefficient())
	}

	scaled := a.MulConst(q, quot)
	result := a.Sub(p, scaled)
	Release(a.Pool, scaled)

	return result, nil
}

// FlipVarInPoly replaces every occurrence of variable v by (1 - v.Dual),
// implemented as a reduction against the dual constraint "-v - v_dual + 1".
// When remVan is true, monomials already known to vanish are left alone
// (the caller is expected to have removed them first via the vanishing-twin
// machinery; see gate.RemoveVanishingMonomials), matching spec.md §4.2's
// rem_van flag.
func (a *Arith) FlipVarInPoly(p *Polynomial, v *term.Variable, dualConstraint *Polynomial, remVan bool, vanishes func(*term.Term) bool) *Polynomial {
	if !containsVar(p, v) {
		clone := p.Clone()
		Retain(a.Pool, clone)

		return clone
	}

	if remVan {
		return a.flipSkippingVanishing(p, dualConstraint, vanishes)
	}

	return a.ReduceByOnePoly(p, dualConstraint)
}

func containsVar(p *Polynomial, v *term.Variable) bool {
	for _, m := range p.Monomials() {
		if m.Term.ContainsVar(v) {
			return true
		}
	}

	return false
}

// flipSkippingVanishing mirrors ReduceByOnePoly's substitution but leaves
// any monomial whose term is reported as vanishing by the supplied oracle
// untouched, rather than rewriting it via the dual constraint.
func (a *Arith) flipSkippingVanishing(p, dualConstraint *Polynomial, vanishes func(*term.Term) bool) *Polynomial {
	lt := dualConstraint.LeadingTerm()

	for _, m := range p.Monomials() {
		if vanishes != nil && vanishes(m.Term) {
			a.Stack.Push(m.Coeff, m.Term)
			continue
		}

		if lt != nil && m.Term.ContainsSubterm(lt) {
			quotient := a.Pool.DivideByTerm(m.Term, lt)
			coeff := new(big.Int)

			if dualConstraint.LeadingCoefficient().Sign() > 0 {
				coeff.Neg(m.Coeff)
			} else {
				coeff.Set(m.Coeff)
			}

			for _, dm := range dualConstraint.Monomials()[1:] {
				nt := a.Pool.MultiplyTerm(quotient, dm.Term)
				c := new(big.Int).Mul(coeff, dm.Coeff)
				a.Stack.Push(c, nt)
				a.Pool.Release(nt)
			}

			a.Pool.Release(quotient)
		} else {
			a.Stack.Push(m.Coeff, m.Term)
		}
	}

	return a.Stack.Build()
}
