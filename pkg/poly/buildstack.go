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

// BuildStack is the global (per-engine) build scratchpad described in
// spec.md §3/§4.2: push/push_end insert into a sorted array, merging
// matching-term monomials, and Build drains the stack into an immutable
// Polynomial with a freshly assigned Idx.  One BuildStack is owned by
// engine.Context and reused across every polynomial construction (spec.md
// §9: collect global mutable state into one engine context).
type BuildStack struct {
	pool  *term.Pool
	idx   *IndexCounter
	stack []Monomial
}

// NewBuildStack constructs an empty stack bound to a term pool (for
// retaining terms referenced by built polynomials) and an index counter.
func NewBuildStack(pool *term.Pool, idx *IndexCounter) *BuildStack {
	return &BuildStack{pool: pool, idx: idx}
}

// PushEnd appends a monomial without checking sort order; used when the
// caller already knows the insertion point (e.g. copying an existing sorted
// polynomial term by term).
func (s *BuildStack) PushEnd(coeff *big.Int, t *term.Term) {
	s.pool.Retain(t)
	s.stack = append(s.stack, Monomial{Coeff: new(big.Int).Set(coeff), Term: t})
}

// Push inserts a monomial in sorted position, merging with an existing
// monomial of the same term (adding coefficients) and dropping the result if
// it becomes zero.
func (s *BuildStack) Push(coeff *big.Int, t *term.Term) {
	for i, m := range s.stack {
		if m.Term == t {
			m.Coeff.Add(m.Coeff, coeff)
			if m.Coeff.Sign() == 0 {
				s.pool.Release(t)
				s.stack = append(s.stack[:i], s.stack[i+1:]...)
			} else {
				s.stack[i] = m
			}

			return
		}
	}

	pos := 0
	for pos < len(s.stack) && term.CmpTerm(s.stack[pos].Term, t) > 0 {
		pos++
	}

	s.pool.Retain(t)
	mono := Monomial{Coeff: new(big.Int).Set(coeff), Term: t}
	s.stack = append(s.stack, Monomial{})
	copy(s.stack[pos+1:], s.stack[pos:])
	s.stack[pos] = mono
}

// PushMonomial is a convenience wrapper around Push for an existing
// Monomial value.
func (s *BuildStack) PushMonomial(m Monomial) {
	s.Push(m.Coeff, m.Term)
}

// Build drains the stack into a fresh, immutable Polynomial, assigning the
// next proof-log index.  The stack is empty after Build returns.
func (s *BuildStack) Build() *Polynomial {
	terms := s.stack
	s.stack = nil

	return &Polynomial{Idx: s.idx.Next(), terms: terms}
}

// Release drops the pool references this polynomial holds on its terms.
// Call when a temporary polynomial is discarded, matching spec.md §3's
// "temporary polynomials are destroyed on all exit paths".
func Release(pool *term.Pool, p *Polynomial) {
	if p == nil {
		return
	}

	for _, m := range p.terms {
		pool.Release(m.Term)
	}
}

// Retain takes out a fresh pool reference on every term p holds. Clone
// shares term pointers with its source rather than re-deriving them, so
// any clone that outlives its source independently (e.g. a gate's
// immutable AIGPoly snapshot, kept alongside a GateConstraint that will
// later be rewritten and released) must Retain itself first.
func Retain(pool *term.Pool, p *Polynomial) {
	if p == nil {
		return
	}

	for _, m := range p.terms {
		pool.Retain(m.Term)
	}
}
