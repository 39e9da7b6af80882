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

// Package poly implements the polynomial algebra (spec component C2):
// monomials with arbitrary-precision coefficients over hash-consed terms,
// sorted-array polynomials, and the reduction operations the driver (C10)
// needs.  Grounded on go-corset's pkg/util/poly (Monomial[S]/ArrayPoly[S]),
// specialised from that package's generic S-typed variable slots to this
// engine's term.Term, and from go-corset's per-term big.Int coefficient to
// the same representation used here.
package poly

import (
	"bytes"
	"math/big"

	"github.com/talisman-dev/talisman/pkg/term"
)

// Monomial is coeff * term.  A nil Term denotes the constant monomial.
// Monomials are not hash-consed (unlike Term); each is owned by exactly one
// Polynomial.
type Monomial struct {
	Coeff *big.Int
	Term  *term.Term
}

// NewMonomial constructs a monomial, cloning the coefficient so the caller
// retains ownership of theirs.
func NewMonomial(coeff *big.Int, t *term.Term) Monomial {
	return Monomial{Coeff: new(big.Int).Set(coeff), Term: t}
}

// Clone returns a deep copy (coefficient only; Term is shared via the pool).
func (m Monomial) Clone() Monomial {
	return Monomial{Coeff: new(big.Int).Set(m.Coeff), Term: m.Term}
}

// Negate returns a copy of m with the coefficient negated.
func (m Monomial) Negate() Monomial {
	return Monomial{Coeff: new(big.Int).Neg(m.Coeff), Term: m.Term}
}

// IsZero reports whether the coefficient is zero.
func (m Monomial) IsZero() bool {
	return m.Coeff.Sign() == 0
}

// SameTerm reports whether two monomials share the same term (pointer
// equality, since terms are hash-consed).
func (m Monomial) SameTerm(other Monomial) bool {
	return m.Term == other.Term
}

// String renders a monomial using a variable-naming function.
func (m Monomial) String(varName func(*term.Variable) string) string {
	var buf bytes.Buffer

	buf.WriteString(m.Coeff.String())

	for c := m.Term; c != nil; c = c.Rest {
		buf.WriteString("*")
		buf.WriteString(varName(c.Head))
	}

	return buf.String()
}
