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

// Package field377 provides a cheap collision-check fingerprint for a
// polynomial's coefficient/term vector, wrapping
// github.com/consensys/gnark-crypto's bls12-377 scalar field the same way
// field/bls12-377 wraps it for trace-cell values: one fr.Element accumulator,
// mixed in monomial order. It never decides anything on its own — a digest
// match is only ever a fast pre-check before an exact big.Int/term
// comparison, since fr.Element arithmetic is modulo the curve's scalar
// field and so cannot itself prove two distinct integer coefficients equal.
// The accumulator is a plain sum, so it is insensitive to monomial order.
package field377

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"

	"github.com/talisman-dev/talisman/pkg/poly"
	"github.com/talisman-dev/talisman/pkg/term"
)

// Digest is a fingerprint of a polynomial's monomials; being a sum, it does
// not depend on the order in which the monomials are mixed in.
type Digest fr.Element

// Sum computes p's digest: for each monomial, the coefficient is multiplied
// by varKey of every variable in its term (a constant monomial contributes
// its coefficient alone), and the per-monomial products are summed.
func Sum(p *poly.Polynomial) Digest {
	var acc fr.Element

	for _, m := range p.Monomials() {
		var term fr.Element
		term.SetBigInt(m.Coeff)

		for c := m.Term; c != nil; c = c.Rest {
			var idElt fr.Element
			idElt.SetUint64(uint64(varKey(c.Head)))
			term.Mul(&term, &idElt)
		}

		acc.Add(&acc, &term)
	}

	return Digest(acc)
}

// varKey maps a variable to a positive, dual-aware ordinal for mixing into
// the digest: primary and dual share the same underlying AIG literal, but
// must still mix differently, so the dual's key is offset.
func varKey(v *term.Variable) uint64 {
	key := uint64(v.Num)*2 + 3
	if v.IsDual {
		key++
	}

	return key
}

// Equal reports whether two digests are identical field elements.
func (d Digest) Equal(other Digest) bool {
	a, b := fr.Element(d), fr.Element(other)
	return a.Equal(&b)
}

// BigInt renders the digest as its canonical big.Int representative, for
// diagnostics/logging.
func (d Digest) BigInt() *big.Int {
	e := fr.Element(d)
	return e.BigInt(new(big.Int))
}
