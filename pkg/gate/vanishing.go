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
package gate

import (
	"github.com/talisman-dev/talisman/pkg/poly"
)

// RemoveVanishingMonomials drops every monomial of p that contains, in its
// primary (non-dual) sense, a variable whose gate has been found to
// AlwaysVanish by PropagateUpward. It returns the rewritten polynomial and
// the number of monomials removed; p itself is released.
func RemoveVanishingMonomials(arena *Arena, arith *poly.Arith, p *poly.Polynomial) (*poly.Polynomial, int) {
	removed := 0

	for _, m := range p.Monomials() {
		if monomialVanishes(arena, m) {
			removed++
			continue
		}

		arith.Stack.PushMonomial(m.Clone())
	}

	result := arith.Stack.Build()
	poly.Release(arith.Pool, p)

	return result, removed
}

func monomialVanishes(arena *Arena, m poly.Monomial) bool {
	t := m.Term

	for t != nil {
		v := t.Head
		if !v.IsDual {
			if h, ok := arena.ByNum(v.Num); ok && arena.Get(h).AlwaysVanishes {
				return true
			}
		}

		t = t.Rest
	}

	return false
}
