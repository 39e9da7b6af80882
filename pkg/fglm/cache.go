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
package fglm

import (
	"math/big"

	"github.com/talisman-dev/talisman/pkg/poly"
	"github.com/talisman-dev/talisman/pkg/subcircuit"
	"github.com/talisman-dev/talisman/pkg/term"
)

// Compress projects a reconstructed linear polynomial into the cache's
// portable (coefficient, variable-id) form against ids, matching
// original_source/src/fglm.cpp's compress_linear.
func Compress(p *poly.Polynomial, ids *subcircuit.VarIDMap) subcircuit.CompressedLinearPoly {
	out := subcircuit.CompressedLinearPoly{}

	for _, m := range p.Monomials() {
		id := 0
		if m.Term != nil {
			id = ids.IDOf(m.Term.Head)
		}

		out.Coeffs = append(out.Coeffs, m.Coeff.Int64())
		out.IDs = append(out.IDs, id)
	}

	return out
}

// Decompress rebuilds a linear polynomial from its compressed form against
// the current sub-circuit's id map, for a cache hit.
func Decompress(arith *poly.Arith, c subcircuit.CompressedLinearPoly, ids *subcircuit.VarIDMap) *poly.Polynomial {
	for i, id := range c.IDs {
		v := ids.VarByID(id)

		var t *term.Term
		if v != nil {
			t = arith.Pool.BuildFromVars([]*term.Variable{v})
		}

		arith.Stack.Push(big.NewInt(c.Coeffs[i]), t)

		if t != nil {
			arith.Pool.Release(t)
		}
	}

	return arith.Stack.Build()
}
