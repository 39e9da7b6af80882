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
	"math/big"

	"github.com/talisman-dev/talisman/pkg/poly"
	"github.com/talisman-dev/talisman/pkg/term"
)

// DualConstraint builds "-v - v_dual + 1" fresh, on demand, for any
// Boolean-dual variable pair. It is deliberately never cached on the Gate:
// it is three monomials, cheap to rebuild, and caching it previously led to
// call sites disagreeing about when the cache was valid (spec.md §9 open
// question on eliminate_unit_gate's cascade policy).
func DualConstraint(arith *poly.Arith, v *term.Variable) *poly.Polynomial {
	vp := arith.FromVariable(v)
	negV := arith.MulConst(vp, big.NewInt(-1))
	poly.Release(arith.Pool, vp)

	dp := arith.FromVariable(v.Dual)
	negDual := arith.MulConst(dp, big.NewInt(-1))
	poly.Release(arith.Pool, dp)

	one := arith.FromConstant(1)

	sum := arith.Add(negV, negDual)
	poly.Release(arith.Pool, negV)
	poly.Release(arith.Pool, negDual)

	result := arith.Add(sum, one)
	poly.Release(arith.Pool, sum)
	poly.Release(arith.Pool, one)

	return result
}
