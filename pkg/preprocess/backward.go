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
package preprocess

import (
	"math/big"

	"github.com/sirupsen/logrus"

	"github.com/talisman-dev/talisman/pkg/gate"
	"github.com/talisman-dev/talisman/pkg/poly"
	"github.com/talisman-dev/talisman/pkg/term"
)

// BackwardSubstitute runs doBackwardSubstitute over every two-monomial gate
// in decreasing-level order, shortening each one's tail term by replacing a
// shared factor with a single already-known gate's variable wherever that
// reduces the term's degree. Matches spec.md §4.5's backward_substitution.
func BackwardSubstitute(arena *gate.Arena, arith *poly.Arith) int {
	logrus.Debug("preprocess: backward substitution")

	counter := 0

	for _, outer := range byDecreasingLevel(arena) {
		og := arena.Get(outer)
		if og.Eliminated || og.PartialProduct {
			continue
		}

		if og.GateConstraint.Len() != 2 {
			continue
		}

		if doBackwardSubstitute(arena, arith, outer) {
			counter++
		}
	}

	logrus.Debugf("preprocess: backward substitution rewrote %d gates", counter)

	return counter
}

func doBackwardSubstitute(arena *gate.Arena, arith *poly.Arith, outer gate.Handle) bool {
	og := arena.Get(outer)
	outerGC := og.GateConstraint

	if outerGC.Len() != 2 {
		return false
	}

	outerT := outerGC.Monomial(1).Term

	res := outerT
	resOwned := false
	repl := gate.NoGate

	for it := outerT; it != nil; it = it.Rest {
		v := it.Head

		vh, ok := arena.ByNum(v.Num)
		if !ok {
			continue
		}

		done := false

		for _, par := range arena.Get(vh).Parents {
			if par == outer {
				continue
			}

			parG := arena.Get(par)
			if parG.Output {
				continue
			}

			pgc := parG.GateConstraint
			if pgc.Len() != 2 {
				continue
			}

			tail := pgc.Monomial(1).Term
			if !tail.ContainsVar(v) {
				continue
			}

			t := arith.Pool.DivideByTerm(outerT, tail)
			if t == outerT {
				arith.Pool.Release(t)
				continue
			}

			if t.Degree() < res.Degree() {
				if resOwned {
					arith.Pool.Release(res)
				}

				res = t
				resOwned = true
				repl = par

				if res.Degree() == 1 {
					done = true
					break
				}
			} else {
				arith.Pool.Release(t)
			}
		}

		if done || res.Degree() == 1 {
			break
		}
	}

	if repl == gate.NoGate {
		if resOwned {
			arith.Pool.Release(res)
		}

		return false
	}

	t0 := res
	replVar := arena.Get(repl).Var
	t1 := arith.Pool.BuildFromVars([]*term.Variable{replVar})

	var t2 *term.Term
	if t0 != nil {
		t2 = arith.Pool.MultiplyTerm(t0, t1)
		arith.Pool.Release(t1)
	} else {
		t2 = t1
	}

	head := outerGC.Monomial(0)
	arith.Stack.PushEnd(head.Coeff, head.Term)
	arith.Stack.Push(big.NewInt(1), t2)
	rewr := arith.Stack.Build()

	arith.Pool.Release(t2)

	if resOwned {
		arith.Pool.Release(t0)
	}

	if err := arena.UpdateGatePoly(outer, rewr); err != nil {
		poly.Release(arith.Pool, rewr)
		return false
	}

	logrus.Debugf("preprocess: substituted %s in %s", replVar.Name, og.Var.Name)

	return true
}
