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
	"github.com/talisman-dev/talisman/pkg/talerr"
)

// UpdateGatePoly replaces h's constraint, detaching it from its previous
// children and re-deriving its children set from the new constraint's
// variables, matching spec.md §3's update_gate_poly operation. The old
// constraint is released; ownership of p transfers to the gate.
func (a *Arena) UpdateGatePoly(h Handle, p *poly.Polynomial) error {
	g := a.Get(h)

	poly.Release(a.Pool, g.GateConstraint)
	g.GateConstraint = p

	for _, c := range g.Children {
		cg := a.Get(c)
		cg.Parents = removeHandle(cg.Parents, h)
	}

	newChildren := make([]Handle, 0, p.Len())
	seen := make(map[Handle]bool)

	for v := range p.VariablesSet() {
		num := v.Num
		positive := true

		if v.IsDual {
			num = v.Dual.Num
			positive = false
		}

		ch, ok := a.ByNum(num)
		if !ok {
			return talerr.New(talerr.KindInvariant, "update_gate_poly: variable %q names no known gate", v.Name)
		}

		if !seen[ch] {
			seen[ch] = true
			newChildren = append(newChildren, ch)
		}

		cg := a.Get(ch)
		cg.Parents = append(cg.Parents, h)

		if cg.PosParents == nil {
			continue
		}

		if positive {
			cg.PosParents.Set(uint(h))
			cg.NegParents.Clear(uint(h))
		} else {
			cg.NegParents.Set(uint(h))
			cg.PosParents.Clear(uint(h))
		}
	}

	g.Children = newChildren

	return nil
}
