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
	"github.com/sirupsen/logrus"

	"github.com/talisman-dev/talisman/pkg/gate"
	"github.com/talisman-dev/talisman/pkg/poly"
)

// Run drives the full spec.md §4.5 pass schedule once over a freshly built
// arena: remove_only_positives(1), remove_only_positives(0), a cascading
// eliminate_unit sweep in decreasing-level order, backward substitution, and
// finally the CLA probe against the first output's child. It reports the
// probe's verdict so the caller can flag likely carry-lookahead structure in
// its own statistics; this engine's vanishing-monomial discovery is already
// unconditional (gate.RemoveVanishingMonomials has no partial mode to
// upgrade), so unlike original_source the probe result changes no further
// behavior here — see DESIGN.md's resolution of this Open Question.
func Run(arena *gate.Arena, arith *poly.Arith, outputs []gate.Handle) bool {
	RemoveOnlyPositives(arena, arith, 1)
	RemoveOnlyPositives(arena, arith, 0)

	for _, n := range byDecreasingLevel(arena) {
		ng := arena.Get(n)
		if ng.Input || ng.Output || ng.AIGOutput || ng.Eliminated {
			continue
		}

		if IsUnit(ng) {
			EliminateUnitGates(arena, arith, n)
		}
	}

	BackwardSubstitute(arena, arith)

	if len(outputs) == 0 {
		return false
	}

	first := arena.Get(outputs[0])
	if len(first.Children) == 0 {
		return false
	}

	cla := ProbeCLA(arena, first.Children[0], len(outputs))

	logrus.Debugf("preprocess: run complete, CLA structure suspected: %v", cla)

	return cla
}
