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
)

// ProbeCLA is a cheap heuristic run once, after backward substitution:
// it looks at the AIG gate feeding the circuit's first output (stepping
// past one level of XOR-root wrapping, since a carry chain's actual depth
// shows up in the gadget's non-XOR sibling) and reports whether its
// constraint's degree already exceeds n/4, a telltale sign of a
// carry-lookahead rather than ripple-carry adder, for which vanishing-
// constraint discovery (rather than a plain FGLM pass) tends to pay off.
// Grounded on original_source/src/preprocessing.cpp's probe inside
// preprocessing().
func ProbeCLA(arena *gate.Arena, firstOutputChild gate.Handle, n int) bool {
	g := arena.Get(firstOutputChild)

	if g.XORRoot {
		left := arena.Get(g.XORLeft)
		if left.XORRoot {
			g = arena.Get(g.XORRight)
		} else {
			g = left
		}
	}

	degree := int(g.GateConstraint.Degree())
	if n > 0 && degree > n/4 {
		logrus.Debugf("preprocess: potential CLA structure (degree %d, n=%d)", degree, n)
		return true
	}

	return false
}
