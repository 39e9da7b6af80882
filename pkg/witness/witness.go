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

// Package witness implements the counter-example formatting spec.md §7
// names as an external collaborator's contract ("printed remainder and
// (optionally) a witness"): a concrete, minimal rendering of the sample
// values the primary-input variables currently hold, so the -nce flag has
// something real to disable. No code in this module assigns an input
// variable's Value (guess-and-prove keeps its counter-examples in its own
// maps), so a verify run renders "(no witness)". Grounded on
// original_source/src/witness.cpp/witness.h's "print the last SAT model
// restricted to primary inputs" behaviour.
package witness

import (
	"fmt"
	"sort"
	"strings"

	"github.com/talisman-dev/talisman/pkg/gate"
	"github.com/talisman-dev/talisman/pkg/term"
)

// Witness is a Boolean assignment to a circuit's primary inputs,
// demonstrating a specification mismatch.
type Witness struct {
	Values map[string]bool
}

// FromInputs builds a Witness by reading the current sample Value off every
// input gate's variable. Inputs whose Value is term.Unset are omitted
// (they were outside the assignment that produced this witness).
func FromInputs(arena *gate.Arena, inputs []gate.Handle) *Witness {
	w := &Witness{Values: make(map[string]bool, len(inputs))}

	for _, h := range inputs {
		v := arena.Get(h).Var
		if v.Value == term.Unset {
			continue
		}

		w.Values[v.Name] = v.Value == 1
	}

	return w
}

// String renders the witness as a sequence of "name=0/1" assignments,
// sorted by name for deterministic output.
func (w *Witness) String() string {
	if w == nil || len(w.Values) == 0 {
		return "(no witness)"
	}

	names := make([]string, 0, len(w.Values))
	for n := range w.Values {
		names = append(names, n)
	}

	sort.Strings(names)

	parts := make([]string, len(names))

	for i, n := range names {
		bit := 0
		if w.Values[n] {
			bit = 1
		}

		parts[i] = fmt.Sprintf("%s=%d", n, bit)
	}

	return strings.Join(parts, " ")
}
