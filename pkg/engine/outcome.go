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
package engine

import (
	"github.com/talisman-dev/talisman/pkg/poly"
	"github.com/talisman-dev/talisman/pkg/talerr"
)

// CheckRemainderSort implements spec.md §7's one internal-error carve-out
// on an otherwise ordinary verification outcome: a non-zero remainder is
// the regular "incorrect circuit" result, but only when every variable it
// names is a primary input. A remainder mentioning an internal gate
// variable means the driver stopped before it should have, which is a
// fatal sorting error rather than a verdict to report.
func (c *Context) CheckRemainderSort(rem *poly.Polynomial) error {
	for v := range rem.VariablesSet() {
		num := v.Num
		if v.IsDual {
			num = v.Dual.Num
		}

		h, ok := c.Arena.ByNum(num)
		if !ok || !c.Arena.Get(h).Input {
			return talerr.New(talerr.KindSort, "remainder names non-input variable %q", v.Name)
		}
	}

	return nil
}
