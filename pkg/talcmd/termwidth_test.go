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
package talcmd

import "testing"

func TestDashesProducesExactlyNDashCharacters(t *testing.T) {
	for _, n := range []int{0, 1, statsRuleWidth, 120} {
		got := dashes(n)
		if len(got) != n {
			t.Fatalf("dashes(%d): expected length %d, got %d", n, n, len(got))
		}

		for _, c := range got {
			if c != '-' {
				t.Fatalf("dashes(%d): expected every rune to be '-', got %q", n, got)
			}
		}
	}
}
