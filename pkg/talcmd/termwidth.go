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

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// statsRuleWidth is the fallback width used when stdout isn't a terminal
// (piped to a file, redirected into a sidecar, running under CI).
const statsRuleWidth = 72

// printStatsRule draws a horizontal divider sized to the controlling
// terminal's width, matching the way pkg/util/termio.Terminal.GetSize
// queries golang.org/x/term rather than assuming a fixed column count.
// Falls back to statsRuleWidth when stdout isn't a terminal at all.
func printStatsRule() {
	width := statsRuleWidth

	if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			width = w
		}
	}

	fmt.Println(dashes(width))
}

func dashes(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '-'
	}

	return string(b)
}
