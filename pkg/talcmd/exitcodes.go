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

import "github.com/talisman-dev/talisman/pkg/talerr"

// Exit codes. 0 and 1 are the two ordinary verification outcomes; every
// code above that names one of spec.md §6's listed fatal conditions, kept
// distinct per condition rather than collapsed onto talerr.Kind (several
// of the listed conditions share KindInput but must still be told apart at
// the process boundary).
const (
	exitCodeSuccess           = 0
	exitCodeIncorrectCircuit  = 1
	exitCodeNoInputFile       = 2
	exitCodeConflictingSpec   = 3
	exitCodeTooManyArgs       = 4
	exitCodeProofSetup        = 5
	exitCodeInvariant         = 6
	exitCodeAllocationFailure = 7
	exitCodeParseError        = 8
	exitCodeInternal          = 9
)

// exitCodeForKind maps an engine-level error to the fatal exit code its
// kind corresponds to, for errors surfaced deep in the engine rather than
// caught by the CLI's own up-front flag validation.
func exitCodeForKind(err error) int {
	e, ok := err.(*talerr.Error)
	if !ok {
		return exitCodeInternal
	}

	switch e.Kind {
	case talerr.KindInput:
		return exitCodeNoInputFile
	case talerr.KindProofSetup:
		return exitCodeProofSetup
	case talerr.KindInvariant:
		return exitCodeInvariant
	case talerr.KindResource:
		return exitCodeAllocationFailure
	case talerr.KindSort:
		return exitCodeInvariant
	case talerr.KindParse:
		return exitCodeParseError
	default:
		return exitCodeInternal
	}
}
