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
	"testing"

	"github.com/talisman-dev/talisman/pkg/talerr"
)

func TestExitCodeForKindCoversEveryFatalKind(t *testing.T) {
	cases := []struct {
		kind talerr.Kind
		want int
	}{
		{talerr.KindInput, exitCodeNoInputFile},
		{talerr.KindProofSetup, exitCodeProofSetup},
		{talerr.KindInvariant, exitCodeInvariant},
		{talerr.KindResource, exitCodeAllocationFailure},
		{talerr.KindSort, exitCodeInvariant},
		{talerr.KindParse, exitCodeParseError},
	}

	for _, c := range cases {
		err := talerr.New(c.kind, "boom")
		if got := exitCodeForKind(err); got != c.want {
			t.Fatalf("kind %v: expected exit code %d, got %d", c.kind, c.want, got)
		}
	}
}

func TestExitCodeForKindFallsBackToInternalOnUnknownError(t *testing.T) {
	if got := exitCodeForKind(errPlain("boom")); got != exitCodeInternal {
		t.Fatalf("expected exitCodeInternal for a non-talerr error, got %d", got)
	}
}

type errPlain string

func (e errPlain) Error() string { return string(e) }

func TestCountCannedSpecFlagsCountsExactlyTheSetOnes(t *testing.T) {
	verifyCmd.Flags().Set("miter-spec", "true")
	defer verifyCmd.Flags().Set("miter-spec", "false")

	if n := countCannedSpecFlags(verifyCmd); n != 1 {
		t.Fatalf("expected exactly one canned spec flag set, got %d", n)
	}

	verifyCmd.Flags().Set("mult-spec", "true")
	defer verifyCmd.Flags().Set("mult-spec", "false")

	if n := countCannedSpecFlags(verifyCmd); n != 2 {
		t.Fatalf("expected two canned spec flags set, got %d", n)
	}
}

func TestBuildConfigAppliesGapDepthDefaultOnlyWhenDNotGiven(t *testing.T) {
	verifyCmd.Flags().Set("gap", "true")
	defer verifyCmd.Flags().Set("gap", "false")

	cfg := buildConfig(verifyCmd, "")
	if cfg.Depth != 4 {
		t.Fatalf("expected -gap to default depth to 4, got %d", cfg.Depth)
	}

	verifyCmd.Flags().Set("d", "7")
	defer func() {
		verifyCmd.Flags().Set("d", "2")
		verifyCmd.Flags().Lookup("d").Changed = false
	}()

	cfg = buildConfig(verifyCmd, "")
	if cfg.Depth != 7 {
		t.Fatalf("expected an explicit -d to override -gap's default, got %d", cfg.Depth)
	}
}
