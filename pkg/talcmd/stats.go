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
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/talisman-dev/talisman/pkg/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats sidecar-file",
	Short: "Print a prior verify run's engine statistics from its JSON sidecar.",
	Run:   runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) {
	configureLogging(cmd)

	if len(args) != 1 {
		fail(exitCodeTooManyArgs, "talisman stats: expected exactly one sidecar file")
	}

	bytes, err := os.ReadFile(args[0])
	if err != nil {
		fail(exitCodeNoInputFile, "talisman stats: %v", err)
	}

	var s stats.Statistics
	if err := json.Unmarshal(bytes, &s); err != nil {
		fail(exitCodeParseError, "talisman stats: %v", err)
	}

	printStatsRule()
	fmt.Printf("gates eliminated: %d (unit %d)\n", s.GatesEliminated, s.UnitGatesEliminated)
	fmt.Printf("extension gates created: %d\n", s.ExtensionGatesCreated)
	fmt.Printf("sub-circuits carved: %d (cache hits %d, misses %d)\n", s.SubCircuitsCarved, s.CacheHits, s.CacheMisses)
	fmt.Printf("fglm successes: %d, guess-and-prove successes: %d\n", s.FGLMSuccesses, s.GuessAndProveSuccesses)
	fmt.Printf("candidates: proposed %d, evaluated %d, refuted %d\n", s.CandidatesProposed, s.CandidatesEvaluated, s.CandidatesRefuted)
	fmt.Printf("sat time: %s, kernel time: %s\n", s.SATWallTime, s.KernelWallTime)
	fmt.Printf("reduction steps: %d\n", s.ReductionSteps)
	printStatsRule()
}
