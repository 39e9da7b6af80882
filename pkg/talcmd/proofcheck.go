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
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
)

var proofCheckCmd = &cobra.Command{
	Use:   "proof-check axioms-file steps-file spec-file",
	Short: "Validate a PAC proof log's rule shapes without rebuilding the algebra.",
	Run:   runProofCheck,
}

func init() {
	rootCmd.AddCommand(proofCheckCmd)
}

// stepLinePatterns covers every steps-stream rule shape of spec.md §6 other
// than the two block forms, which newStepLineMatcher handles separately
// since they span multiple lines.
var stepLinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d+ = \S+, .+;$`),                             // extension
	regexp.MustCompile(`^\d+ % \d+ \+ \d+, .+;$`),                      // add
	regexp.MustCompile(`^\d+ % \d+ \*\(.*\), .+;$`),                    // mul / mul_const / mod
	regexp.MustCompile(`^\d+ % \d+ \*\(.*\) \+ \d+ \*\(.*\), .+;$`),    // combi
	regexp.MustCompile(`^\d+ %( \d+\*\(.*\))( \+ \d+\*\(.*\))*, .+;$`), // vector_combi
	regexp.MustCompile(`^\d+ d;$`),                                     // delete
}

var axiomLinePattern = regexp.MustCompile(`^\d+ .+;$`)
var specLinePattern = regexp.MustCompile(`^.+;$`)
var blockOpenPattern = regexp.MustCompile(`^(pattern_new|pattern_apply) \d+ \{$`)
var blockBodyPattern = regexp.MustCompile(`^((in\d+|out\d+) \S+|v\d+);$`)
var blockClosePattern = regexp.MustCompile(`^\};$`)

func runProofCheck(cmd *cobra.Command, args []string) {
	configureLogging(cmd)

	if len(args) != 3 {
		fail(exitCodeTooManyArgs, "talisman proof-check: expected axioms-file steps-file spec-file")
	}

	axiomLines, err := checkStream(args[0], func(line string) bool { return axiomLinePattern.MatchString(line) })
	if err != nil {
		fail(exitCodeParseError, "talisman proof-check: axioms stream: %v", err)
	}

	stepLines, err := checkStream(args[1], newStepLineMatcher())
	if err != nil {
		fail(exitCodeParseError, "talisman proof-check: steps stream: %v", err)
	}

	specLines, err := checkStream(args[2], func(line string) bool { return specLinePattern.MatchString(line) })
	if err != nil {
		fail(exitCodeParseError, "talisman proof-check: spec stream: %v", err)
	}

	fmt.Printf("proof log shape OK: %d axiom lines, %d step lines, %d spec lines\n", axiomLines, stepLines, specLines)
}

// checkStream scans a proof-log file and reports the first line that fails
// isValid, returning the total number of well-formed lines seen otherwise.
func checkStream(path string, isValid func(string) bool) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	count := 0
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if !isValid(line) {
			return count, fmt.Errorf("%s:%d: does not match any known rule shape: %q", path, lineNo, line)
		}

		count++
	}

	return count, scanner.Err()
}

// newStepLineMatcher returns a validator stateful across a
// pattern_new/pattern_apply block: once an opening brace line is seen,
// every following line must be a body line until the matching close. A
// fresh matcher must be built per stream so one proof-check run's block
// state never leaks into another's.
func newStepLineMatcher() func(string) bool {
	inBlock := false

	return func(line string) bool {
		if inBlock {
			if blockClosePattern.MatchString(line) {
				inBlock = false
				return true
			}

			return blockBodyPattern.MatchString(line)
		}

		if blockOpenPattern.MatchString(line) {
			inBlock = true
			return true
		}

		for _, p := range stepLinePatterns {
			if p.MatchString(line) {
				return true
			}
		}

		return false
	}
}
