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

func TestStepLineMatcherAcceptsEveryRuleShape(t *testing.T) {
	lines := []string{
		"3 = i0, i1*i2;",
		"4 % 1 + 2, 3*i0 - l5;",
		"5 % 1 *(2), 3*i0;",
		"6 % 1 *(2), -6*i0;",
		"7 % 1 *(2) + 3 *(4), i0;",
		"8 % 1*(2) + 3*(4) + 5*(6), i0;",
		"9 % 1 *(2), i0;",
		"10 d;",
	}

	match := newStepLineMatcher()

	for _, l := range lines {
		if !match(l) {
			t.Fatalf("expected %q to match some steps rule shape", l)
		}
	}
}

func TestStepLineMatcherAcceptsAPatternBlock(t *testing.T) {
	match := newStepLineMatcher()

	lines := []string{
		"pattern_new 42 {",
		"in0 i0;",
		"out0 l5;",
		"v3;",
		"};",
	}

	for _, l := range lines {
		if !match(l) {
			t.Fatalf("expected %q to match inside a pattern_new block", l)
		}
	}
}

func TestStepLineMatcherRejectsGarbage(t *testing.T) {
	match := newStepLineMatcher()

	if match("this is not a rule") {
		t.Fatalf("expected garbage input to be rejected")
	}
}

func TestAxiomLinePatternAndSpecLinePattern(t *testing.T) {
	if !axiomLinePattern.MatchString("1 i0 + i1 - l5;") {
		t.Fatalf("expected a well-formed axiom line to match")
	}

	if axiomLinePattern.MatchString("not an axiom") {
		t.Fatalf("expected a missing leading index to be rejected")
	}

	if !specLinePattern.MatchString("s0 + 2*s1 - i0 - i1;") {
		t.Fatalf("expected a well-formed spec line to match")
	}
}
