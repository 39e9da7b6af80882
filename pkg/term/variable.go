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

// Package term implements the hash-consed, reference-counted term algebra
// (spec component C1): variables ordered by a total level order, and terms
// as sorted linked lists of variables.
package term

// Unset is the sentinel value of Variable.Value before a Boolean sample
// assignment has been made.
const Unset int8 = -1

// Variable is a single algebraic symbol.  Name, Num and IsDual are immutable
// identity attributes; Level, Value and ProofID are mutated over the course
// of reduction (level changes as gates are releveled, Value is set/reset
// during Boolean sampling in guessprove, ProofID is assigned transiently
// when a pattern-scoped proof name is emitted).
type Variable struct {
	// Name is a stable, human-readable identifier (e.g. "i0", "l42").
	Name string
	// Num is the AIG literal identity this variable corresponds to.
	Num int
	// IsDual indicates this variable stands for (1 - Dual).
	IsDual bool
	// Dual links a variable to its dual partner.  Invariant: Dual.Dual == this.
	Dual *Variable
	// Level is the total order used for monomial ordering.  Mutated as gates
	// are releveled during construction and extension.
	Level int
	// Value holds a transient 0/1 sample value, or Unset.
	Value int8
	// ProofID is an optional transient id used when emitting pattern-scoped
	// proof variable names (e.g. "v3" inside a pattern_apply block).
	ProofID int
}

// NewVariable allocates a fresh, non-dual variable.  Pairing with a dual is
// done separately via MakeDualPair, since duals are almost always allocated
// together.
func NewVariable(name string, num, level int) *Variable {
	return &Variable{Name: name, Num: num, Level: level, Value: Unset}
}

// MakeDualPair allocates a variable and its dual together, linking them.
// Dual levels are adjacent, matching spec.md's "duals have adjacent level
// values" invariant: the dual sits one level above its primary.
func MakeDualPair(name string, num, level int) (primary, dual *Variable) {
	primary = &Variable{Name: name, Num: num, Level: level, Value: Unset}
	dual = &Variable{Name: name + "_dual", Num: num, IsDual: true, Level: level + 1, Value: Unset}
	primary.Dual = dual
	dual.Dual = primary
	return primary, dual
}

// Reset clears the transient sample value.
func (v *Variable) Reset() {
	v.Value = Unset
}
