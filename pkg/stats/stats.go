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

// Package stats implements the single mutable statistics record of spec.md
// §9 ("a single statistics record" design note) and §7's requirement that
// process time, memory peak and per-phase counters be printed to stdout.
// Grounded on original_source/src/signal_statistics.cpp/.h's per-phase
// counter fields; kept as one flat struct (no global, owned by
// engine.Context) rather than scattered package-level counters.
package stats

import "time"

// Statistics accumulates counters and wall-clock time spent in each phase
// of a single verification run. Every field is written by exactly one
// component; pkg/guessprove's errgroup row-fill, the only concurrent code
// in the engine, touches no Statistics field, so no locking is needed.
type Statistics struct {
	// GatesEliminated counts gates removed by the reduction driver's main
	// loop; gates removed by pkg/preprocess are not counted.
	GatesEliminated int
	// UnitGatesEliminated is reported beside GatesEliminated, but nothing in
	// this module increments it: pkg/preprocess's unit-gate elimination
	// does not record into Statistics, so it stays zero.
	UnitGatesEliminated int
	// ExtensionGatesCreated counts gates introduced by spec linearization
	// (§4.11), the only place extension gates are created.
	ExtensionGatesCreated int

	// SubCircuitsCarved counts calls to subcircuit.Carve.
	SubCircuitsCarved int
	// CacheHits/CacheMisses count sub-circuit linearization cache lookups.
	CacheHits   int
	CacheMisses int

	// FGLMSuccesses counts sub-circuits linearized by pkg/fglm alone.
	FGLMSuccesses int
	// GuessAndProveSuccesses counts sub-circuits that needed guess-and-prove.
	GuessAndProveSuccesses int

	// CandidatesProposed/Evaluated/Refuted track guess-and-prove's kernel
	// candidates end to end (§4.9's per-level statistics).
	CandidatesProposed  int
	CandidatesEvaluated int
	CandidatesRefuted   int

	// SATWallTime/KernelWallTime accumulate time spent in the SAT oracle
	// and in RREF/kernel extraction respectively, across the whole run.
	SATWallTime    time.Duration
	KernelWallTime time.Duration

	// ReductionSteps counts iterations of the main driver loop.
	ReductionSteps int
}

// New constructs a zeroed Statistics record.
func New() *Statistics {
	return &Statistics{}
}

// RecordCandidate increments the proposed-candidate counter. A nil receiver
// is a no-op, so callers may hold a nil *Statistics when statistics
// collection is not wanted rather than branching at every call site.
func (s *Statistics) RecordCandidate() {
	if s == nil {
		return
	}

	s.CandidatesProposed++
}

// RecordEvaluated increments the evaluated-candidate counter.
func (s *Statistics) RecordEvaluated() {
	if s == nil {
		return
	}

	s.CandidatesEvaluated++
}

// RecordRefuted increments the refuted-candidate counter.
func (s *Statistics) RecordRefuted() {
	if s == nil {
		return
	}

	s.CandidatesRefuted++
}

// AddSATTime accumulates d into the SAT wall-clock total.
func (s *Statistics) AddSATTime(d time.Duration) {
	if s == nil {
		return
	}

	s.SATWallTime += d
}

// AddKernelTime accumulates d into the kernel-extraction wall-clock total.
func (s *Statistics) AddKernelTime(d time.Duration) {
	if s == nil {
		return
	}

	s.KernelWallTime += d
}

// RecordCacheLookup records a sub-circuit cache hit or miss.
func (s *Statistics) RecordCacheLookup(hit bool) {
	if s == nil {
		return
	}

	if hit {
		s.CacheHits++
	} else {
		s.CacheMisses++
	}
}

// RecordReductionStep increments the main driver loop's iteration counter.
func (s *Statistics) RecordReductionStep() {
	if s == nil {
		return
	}

	s.ReductionSteps++
}

// RecordGateEliminated increments the eliminated-gate counter.
func (s *Statistics) RecordGateEliminated() {
	if s == nil {
		return
	}

	s.GatesEliminated++
}

// RecordExtensionGateCreated increments the extension-gate counter.
func (s *Statistics) RecordExtensionGateCreated() {
	if s == nil {
		return
	}

	s.ExtensionGatesCreated++
}

// RecordSubCircuitCarved increments the sub-circuit carve-out counter.
func (s *Statistics) RecordSubCircuitCarved() {
	if s == nil {
		return
	}

	s.SubCircuitsCarved++
}

// RecordFGLMSuccess increments the FGLM-alone success counter.
func (s *Statistics) RecordFGLMSuccess() {
	if s == nil {
		return
	}

	s.FGLMSuccesses++
}

// RecordGuessAndProveSuccess increments the guess-and-prove success
// counter.
func (s *Statistics) RecordGuessAndProveSuccess() {
	if s == nil {
		return
	}

	s.GuessAndProveSuccesses++
}
