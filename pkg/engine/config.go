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

// Package engine bundles the mutable state spec.md §9's design notes
// require to live in exactly one place (term pool, build stack, gate arena,
// sub-circuit cache, statistics, configuration) rather than behind
// package-level globals, mirroring go-corset's pattern of threading a
// single long-lived "state" value (e.g. corset.CompilationConfig) through
// its pipeline instead of reaching for singletons.
package engine

// Config bundles every CLI switch that changes engine behaviour (spec.md
// §6's flag list), populated once from cobra flags and passed by value into
// New.
type Config struct {
	// Depth and Fanout bound sub-circuit carve-out (spec.md §4.6); Fanout
	// of 0 means unlimited, matching the CLI's "-f 0" convention.
	Depth  uint
	Fanout uint

	// DisableCounterExample is -nce: skip witness formatting on an
	// incorrect-circuit verdict.
	DisableCounterExample bool
	// DisableVanishing is -nvc: skip vanishing/dual-twin monomial removal.
	DisableVanishing bool
	// DisableCache is -nch: never consult or populate the sub-circuit
	// linearization cache.
	DisableCache bool
	// Algebraic is -alg: verify guess-and-prove candidates by algebraic
	// reduction against known gate constraints instead of SAT.
	Algebraic bool
	// SkipPreprocessing is -npp: skip the C5 preprocessing passes entirely.
	SkipPreprocessing bool
	// LocalXOR is -dll: enable the XOR-root local-linearization shortcut
	// (read the linear form directly off a discovered XOR root instead of
	// carving a sub-circuit for it).
	LocalXOR bool
	// ForceFGLM is -fglm: never escalate to guess-and-prove, even when FGLM
	// finds nothing.
	ForceFGLM bool
	// Gap is -gap: a carry-lookahead-adder-biased preset that also raises
	// the default depth to 4, applied by the CLI layer before New runs.
	Gap bool
	// ExternalGBPath is -m <path>: delegate linearization to an external
	// Gröbner-basis tool instead of FGLM/guess-and-prove.
	ExternalGBPath string
	// ModBits is the word width N for the "reduce rem modulo 2^N" step of
	// the main reduction loop (spec.md §4.10). Zero means "infer from the
	// circuit": Context.New fills it in from the number of primary output
	// bits, since an N-bit arithmetic circuit's own output already wraps
	// at 2^N.
	ModBits uint
}

// DefaultConfig returns spec.md §6's documented defaults: fanout 4, depth 2.
func DefaultConfig() Config {
	return Config{Depth: 2, Fanout: 4}
}
