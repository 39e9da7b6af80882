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

// Package talerr defines the single "engine error" sum type used across the
// core (spec.md §7/§9): one Kind per error category named in the spec,
// wrapping an underlying cause where there is one.  Grounded on go-corset's
// small-typed-error style (e.g. schema.Failure) rather than ad hoc
// fmt.Errorf strings at API boundaries.
package talerr

import "fmt"

// Kind identifies which error category of spec.md §7 an Error belongs to.
type Kind int

const (
	// KindInput covers missing/invalid AIG or spec files, unknown flags,
	// unrecognised spec variables, conflicting flag combinations.
	KindInput Kind = iota
	// KindProofSetup covers missing proof output paths or -proofs/-m
	// incompatibility.
	KindProofSetup
	// KindInvariant covers algebraic invariant violations (e.g.
	// SubstituteLinearPoly's non-exact division).
	KindInvariant
	// KindResource covers resource exhaustion (e.g. gate-table growth
	// failure).
	KindResource
	// KindProgress is the *soft* "cannot make progress" / "cannot
	// linearize" outcome; callers absorb it rather than treating it as
	// fatal.
	KindProgress
	// KindSort marks a remainder ending up with a non-input variable, the
	// one kind of "verification outcome" that is actually an internal
	// error per spec.md §7.
	KindSort
	// KindParse covers spec/AIG parse errors.
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindProofSetup:
		return "proof-setup"
	case KindInvariant:
		return "invariant"
	case KindResource:
		return "resource"
	case KindProgress:
		return "progress"
	case KindSort:
		return "sort"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Error is the engine's single error type.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// New constructs an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an Error of the given kind wrapping an existing cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var te *Error
	if e, ok := err.(*Error); ok {
		te = e
	} else {
		return false
	}

	return te.Kind == kind
}
