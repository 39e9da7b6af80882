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

// Package testutil hand-rolls the small set of assertion helpers this
// module's tests need, mirroring go-corset's pkg/util/assert rather than
// pulling in a third-party assertion library, and extending it with the two
// comparisons go-corset never needed: *big.Int and *poly.Polynomial.
package testutil

import (
	"math/big"
	"reflect"
	"testing"

	"github.com/talisman-dev/talisman/pkg/poly"
	"github.com/talisman-dev/talisman/pkg/term"
)

// byName is the default poly.Polynomial.String variable renderer used when
// a test has no more specific naming function at hand.
func byName(v *term.Variable) string {
	return v.Name
}

// Equal errors if actual is not equal to expected. *big.Int values compare
// by Cmp rather than struct equality, since two big.Ints with the same
// value may have different internal representations.
func Equal(t *testing.T, expected, actual any, msg ...any) {
	t.Helper()

	if bigEqual(expected, actual) || reflect.DeepEqual(expected, actual) {
		return
	}

	t.Errorf("expected: %v, actual: %v", expected, actual)

	if len(msg) != 0 {
		t.Errorf(msg[0].(string), msg[1:]...)
	}

	t.FailNow()
}

func bigEqual(expected, actual any) bool {
	a, aOk := expected.(*big.Int)
	b, bOk := actual.(*big.Int)

	if !aOk || !bOk {
		return false
	}

	if a == nil || b == nil {
		return a == b
	}

	return a.Cmp(b) == 0
}

// True errors if condition is false.
func True(t *testing.T, condition bool, msg ...any) {
	t.Helper()

	if condition {
		return
	}

	t.Errorf("condition is false")

	if len(msg) != 0 {
		t.Errorf(msg[0].(string), msg[1:]...)
	}

	t.FailNow()
}

// False errors if condition is true.
func False(t *testing.T, condition bool, msg ...any) {
	t.Helper()

	if !condition {
		return
	}

	t.Errorf("condition is true")

	if len(msg) != 0 {
		t.Errorf(msg[0].(string), msg[1:]...)
	}

	t.FailNow()
}

// PolynomialEqual errors if expected and actual are not the same polynomial
// (poly.Polynomial.Equal's monomial-by-monomial comparison), printing both
// via name when the comparison fails.
func PolynomialEqual(t *testing.T, expected, actual *poly.Polynomial, name func(*poly.Polynomial) string) {
	t.Helper()

	if expected.Equal(actual) {
		return
	}

	render := func(p *poly.Polynomial) string {
		if name != nil {
			return name(p)
		}

		return p.String(byName)
	}

	t.Errorf("expected polynomial: %s, actual: %s", render(expected), render(actual))
	t.FailNow()
}

// Zero errors if p is not the zero polynomial.
func Zero(t *testing.T, p *poly.Polynomial, msg ...any) {
	t.Helper()

	if p.IsZero() {
		return
	}

	t.Errorf("expected the zero polynomial, got %s", p.String(byName))

	if len(msg) != 0 {
		t.Errorf(msg[0].(string), msg[1:]...)
	}

	t.FailNow()
}
