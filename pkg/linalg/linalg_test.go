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
package linalg

import "testing"

func TestRREFIdentifiesPivots(t *testing.T) {
	m := NewMatrix(2, 3)
	m.SetInt64(0, 0, 1)
	m.SetInt64(0, 1, 2)
	m.SetInt64(0, 2, 0)
	m.SetInt64(1, 0, 2)
	m.SetInt64(1, 1, 4)
	m.SetInt64(1, 2, 1)

	pivots := RREF(m)

	if len(pivots) != 2 {
		t.Fatalf("expected 2 pivots, got %d", len(pivots))
	}

	if pivots[0] != 0 || pivots[1] != 2 {
		t.Fatalf("unexpected pivot columns %v", pivots)
	}
}

func TestKernelOfRankDeficientMatrix(t *testing.T) {
	// x - 2y = 0, i.e. one equation in x,y,z with a free z column: the
	// kernel should contain the direction (2,1,0) and (0,0,1).
	m := NewMatrix(1, 3)
	m.SetInt64(0, 0, 1)
	m.SetInt64(0, 1, -2)
	m.SetInt64(0, 2, 0)

	k := Kernel(m)

	if k.Rows() != 2 {
		t.Fatalf("expected a 2-dimensional kernel, got %d rows", k.Rows())
	}

	for i := 0; i < k.Rows(); i++ {
		if k.RowIsZero(i) {
			t.Fatalf("kernel row %d must not be zero", i)
		}
	}
}

func TestRowIsDenomFree(t *testing.T) {
	m := NewMatrix(1, 2)
	m.SetInt64(0, 0, 3)
	m.SetInt64(0, 1, 1)

	if !m.RowIsDenomFree(0) {
		t.Fatalf("integer row should be denominator-free")
	}

	m.At(0, 1).SetFrac64(1, 2)

	if m.RowIsDenomFree(0) {
		t.Fatalf("row with a half should not be denominator-free")
	}
}
