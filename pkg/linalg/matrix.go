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

// Package linalg provides exact rational-matrix row reduction and kernel
// extraction over math/big.Rat, used by pkg/fglm to find linear relations
// among a set of normal forms and by pkg/guessprove to extract candidate
// coefficient vectors from a sampling matrix. Grounded on
// original_source/src/matrix.h, which does the same over FLINT's fmpq_mat_t.
package linalg

import "math/big"

// Matrix is a dense rows x cols matrix of exact rationals, stored in
// row-major order.
type Matrix struct {
	rows, cols int
	entries    []*big.Rat
}

// NewMatrix allocates a zero-filled rows x cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	entries := make([]*big.Rat, rows*cols)
	for i := range entries {
		entries[i] = new(big.Rat)
	}

	return &Matrix{rows: rows, cols: cols, entries: entries}
}

// Rows returns the matrix's row count.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the matrix's column count.
func (m *Matrix) Cols() int { return m.cols }

// At returns the entry at (i, j). The returned pointer aliases the
// matrix's storage; callers must not mutate it in place.
func (m *Matrix) At(i, j int) *big.Rat {
	return m.entries[i*m.cols+j]
}

// Set assigns the entry at (i, j) to a copy of v.
func (m *Matrix) Set(i, j int, v *big.Rat) {
	m.entries[i*m.cols+j].Set(v)
}

// SetInt64 assigns the entry at (i, j) to the integer n.
func (m *Matrix) SetInt64(i, j int, n int64) {
	m.entries[i*m.cols+j].SetInt64(n)
}

// RowIsZero reports whether row i is entirely zero.
func (m *Matrix) RowIsZero(i int) bool {
	for j := 0; j < m.cols; j++ {
		if m.At(i, j).Sign() != 0 {
			return false
		}
	}

	return true
}

// RowIsDenomFree reports whether every entry of row i is an integer.
func (m *Matrix) RowIsDenomFree(i int) bool {
	for j := 0; j < m.cols; j++ {
		if m.At(i, j).IsInt() {
			continue
		}

		return false
	}

	return true
}

func (m *Matrix) swapRows(i, j int) {
	if i == j {
		return
	}

	for c := 0; c < m.cols; c++ {
		m.entries[i*m.cols+c], m.entries[j*m.cols+c] = m.entries[j*m.cols+c], m.entries[i*m.cols+c]
	}
}

// scaleRow multiplies row i by factor in place.
func (m *Matrix) scaleRow(i int, factor *big.Rat) {
	for c := 0; c < m.cols; c++ {
		m.entries[i*m.cols+c].Mul(m.entries[i*m.cols+c], factor)
	}
}

// addScaledRow adds factor*src to dst in place (dst += factor*src).
func (m *Matrix) addScaledRow(dst, src int, factor *big.Rat) {
	tmp := new(big.Rat)
	for c := 0; c < m.cols; c++ {
		tmp.Mul(m.entries[src*m.cols+c], factor)
		m.entries[dst*m.cols+c].Add(m.entries[dst*m.cols+c], tmp)
	}
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	out := NewMatrix(m.rows, m.cols)
	for i, e := range m.entries {
		out.entries[i].Set(e)
	}

	return out
}

// Neg negates every entry of m in place.
func (m *Matrix) Neg() {
	for _, e := range m.entries {
		e.Neg(e)
	}
}
