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

import "math/big"

// RREF reduces m to reduced row-echelon form in place via plain Gauss-Jordan
// elimination and returns, for each nonzero row in order, the column index
// of its pivot. Mirrors original_source/src/matrix.h's rref, which calls
// into FLINT's fmpq_mat_rref; here exact big.Rat arithmetic plays the same
// role without FLINT.
func RREF(m *Matrix) []int {
	pivots := make([]int, 0, m.rows)
	pivotRow := 0

	for col := 0; col < m.cols && pivotRow < m.rows; col++ {
		sel := -1

		for r := pivotRow; r < m.rows; r++ {
			if m.At(r, col).Sign() != 0 {
				sel = r
				break
			}
		}

		if sel < 0 {
			continue
		}

		m.swapRows(pivotRow, sel)

		inv := new(big.Rat).Inv(m.At(pivotRow, col))
		m.scaleRow(pivotRow, inv)

		for r := 0; r < m.rows; r++ {
			if r == pivotRow {
				continue
			}

			factor := m.At(r, col)
			if factor.Sign() == 0 {
				continue
			}

			neg := new(big.Rat).Neg(factor)
			m.addScaledRow(r, pivotRow, neg)
		}

		pivots = append(pivots, col)
		pivotRow++
	}

	return pivots
}
