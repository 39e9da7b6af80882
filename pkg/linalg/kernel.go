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

var negOne = big.NewRat(-1, 1)

// Kernel computes a basis for the right null space of m (m is consumed,
// reduced to RREF in place) and returns it as a matrix of n-pivots rows by
// m.Cols() columns, itself already in RREF and negated so that each free
// variable's basis row reads "free var = combination of pivot vars".
// Grounded on original_source/src/matrix.h's kernel(fmpq_mat_t M,
// fmpq_mat_t K), translated from FLINT's in-place row ops to big.Rat.
func Kernel(m *Matrix) *Matrix {
	pivots := RREF(m)

	n := m.cols
	extended := NewMatrix(n, n)

	for i, col := range pivots {
		for j := 0; j < n; j++ {
			extended.Set(col, j, m.At(i, j))
		}
	}

	for i := 0; i < n; i++ {
		if extended.At(i, i).Sign() == 0 {
			extended.SetInt64(i, i, -1)
		}
	}

	k := NewMatrix(n-len(pivots), n)
	r := 0

	for i := 0; i < n; i++ {
		if extended.At(i, i).Cmp(negOne) != 0 {
			continue
		}

		for j := 0; j < n; j++ {
			if extended.At(j, i).Sign() != 0 {
				k.Set(r, j, extended.At(j, i))
			}
		}

		r++
	}

	RREF(k)
	k.Neg()

	return k
}
