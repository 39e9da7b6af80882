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

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// GetFlag fetches a required bool flag, mirroring pkg/cmd/util.go's
// getFlag: a flag lookup failure here means a programming error in this
// package's own flag registration, not a user mistake, so it exits rather
// than threading an error return through every call site.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(exitCodeInternal)
	}

	return r
}

// GetInt fetches a required int flag.
func GetInt(cmd *cobra.Command, flag string) int {
	r, err := cmd.Flags().GetInt(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(exitCodeInternal)
	}

	return r
}

// GetUint fetches a required uint flag.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(exitCodeInternal)
	}

	return r
}

// GetString fetches a required string flag.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(exitCodeInternal)
	}

	return r
}

// fail prints msg and exits with code, the CLI layer's one choke point for
// turning a fatal condition into a process exit.
func fail(code int, format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(code)
}
