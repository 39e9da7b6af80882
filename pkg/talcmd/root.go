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

// Package talcmd wires spec.md §6's CLI surface to cobra, in go-corset's
// own pkg/cmd idiom: one root command, a flat set of subcommands each in
// their own file, and package-level flag-fetching helpers rather than a
// framework around cobra itself.
package talcmd

import (
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/talisman-dev/talisman/pkg/aig"
)

// Version is filled when building with make, but *not* when installing via
// "go install", mirroring go-corset's own rootCmd.Version field.
var Version string

// AIGParser is the external collaborator rootCmd's subcommands use to read
// an AIG file. AIGER parsing itself is out of scope (spec.md §1), so this
// stays nil unless an embedder links a concrete aig.Parser; every command
// that needs one checks for nil first and reports a clear KindInput error
// rather than a panic.
var AIGParser aig.Parser

var rootCmd = &cobra.Command{
	Use:   "talisman",
	Short: "An arithmetic-circuit equivalence verifier for And-Inverter Graphs.",
	Long:  "Verifies an AIG against a specification polynomial by algebraic reduction, with an optional PAC proof log.",
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Print("talisman ")

			if Version != "" {
				fmt.Printf("%s", Version)
			} else if info, ok := debug.ReadBuildInfo(); ok {
				fmt.Printf("%s", info.Main.Version)
			} else {
				fmt.Printf("(unknown version)")
			}

			fmt.Println()

			return
		}

		_ = cmd.Usage()
	},
}

// Execute runs rootCmd; every subcommand adds itself to rootCmd in its own
// file's init. Called once by cmd/talisman/main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCodeInternal)
	}
}

func init() {
	rootCmd.Flags().Bool("version", false, "report the version of this executable")
	rootCmd.PersistentFlags().IntP("verbosity", "v", 2, "logging verbosity 0 (panic-only) to 4 (debug)")
}

// configureLogging maps -v0..-v4 to logrus levels, matching spec.md §6's
// flag list and go-corset's own -v wiring in pkg/cmd/root.go.
func configureLogging(cmd *cobra.Command) {
	level := GetInt(cmd, "verbosity")

	switch {
	case level <= 0:
		log.SetLevel(log.PanicLevel)
	case level == 1:
		log.SetLevel(log.ErrorLevel)
	case level == 2:
		log.SetLevel(log.WarnLevel)
	case level == 3:
		log.SetLevel(log.InfoLevel)
	default:
		log.SetLevel(log.DebugLevel)
	}
}
