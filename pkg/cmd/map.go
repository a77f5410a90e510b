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
package cmd

import (
	"fmt"
	"os"

	"github.com/consensys/go-gisel/pkg/mir"
	"github.com/spf13/cobra"
)

var mapCmd = &cobra.Command{
	Use:   "map [flags] listing_file",
	Short: "run register-bank inference over an instruction listing.",
	Long: `Parse a textual instruction listing and, for every instruction, print the
	 possible register-bank mappings (best mapping first).`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			t        = loadTarget(cmd)
			all      = GetFlag(cmd, "alternatives")
			failures = 0
		)
		//
		bytes, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		fn, err := mir.ParseFunction(args[0], t.Info, string(bytes))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		engine := t.NewInfo()
		//
		for _, insn := range fn.Instructions() {
			fmt.Printf("%s\n", insn)
			//
			mappings, err := engine.InstrPossibleMappings(insn)
			if err != nil {
				fmt.Printf("  %s\n", err)
				failures++
				//
				continue
			}
			//
			for i := range mappings {
				fmt.Printf("  %s\n", mappings[i])
				// Without --alternatives, only report the best mapping.
				if !all {
					break
				}
			}
		}
		//
		if failures != 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mapCmd)
	mapCmd.Flags().BoolP("alternatives", "a", false, "report alternative mappings as well")
}
