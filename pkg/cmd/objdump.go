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

	"github.com/consensys/go-gisel/pkg/objfile"
	"github.com/spf13/cobra"
)

var objdumpCmd = &cobra.Command{
	Use:   "objdump [flags] object_file(s)",
	Short: "identify object files and print their header summaries.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		failures := 0
		//
		for _, arg := range args {
			bytes, err := os.ReadFile(arg)
			if err != nil {
				fmt.Println(err)
				failures++
				//
				continue
			}
			//
			file, err := objfile.New(bytes, objfile.UNKNOWN_FORMAT)
			if err != nil {
				fmt.Printf("%s: %s\n", arg, err)
				failures++
				//
				continue
			}
			//
			fmt.Printf("%s: %s\n", arg, file)
		}
		//
		if failures != 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(objdumpCmd)
}
