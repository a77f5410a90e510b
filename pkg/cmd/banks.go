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
	"strings"

	"github.com/consensys/go-gisel/pkg/target"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var banksCmd = &cobra.Command{
	Use:   "banks",
	Short: "print the register banks of a target.",
	Long: `Print each register bank of the selected target along with its size and the
	 full set of register classes it covers.`,
	Run: func(cmd *cobra.Command, args []string) {
		t := loadTarget(cmd)
		//
		if err := t.Banks.Verify(t.Info); err != nil {
			fmt.Printf("bank set does not verify: %s\n", err)
			os.Exit(1)
		}
		//
		for id := uint(0); id < t.Banks.NumBanks(); id++ {
			bank := t.Banks.Bank(target.BankId(id))
			names := make([]string, 0, len(bank.Classes()))
			//
			for _, class := range bank.Classes() {
				names = append(names, t.Info.Class(class).Name)
			}
			//
			fmt.Printf("%s covers %s\n", bank, wrap(strings.Join(names, ", "), 8))
		}
	},
}

// wrap breaks a long class list across lines, respecting the terminal width
// where one is available.
func wrap(text string, indent int) string {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= indent {
		return text
	}
	//
	var (
		builder strings.Builder
		column  = indent
	)
	//
	for i, word := range strings.Split(text, " ") {
		if i != 0 && column+len(word) >= width {
			builder.WriteString("\n" + strings.Repeat(" ", indent))
			column = indent
		} else if i != 0 {
			builder.WriteString(" ")
			column++
		}
		//
		builder.WriteString(word)
		column += len(word)
	}
	//
	return builder.String()
}

func init() {
	rootCmd.AddCommand(banksCmd)
}
