/*
Copyright (c) sqlcloak authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sqlcloak/sqlcloak/src/sqllex"
)

var (
	canonicalizeInputFile  string
	canonicalizeOutputFile string
)

var canonicalizeCmd = &cobra.Command{
	Use:   "canonicalize [QUERY]",
	Short: "Print the canonical single-spaced form of a SQL query",
	Long: `Normalize and re-render a SQL query without anonymizing it: whitespace is
collapsed, keywords and function names are uppercased, and everything else
keeps its original casing. Running canonicalize on its own output is a no-op.`,
	Args: cobra.MaximumNArgs(1),

	Run: func(cmd *cobra.Command, args []string) {
		query := queryFromArgsOrFile(cmd, args, canonicalizeInputFile)
		canonical := sqllex.CollapseQualified(sqllex.Canonicalize(query))
		emitResult(canonical, canonicalizeOutputFile)
	},
}

func init() {
	canonicalizeCmd.Flags().StringVarP(&canonicalizeInputFile, "file", "f", "",
		"read the SQL query from this file")
	canonicalizeCmd.Flags().StringVarP(&canonicalizeOutputFile, "output", "o", "",
		"write the canonical query to this file instead of stdout")
	rootCmd.AddCommand(canonicalizeCmd)
}
