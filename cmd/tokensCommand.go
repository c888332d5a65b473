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
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/sqlcloak/sqlcloak/src/sqllex"
)

var tokensInputFile string

var tokensCmd = &cobra.Command{
	Use:   "tokens [QUERY]",
	Short: "Show the categorized token stream for a SQL query",
	Long: `Tokenize a SQL query, run contextual disambiguation and print the resulting
token stream. Categories that would be anonymized are highlighted.`,
	Args: cobra.MaximumNArgs(1),

	Run: func(cmd *cobra.Command, args []string) {
		query := queryFromArgsOrFile(cmd, args, tokensInputFile)
		tokens := sqllex.Disambiguate(sqllex.Tokenize(sqllex.Normalize(query)))

		table := uitable.New()
		table.MaxColWidth = 60
		table.AddRow("#", "CATEGORY", "TEXT")
		for i, tok := range tokens {
			table.AddRow(fmt.Sprintf("%d", i), colorizeCategory(tok.Category), tok.Text)
		}
		fmt.Println(table)
	},
}

func colorizeCategory(category sqllex.TokenCategory) string {
	switch category {
	case sqllex.CategoryTable, sqllex.CategoryIdentifier, sqllex.CategoryLiteral:
		return color.RedString(category.String())
	case sqllex.CategoryTableAlias, sqllex.CategoryIdentifierAlias:
		return color.YellowString(category.String())
	case sqllex.CategoryUnknown:
		return color.HiBlackString(category.String())
	default:
		return color.GreenString(category.String())
	}
}

func init() {
	tokensCmd.Flags().StringVarP(&tokensInputFile, "file", "f", "",
		"read the SQL query from this file")
	rootCmd.AddCommand(tokensCmd)
}
