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

	"github.com/sqlcloak/sqlcloak/src/anon"
	"github.com/sqlcloak/sqlcloak/src/sqllex"
	"github.com/sqlcloak/sqlcloak/src/utils"
)

var (
	deanonymizeInputFile  string
	deanonymizeOutputFile string
)

var deanonymizeCmd = &cobra.Command{
	Use:   "deanonymize [QUERY]",
	Short: "Decode an anonymized SQL query back to its original form",
	Long: `Decode an anonymized SQL query using the stored mapping. Placeholders that are
not present in the mapping store pass through unchanged; the text may have been
anonymized under a different mapping session.`,
	Args: cobra.MaximumNArgs(1),

	Run: func(cmd *cobra.Command, args []string) {
		query := queryFromArgsOrFile(cmd, args, deanonymizeInputFile)
		store := openStore()

		state := loadOrInitState(store)
		anonymizer := anon.NewSqlAnonymizer(state)

		decoded, err := anonymizer.DeAnonymize(query)
		if err != nil {
			utils.ErrExit("Failed to de-anonymize query: %v", err)
		}
		emitResult(sqllex.CollapseQualified(decoded), deanonymizeOutputFile)
	},
}

func init() {
	deanonymizeCmd.Flags().StringVarP(&deanonymizeInputFile, "file", "f", "",
		"read the anonymized query from this file")
	deanonymizeCmd.Flags().StringVarP(&deanonymizeOutputFile, "output", "o", "",
		"write the decoded query to this file instead of stdout")
	rootCmd.AddCommand(deanonymizeCmd)
}
