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
	anonymizeInputFile  string
	anonymizeOutputFile string
)

var anonymizeCmd = &cobra.Command{
	Use:   "anonymize [QUERY]",
	Short: "Anonymize a SQL query, replacing tables, identifiers and literals with placeholders",
	Args:  cobra.MaximumNArgs(1),

	Run: func(cmd *cobra.Command, args []string) {
		query := queryFromArgsOrFile(cmd, args, anonymizeInputFile)
		store := openStore()

		// Load-mutate-save is one critical section: concurrent sessions
		// against the same store must not lose each other's mappings.
		err := store.WithLock(func() error {
			state := loadOrInitState(store)
			anonymizer := anon.NewSqlAnonymizer(state)

			anonymized, err := anonymizer.Anonymize(sqllex.Canonicalize(query))
			if err != nil {
				return err
			}

			if !noAutoSave {
				if err := store.Save(state); err != nil {
					return err
				}
			}

			emitResult(sqllex.CollapseQualified(anonymized), anonymizeOutputFile)
			return nil
		})
		if err != nil {
			utils.ErrExit("Failed to anonymize query: %v", err)
		}
	},
}

func init() {
	anonymizeCmd.Flags().StringVarP(&anonymizeInputFile, "file", "f", "",
		"read the SQL query from this file (lines starting with -- are dropped)")
	anonymizeCmd.Flags().StringVarP(&anonymizeOutputFile, "output", "o", "",
		"write the anonymized query to this file instead of stdout")
	rootCmd.AddCommand(anonymizeCmd)
}
