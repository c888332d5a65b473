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
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/sqlcloak/sqlcloak/src/anon"
	"github.com/sqlcloak/sqlcloak/src/utils"
)

var mappingsCmd = &cobra.Command{
	Use:   "mappings",
	Short: "Inspect and manage the persisted placeholder mappings",
}

var mappingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List all stored placeholder mappings",

	Run: func(cmd *cobra.Command, args []string) {
		store := openStore()
		state := loadOrInitState(store)
		if state.Size() == 0 {
			utils.PrintAndLog("No mappings stored in %s", store.Path())
			return
		}

		table := uitable.New()
		table.MaxColWidth = 60
		table.AddRow("PLACEHOLDER", "CATEGORY", "ORIGINAL")
		for _, category := range anon.AnonymizableCategories {
			for _, entry := range state.Entries(category) {
				table.AddRow(color.CyanString(entry.Placeholder), entry.Category.String(), entry.Original)
			}
		}
		fmt.Println(table)
		utils.PrintAndLog("%d mappings stored in %s", state.Size(), store.Path())
	},
}

var mappingsClearYes bool

var mappingsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored mappings",
	Long: `Delete every stored mapping and reset the placeholder counters. Previously
anonymized queries can no longer be decoded afterwards.`,

	Run: func(cmd *cobra.Command, args []string) {
		store := openStore()
		if !mappingsClearYes && !utils.AskPrompt("Clearing makes previously anonymized queries undecodable. Continue") {
			utils.PrintAndLog("Aborting.")
			return
		}
		err := store.WithLock(func() error {
			state := loadOrInitState(store)
			n := state.Size()
			state.Clear()
			if err := store.Save(state); err != nil {
				return err
			}
			utils.PrintAndLog("Cleared %d mappings from %s", n, store.Path())
			return nil
		})
		if err != nil {
			utils.ErrExit("Failed to clear mappings: %v", err)
		}
	},
}

var mappingsExportFile string

var mappingsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the stored mappings as JSON",

	Run: func(cmd *cobra.Command, args []string) {
		store := openStore()
		state := loadOrInitState(store)
		data, err := anon.SaveMappingState(state)
		if err != nil {
			utils.ErrExit("Failed to serialize mappings: %v", err)
		}
		if mappingsExportFile == "" {
			fmt.Println(string(data))
			return
		}
		if err := os.WriteFile(mappingsExportFile, append(data, '\n'), 0644); err != nil {
			utils.ErrExit("Failed to write %q: %v", mappingsExportFile, err)
		}
		utils.PrintAndLog("Exported %d mappings to %s", state.Size(), mappingsExportFile)
	},
}

var mappingsImportFile string

var mappingsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import mappings from a JSON export, replacing the current store",

	Run: func(cmd *cobra.Command, args []string) {
		if mappingsImportFile == "" {
			utils.ErrExit("Provide the JSON export with --file.")
		}
		data, err := os.ReadFile(mappingsImportFile)
		if err != nil {
			utils.ErrExit("Failed to read %q: %v", mappingsImportFile, err)
		}
		state, err := anon.LoadMappingState(data)
		if err != nil {
			utils.ErrExit("Failed to parse %q: %v", mappingsImportFile, err)
		}

		store := openStore()
		err = store.WithLock(func() error {
			return store.Save(state)
		})
		if err != nil {
			utils.ErrExit("Failed to import mappings: %v", err)
		}
		utils.PrintAndLog("Imported %d mappings into %s", state.Size(), store.Path())
	},
}

func init() {
	mappingsClearCmd.Flags().BoolVarP(&mappingsClearYes, "yes", "y", false,
		"assume yes to the confirmation prompt")
	mappingsExportCmd.Flags().StringVarP(&mappingsExportFile, "output", "o", "",
		"write the JSON export to this file instead of stdout")
	mappingsImportCmd.Flags().StringVarP(&mappingsImportFile, "file", "f", "",
		"JSON export to import")

	mappingsCmd.AddCommand(mappingsShowCmd)
	mappingsCmd.AddCommand(mappingsClearCmd)
	mappingsCmd.AddCommand(mappingsExportCmd)
	mappingsCmd.AddCommand(mappingsImportCmd)
	rootCmd.AddCommand(mappingsCmd)
}
