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
	"errors"
	"io/fs"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sqlcloak/sqlcloak/src/anon"
	"github.com/sqlcloak/sqlcloak/src/utils"
)

// openStore builds the configured mapping store: a sqlite database when
// --mapping-db is set, the JSON file store otherwise.
func openStore() anon.Store {
	if mappingDB != "" {
		store, err := anon.NewSqliteStore(activeStorePath())
		if err != nil {
			utils.ErrExit("Failed to open mapping db: %v", err)
		}
		return store
	}
	store, err := anon.NewFileStore(activeStorePath())
	if err != nil {
		utils.ErrExit("Failed to open mapping file: %v", err)
	}
	return store
}

// loadOrInitState loads the persisted mapping state. A store that does not
// exist yet starts a fresh session; corrupt contents abort, so that data loss
// is never papered over silently.
func loadOrInitState(store anon.Store) *anon.MappingState {
	state, err := store.Load()
	if err == nil {
		return state
	}
	if errors.Is(err, fs.ErrNotExist) {
		log.Infof("mapping store %q does not exist yet, starting with an empty state", store.Path())
		return anon.NewMappingState()
	}
	utils.ErrExit("Failed to load mapping store: %v", err)
	return nil
}

// queryFromArgsOrFile resolves the SQL text for a command that accepts either
// a positional query string or an input file.
func queryFromArgsOrFile(cmd *cobra.Command, args []string, inputFile string) string {
	if inputFile != "" {
		query, err := utils.ReadSQLFile(inputFile)
		if err != nil {
			utils.ErrExit("Failed to read input file: %v", err)
		}
		return query
	}
	if len(args) == 0 {
		cmd.Help()
		utils.ErrExit("Provide a SQL query as an argument or pass one with --file.")
	}
	return args[0]
}

// emitResult writes the result to the output file when one is given,
// otherwise to stdout.
func emitResult(result, outputFile string) {
	if outputFile == "" {
		utils.PrintAndLog("%s", result)
		return
	}
	if err := os.WriteFile(outputFile, []byte(result+"\n"), 0644); err != nil {
		utils.ErrExit("Failed to write output file %q: %v", outputFile, err)
	}
	utils.PrintAndLog("Wrote result to %s", outputFile)
}
