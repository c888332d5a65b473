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
	"path/filepath"

	"github.com/nightlyone/lockfile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sqlcloak/sqlcloak/src/anon"
	"github.com/sqlcloak/sqlcloak/src/utils"
)

var (
	cfgFile     string
	mappingFile string
	mappingDB   string
	noAutoSave  bool
	verboseMode bool

	dataDirLock lockfile.Lockfile
)

var rootCmd = &cobra.Command{
	Use:   "sqlcloak",
	Short: "Reversible SQL query anonymizer",
	Long: `sqlcloak replaces table names, identifiers and literal values in SQL queries
with stable placeholders (table_1, identifier_2, literal_3, ...) while keeping
keywords, functions, operators and aliases intact. The mapping is persisted so
anonymized queries can later be decoded back to their original form.`,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cmd.Use == "version" || cmd.Name() == "help" {
			return
		}
		dataDir := filepath.Dir(activeStorePath())
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			utils.ErrExit("Failed to create data directory %q: %v", dataDir, err)
		}
		lockDataDir(dataDir)
		InitLogging(dataDir, false, cmd.Name())
		cmd.Flags().Visit(func(f *pflag.Flag) {
			log.Infof("flag: %s=%s", f.Name, f.Value)
		})
	},

	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			cmd.Help()
			os.Exit(0)
		}
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if cmd.Use != "version" && cmd.Name() != "help" {
			unlockDataDir()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.sqlcloak.yaml)")
	rootCmd.PersistentFlags().StringVarP(&mappingFile, "mapping-file", "m", "",
		"path of the JSON mapping file (default is $HOME/.sqlcloak/mappings.json)")
	rootCmd.PersistentFlags().StringVar(&mappingDB, "mapping-db", "",
		"path of a sqlite mapping database; takes precedence over --mapping-file")
	rootCmd.PersistentFlags().BoolVar(&noAutoSave, "no-auto-save", false,
		"do not save new mappings to the store after anonymizing (default false)")
	rootCmd.PersistentFlags().BoolVar(&verboseMode, "verbose", false,
		"enable verbose mode for the console output")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".sqlcloak" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".sqlcloak")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	if mappingFile == "" {
		mappingFile = viper.GetString("mapping-file")
	}
	if mappingDB == "" {
		mappingDB = viper.GetString("mapping-db")
	}
}

// activeStorePath resolves the mapping store location from the flags and the
// per-user default.
func activeStorePath() string {
	if mappingDB != "" {
		return absOrExit(mappingDB)
	}
	if mappingFile != "" {
		return absOrExit(mappingFile)
	}
	fpath, err := anon.DefaultMappingFilePath()
	if err != nil {
		utils.ErrExit("Failed to resolve default mapping file: %v", err)
	}
	return fpath
}

func absOrExit(fpath string) string {
	abs, err := filepath.Abs(fpath)
	if err != nil {
		utils.ErrExit("Failed to get absolute path for %q: %v", fpath, err)
	}
	return abs
}

func lockDataDir(dataDir string) {
	lockFilePath := filepath.Join(dataDir, ".sqlcloak.lck")
	var err error
	dataDirLock, err = lockfile.New(lockFilePath)
	if err != nil {
		utils.ErrExit("Failed to create lockfile %q: %v", lockFilePath, err)
	}

	err = dataDirLock.TryLock()
	if err == nil {
		return
	} else if err == lockfile.ErrBusy {
		utils.ErrExit("Another instance of sqlcloak is running against %s", dataDir)
	} else {
		utils.ErrExit("Unable to lock the data directory: %v", err)
	}
}

func unlockDataDir() {
	err := dataDirLock.Unlock()
	if err != nil {
		utils.ErrExit("Unable to unlock %q: %v", dataDirLock, err)
	}
}
