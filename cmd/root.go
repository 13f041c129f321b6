/*
Copyright © 2025 Mahan H R Gowda

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
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/mahanhrgowda/time-capsule/internal/dataset"
	"github.com/mahanhrgowda/time-capsule/internal/history"
	"github.com/mahanhrgowda/time-capsule/internal/store"
)

var cfgFile string
var datasetPath string
var databasePath string
var timezoneName string
var feedURL string
var sendgridApiKey string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "time-capsule",
	Short: "Explores a personal Spotify streaming history",
	Long: `Travel back through your listening history: look up what was playing
at a moment in time, find every play of a song, and summarize your habits.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.time-capsule.yaml)")

	rootCmd.PersistentFlags().StringVarP(
		&datasetPath, "dataset", "d", "./data", "Path to the streaming history export (file or directory)")
	viper.BindPFlag("dataset", rootCmd.PersistentFlags().Lookup("dataset"))

	rootCmd.PersistentFlags().StringVar(
		&databasePath, "database", "./time-capsule.db", "Path to the SQLite event cache")
	viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database"))

	rootCmd.PersistentFlags().StringVarP(
		&timezoneName, "timezone", "z", "Asia/Kolkata", "IANA timezone for dates and times you type and see")
	viper.BindPFlag("timezone", rootCmd.PersistentFlags().Lookup("timezone"))

	rootCmd.PersistentFlags().StringVar(&feedURL, "feed_url", "", "URL of the recently-played feed")
	viper.BindPFlag("feed_url", rootCmd.PersistentFlags().Lookup("feed_url"))

	rootCmd.PersistentFlags().StringVar(&sendgridApiKey, "sendgrid_api_key", "", "SendGrid API key for email reports")
	viper.BindPFlag("sendgrid_api_key", rootCmd.PersistentFlags().Lookup("sendgrid_api_key"))

	var from string
	rootCmd.PersistentFlags().StringVar(&from, "from", "", "From email address")
	viper.BindPFlag("from", rootCmd.PersistentFlags().Lookup("from"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".time-capsule" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".time-capsule")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}

// loadEvents opens the cache and returns the canonical event set for the
// configured dataset.
func loadEvents() ([]history.Event, error) {
	st, err := store.New(viper.GetString("database"))
	if err != nil {
		return nil, fmt.Errorf("opening event cache: %w", err)
	}
	defer st.Close()

	events, err := dataset.Load(st, viper.GetString("dataset"))
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	return events, nil
}

// userLocation resolves the configured timezone. All of the core works in
// UTC; localization happens here at the CLI boundary, on the way in and on
// the way out.
func userLocation() (*time.Location, error) {
	name := viper.GetString("timezone")
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}
