// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the clingen CLI. It serves the gene
// lookup web page and runs lookups, archive queries and exports from the
// command line.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/clingen/internal/httputil"
	"github.com/pdiddy/clingen/internal/logging"
	"github.com/pdiddy/clingen/internal/lookup"
	"github.com/pdiddy/clingen/internal/mine"
	"github.com/pdiddy/clingen/internal/secrets"
	"github.com/pdiddy/clingen/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from the secrets directory at startup.
var loadedSecrets secrets.Store

// logger is built from the log.* settings before any subcommand runs.
var logger = logging.Discard()

// secretDefault returns value if set, otherwise the secret stored under key.
func secretDefault(key, value string) string {
	if value != "" {
		return value
	}
	return loadedSecrets.Get(key)
}

var rootCmd = &cobra.Command{
	Use:   "clingen",
	Short: "Find publications linking a mouse gene to diseases and phenotypes",
	Long: `clingen queries MouseMine for the publications that associate a gene with
Disease Ontology terms and mammalian phenotypes. It serves the lookup form
over HTTP (serve), runs single lookups from the command line (lookup), and
keeps an optional archive of past lookups (history).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(types.LogConfig{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
		}, os.Stderr)
		if err != nil {
			return err
		}
		logger = l
		slog.SetDefault(l)

		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./clingen.yaml or ~/.config/clingen/clingen.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", secrets.DefaultDir, "directory of secret files")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("mine-url", "", "MouseMine service base URL")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("mine.base_url", rootCmd.PersistentFlags().Lookup("mine-url"))

	setDefaults(viper.GetViper())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("clingen")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "clingen"))
		}
	}

	viper.SetEnvPrefix("CLINGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newService wires the MouseMine client into a lookup service.
func newService(cfg types.Config, opts ...lookup.Option) *lookup.Service {
	cfg.Mine.Token = secretDefault(secrets.MouseMineToken, cfg.Mine.Token)
	client := mine.NewClient(httputil.NewClient(cfg.Mine.HTTPConfig), cfg.Mine)
	opts = append([]lookup.Option{lookup.WithLogger(logger)}, opts...)
	return lookup.NewService(client, opts...)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
