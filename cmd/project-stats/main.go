// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the project-stats CLI. The root
// command aggregates metadata about every configured project from its
// data sources (local git, GitHub, GitLab, PyPI, npm, Travis CI) and
// prints a consolidated report.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/project-stats/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API tokens loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, else the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the project-stats CLI. Running it
// without a subcommand produces the report.
var rootCmd = &cobra.Command{
	Use:   "project-stats [query]",
	Short: "Keep track of all your projects",
	Long: `project-stats collects metadata about your projects from several sources
(a local git checkout, GitHub, GitLab, PyPI, the npm registry, Travis CI)
and prints one consolidated summary per project.

Projects and their per-source identifiers come from a YAML config file.
When sources disagree about a value, the configured precedence order
decides which one wins; every claimed value stays visible in the report.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
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
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./projects.yaml or ~/.config/project-stats/projects.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("projects")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "project-stats"))
		}
	}

	viper.SetEnvPrefix("PROJECT_STATS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
