package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/project-stats/internal/source"
	"github.com/pdiddy/project-stats/pkg/types"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the registered source kinds",
	Long: `Sources lists every source kind an adapter is registered for. A project's
config entry may carry an identifier for any of these kinds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var cfg types.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("parsing configuration: %w", err)
		}
		for _, kind := range newRegistry(&source.Client{}, cfg).Kinds() {
			fmt.Println(kind)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
