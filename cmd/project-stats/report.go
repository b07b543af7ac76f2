// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/project-stats/internal/aggregate"
	"github.com/pdiddy/project-stats/internal/cache"
	"github.com/pdiddy/project-stats/internal/report"
	"github.com/pdiddy/project-stats/internal/source"
	"github.com/pdiddy/project-stats/pkg/types"
)

func init() {
	rootCmd.Flags().BoolP("list", "l", false, "only list projects; do not show any stats")
	rootCmd.Flags().BoolP("short", "s", false, "show only basic stats")
	rootCmd.Flags().BoolP("show-sources", "S", false, "show the sources backing each value")
	rootCmd.Flags().StringP("sort", "z", "", "sort projects by a fact key")
	rootCmd.Flags().Bool("json", false, "output the report as JSON")
	rootCmd.Flags().Bool("yaml", false, "output the report as YAML")
	rootCmd.Flags().Bool("no-cache", false, "bypass the HTTP response cache")
	rootCmd.Flags().IntP("jobs", "j", 0, "maximum concurrent source fetches")
}

func runReport(cmd *cobra.Command, args []string) error {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("parsing configuration: %w", err)
	}
	applyDefaults(&cfg)

	query := ""
	if len(args) > 0 {
		query = args[0]
	}
	descriptors := filterProjects(cfg.Projects, query)

	listOnly, _ := cmd.Flags().GetBool("list")
	sortKey, _ := cmd.Flags().GetString("sort")

	// Listing without a sort key needs no source data at all.
	if listOnly && sortKey == "" {
		for _, d := range descriptors {
			fmt.Println(d.Name)
		}
		return nil
	}

	client := &source.Client{
		HTTP:       &http.Client{Timeout: cfg.HTTP.Timeout},
		UserAgent:  cfg.HTTP.UserAgent,
		MaxRetries: cfg.HTTP.MaxRetries,
	}

	noCache, _ := cmd.Flags().GetBool("no-cache")
	if !noCache && !cfg.Cache.Disabled {
		store, err := openCache(cfg.Cache)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: response cache disabled: %v\n", err)
		} else {
			defer store.Close()
			client.Cache = store
		}
	}

	jobs, _ := cmd.Flags().GetInt("jobs")
	if jobs <= 0 {
		jobs = cfg.Jobs
	}

	agg := aggregate.New(newRegistry(client, cfg), aggregate.Options{
		Precedence: cfg.Precedence,
		Jobs:       jobs,
		Warnings:   os.Stderr,
	})

	reports, err := agg.Run(cmd.Context(), descriptors)
	if err != nil {
		return err
	}

	if sortKey != "" {
		report.SortByKey(reports, sortKey)
	}

	if listOnly {
		report.FormatList(reports, os.Stdout, sortKey)
		return nil
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return report.FormatJSON(reports, os.Stdout)
	}
	if yamlOut, _ := cmd.Flags().GetBool("yaml"); yamlOut {
		return report.FormatYAML(reports, os.Stdout)
	}

	short, _ := cmd.Flags().GetBool("short")
	showSources, _ := cmd.Flags().GetBool("show-sources")
	report.FormatText(reports, os.Stdout, report.TextOptions{
		Short:       short,
		ShowSources: showSources,
		Indent:      2,
	})
	return nil
}

// newRegistry wires every adapter with its configuration and tokens.
func newRegistry(client *source.Client, cfg types.Config) *source.Registry {
	return source.NewRegistry(
		source.GitAdapter{},
		&source.GitHubAdapter{
			Client:  client,
			Token:   secretDefault("github-token", cfg.GitHub.Token),
			BaseURL: cfg.GitHub.BaseURL,
		},
		&source.GitLabAdapter{
			Client:  client,
			Token:   secretDefault("gitlab-token", cfg.GitLab.Token),
			BaseURL: cfg.GitLab.BaseURL,
		},
		&source.PyPIAdapter{Client: client, BaseURL: cfg.PyPI.BaseURL},
		&source.NPMAdapter{
			Client:       client,
			RegistryURL:  cfg.NPM.RegistryURL,
			DownloadsURL: cfg.NPM.DownloadsURL,
		},
		&source.TravisAdapter{Client: client, BaseURL: cfg.Travis.BaseURL},
	)
}

func openCache(cfg types.CacheConfig) (*cache.Store, error) {
	path := cfg.Path
	if path == "" {
		var err error
		path, err = cache.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return cache.Open(path, cfg.TTL)
}

// filterProjects keeps the descriptors whose name contains query,
// case-insensitively, preserving declaration order.
func filterProjects(descriptors []types.ProjectDescriptor, query string) []types.ProjectDescriptor {
	if query == "" {
		return descriptors
	}
	q := strings.ToLower(query)
	var matched []types.ProjectDescriptor
	for _, d := range descriptors {
		if strings.Contains(strings.ToLower(d.Name), q) {
			matched = append(matched, d)
		}
	}
	return matched
}

func applyDefaults(cfg *types.Config) {
	if cfg.HTTP.Timeout <= 0 {
		cfg.HTTP.Timeout = 30 * time.Second
	}
	if cfg.HTTP.UserAgent == "" {
		cfg.HTTP.UserAgent = "project-stats/" + version
	}
	if cfg.Jobs <= 0 {
		cfg.Jobs = 8
	}
	if len(cfg.Precedence) == 0 {
		cfg.Precedence = types.DefaultPrecedence()
	}
}
