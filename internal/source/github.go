// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/project-stats/pkg/types"
)

const defaultGitHubBase = "https://api.github.com"

// tagPageLimit caps tag pagination so a repository with thousands of
// tags cannot stall a run.
const tagPageLimit = 10

// GitHubAdapter queries the GitHub REST API. The identifier is either a
// repository URL (https://github.com/owner/repo) or an owner/repo slug.
type GitHubAdapter struct {
	Client  *Client
	Token   string
	BaseURL string
}

// Kind returns the source kind.
func (a *GitHubAdapter) Kind() types.Kind { return types.KindGitHub }

// Fetch gathers repository facts, the open pull request count, and the
// latest release tag.
func (a *GitHubAdapter) Fetch(ctx context.Context, identifier string) (types.Facts, error) {
	slug, err := githubSlug(identifier)
	if err != nil {
		return nil, err
	}

	base := a.BaseURL
	if base == "" {
		base = defaultGitHubBase
	}
	var headers map[string]string
	if a.Token != "" {
		headers = map[string]string{"Authorization": "Bearer " + a.Token}
	}

	var repo githubRepo
	if err := a.Client.GetJSON(ctx, base+"/repos/"+slug, headers, &repo); err != nil {
		return nil, err
	}

	facts := types.Facts{
		types.KeyName:             repo.Name,
		types.KeyDescription:      repo.Description,
		types.KeyHomepage:         repo.Homepage,
		types.KeyLanguage:         repo.Language,
		types.KeyWatchersCount:    repo.WatchersCount,
		types.KeyStargazersCount:  repo.StargazersCount,
		types.KeySubscribersCount: repo.SubscribersCount,
		types.KeyForksCount:       repo.ForksCount,
		types.KeyOpenIssues:       repo.OpenIssues,
	}
	if repo.License.SPDXID != "" {
		facts[types.KeyLicense] = repo.License.SPDXID
	}
	if t, err := time.Parse(time.RFC3339, repo.CreatedAt); err == nil {
		facts[types.KeyCreated] = t
	}
	if t, err := time.Parse(time.RFC3339, repo.UpdatedAt); err == nil {
		facts[types.KeyUpdated] = t
	}

	var pulls []struct {
		Number int `json:"number"`
	}
	if err := a.Client.GetJSON(ctx, base+"/repos/"+slug+"/pulls", headers, &pulls); err != nil {
		return nil, err
	}
	facts[types.KeyOpenPullRequests] = len(pulls)

	tags, err := a.fetchTags(ctx, base, slug, headers)
	if err != nil {
		return nil, err
	}
	if tag := latestTag(tags); tag != "" {
		facts[types.KeyVersion] = tag
	}

	return facts, nil
}

// fetchTags pages through the repository tags.
func (a *GitHubAdapter) fetchTags(ctx context.Context, base, slug string, headers map[string]string) ([]string, error) {
	var names []string
	for page := 1; page <= tagPageLimit; page++ {
		url := fmt.Sprintf("%s/repos/%s/tags?per_page=100&page=%d", base, slug, page)
		var tags []struct {
			Name string `json:"name"`
		}
		if err := a.Client.GetJSON(ctx, url, headers, &tags); err != nil {
			return nil, err
		}
		if len(tags) == 0 {
			break
		}
		for _, t := range tags {
			names = append(names, t.Name)
		}
	}
	return names, nil
}

// githubSlug extracts owner/repo from a GitHub URL or passes a bare slug
// through.
func githubSlug(identifier string) (string, error) {
	s := strings.TrimSuffix(strings.TrimSuffix(identifier, "/"), ".git")
	for _, prefix := range []string{"https://github.com/", "http://github.com/"} {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimPrefix(s, prefix)
			break
		}
	}
	if strings.Count(s, "/") != 1 || strings.HasPrefix(s, "http") {
		return "", Unavailablef("cannot derive owner/repo from %q", identifier)
	}
	return s, nil
}

// GitHub API JSON structures.
type githubRepo struct {
	Name             string        `json:"name"`
	Description      string        `json:"description"`
	Homepage         string        `json:"homepage"`
	Language         string        `json:"language"`
	CreatedAt        string        `json:"created_at"`
	UpdatedAt        string        `json:"updated_at"`
	WatchersCount    int           `json:"watchers_count"`
	StargazersCount  int           `json:"stargazers_count"`
	SubscribersCount int           `json:"subscribers_count"`
	ForksCount       int           `json:"forks_count"`
	OpenIssues       int           `json:"open_issues"`
	License          githubLicense `json:"license"`
}

type githubLicense struct {
	SPDXID string `json:"spdx_id"`
}
