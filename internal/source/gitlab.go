// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/project-stats/pkg/types"
)

const defaultGitLabBase = "https://gitlab.com/api/v4"

// GitLabAdapter queries the GitLab REST API. The identifier is a numeric
// project ID or a namespace/project path.
type GitLabAdapter struct {
	Client  *Client
	Token   string
	BaseURL string
}

// Kind returns the source kind.
func (a *GitLabAdapter) Kind() types.Kind { return types.KindGitLab }

// Fetch gathers project facts plus open issue and merge request counts.
func (a *GitLabAdapter) Fetch(ctx context.Context, identifier string) (types.Facts, error) {
	base := a.BaseURL
	if base == "" {
		base = defaultGitLabBase
	}
	project := base + "/projects/" + url.PathEscape(strings.TrimPrefix(identifier, "/"))

	var headers map[string]string
	if a.Token != "" {
		headers = map[string]string{"PRIVATE-TOKEN": a.Token}
	}

	var proj gitlabProject
	if err := a.Client.GetJSON(ctx, project, headers, &proj); err != nil {
		return nil, err
	}

	facts := types.Facts{
		types.KeyName:          proj.Name,
		types.KeyDescription:   proj.Description,
		types.KeyHomepage:      proj.WebURL,
		types.KeyForksCount:    proj.ForksCount,
		types.KeyWatchersCount: proj.StarCount,
	}
	if t, err := time.Parse(time.RFC3339, proj.CreatedAt); err == nil {
		facts[types.KeyCreated] = t
	}
	if t, err := time.Parse(time.RFC3339, proj.LastActivityAt); err == nil {
		facts[types.KeyUpdated] = t
	}

	var issues []struct {
		IID int `json:"iid"`
	}
	if err := a.Client.GetJSON(ctx, project+"/issues?state=opened&per_page=100", headers, &issues); err != nil {
		return nil, err
	}
	facts[types.KeyOpenIssues] = len(issues)

	var mrs []struct {
		IID int `json:"iid"`
	}
	if err := a.Client.GetJSON(ctx, project+"/merge_requests?state=opened&per_page=100", headers, &mrs); err != nil {
		return nil, err
	}
	facts[types.KeyOpenPullRequests] = len(mrs)

	return facts, nil
}

// GitLab API JSON structures.
type gitlabProject struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	WebURL         string `json:"web_url"`
	CreatedAt      string `json:"created_at"`
	LastActivityAt string `json:"last_activity_at"`
	ForksCount     int    `json:"forks_count"`
	StarCount      int    `json:"star_count"`
}
