// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"strings"

	"github.com/pdiddy/project-stats/pkg/types"
)

const defaultTravisBase = "https://api.travis-ci.org"

// TravisAdapter queries the Travis CI API. The identifier is a
// https://travis-ci.org/owner/repo URL or an owner/repo slug.
type TravisAdapter struct {
	Client  *Client
	BaseURL string
}

// Kind returns the source kind.
func (a *TravisAdapter) Kind() types.Kind { return types.KindTravis }

// Fetch reports the project description and whether the last build passed.
func (a *TravisAdapter) Fetch(ctx context.Context, identifier string) (types.Facts, error) {
	slug := strings.TrimSuffix(identifier, "/")
	for _, prefix := range []string{"https://travis-ci.org/", "http://travis-ci.org/"} {
		slug = strings.TrimPrefix(slug, prefix)
	}
	if strings.HasPrefix(slug, "http") || strings.Count(slug, "/") != 1 {
		return nil, Unavailablef("cannot derive owner/repo from %q", identifier)
	}

	base := a.BaseURL
	if base == "" {
		base = defaultTravisBase
	}

	var repo travisRepo
	if err := a.Client.GetJSON(ctx, base+"/repos/"+slug, nil, &repo); err != nil {
		return nil, err
	}

	facts := types.Facts{
		types.KeyDescription: repo.Description,
	}
	// last_build_result is null until the first build finishes.
	if repo.LastBuildResult != nil {
		facts[types.KeyTests] = *repo.LastBuildResult == 0
	}

	return facts, nil
}

// Travis API JSON structures.
type travisRepo struct {
	Description     string `json:"description"`
	LastBuildResult *int   `json:"last_build_result"`
}
