// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"strings"

	"github.com/pdiddy/project-stats/pkg/types"
)

const defaultPyPIBase = "https://pypi.org/pypi"

// PyPIAdapter queries the PyPI JSON API. The identifier is a package
// name or a full https://pypi.org/pypi/<name> URL.
type PyPIAdapter struct {
	Client  *Client
	BaseURL string
}

// Kind returns the source kind.
func (a *PyPIAdapter) Kind() types.Kind { return types.KindPyPI }

// Fetch gathers release and download facts for the package.
func (a *PyPIAdapter) Fetch(ctx context.Context, identifier string) (types.Facts, error) {
	endpoint := identifier
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		base := a.BaseURL
		if base == "" {
			base = defaultPyPIBase
		}
		endpoint = base + "/" + identifier
	}
	endpoint = strings.TrimSuffix(endpoint, "/") + "/json"

	var pkg pypiPackage
	if err := a.Client.GetJSON(ctx, endpoint, nil, &pkg); err != nil {
		return nil, err
	}

	facts := types.Facts{
		types.KeyName:        pkg.Info.Name,
		types.KeyVersion:     pkg.Info.Version,
		types.KeyDescription: pkg.Info.Summary,
		types.KeyLicense:     pkg.Info.License,
		types.KeyHomepage:    pkg.Info.HomePage,
	}
	// PyPI serves -1 for all download counters since the stats migration;
	// only a real count is worth reporting.
	if pkg.Info.Downloads.LastMonth > 0 {
		facts[types.KeyDownloads] = pkg.Info.Downloads.LastMonth
	}

	return facts, nil
}

// PyPI API JSON structures.
type pypiPackage struct {
	Info pypiInfo `json:"info"`
}

type pypiInfo struct {
	Name      string        `json:"name"`
	Version   string        `json:"version"`
	Summary   string        `json:"summary"`
	License   string        `json:"license"`
	HomePage  string        `json:"home_page"`
	Downloads pypiDownloads `json:"downloads"`
}

type pypiDownloads struct {
	LastDay   int `json:"last_day"`
	LastWeek  int `json:"last_week"`
	LastMonth int `json:"last_month"`
}
