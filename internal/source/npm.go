// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/pdiddy/project-stats/pkg/types"
)

const (
	defaultNPMRegistry  = "https://registry.npmjs.org"
	defaultNPMDownloads = "https://api.npmjs.org"
)

// NPMAdapter queries the npm registry. The identifier is a package name,
// including scoped names like @scope/name.
type NPMAdapter struct {
	Client       *Client
	RegistryURL  string
	DownloadsURL string
}

// Kind returns the source kind.
func (a *NPMAdapter) Kind() types.Kind { return types.KindNPM }

// Fetch gathers package metadata and the last-month download count.
func (a *NPMAdapter) Fetch(ctx context.Context, identifier string) (types.Facts, error) {
	registry := a.RegistryURL
	if registry == "" {
		registry = defaultNPMRegistry
	}

	var pkg npmPackage
	if err := a.Client.GetJSON(ctx, registry+"/"+url.PathEscape(identifier), nil, &pkg); err != nil {
		return nil, err
	}

	facts := types.Facts{
		types.KeyName:        pkg.Name,
		types.KeyDescription: pkg.Description,
		types.KeyHomepage:    pkg.Homepage,
		types.KeyLicense:     string(pkg.License),
		types.KeyVersion:     pkg.DistTags.Latest,
	}
	if t, err := time.Parse(time.RFC3339, pkg.Time.Created); err == nil {
		facts[types.KeyCreated] = t
	}
	if t, err := time.Parse(time.RFC3339, pkg.Time.Modified); err == nil {
		facts[types.KeyUpdated] = t
	}

	// The downloads service is separate from the registry and 404s for
	// brand-new packages; missing counts are not a source failure.
	downloads := a.DownloadsURL
	if downloads == "" {
		downloads = defaultNPMDownloads
	}
	var point struct {
		Downloads int `json:"downloads"`
	}
	if err := a.Client.GetJSON(ctx, downloads+"/downloads/point/last-month/"+identifier, nil, &point); err == nil {
		facts[types.KeyDownloads] = point.Downloads
	}

	return facts, nil
}

// npmLicense tolerates both the modern string form and the legacy
// {"type": ..., "url": ...} object form of the license field.
type npmLicense string

func (l *npmLicense) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = npmLicense(s)
		return nil
	}
	var obj struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*l = npmLicense(obj.Type)
	return nil
}

// npm registry JSON structures.
type npmPackage struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Homepage    string      `json:"homepage"`
	License     npmLicense  `json:"license"`
	DistTags    npmDistTags `json:"dist-tags"`
	Time        npmTime     `json:"time"`
}

type npmDistTags struct {
	Latest string `json:"latest"`
}

type npmTime struct {
	Created  string `json:"created"`
	Modified string `json:"modified"`
}
