// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// latestTag picks the greatest release tag. Tags parseable as semantic
// versions (with or without a "v" prefix) are compared as versions;
// when none parse, the lexicographically greatest tag wins.
func latestTag(tags []string) string {
	var bestRaw string
	var bestVer *semver.Version

	for _, tag := range tags {
		v, err := semver.NewVersion(strings.TrimPrefix(tag, "v"))
		if err != nil {
			if bestVer == nil && strings.TrimPrefix(tag, "v") > strings.TrimPrefix(bestRaw, "v") {
				bestRaw = tag
			}
			continue
		}
		if bestVer == nil || v.GreaterThan(bestVer) {
			bestVer = v
			bestRaw = tag
		}
	}
	return bestRaw
}
