// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for project-stats:
// project descriptors, normalized facts, merged reports, and the
// configuration schema.
package types

// Kind identifies a class of project data source.
type Kind string

const (
	KindGit    Kind = "git"
	KindGitHub Kind = "github"
	KindGitLab Kind = "gitlab"
	KindPyPI   Kind = "pypi"
	KindNPM    Kind = "npm"
	KindTravis Kind = "travis"
)

// Canonical fact keys. Every adapter reports facts under these names so
// that the merge step can reconcile the same concept across sources.
const (
	KeyName               = "name"
	KeyDescription        = "description"
	KeyVersion            = "version"
	KeyHomepage           = "homepage"
	KeyCreated            = "created"
	KeyUpdated            = "updated"
	KeyLicense            = "license"
	KeyLanguage           = "language"
	KeyTests              = "tests"
	KeyCommitCount        = "commit_count"
	KeyFileCount          = "file_count"
	KeyUnstagedChanges    = "unstaged_changes"
	KeyUncommittedChanges = "uncommitted_changes"
	KeyUpToDate           = "up_to_date"
	KeyContributors       = "contributors"
	KeyDownloads          = "downloads"
	KeyOpenIssues         = "open_issues"
	KeyOpenPullRequests   = "open_pull_requests"
	KeyForksCount         = "forks_count"
	KeyStargazersCount    = "stargazers_count"
	KeySubscribersCount   = "subscribers_count"
	KeyWatchersCount      = "watchers_count"
)

// FactKeys lists the canonical keys in display order.
var FactKeys = []string{
	KeyName,
	KeyDescription,
	KeyVersion,
	KeyHomepage,
	KeyCreated,
	KeyUpdated,
	KeyLicense,
	KeyLanguage,
	KeyTests,
	KeyCommitCount,
	KeyFileCount,
	KeyUnstagedChanges,
	KeyUncommittedChanges,
	KeyUpToDate,
	KeyContributors,
	KeyDownloads,
	KeyOpenIssues,
	KeyOpenPullRequests,
	KeyForksCount,
	KeyStargazersCount,
	KeySubscribersCount,
	KeyWatchersCount,
}

// ShortKeyCount is how many leading FactKeys the short report shows.
const ShortKeyCount = 9

// Facts holds the normalized key/value facts from one adapter call.
// Values are strings, ints, bools, or time.Time.
type Facts map[string]any

// ProjectDescriptor names one project and its per-source identifiers.
// Descriptors come from configuration and are immutable once loaded.
type ProjectDescriptor struct {
	Name    string          `json:"name" yaml:"name" mapstructure:"name"`
	Sources map[Kind]string `json:"sources" yaml:"sources" mapstructure:"sources"`
}

// Kinds returns the source kinds this descriptor carries an identifier for.
// Order is unspecified; callers needing determinism must sort.
func (d ProjectDescriptor) Kinds() []Kind {
	kinds := make([]Kind, 0, len(d.Sources))
	for k := range d.Sources {
		kinds = append(kinds, k)
	}
	return kinds
}

// Claim is one value asserted for a fact key, with the sources backing it.
// When sources disagree on a key, each distinct value keeps its own claim.
type Claim struct {
	Value   any    `json:"value" yaml:"value"`
	Sources []Kind `json:"sources" yaml:"sources"`
}

// FailureReason classifies why a source fetch failed.
type FailureReason string

const (
	// FailureUnavailable covers network errors, authentication problems,
	// and missing projects.
	FailureUnavailable FailureReason = "unavailable"

	// FailureMalformed covers responses that did not parse.
	FailureMalformed FailureReason = "malformed"
)

// SourceFailure records one failed (project, source kind) fetch.
type SourceFailure struct {
	Kind    Kind          `json:"kind" yaml:"kind"`
	Reason  FailureReason `json:"reason" yaml:"reason"`
	Message string        `json:"message" yaml:"message"`
}

// ProjectReport is the merged view of one project: every claimed value
// for every fact key, plus the per-source failures encountered.
//
// Facts maps a key to its claims in precedence order, so the first claim
// is the winning value. A report exists for every configured descriptor,
// even when every source failed.
type ProjectReport struct {
	Name     string             `json:"name" yaml:"name"`
	Facts    map[string][]Claim `json:"facts" yaml:"facts"`
	Failures []SourceFailure    `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Value returns the winning value for key, or nil if no source reported it.
func (r ProjectReport) Value(key string) any {
	claims := r.Facts[key]
	if len(claims) == 0 {
		return nil
	}
	return claims[0].Value
}
