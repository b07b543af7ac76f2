package types

import "time"

// HTTPConfig holds shared HTTP settings used by adapters that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "project-stats/0.4").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries is the retry budget for rate-limited requests (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// CacheConfig holds settings for the HTTP response cache.
type CacheConfig struct {
	// Path is the cache database file. Empty selects
	// ~/.cache/project-stats/responses.db.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// TTL is how long a cached response stays fresh (default 1h).
	TTL time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`

	// Disabled turns response caching off entirely.
	Disabled bool `json:"disabled" yaml:"disabled" mapstructure:"disabled"`
}

// GitHubConfig holds settings for the GitHub adapter.
type GitHubConfig struct {
	// Token is an optional API token for private repositories and higher
	// rate limits.
	Token string `json:"token,omitempty" yaml:"token,omitempty" mapstructure:"token"`

	// BaseURL overrides the API endpoint (default https://api.github.com).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`
}

// GitLabConfig holds settings for the GitLab adapter.
type GitLabConfig struct {
	// Token is an optional private token.
	Token string `json:"token,omitempty" yaml:"token,omitempty" mapstructure:"token"`

	// BaseURL overrides the API endpoint (default https://gitlab.com/api/v4).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`
}

// PyPIConfig holds settings for the PyPI adapter.
type PyPIConfig struct {
	// BaseURL overrides the API endpoint (default https://pypi.org/pypi).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`
}

// NPMConfig holds settings for the npm registry adapter.
type NPMConfig struct {
	// RegistryURL overrides the package metadata endpoint
	// (default https://registry.npmjs.org).
	RegistryURL string `json:"registry_url,omitempty" yaml:"registry_url,omitempty" mapstructure:"registry_url"`

	// DownloadsURL overrides the download counts endpoint
	// (default https://api.npmjs.org).
	DownloadsURL string `json:"downloads_url,omitempty" yaml:"downloads_url,omitempty" mapstructure:"downloads_url"`
}

// TravisConfig holds settings for the Travis CI adapter.
type TravisConfig struct {
	// BaseURL overrides the API endpoint (default https://api.travis-ci.org).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`
}

// Config is the full project-stats configuration.
type Config struct {
	// Projects lists the configured projects in declaration order. The
	// report preserves this order.
	Projects []ProjectDescriptor `json:"projects" yaml:"projects" mapstructure:"projects"`

	// Precedence is the source kind order used to resolve conflicting
	// fact values: earlier kinds win. Empty selects DefaultPrecedence.
	Precedence []Kind `json:"precedence,omitempty" yaml:"precedence,omitempty" mapstructure:"precedence"`

	// Jobs bounds concurrent adapter calls (default 8).
	Jobs int `json:"jobs" yaml:"jobs" mapstructure:"jobs"`

	HTTP   HTTPConfig   `json:"http" yaml:"http" mapstructure:"http"`
	Cache  CacheConfig  `json:"cache" yaml:"cache" mapstructure:"cache"`
	GitHub GitHubConfig `json:"github" yaml:"github" mapstructure:"github"`
	GitLab GitLabConfig `json:"gitlab" yaml:"gitlab" mapstructure:"gitlab"`
	PyPI   PyPIConfig   `json:"pypi" yaml:"pypi" mapstructure:"pypi"`
	NPM    NPMConfig    `json:"npm" yaml:"npm" mapstructure:"npm"`
	Travis TravisConfig `json:"travis" yaml:"travis" mapstructure:"travis"`
}

// DefaultPrecedence is the documented default merge order: version
// control first, then hosting platforms, then registries, then CI.
func DefaultPrecedence() []Kind {
	return []Kind{KindGit, KindGitHub, KindGitLab, KindPyPI, KindNPM, KindTravis}
}
