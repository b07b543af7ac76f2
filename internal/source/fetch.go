// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/pdiddy/project-stats/internal/httputil"
)

// Cache stores raw HTTP response bodies between runs so repeated report
// runs do not hammer the upstream APIs.
type Cache interface {
	// Get returns the cached body for key if present and fresh.
	Get(key string) ([]byte, bool)

	// Put stores the body for key.
	Put(key string, body []byte) error
}

// Client performs cached, rate-limit-aware JSON GETs for the HTTP-backed
// adapters. The zero value works with http.DefaultClient and no cache.
type Client struct {
	HTTP       *http.Client
	Cache      Cache // nil disables caching
	UserAgent  string
	MaxRetries int
}

// GetJSON fetches url and decodes the JSON body into v. A fresh cached
// body short-circuits the request. Extra headers carry per-source
// authentication and take part in the cache key, so responses fetched
// with different credentials never serve each other. Errors are
// classified *Error values.
func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string, v any) error {
	key := cacheKey(url, headers)
	if c.Cache != nil {
		if body, ok := c.Cache.Get(key); ok {
			if err := json.Unmarshal(body, v); err != nil {
				return Malformedf("parsing cached response for %s: %w", url, err)
			}
			return nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Unavailablef("creating request for %s: %w", url, err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	for k, val := range headers {
		req.Header.Set(k, val)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries)
	if err != nil {
		return Unavailablef("requesting %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return Unavailablef("%s returned HTTP %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Unavailablef("reading response from %s: %w", url, err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return Malformedf("parsing response from %s: %w", url, err)
	}

	// Best effort: a cache write failure must not fail the fetch.
	if c.Cache != nil {
		c.Cache.Put(key, body)
	}
	return nil
}

// cacheKey derives the cache key for a request. Requests without extra
// headers are keyed by URL alone; otherwise a digest of the headers is
// appended so credentialed and anonymous fetches stay separate.
func cacheKey(url string, headers map[string]string) string {
	if len(headers) == 0 {
		return url
	}
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	h := sha256.New()
	for _, name := range names {
		fmt.Fprintf(h, "%s=%s\n", name, headers[name])
	}
	return fmt.Sprintf("%s#%x", url, h.Sum(nil))
}
