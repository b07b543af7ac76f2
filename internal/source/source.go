// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source defines the data source adapter contract and the
// concrete adapters (local git, GitHub, GitLab, PyPI, npm, Travis CI).
// Each adapter translates one external source's response into
// normalized facts under the shared key names in pkg/types.
package source

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/pdiddy/project-stats/pkg/types"
)

// Adapter fetches normalized facts for one source kind. Implementations
// are stateless per call and safe for concurrent use; a failed fetch
// never affects sibling adapters or other projects.
type Adapter interface {
	// Kind returns the source kind this adapter serves.
	Kind() types.Kind

	// Fetch resolves the source-specific identifier (a path, an
	// owner/repo slug, a package name) and returns facts. Failures are
	// *Error values classified as unavailable or malformed.
	Fetch(ctx context.Context, identifier string) (types.Facts, error)
}

// Error is a classified adapter failure. Unavailable covers network,
// authentication, and not-found conditions; malformed covers responses
// that did not parse.
type Error struct {
	Reason types.FailureReason
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Unavailablef returns an unavailable *Error with a formatted message.
func Unavailablef(format string, args ...any) *Error {
	return &Error{Reason: types.FailureUnavailable, Err: fmt.Errorf(format, args...)}
}

// Malformedf returns a malformed *Error with a formatted message.
func Malformedf(format string, args ...any) *Error {
	return &Error{Reason: types.FailureMalformed, Err: fmt.Errorf(format, args...)}
}

// Classify returns the failure reason for an adapter error. Errors that
// are not *Error values count as unavailable.
func Classify(err error) types.FailureReason {
	var se *Error
	if errors.As(err, &se) {
		return se.Reason
	}
	return types.FailureUnavailable
}

// Registry maps source kinds to their adapters. It is populated at
// startup and read-only afterwards.
type Registry struct {
	adapters map[types.Kind]Adapter
}

// NewRegistry builds a registry from the given adapters. A duplicate
// kind is a programming error and panics.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[types.Kind]Adapter, len(adapters))}
	for _, a := range adapters {
		if _, dup := r.adapters[a.Kind()]; dup {
			panic(fmt.Sprintf("source: duplicate adapter for kind %q", a.Kind()))
		}
		r.adapters[a.Kind()] = a
	}
	return r
}

// Lookup returns the adapter for kind, if registered.
func (r *Registry) Lookup(kind types.Kind) (Adapter, bool) {
	a, ok := r.adapters[kind]
	return a, ok
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []types.Kind {
	kinds := make([]types.Kind, 0, len(r.adapters))
	for k := range r.adapters {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
