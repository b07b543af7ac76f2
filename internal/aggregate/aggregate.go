// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate drives the source adapters for every configured
// project and merges their facts into per-project reports. Individual
// source failures are collected, never fatal; only structural
// configuration problems abort a run.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/pdiddy/project-stats/internal/source"
	"github.com/pdiddy/project-stats/pkg/types"
)

const defaultJobs = 8

// ConfigError reports a structural problem with the project list or the
// adapter registry. It aborts the run before any adapter is invoked.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return e.msg }

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// Options configures an Aggregator.
type Options struct {
	// Precedence orders source kinds for merging: earlier kinds win
	// contested fact keys. Empty selects types.DefaultPrecedence.
	Precedence []types.Kind

	// Jobs bounds concurrent adapter calls (default 8).
	Jobs int

	// Warnings receives one line per source failure (default discard).
	Warnings io.Writer
}

// Aggregator fans out adapter calls and merges the results.
type Aggregator struct {
	registry   *source.Registry
	precedence []types.Kind
	jobs       int
	w          io.Writer
}

// New builds an Aggregator over the given adapter registry.
func New(registry *source.Registry, opts Options) *Aggregator {
	precedence := opts.Precedence
	if len(precedence) == 0 {
		precedence = types.DefaultPrecedence()
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = defaultJobs
	}
	w := opts.Warnings
	if w == nil {
		w = io.Discard
	}
	return &Aggregator{registry: registry, precedence: precedence, jobs: jobs, w: w}
}

// Run fetches every applicable source for every descriptor and returns
// one report per descriptor, in declaration order. A report exists even
// when every source for its project failed. The only error return is a
// *ConfigError from pre-flight validation.
func (a *Aggregator) Run(ctx context.Context, descriptors []types.ProjectDescriptor) ([]types.ProjectReport, error) {
	if err := a.validate(descriptors); err != nil {
		return nil, err
	}

	type task struct {
		project    int
		kind       types.Kind
		identifier string
	}
	type outcome struct {
		project int
		kind    types.Kind
		facts   types.Facts
		err     error
	}

	order := make([][]types.Kind, len(descriptors))
	var tasks []task
	for i, d := range descriptors {
		order[i] = a.orderKinds(d)
		for _, k := range order[i] {
			tasks = append(tasks, task{project: i, kind: k, identifier: d.Sources[k]})
		}
	}

	ch := make(chan outcome, len(tasks))
	sem := make(chan struct{}, a.jobs)
	var wg sync.WaitGroup

	for _, t := range tasks {
		wg.Add(1)
		go func(t task) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				ch <- outcome{project: t.project, kind: t.kind, err: source.Unavailablef("run cancelled: %w", err)}
				return
			}
			adapter, _ := a.registry.Lookup(t.kind)
			facts, err := adapter.Fetch(ctx, t.identifier)
			ch <- outcome{project: t.project, kind: t.kind, facts: facts, err: err}
		}(t)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	// Buffer every outcome before merging so completion order cannot
	// leak into merge order.
	collected := make([]map[types.Kind]outcome, len(descriptors))
	for i := range collected {
		collected[i] = make(map[types.Kind]outcome)
	}
	for o := range ch {
		collected[o.project][o.kind] = o
	}

	reports := make([]types.ProjectReport, len(descriptors))
	for i, d := range descriptors {
		report := types.ProjectReport{Name: d.Name, Facts: make(map[string][]types.Claim)}
		for _, kind := range order[i] {
			o := collected[i][kind]
			if o.err != nil {
				fmt.Fprintf(a.w, "warning: %s: %s: %v\n", d.Name, kind, o.err)
				report.Failures = append(report.Failures, types.SourceFailure{
					Kind:    kind,
					Reason:  source.Classify(o.err),
					Message: failureMessage(o.err),
				})
				continue
			}
			apply(&report, o.facts, kind)
		}
		reports[i] = report
	}
	return reports, nil
}

// validate rejects structurally broken configuration before any fetch:
// an empty project list, duplicate project names, or a referenced source
// kind with no registered adapter.
func (a *Aggregator) validate(descriptors []types.ProjectDescriptor) error {
	if len(descriptors) == 0 {
		return configErrorf("no projects configured")
	}

	seen := make(map[string]bool, len(descriptors))
	for _, d := range descriptors {
		if d.Name == "" {
			return configErrorf("project with empty name")
		}
		if seen[d.Name] {
			return configErrorf("duplicate project name %q", d.Name)
		}
		seen[d.Name] = true

		for _, kind := range d.Kinds() {
			if _, ok := a.registry.Lookup(kind); !ok {
				return configErrorf("project %q references source kind %q with no registered adapter", d.Name, kind)
			}
		}
	}

	for _, kind := range a.precedence {
		if _, ok := a.registry.Lookup(kind); !ok {
			return configErrorf("precedence lists source kind %q with no registered adapter", kind)
		}
	}
	return nil
}

// orderKinds returns the descriptor's applicable kinds in merge order:
// precedence first, then any remaining kinds sorted by name.
func (a *Aggregator) orderKinds(d types.ProjectDescriptor) []types.Kind {
	var kinds []types.Kind
	seen := make(map[types.Kind]bool)
	for _, k := range a.precedence {
		if _, ok := d.Sources[k]; ok && !seen[k] {
			kinds = append(kinds, k)
			seen[k] = true
		}
	}

	var rest []types.Kind
	for _, k := range d.Kinds() {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	return append(kinds, rest...)
}

// failureMessage strips the reason prefix a *source.Error would repeat
// next to the report's reason field.
func failureMessage(err error) string {
	var se *source.Error
	if errors.As(err, &se) {
		return se.Err.Error()
	}
	return err.Error()
}
