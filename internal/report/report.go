// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders merged project reports as text, JSON, or YAML.
// Rendering is lossless: every claim and every failure recorded by the
// aggregator appears in the output. No merge logic lives here.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/project-stats/pkg/types"
)

// TextOptions controls the plain-text rendering.
type TextOptions struct {
	// Short limits output to the leading canonical keys.
	Short bool

	// ShowSources appends the claiming sources after each value.
	ShowSources bool

	// Indent is the number of spaces before each fact line (default 2).
	Indent int
}

// FormatText writes one block per project: the project name, an
// indented line per fact key, and a line per source failure.
func FormatText(reports []types.ProjectReport, w io.Writer, opts TextOptions) {
	indent := strings.Repeat(" ", max(opts.Indent, 2))

	for _, r := range reports {
		fmt.Fprintln(w, r.Name)
		for _, key := range displayKeys(r, opts.Short) {
			claims := r.Facts[key]
			if len(claims) == 0 {
				continue
			}
			fmt.Fprintf(w, "%s%s: %s\n", indent, key, formatClaims(claims, opts.ShowSources))
		}
		for _, f := range r.Failures {
			fmt.Fprintf(w, "%s! %s: %s: %s\n", indent, f.Kind, f.Reason, f.Message)
		}
		fmt.Fprintln(w)
	}
}

// FormatList writes one project name per line. With a sort key, each
// project's claims for that key follow its name.
func FormatList(reports []types.ProjectReport, w io.Writer, key string) {
	for _, r := range reports {
		if key == "" || len(r.Facts[key]) == 0 {
			fmt.Fprintln(w, r.Name)
			continue
		}
		fmt.Fprintf(w, "%s %s\n", r.Name, formatClaims(r.Facts[key], false))
	}
}

// FormatJSON writes the reports as indented JSON.
func FormatJSON(reports []types.ProjectReport, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

// FormatYAML writes the reports as a YAML document.
func FormatYAML(reports []types.ProjectReport, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(reports)
}

// SortByKey stably reorders reports by the winning value of key.
// Projects without the key sort last, keeping their relative order.
func SortByKey(reports []types.ProjectReport, key string) {
	sort.SliceStable(reports, func(i, j int) bool {
		vi, vj := reports[i].Value(key), reports[j].Value(key)
		if vj == nil {
			return vi != nil
		}
		if vi == nil {
			return false
		}
		return less(vi, vj)
	})
}

// displayKeys returns the keys to render: the canonical keys in their
// fixed order (the leading ones only when short), then any non-canonical
// keys an adapter reported, sorted. Nothing present is ever omitted from
// a full report.
func displayKeys(r types.ProjectReport, short bool) []string {
	canonical := types.FactKeys
	if short {
		canonical = canonical[:types.ShortKeyCount]
	}

	known := make(map[string]bool, len(types.FactKeys))
	for _, key := range types.FactKeys {
		known[key] = true
	}

	keys := append([]string(nil), canonical...)
	if short {
		return keys
	}

	var extra []string
	for key := range r.Facts {
		if !known[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

// formatClaims joins every claimed value for a key, winner first.
func formatClaims(claims []types.Claim, showSources bool) string {
	parts := make([]string, 0, len(claims))
	for _, c := range claims {
		s := formatValue(c.Value)
		if showSources {
			sources := make([]string, len(c.Sources))
			for i, k := range c.Sources {
				sources[i] = string(k)
			}
			s += " (" + strings.Join(sources, ", ") + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "; ")
}

func formatValue(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("2006-01-02 15:04:05 -0700")
	case string:
		return t
	default:
		return fmt.Sprint(v)
	}
}

// less compares two winning values of the same fact key. Mixed types
// fall back to string comparison.
func less(a, b any) bool {
	switch ta := a.(type) {
	case int:
		if tb, ok := b.(int); ok {
			return ta < tb
		}
	case time.Time:
		if tb, ok := b.(time.Time); ok {
			return ta.Before(tb)
		}
	case string:
		if tb, ok := b.(string); ok {
			return ta < tb
		}
	case bool:
		if tb, ok := b.(bool); ok {
			return !ta && tb
		}
	}
	return formatValue(a) < formatValue(b)
}
