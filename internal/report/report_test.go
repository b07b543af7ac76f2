// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/project-stats/pkg/types"
)

func sampleReport() types.ProjectReport {
	return types.ProjectReport{
		Name: "alpha",
		Facts: map[string][]types.Claim{
			types.KeyName: {
				{Value: "alpha", Sources: []types.Kind{types.KindGit, types.KindGitHub}},
			},
			types.KeyVersion: {
				{Value: "v1.2.0", Sources: []types.Kind{types.KindGit}},
				{Value: "1.1.0", Sources: []types.Kind{types.KindPyPI}},
			},
			types.KeyCommitCount: {
				{Value: 42, Sources: []types.Kind{types.KindGit}},
			},
		},
		Failures: []types.SourceFailure{
			{Kind: types.KindTravis, Reason: types.FailureUnavailable, Message: "connection refused"},
		},
	}
}

func TestFormatText(t *testing.T) {
	var buf bytes.Buffer
	FormatText([]types.ProjectReport{sampleReport()}, &buf, TextOptions{})
	out := buf.String()

	if !strings.HasPrefix(out, "alpha\n") {
		t.Errorf("output does not start with the project name:\n%s", out)
	}
	for _, want := range []string{
		"  name: alpha\n",
		"  version: v1.2.0; 1.1.0\n",
		"  commit_count: 42\n",
		"  ! travis: unavailable: connection refused\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// Canonical ordering: name before version, version before commit_count.
	if strings.Index(out, "name:") > strings.Index(out, "version:") {
		t.Errorf("name rendered after version:\n%s", out)
	}
}

func TestFormatTextShowSources(t *testing.T) {
	var buf bytes.Buffer
	FormatText([]types.ProjectReport{sampleReport()}, &buf, TextOptions{ShowSources: true})
	out := buf.String()

	for _, want := range []string{
		"name: alpha (git, github)",
		"version: v1.2.0 (git); 1.1.0 (pypi)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatTextShort(t *testing.T) {
	r := sampleReport()
	r.Facts["custom_metric"] = []types.Claim{{Value: 7, Sources: []types.Kind{types.KindGitHub}}}

	var buf bytes.Buffer
	FormatText([]types.ProjectReport{r}, &buf, TextOptions{Short: true})
	out := buf.String()

	if strings.Contains(out, "custom_metric") {
		t.Errorf("short output includes a non-canonical key:\n%s", out)
	}
	if !strings.Contains(out, "version:") {
		t.Errorf("short output missing version:\n%s", out)
	}

	buf.Reset()
	FormatText([]types.ProjectReport{r}, &buf, TextOptions{})
	if !strings.Contains(buf.String(), "custom_metric: 7") {
		t.Errorf("full output missing the non-canonical key:\n%s", buf.String())
	}
}

func TestFormatTextTimeValues(t *testing.T) {
	r := types.ProjectReport{
		Name: "beta",
		Facts: map[string][]types.Claim{
			types.KeyUpdated: {
				{Value: time.Date(2024, 7, 8, 9, 10, 11, 0, time.UTC), Sources: []types.Kind{types.KindGit}},
			},
		},
	}
	var buf bytes.Buffer
	FormatText([]types.ProjectReport{r}, &buf, TextOptions{})
	if !strings.Contains(buf.String(), "updated: 2024-07-08 09:10:11 +0000") {
		t.Errorf("time not formatted:\n%s", buf.String())
	}
}

func TestFormatList(t *testing.T) {
	reports := []types.ProjectReport{
		sampleReport(),
		{Name: "beta"},
	}

	var buf bytes.Buffer
	FormatList(reports, &buf, "")
	if got, want := buf.String(), "alpha\nbeta\n"; got != want {
		t.Errorf("FormatList() = %q, want %q", got, want)
	}

	buf.Reset()
	FormatList(reports, &buf, types.KeyVersion)
	if got, want := buf.String(), "alpha v1.2.0; 1.1.0\nbeta\n"; got != want {
		t.Errorf("FormatList(version) = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatJSON([]types.ProjectReport{sampleReport()}, &buf); err != nil {
		t.Fatalf("FormatJSON() error = %v", err)
	}

	var decoded []types.ProjectReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Name != "alpha" {
		t.Fatalf("decoded = %+v", decoded)
	}
	if len(decoded[0].Facts[types.KeyVersion]) != 2 {
		t.Errorf("superseded claim lost in JSON output: %+v", decoded[0].Facts[types.KeyVersion])
	}
	if len(decoded[0].Failures) != 1 {
		t.Errorf("failure lost in JSON output: %+v", decoded[0].Failures)
	}
}

func TestSortByKey(t *testing.T) {
	reports := []types.ProjectReport{
		{Name: "c", Facts: map[string][]types.Claim{
			types.KeyCommitCount: {{Value: 30, Sources: []types.Kind{types.KindGit}}},
		}},
		{Name: "missing"},
		{Name: "a", Facts: map[string][]types.Claim{
			types.KeyCommitCount: {{Value: 10, Sources: []types.Kind{types.KindGit}}},
		}},
		{Name: "b", Facts: map[string][]types.Claim{
			types.KeyCommitCount: {{Value: 20, Sources: []types.Kind{types.KindGit}}},
		}},
	}

	SortByKey(reports, types.KeyCommitCount)

	got := make([]string, len(reports))
	for i, r := range reports {
		got[i] = r.Name
	}
	want := []string{"a", "b", "c", "missing"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSortByKeyTimes(t *testing.T) {
	newer := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	older := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	reports := []types.ProjectReport{
		{Name: "new", Facts: map[string][]types.Claim{
			types.KeyUpdated: {{Value: newer, Sources: []types.Kind{types.KindGit}}},
		}},
		{Name: "old", Facts: map[string][]types.Claim{
			types.KeyUpdated: {{Value: older, Sources: []types.Kind{types.KindGit}}},
		}},
	}

	SortByKey(reports, types.KeyUpdated)
	if reports[0].Name != "old" {
		t.Errorf("order = [%s, %s], want old first", reports[0].Name, reports[1].Name)
	}
}
