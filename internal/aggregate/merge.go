// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"time"

	"github.com/pdiddy/project-stats/pkg/types"
)

// apply merges one source's facts into the report. Callers apply fact
// sets in precedence order, so the first claim recorded for a key is the
// winning value; later sources agreeing with an existing claim attach to
// it, disagreeing sources add a superseded claim. No reported value is
// ever dropped.
func apply(report *types.ProjectReport, facts types.Facts, kind types.Kind) {
	for key, value := range facts {
		if emptyValue(value) {
			continue
		}
		claims := report.Facts[key]

		attached := false
		for i := range claims {
			if claimEqual(claims[i].Value, value) {
				claims[i].Sources = append(claims[i].Sources, kind)
				attached = true
				break
			}
		}
		if !attached {
			claims = append(claims, types.Claim{Value: value, Sources: []types.Kind{kind}})
		}
		report.Facts[key] = claims
	}
}

// emptyValue reports whether a fact value carries no information. Zero
// counts and false flags are real facts and are kept.
func emptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case time.Time:
		return t.IsZero()
	}
	return false
}

func claimEqual(a, b any) bool {
	ta, aok := a.(time.Time)
	tb, bok := b.(time.Time)
	if aok || bok {
		return aok && bok && ta.Equal(tb)
	}
	return a == b
}
