package rank

import (
	"fmt"
	"sort"

	"github.com/lemony312/FreeRide/internal/catalog"
	"github.com/lemony312/FreeRide/internal/tier"
)

// Additive bonus weights. Their sum (0.09) stays below the smallest gap
// between adjacent tier base scores (0.1), so a fully-bonused model can
// never outrank an unbonused model of a higher tier.
const (
	bonusCapability = 0.05
	bonusTools      = 0.02
	bonusContext    = 0.02

	largeContext = 131072
)

// RankedModel is a catalog entry with its computed profile score. Derived
// fresh per ranking request; never persisted.
type RankedModel struct {
	Entry  catalog.ModelEntry
	Record tier.Record
	Score  float64
	Tags   []string
	Router bool
}

// Score computes the profile score for one entry. The third return value
// reports eligibility: vision hard-filters non-vision entries, and non-free
// entries are always ineligible.
func Score(entry catalog.ModelEntry, table *tier.Table, profile Profile) (float64, []string, bool) {
	if !entry.Free {
		return 0, nil, false
	}

	rec := table.Lookup(entry.ID)
	visionCapable := entry.Vision || rec.Has(tier.CapVision)
	if profile.RequireVision && !visionCapable {
		return 0, nil, false
	}

	score := rec.Score
	tags := []string{"tier:" + string(rec.Tier)}

	for _, want := range profile.Priorities {
		matched := rec.Has(want)
		if want == tier.CapVision {
			matched = visionCapable
		}
		if matched {
			score += bonusCapability
			tags = append(tags, want)
		}
	}

	if profile.PreferTools && entry.SupportsTools {
		score += bonusTools
		tags = append(tags, "tools")
	}

	if entry.ContextLength >= largeContext {
		score += bonusContext
		tags = append(tags, "context:large")
	} else if entry.ContextLength >= profile.MinContext {
		score += bonusContext / 2
		tags = append(tags, "context:ok")
	}

	return score, tags, true
}

// Rank scores every eligible entry for the profile and returns them in
// deterministic best-first order: score desc, then raw tier desc, then
// context length desc, then id asc.
func Rank(entries []catalog.ModelEntry, table *tier.Table, profileName string) ([]RankedModel, error) {
	profile, err := ProfileByName(profileName)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(entries))
	ranked := make([]RankedModel, 0, len(entries))
	for _, e := range entries {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true

		score, tags, ok := Score(e, table, profile)
		if !ok {
			continue
		}
		ranked = append(ranked, RankedModel{
			Entry:  e,
			Record: table.Lookup(e.ID),
			Score:  score,
			Tags:   tags,
			Router: table.IsRouter(e.ID),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Record.Tier.Rank() != b.Record.Tier.Rank() {
			return a.Record.Tier.Rank() > b.Record.Tier.Rank()
		}
		if a.Entry.ContextLength != b.Entry.ContextLength {
			return a.Entry.ContextLength > b.Entry.ContextLength
		}
		return a.Entry.ID < b.Entry.ID
	})

	return ranked, nil
}

// Describe renders a short score explanation, e.g. "0.870 [tier:S coding tools]".
func (m RankedModel) Describe() string {
	return fmt.Sprintf("%.3f %v", m.Score, m.Tags)
}
