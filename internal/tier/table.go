package tier

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// rule binds one lowercase id pattern to a tier. Rules are evaluated as an
// ordered scan so matching stays deterministic.
type rule struct {
	pattern string
	tier    Tier
}

// Table maps model identifiers to tier records via an ordered rule list,
// plus capability category patterns and router (meta-model) patterns.
// Lookup is total: an unmatched id receives the Unknown tier, never an error.
type Table struct {
	rules      []rule
	categories map[string][]string // capability tag -> lowercase patterns
	routers    []string
}

// Lookup resolves a model id to its tier record. Precedence: exact id match
// first, then the longest matching pattern (earlier rule wins a length tie,
// so a higher tier takes precedence), then the Unknown default.
func (t *Table) Lookup(modelID string) Record {
	id := strings.ToLower(modelID)

	best := rule{}
	for _, r := range t.rules {
		if r.pattern == id {
			best = r
			break
		}
		if strings.Contains(id, r.pattern) && len(r.pattern) > len(best.pattern) {
			best = r
		}
	}

	tr := TierUnknown
	if best.pattern != "" {
		tr = best.tier
	}

	return Record{
		Tier:         tr,
		Score:        tr.Score(),
		Capabilities: t.capabilities(id),
	}
}

// capabilities collects every capability tag whose category patterns match the id.
func (t *Table) capabilities(loweredID string) []string {
	var caps []string
	for _, tag := range []string{CapCoding, CapReasoning, CapVision, CapGeneral} {
		for _, p := range t.categories[tag] {
			if strings.Contains(loweredID, p) {
				caps = append(caps, tag)
				break
			}
		}
	}
	return caps
}

// IsRouter reports whether the id names a router/meta-model (the provider's
// dynamic "best available" entry) rather than a concrete model.
func (t *Table) IsRouter(modelID string) bool {
	id := strings.ToLower(modelID)
	for _, p := range t.routers {
		if strings.Contains(id, p) {
			return true
		}
	}
	return false
}

// RuleInfo is a read-only view of one tier rule, for reporting.
type RuleInfo struct {
	Pattern string
	Tier    Tier
}

// Rules returns the ordered rule list for reporting.
func (t *Table) Rules() []RuleInfo {
	out := make([]RuleInfo, len(t.rules))
	for i, r := range t.rules {
		out[i] = RuleInfo{Pattern: r.pattern, Tier: r.tier}
	}
	return out
}

// Categories returns the capability category patterns for reporting.
func (t *Table) Categories() map[string][]string {
	out := make(map[string][]string, len(t.categories))
	for tag, ps := range t.categories {
		out[tag] = append([]string(nil), ps...)
	}
	return out
}

// RouterPatterns returns the router patterns for reporting.
func (t *Table) RouterPatterns() []string {
	return append([]string(nil), t.routers...)
}

// tableFile is the benchmarks JSON shape shared with the shipped defaults.
type tableFile struct {
	Version string `json:"version,omitempty"`
	Tiers   map[string]struct {
		Score    float64  `json:"score,omitempty"`
		Patterns []string `json:"patterns"`
	} `json:"tiers"`
	CategoryBoosts map[string]struct {
		Patterns []string `json:"patterns"`
	} `json:"category_boosts,omitempty"`
	Routers struct {
		Patterns []string `json:"patterns"`
	} `json:"routers,omitempty"`
}

// LoadFile reads a benchmarks JSON file into a Table. Tier base scores stay
// fixed per tier regardless of any score the file declares.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tier table: %w", err)
	}
	t, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse tier table %s: %w", path, err)
	}
	return t, nil
}

func parse(data []byte) (*Table, error) {
	var f tableFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	t := &Table{categories: make(map[string][]string)}
	for _, tr := range orderedTiers {
		entry, ok := f.Tiers[string(tr)]
		if !ok {
			continue
		}
		for _, p := range entry.Patterns {
			p = strings.ToLower(strings.TrimSpace(p))
			if p == "" {
				continue
			}
			t.rules = append(t.rules, rule{pattern: p, tier: tr})
		}
	}
	for tag, entry := range f.CategoryBoosts {
		for _, p := range entry.Patterns {
			p = strings.ToLower(strings.TrimSpace(p))
			if p != "" {
				t.categories[tag] = append(t.categories[tag], p)
			}
		}
	}
	for _, p := range f.Routers.Patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			t.routers = append(t.routers, p)
		}
	}
	return t, nil
}
