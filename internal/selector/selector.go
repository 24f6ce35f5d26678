// Package selector builds the primary+fallback slate from a ranked model list.
package selector

import (
	"errors"

	"github.com/lemony312/FreeRide/internal/rank"
)

// ErrEmptyCatalog reports a selection attempt over no eligible models.
var ErrEmptyCatalog = errors.New("no eligible models to select from")

// Slate is the selection result written into the host configuration.
type Slate struct {
	// Primary is the chosen model id. When KeepExisting is true it carries
	// the caller's existing id verbatim, untouched by ranking.
	Primary      string
	KeepExisting bool
	// Fallbacks is deduplicated, never contains Primary (unless KeepExisting),
	// and starts with the catalog's router sentinel when one is present.
	Fallbacks []string
	// Degraded reports that fewer eligible models existed than requested.
	Degraded bool
}

// Select builds a slate from ranked (best-first) models. keepPrimary, when
// non-empty, is trusted verbatim and fallback construction proceeds
// independently. count caps the fallback list; a shorter list is not an
// error. Output is deterministic for identical inputs.
func Select(ranked []rank.RankedModel, count int, keepPrimary string) (Slate, error) {
	slate := Slate{Primary: keepPrimary, KeepExisting: keepPrimary != ""}

	if !slate.KeepExisting {
		for _, m := range ranked {
			if m.Router {
				continue
			}
			slate.Primary = m.Entry.ID
			break
		}
		if slate.Primary == "" {
			return Slate{}, ErrEmptyCatalog
		}
	}

	if count <= 0 {
		return slate, nil
	}

	// The kept primary is excluded from fallbacks too; rotating back onto the
	// model that just got exhausted would be pointless.
	used := map[string]bool{slate.Primary: true}

	// The router sentinel leads regardless of its own score: it redirects to
	// the best currently-available model, a safety net static ranking cannot
	// offer.
	for _, m := range ranked {
		if m.Router && !used[m.Entry.ID] {
			slate.Fallbacks = append(slate.Fallbacks, m.Entry.ID)
			used[m.Entry.ID] = true
			break
		}
	}

	for _, m := range ranked {
		if len(slate.Fallbacks) >= count {
			break
		}
		if m.Router || used[m.Entry.ID] {
			continue
		}
		slate.Fallbacks = append(slate.Fallbacks, m.Entry.ID)
		used[m.Entry.ID] = true
	}

	slate.Degraded = len(slate.Fallbacks) < count
	return slate, nil
}
