package catalog

import "time"

// ModelEntry is one row of the external catalog, reduced to the fields the
// ranking engine consumes. Entries are immutable once fetched; their lifetime
// is one cache snapshot.
type ModelEntry struct {
	ID            string `json:"id"`
	Name          string `json:"name,omitempty"`
	ContextLength int    `json:"context_length"`
	SupportsTools bool   `json:"supports_tools"`
	Vision        bool   `json:"vision"`
	Free          bool   `json:"free"`
}

// Snapshot is a point-in-time catalog of free models.
type Snapshot struct {
	FetchedAt time.Time    `json:"fetched_at"`
	Entries   []ModelEntry `json:"entries"`
}

// IDs returns the entry ids in snapshot order.
func (s Snapshot) IDs() []string {
	ids := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		ids[i] = e.ID
	}
	return ids
}
