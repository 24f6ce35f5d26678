package rank

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lemony312/FreeRide/internal/tier"
)

// ErrUnknownProfile rejects a profile name before any scoring happens.
var ErrUnknownProfile = errors.New("unknown profile")

// DefaultProfile is used when the caller does not name a profile.
const DefaultProfile = "general"

// Profile is a named use-case that reweights ranking. All profiles apply
// soft weighting only, except vision which hard-filters (a non-vision model
// cannot serve the use case at all).
type Profile struct {
	Name          string
	Description   string
	Priorities    []string // capability tags rewarded with an additive bonus
	PreferTools   bool
	MinContext    int  // entries below this get no context bonus
	RequireVision bool // hard filter
}

var profiles = map[string]Profile{
	"coding": {
		Name:        "coding",
		Description: "Optimized for code generation, completion, and understanding",
		Priorities:  []string{tier.CapCoding},
		PreferTools: true,
		MinContext:  32000,
	},
	"reasoning": {
		Name:        "reasoning",
		Description: "Optimized for complex reasoning, analysis, and problem-solving",
		Priorities:  []string{tier.CapReasoning},
		MinContext:  16000,
	},
	"general": {
		Name:        "general",
		Description: "Balanced profile for general-purpose chat and assistance",
		PreferTools: true,
		MinContext:  8000,
	},
	"vision": {
		Name:          "vision",
		Description:   "Optimized for image understanding and multimodal tasks",
		Priorities:    []string{tier.CapVision},
		MinContext:    8000,
		RequireVision: true,
	},
}

// ProfileByName resolves a profile name. An empty name maps to the default;
// an unknown name is an error, never a silent fallback.
func ProfileByName(name string) (Profile, error) {
	if name == "" {
		name = DefaultProfile
	}
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q (valid: %v)", ErrUnknownProfile, name, ProfileNames())
	}
	return p, nil
}

// ProfileNames lists the valid profile names in stable order.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
