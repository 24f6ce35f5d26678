package tier

// Tier is an ordinal quality bucket assigned to a model family from
// benchmark data. Ordering is S > A > B > C > Unknown.
type Tier string

const (
	TierS       Tier = "S"
	TierA       Tier = "A"
	TierB       Tier = "B"
	TierC       Tier = "C"
	TierUnknown Tier = "unknown"
)

// tierScores are fixed at table-build time and never recomputed at runtime;
// only the profile weighting varies per ranking request.
var tierScores = map[Tier]float64{
	TierS:       1.0,
	TierA:       0.8,
	TierB:       0.6,
	TierC:       0.4,
	TierUnknown: 0.3,
}

var tierRanks = map[Tier]int{
	TierS:       4,
	TierA:       3,
	TierB:       2,
	TierC:       1,
	TierUnknown: 0,
}

// orderedTiers is the scan order for pattern matching, best tier first.
var orderedTiers = []Tier{TierS, TierA, TierB, TierC}

// Score returns the fixed base score for the tier.
func (t Tier) Score() float64 {
	if s, ok := tierScores[t]; ok {
		return s
	}
	return tierScores[TierUnknown]
}

// Rank returns the ordinal position of the tier, higher is better.
func (t Tier) Rank() int {
	return tierRanks[t]
}

// Capability tags a tier record (or category pattern) can declare.
const (
	CapCoding    = "coding"
	CapReasoning = "reasoning"
	CapVision    = "vision"
	CapGeneral   = "general"
)

// Record is the result of a tier table lookup.
type Record struct {
	Tier         Tier     `json:"tier"`
	Score        float64  `json:"score"`
	Capabilities []string `json:"capabilities,omitempty"`
}

// Has reports whether the record declares the given capability tag.
func (r Record) Has(capability string) bool {
	for _, c := range r.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}
