package domain

// TacticType identifies one family of manipulative persuasion tactics.
type TacticType string

// Tactic families. Commerce surfaces use the first six; social surfaces
// use the last three plus FOMO.
const (
	TacticUrgency        TacticType = "urgency"
	TacticAnchoring      TacticType = "anchoring"
	TacticSocialProof    TacticType = "social_proof"
	TacticFOMO           TacticType = "fomo"
	TacticBundling       TacticType = "bundling"
	TacticInterface      TacticType = "interface_pattern"
	TacticMisinformation TacticType = "misinformation"
	TacticToxicity       TacticType = "toxicity"
	TacticBias           TacticType = "bias"
)

// AllTactics lists every supported tactic type.
var AllTactics = []TacticType{
	TacticUrgency,
	TacticAnchoring,
	TacticSocialProof,
	TacticFOMO,
	TacticBundling,
	TacticInterface,
	TacticMisinformation,
	TacticToxicity,
	TacticBias,
}

// Candidate is a raw piece of content suspected of matching one tactic,
// before scoring. Candidates are ephemeral: created per extraction pass
// and consumed within one detection run.
type Candidate struct {
	Text   string     `json:"text"`
	Tactic TacticType `json:"tactic"`
	// Anchor optionally names where the candidate came from
	// ("body", "heading", "form:Newsletter opt-in", "link").
	Anchor string `json:"anchor,omitempty"`
	// Attributes carries extracted numeric signals, e.g.
	// "discount_pct", "original_price", "sale_price", "claimed_count".
	Attributes map[string]float64 `json:"attributes,omitempty"`
}
