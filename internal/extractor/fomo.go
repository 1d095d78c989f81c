package extractor

import "github.com/jonesrussell/persuasion-scanner/internal/domain"

var fomoLexicon = newLexicon([]string{
	"don t miss out",
	"don t miss this",
	"miss out",
	"fear of missing out",
	"exclusive offer",
	"exclusive access",
	"members only",
	"invite only",
	"once in a lifetime",
	"never again",
	"you ll regret",
	"everyone else already has",
	"be the first",
	"before it s gone",
	"gone forever",
})

// FOMOExtractor finds fear-of-missing-out framing: exclusivity and
// regret-priming language distinct from plain time pressure.
type FOMOExtractor struct{}

// NewFOMOExtractor creates a FOMO extractor.
func NewFOMOExtractor() *FOMOExtractor {
	return &FOMOExtractor{}
}

// Tactic returns the tactic family this extractor covers.
func (e *FOMOExtractor) Tactic() domain.TacticType {
	return domain.TacticFOMO
}

// Extract returns FOMO candidates from the snapshot.
func (e *FOMOExtractor) Extract(content *domain.ContentRecord) []domain.Candidate {
	out := newCollector(domain.TacticFOMO)
	for _, seg := range textSegments(content) {
		if fomoLexicon.contains(seg.text) {
			out.add(seg.text, seg.anchor, nil)
		}
	}
	return out.candidates()
}
