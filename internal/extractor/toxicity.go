package extractor

import "github.com/jonesrussell/persuasion-scanner/internal/domain"

var toxicityLexicon = newLexicon([]string{
	"you are an idiot",
	"you people are",
	"absolute garbage",
	"pathetic loser",
	"subhuman",
	"vermin",
	"parasites",
	"deserve to suffer",
	"go back to where",
	"these animals",
	"filthy",
	"disgusting people",
})

// ToxicityExtractor finds attack and dehumanization language on social
// surfaces. Single slurs out of context stay below the extraction bar;
// the lexicon targets directed phrases.
type ToxicityExtractor struct{}

// NewToxicityExtractor creates a toxicity extractor.
func NewToxicityExtractor() *ToxicityExtractor {
	return &ToxicityExtractor{}
}

// Tactic returns the tactic family this extractor covers.
func (e *ToxicityExtractor) Tactic() domain.TacticType {
	return domain.TacticToxicity
}

// Extract returns toxicity candidates from the snapshot.
func (e *ToxicityExtractor) Extract(content *domain.ContentRecord) []domain.Candidate {
	out := newCollector(domain.TacticToxicity)
	for _, seg := range textSegments(content) {
		if hits := toxicityLexicon.matches(seg.text); len(hits) > 0 {
			out.add(seg.text, seg.anchor, map[string]float64{"phrase_hits": float64(len(hits))})
		}
	}
	return out.candidates()
}
