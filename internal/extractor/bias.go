package extractor

import "github.com/jonesrussell/persuasion-scanner/internal/domain"

var loadedFramingLexicon = newLexicon([]string{
	"so called",
	"radical agenda",
	"extremist",
	"destroying our",
	"the real truth",
	"what they won t admit",
	"shocking betrayal",
	"corrupt elites",
	"puppet of",
	"regime mouthpiece",
	"fake outrage",
})

// minBiasHits requires more than one loaded phrase per segment before a
// candidate is emitted; a single charged word is weak evidence of
// one-sided framing.
const minBiasHits = 2

// BiasExtractor finds one-sided framing on social surfaces: segments
// dense with loaded descriptors and delegitimizing labels.
type BiasExtractor struct{}

// NewBiasExtractor creates a bias extractor.
func NewBiasExtractor() *BiasExtractor {
	return &BiasExtractor{}
}

// Tactic returns the tactic family this extractor covers.
func (e *BiasExtractor) Tactic() domain.TacticType {
	return domain.TacticBias
}

// Extract returns bias candidates from the snapshot.
func (e *BiasExtractor) Extract(content *domain.ContentRecord) []domain.Candidate {
	out := newCollector(domain.TacticBias)
	for _, seg := range textSegments(content) {
		hits := loadedFramingLexicon.matches(seg.text)
		if len(hits) >= minBiasHits {
			out.add(seg.text, seg.anchor, map[string]float64{"phrase_hits": float64(len(hits))})
		}
	}
	return out.candidates()
}
