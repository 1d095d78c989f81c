package extractor

import (
	"regexp"

	"github.com/jonesrussell/persuasion-scanner/internal/domain"
)

var misinfoLexicon = newLexicon([]string{
	"doctors hate this",
	"they don t want you to know",
	"the truth they are hiding",
	"mainstream media won t tell you",
	"miracle cure",
	"cures everything",
	"100 guaranteed",
	"scientifically proven",
	"clinically proven",
	"no side effects",
	"secret remedy",
	"wake up sheeple",
	"do your own research",
	"banned by big pharma",
})

// absolutistRe matches sweeping certainty claims: "always works",
// "never fails", "everyone knows".
var absolutistRe = regexp.MustCompile(`(?i)\b(?:always\s+works|never\s+fails|everyone\s+knows|no\s+one\s+can\s+deny|undeniable\s+proof)\b`)

// MisinformationExtractor finds misinformation-shaped claims on social
// surfaces: conspiratorial framing, miracle-cure phrasing, and
// absolutist certainty language.
type MisinformationExtractor struct{}

// NewMisinformationExtractor creates a misinformation extractor.
func NewMisinformationExtractor() *MisinformationExtractor {
	return &MisinformationExtractor{}
}

// Tactic returns the tactic family this extractor covers.
func (e *MisinformationExtractor) Tactic() domain.TacticType {
	return domain.TacticMisinformation
}

// Extract returns misinformation candidates from the snapshot.
func (e *MisinformationExtractor) Extract(content *domain.ContentRecord) []domain.Candidate {
	out := newCollector(domain.TacticMisinformation)
	for _, seg := range textSegments(content) {
		if misinfoLexicon.contains(seg.text) || absolutistRe.MatchString(seg.text) {
			out.add(seg.text, seg.anchor, nil)
		}
	}
	return out.candidates()
}
