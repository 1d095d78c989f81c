package extractor

import "github.com/jonesrussell/persuasion-scanner/internal/domain"

// confirmshameLexicon covers decline-option copy written to shame the
// user out of declining.
var confirmshameLexicon = newLexicon([]string{
	"no thanks i like paying full price",
	"no i don t want to save",
	"i don t care about my",
	"i prefer to pay more",
	"i hate free stuff",
	"no i like missing out",
})

var hiddenCostLexicon = newLexicon([]string{
	"additional fees may apply",
	"fees apply at checkout",
	"plus applicable fees",
	"service charge added",
	"price excludes",
	"billed annually",
	"after the trial ends you will be charged",
})

var trickDismissLexicon = newLexicon([]string{
	"maybe later",
	"remind me later",
	"not now",
	"continue without",
})

// InterfaceExtractor finds deceptive interface-pattern candidates:
// confirmshaming decline links, hidden-cost disclosures buried in body
// copy, and dismissals that defer rather than decline.
type InterfaceExtractor struct{}

// NewInterfaceExtractor creates an interface-pattern extractor.
func NewInterfaceExtractor() *InterfaceExtractor {
	return &InterfaceExtractor{}
}

// Tactic returns the tactic family this extractor covers.
func (e *InterfaceExtractor) Tactic() domain.TacticType {
	return domain.TacticInterface
}

// Extract returns interface-pattern candidates from the snapshot.
func (e *InterfaceExtractor) Extract(content *domain.ContentRecord) []domain.Candidate {
	out := newCollector(domain.TacticInterface)
	for _, link := range content.Links {
		if confirmshameLexicon.contains(link.Text) {
			out.add(link.Text, "link", map[string]float64{"confirmshame": 1})
			continue
		}
		if trickDismissLexicon.contains(link.Text) {
			out.add(link.Text, "link", nil)
		}
	}
	for _, seg := range textSegments(content) {
		if confirmshameLexicon.contains(seg.text) {
			out.add(seg.text, seg.anchor, map[string]float64{"confirmshame": 1})
			continue
		}
		if hiddenCostLexicon.contains(seg.text) {
			out.add(seg.text, seg.anchor, map[string]float64{"hidden_cost": 1})
		}
	}
	return out.candidates()
}
