package extractor

import (
	"fmt"

	"github.com/jonesrussell/persuasion-scanner/internal/domain"
)

var addOnLexicon = newLexicon([]string{
	"subscribe",
	"subscription",
	"newsletter",
	"protection plan",
	"extended warranty",
	"insurance",
	"premium upgrade",
	"express shipping",
	"donation",
	"add on",
	"auto renew",
	"automatically renew",
	"recurring",
	"free trial",
})

var bundlePressureLexicon = newLexicon([]string{
	"frequently bought together",
	"complete the bundle",
	"bundle and save",
	"required with purchase",
	"cannot be removed",
	"added to your order",
})

// BundlingExtractor finds forced-bundling candidates: pre-checked opt-in
// controls for paid add-ons or subscriptions, hidden form controls, and
// bundle-pressure copy.
type BundlingExtractor struct{}

// NewBundlingExtractor creates a bundling extractor.
func NewBundlingExtractor() *BundlingExtractor {
	return &BundlingExtractor{}
}

// Tactic returns the tactic family this extractor covers.
func (e *BundlingExtractor) Tactic() domain.TacticType {
	return domain.TacticBundling
}

// Extract returns bundling candidates from the snapshot.
func (e *BundlingExtractor) Extract(content *domain.ContentRecord) []domain.Candidate {
	out := newCollector(domain.TacticBundling)
	for _, control := range content.FormControls {
		if control.Kind != "checkbox" && control.Kind != "radio" {
			continue
		}
		if !control.Checked && !control.Hidden {
			continue
		}
		if !addOnLexicon.contains(control.Label) {
			continue
		}
		attrs := map[string]float64{"prechecked": 1}
		if control.Hidden {
			attrs["hidden"] = 1
		}
		out.add(control.Label, fmt.Sprintf("form:%s", control.Kind), attrs)
	}
	for _, seg := range textSegments(content) {
		if bundlePressureLexicon.contains(seg.text) {
			out.add(seg.text, seg.anchor, nil)
		}
	}
	return out.candidates()
}
