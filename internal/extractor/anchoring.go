package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonesrussell/persuasion-scanner/internal/domain"
)

// Anchoring extraction patterns.
var (
	// wasNowRe matches explicit price anchoring: "Was $199, now $39",
	// "was £120 now only £30".
	wasNowRe = regexp.MustCompile(`(?i)\bwas\s+[$£€]\s?(\d+(?:\.\d{1,2})?)\b.{0,40}?\bnow\s+(?:only\s+)?[$£€]\s?(\d+(?:\.\d{1,2})?)`)
	// percentOffRe matches advertised discounts: "80% off", "save 70%".
	percentOffRe = regexp.MustCompile(`(?i)\b(?:(\d{1,3})\s?%\s?off|save\s+(?:up\s+to\s+)?(\d{1,3})\s?%)`)
	// strikePriceRe matches a struck-through price next to a sale price,
	// conventionally captured by the content builder as "~~$199~~ $39".
	strikePriceRe = regexp.MustCompile(`~~[$£€]\s?(\d+(?:\.\d{1,2})?)~~\s*[$£€]\s?(\d+(?:\.\d{1,2})?)`)
)

// AnchoringExtractor finds price-anchoring candidates: was/now pairs,
// struck-through reference prices, and large advertised discounts. The
// implied discount percentage travels with the candidate so scoring can
// apply suspicion bands.
type AnchoringExtractor struct{}

// NewAnchoringExtractor creates an anchoring extractor.
func NewAnchoringExtractor() *AnchoringExtractor {
	return &AnchoringExtractor{}
}

// Tactic returns the tactic family this extractor covers.
func (e *AnchoringExtractor) Tactic() domain.TacticType {
	return domain.TacticAnchoring
}

// Extract returns anchoring candidates from the snapshot.
func (e *AnchoringExtractor) Extract(content *domain.ContentRecord) []domain.Candidate {
	out := newCollector(domain.TacticAnchoring)
	for _, seg := range textSegments(content) {
		if attrs, ok := pricePairAttrs(seg.text); ok {
			out.add(seg.text, seg.anchor, attrs)
			continue
		}
		if pct, ok := percentOff(seg.text); ok {
			out.add(seg.text, seg.anchor, map[string]float64{"discount_pct": pct})
		}
	}
	return out.candidates()
}

// pricePairAttrs extracts original and sale price from a was/now or
// strike-price pair and derives the discount percentage.
func pricePairAttrs(text string) (map[string]float64, bool) {
	m := wasNowRe.FindStringSubmatch(text)
	if m == nil {
		m = strikePriceRe.FindStringSubmatch(text)
	}
	if m == nil {
		return nil, false
	}
	original, err1 := strconv.ParseFloat(m[1], 64)
	sale, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil || original <= 0 {
		return nil, false
	}
	attrs := map[string]float64{
		"original_price": original,
		"sale_price":     sale,
	}
	if sale < original {
		attrs["discount_pct"] = (original - sale) / original * 100
	}
	return attrs, true
}

// percentOff extracts an advertised discount percentage, if plausible.
func percentOff(text string) (float64, bool) {
	m := percentOffRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	raw := m[1]
	if raw == "" {
		raw = m[2]
	}
	pct, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || pct <= 0 || pct > 100 {
		return 0, false
	}
	return pct, true
}
