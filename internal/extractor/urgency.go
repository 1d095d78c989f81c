package extractor

import (
	"regexp"
	"strconv"

	"github.com/jonesrussell/persuasion-scanner/internal/domain"
)

// Urgency extraction patterns.
var (
	// countdownRe matches clock-style countdowns: "02:14:33", "14:59".
	countdownRe = regexp.MustCompile(`\b\d{1,2}:\d{2}(?::\d{2})?\b`)
	// scarcityRe matches explicit stock scarcity: "Only 2 left", "just 3 remaining".
	scarcityRe = regexp.MustCompile(`(?i)\b(?:only|just)\s+(\d+)\s+(?:left|remaining|in stock|available)\b`)
	// deadlineRe matches sale deadlines: "ends in 2 hours", "expires today".
	deadlineRe = regexp.MustCompile(`(?i)\b(?:ends?|expires?|closing)\s+(?:in\s+\d+\s+\w+|today|tonight|soon|at midnight)\b`)
)

var urgencyLexicon = newLexicon([]string{
	"hurry",
	"act now",
	"act fast",
	"limited time",
	"limited stock",
	"selling fast",
	"almost gone",
	"while stocks last",
	"while supplies last",
	"time is running out",
	"flash sale",
	"last chance",
})

// UrgencyExtractor finds artificial time and stock pressure: countdown
// timers, scarcity counters, and deadline phrasing.
type UrgencyExtractor struct{}

// NewUrgencyExtractor creates an urgency extractor.
func NewUrgencyExtractor() *UrgencyExtractor {
	return &UrgencyExtractor{}
}

// Tactic returns the tactic family this extractor covers.
func (e *UrgencyExtractor) Tactic() domain.TacticType {
	return domain.TacticUrgency
}

// Extract returns urgency candidates from the snapshot.
func (e *UrgencyExtractor) Extract(content *domain.ContentRecord) []domain.Candidate {
	out := newCollector(domain.TacticUrgency)
	for _, seg := range textSegments(content) {
		if m := scarcityRe.FindStringSubmatch(seg.text); m != nil {
			attrs := map[string]float64{}
			if n, err := strconv.ParseFloat(m[1], 64); err == nil {
				attrs["claimed_stock"] = n
			}
			out.add(seg.text, seg.anchor, attrs)
			continue
		}
		if countdownRe.MatchString(seg.text) && urgencyContext(seg.text) {
			out.add(seg.text, seg.anchor, map[string]float64{"countdown": 1})
			continue
		}
		if deadlineRe.MatchString(seg.text) || urgencyLexicon.contains(seg.text) {
			out.add(seg.text, seg.anchor, nil)
		}
	}
	return out.candidates()
}

// urgencyContext filters countdown hits to segments that also carry sale
// or deadline language, so clocks and timetables do not become candidates.
var urgencyContextLexicon = newLexicon([]string{
	"sale", "offer", "deal", "ends", "expires", "left", "remaining", "hurry", "discount",
})

func urgencyContext(text string) bool {
	return urgencyContextLexicon.contains(text)
}
