package extractor

import (
	"regexp"
	"strconv"

	"github.com/jonesrussell/persuasion-scanner/internal/domain"
)

// crowdRe matches unverifiable live-activity counters: "23 people are
// viewing this", "1,204 customers bought this today".
var crowdRe = regexp.MustCompile(`(?i)\b([\d,]+)\s+(?:people|customers|shoppers|users|others)\s+(?:are\s+)?(?:viewing|looking at|watching|bought|purchased|ordered|joined|signed up)\b`)

// recentActivityRe matches recency-framed purchase claims: "someone in
// Berlin just bought", "purchased 5 minutes ago".
var recentActivityRe = regexp.MustCompile(`(?i)\b(?:someone\s+(?:in\s+\w+\s+)?just\s+(?:bought|ordered|purchased)|(?:bought|ordered|purchased)\s+\d+\s+minutes?\s+ago)\b`)

var socialProofLexicon = newLexicon([]string{
	"best seller",
	"bestseller",
	"most popular choice",
	"customer favorite",
	"trending now",
	"as seen on",
	"thousands of happy customers",
	"join millions",
	"everyone is talking about",
})

// SocialProofExtractor finds fabricated-consensus candidates: live
// viewer/buyer counters, recency-framed purchase tickers, and
// unverifiable popularity claims.
type SocialProofExtractor struct{}

// NewSocialProofExtractor creates a social proof extractor.
func NewSocialProofExtractor() *SocialProofExtractor {
	return &SocialProofExtractor{}
}

// Tactic returns the tactic family this extractor covers.
func (e *SocialProofExtractor) Tactic() domain.TacticType {
	return domain.TacticSocialProof
}

// Extract returns social proof candidates from the snapshot.
func (e *SocialProofExtractor) Extract(content *domain.ContentRecord) []domain.Candidate {
	out := newCollector(domain.TacticSocialProof)
	for _, seg := range textSegments(content) {
		if m := crowdRe.FindStringSubmatch(seg.text); m != nil {
			attrs := map[string]float64{}
			if n, err := strconv.ParseFloat(stripCommas(m[1]), 64); err == nil {
				attrs["claimed_count"] = n
			}
			out.add(seg.text, seg.anchor, attrs)
			continue
		}
		if recentActivityRe.MatchString(seg.text) || socialProofLexicon.contains(seg.text) {
			out.add(seg.text, seg.anchor, nil)
		}
	}
	return out.candidates()
}

func stripCommas(s string) string {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != ',' {
			b = append(b, s[i])
		}
	}
	return string(b)
}
