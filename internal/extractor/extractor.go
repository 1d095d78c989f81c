// Package extractor implements per-tactic candidate extraction. Each
// extractor is a pure function over a ContentRecord: regex and structural
// predicates pull out short text segments suspected of one manipulation
// tactic, bounded in count and length so downstream scoring is never
// flooded.
package extractor

import (
	"strings"
	"unicode"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/jonesrussell/persuasion-scanner/internal/domain"
)

// Extraction bounds shared by all extractors.
const (
	// MaxCandidatesPerTactic caps how many candidates one extractor may
	// return from a single snapshot.
	MaxCandidatesPerTactic = 10
	// MaxCandidateRunes rejects segments too long to be a single
	// persuasive claim; they only bloat the oracle call.
	MaxCandidateRunes = 300

	localDedupeKeyRunes = 80
)

// Extractor pulls candidates for one tactic family out of a snapshot.
// Implementations are pure: no I/O, no mutation of the record, and an
// empty (non-nil) slice when nothing qualifies.
type Extractor interface {
	Tactic() domain.TacticType
	Extract(content *domain.ContentRecord) []domain.Candidate
}

// segment is one extractable unit of page text with its anchor.
type segment struct {
	text   string
	anchor string
}

// textSegments splits the snapshot into line- and heading-level segments.
// Body text is split on newlines and sentence boundaries so one candidate
// covers one claim, not one paragraph.
func textSegments(content *domain.ContentRecord) []segment {
	segments := make([]segment, 0, len(content.Headings)+8)
	for _, h := range content.Headings {
		if h = strings.TrimSpace(h); h != "" {
			segments = append(segments, segment{text: h, anchor: "heading"})
		}
	}
	if title := strings.TrimSpace(content.Title); title != "" {
		segments = append(segments, segment{text: title, anchor: "title"})
	}
	for _, line := range strings.Split(content.Body, "\n") {
		for _, sentence := range splitSentences(line) {
			if sentence != "" {
				segments = append(segments, segment{text: sentence, anchor: "body"})
			}
		}
	}
	return segments
}

// splitSentences breaks a line on terminal punctuation, keeping the
// punctuation with the sentence. Exclamation-heavy marketing copy splits
// cleanly this way.
func splitSentences(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	var out []string
	start := 0
	runes := []rune(line)
	for i, r := range runes {
		if r == '.' || r == '!' || r == '?' {
			// Keep decimals like $4.99 intact.
			if r == '.' && i+1 < len(runes) && unicode.IsDigit(runes[i+1]) {
				continue
			}
			sentence := strings.TrimSpace(string(runes[start : i+1]))
			if sentence != "" {
				out = append(out, sentence)
			}
			start = i + 1
		}
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		out = append(out, tail)
	}
	return out
}

// collector accumulates candidates for one tactic with length filtering,
// local dedupe by normalized key, and the hard cap applied on emit order.
type collector struct {
	tactic domain.TacticType
	seen   map[string]bool
	out    []domain.Candidate
}

func newCollector(tactic domain.TacticType) *collector {
	return &collector{
		tactic: tactic,
		seen:   make(map[string]bool),
		out:    []domain.Candidate{},
	}
}

func (c *collector) add(text, anchor string, attrs map[string]float64) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if len([]rune(text)) > MaxCandidateRunes {
		return
	}
	key := localKey(text)
	if c.seen[key] {
		return
	}
	if len(c.out) >= MaxCandidatesPerTactic {
		return
	}
	c.seen[key] = true
	c.out = append(c.out, domain.Candidate{
		Text:       text,
		Tactic:     c.tactic,
		Anchor:     anchor,
		Attributes: attrs,
	})
}

func (c *collector) candidates() []domain.Candidate {
	return c.out
}

// localKey lowercases, collapses whitespace, and truncates, same shape as
// the cross-extractor deduplicator key so local dedupe is a strict subset.
func localKey(text string) string {
	lowered := strings.ToLower(text)
	fields := strings.Fields(lowered)
	joined := strings.Join(fields, " ")
	runes := []rune(joined)
	if len(runes) > localDedupeKeyRunes {
		runes = runes[:localDedupeKeyRunes]
	}
	return string(runes)
}

// lexicon wraps an Aho-Corasick matcher over a fixed phrase set. Matching
// is a single pass over the normalized segment text.
type lexicon struct {
	matcher *ahocorasick.Matcher
	phrases []string
}

func newLexicon(phrases []string) *lexicon {
	normalized := make([]string, len(phrases))
	for i, p := range phrases {
		normalized[i] = normalizeSegment(p)
	}
	return &lexicon{
		matcher: ahocorasick.NewStringMatcher(normalized),
		phrases: normalized,
	}
}

// matches returns the phrases present in text, in lexicon order.
func (l *lexicon) matches(text string) []string {
	hits := l.matcher.Match([]byte(normalizeSegment(text)))
	if len(hits) == 0 {
		return nil
	}
	out := make([]string, 0, len(hits))
	for _, idx := range hits {
		if idx < len(l.phrases) {
			out = append(out, l.phrases[idx])
		}
	}
	return out
}

func (l *lexicon) contains(text string) bool {
	return len(l.matcher.Match([]byte(normalizeSegment(text)))) > 0
}

// normalizeSegment lowercases and replaces non-alphanumerics with spaces,
// preserving word boundaries for the matcher.
func normalizeSegment(text string) string {
	text = strings.ToLower(text)
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
