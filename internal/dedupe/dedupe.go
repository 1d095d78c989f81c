// Package dedupe collapses near-identical candidates before and after
// scoring so one repeated banner does not produce ten findings.
package dedupe

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jonesrussell/persuasion-scanner/internal/domain"
)

// keyPrefixRunes truncates the normalized key; marketing copy that agrees
// on its first 80 runes is the same claim.
const keyPrefixRunes = 80

// foldTransformer strips diacritics so "solde spécial" and "solde
// special" collapse to the same key.
var foldTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Deduplicator collapses candidates in two phases: exact/near duplicates
// by normalized key, then an optional one-per-type collapse for
// high-volume tactic families. Deterministic and stable: first seen wins.
type Deduplicator struct {
	// onePerType lists tactic families collapsed to a single
	// representative candidate to keep output diverse.
	onePerType map[domain.TacticType]bool
}

// New creates a Deduplicator. Tactics listed in onePerType are collapsed
// to their first candidate after the near-duplicate phase.
func New(onePerType ...domain.TacticType) *Deduplicator {
	collapse := make(map[domain.TacticType]bool, len(onePerType))
	for _, t := range onePerType {
		collapse[t] = true
	}
	return &Deduplicator{onePerType: collapse}
}

// Dedupe returns the surviving candidates in input order. Idempotent:
// Dedupe(Dedupe(x)) == Dedupe(x).
func (d *Deduplicator) Dedupe(candidates []domain.Candidate) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	typeTaken := make(map[domain.TacticType]bool)

	for _, cand := range candidates {
		key := string(cand.Tactic) + "|" + NormalizeKey(cand.Text)
		if seen[key] {
			continue
		}
		if d.onePerType[cand.Tactic] && typeTaken[cand.Tactic] {
			continue
		}
		seen[key] = true
		typeTaken[cand.Tactic] = true
		out = append(out, cand)
	}
	return out
}

// NormalizeKey produces the comparison key for a candidate text:
// diacritics folded, lowercased, whitespace collapsed, truncated prefix.
func NormalizeKey(text string) string {
	if folded, _, err := transform.String(foldTransformer, text); err == nil {
		text = folded
	}
	lowered := strings.ToLower(text)
	joined := strings.Join(strings.Fields(lowered), " ")
	r := []rune(joined)
	if len(r) > keyPrefixRunes {
		r = r[:keyPrefixRunes]
	}
	return string(r)
}
