package oracle

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/jonesrussell/persuasion-scanner/internal/domain"
)

// Heuristic scoring constants.
const (
	heuristicName = "heuristic"

	// maxHeuristicConfidence caps deterministic confidence; keyword rules
	// cannot be more certain than this.
	maxHeuristicConfidence = 0.7
	baseHeuristicConfidence = 0.5
	confidencePerSignal     = 0.05

	// Discount suspicion bands for anchoring candidates.
	discountExtreme    = 90.0
	discountSuspicious = 70.0
	discountLarge      = 50.0
	discountModerate   = 30.0

	lowStockThreshold   = 5.0
	largeCrowdThreshold = 1000.0
)

// pressurePhrases raise any tactic's base score when present; density of
// pressure language is a cross-tactic signal.
var pressurePhrases = []string{
	"now", "hurry", "fast", "instantly", "immediately", "today only",
	"last", "final", "limited", "only", "exclusive", "guaranteed",
	"free", "risk free", "don t wait", "act",
}

// heuristicBase is the starting score per tactic before signal
// adjustments.
var heuristicBase = map[domain.TacticType]float64{
	domain.TacticUrgency:        5.0,
	domain.TacticAnchoring:      3.5,
	domain.TacticSocialProof:    5.5,
	domain.TacticFOMO:           5.5,
	domain.TacticBundling:       5.0,
	domain.TacticInterface:      5.5,
	domain.TacticMisinformation: 6.0,
	domain.TacticToxicity:       6.0,
	domain.TacticBias:           5.0,
}

// HeuristicScorer scores candidates with deterministic keyword and
// threshold rules. Always available; used standalone when the generative
// backend is down and as a corroboration signal when it is up.
type HeuristicScorer struct {
	pressure        *ahocorasick.Matcher
	pressurePhrases []string
}

// NewHeuristicScorer creates a heuristic scorer.
func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{
		pressure:        ahocorasick.NewStringMatcher(pressurePhrases),
		pressurePhrases: pressurePhrases,
	}
}

// Name identifies this scorer in results and metrics.
func (h *HeuristicScorer) Name() string {
	return heuristicName
}

// Score evaluates a candidate deterministically. The same candidate
// always yields the same result.
func (h *HeuristicScorer) Score(_ context.Context, cand domain.Candidate, _ PageContext) Result {
	score := heuristicBase[cand.Tactic]
	evidence := []string{}
	signals := 1 // extraction itself is one signal

	pressureHits := h.pressureHits(cand.Text)
	if pressureHits > 0 {
		score += 0.4 * float64(min(pressureHits, 3))
		signals++
		evidence = append(evidence, fmt.Sprintf("%d pressure phrases", pressureHits))
	}

	score, evidence, signals = h.applyTacticSignals(cand, score, evidence, signals)

	confidence := baseHeuristicConfidence + confidencePerSignal*float64(signals)
	if confidence > maxHeuristicConfidence {
		confidence = maxHeuristicConfidence
	}

	score = clampScore(score)
	return Result{
		ScoreResult: domain.ScoreResult{
			Score:      score,
			Confidence: confidence,
			Rationale:  h.rationale(cand, score),
			Evidence:   evidence,
		},
		Detected: score >= heuristicBase[cand.Tactic],
		Scorer:   heuristicName,
	}
}

// applyTacticSignals adjusts the score with per-tactic numeric rules.
func (h *HeuristicScorer) applyTacticSignals(
	cand domain.Candidate, score float64, evidence []string, signals int,
) (float64, []string, int) {
	attrs := cand.Attributes
	switch cand.Tactic {
	case domain.TacticUrgency:
		if attrs["countdown"] > 0 {
			score += 1.5
			signals++
			evidence = append(evidence, "countdown timer")
		}
		if stock, ok := attrs["claimed_stock"]; ok {
			signals++
			evidence = append(evidence, fmt.Sprintf("claimed stock %.0f", stock))
			if stock <= lowStockThreshold {
				score += 1.5
			} else {
				score += 0.5
			}
		}
	case domain.TacticAnchoring:
		if pct, ok := attrs["discount_pct"]; ok {
			signals++
			evidence = append(evidence, fmt.Sprintf("discount %.0f%%", pct))
			switch {
			case pct >= discountExtreme:
				score = 9.0
			case pct >= discountSuspicious:
				// Suspicious discount: reference price is likely inflated.
				score = 8.0
			case pct >= discountLarge:
				score += 3.0
			case pct >= discountModerate:
				score += 1.5
			default:
				score += 0.5
			}
		}
		if original, ok := attrs["original_price"]; ok && roundNumber(original) {
			// Round reference prices are a weak inflated-anchor signal.
			score += 0.5
			signals++
			evidence = append(evidence, fmt.Sprintf("round anchor price %.0f", original))
		}
	case domain.TacticSocialProof:
		if count, ok := attrs["claimed_count"]; ok {
			signals++
			evidence = append(evidence, fmt.Sprintf("claimed count %.0f", count))
			if count >= largeCrowdThreshold {
				score += 1.5
			} else {
				score += 0.75
			}
		}
	case domain.TacticBundling:
		if attrs["prechecked"] > 0 {
			score += 1.5
			signals++
			evidence = append(evidence, "pre-checked control")
		}
		if attrs["hidden"] > 0 {
			score += 2.0
			signals++
			evidence = append(evidence, "hidden control")
		}
	case domain.TacticInterface:
		if attrs["confirmshame"] > 0 {
			score += 1.5
			signals++
			evidence = append(evidence, "confirmshaming copy")
		}
		if attrs["hidden_cost"] > 0 {
			score += 1.0
			signals++
			evidence = append(evidence, "hidden cost disclosure")
		}
	case domain.TacticToxicity, domain.TacticBias:
		if hits, ok := attrs["phrase_hits"]; ok && hits > 1 {
			score += 0.5 * (hits - 1)
			signals++
			evidence = append(evidence, fmt.Sprintf("%.0f lexicon hits", hits))
		}
	case domain.TacticFOMO, domain.TacticMisinformation:
		// Lexicon presence is the whole signal for these families.
	}
	return score, evidence, signals
}

func (h *HeuristicScorer) pressureHits(text string) int {
	return len(h.pressure.Match([]byte(normalizeForMatch(text))))
}

func (h *HeuristicScorer) rationale(cand domain.Candidate, score float64) string {
	return fmt.Sprintf("heuristic rules scored %s candidate at %.1f", cand.Tactic, score)
}

// roundNumber reports whether a price looks like a marketing anchor:
// a multiple of 50, or just under one (199, 149.99).
func roundNumber(price float64) bool {
	cents := price - float64(int(price))
	whole := int(price + 0.5)
	if cents >= 0.985 {
		whole = int(price) + 1
	}
	return whole%50 == 0 || (whole+1)%50 == 0
}

func normalizeForMatch(text string) string {
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
