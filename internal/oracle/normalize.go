package oracle

import (
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnparseable indicates no normalization tier could recover a score
// from the backend's response text.
var ErrUnparseable = errors.New("backend response unparseable")

// Normalization tier names, recorded for observability and tests.
const (
	TierStrictJSON = "strict_json"
	TierFencedJSON = "fenced_json"
	TierRegex      = "regex"
	TierKeyword    = "keyword"
)

// BackendResponse is the structured shape expected somewhere inside the
// backend's free-text reply.
type BackendResponse struct {
	Detected   bool     `json:"detected"`
	Score      float64  `json:"score"`      // 0-10
	Confidence float64  `json:"confidence"` // 0-1
	Reasoning  string   `json:"reasoning"`
	Evidence   []string `json:"evidence"`
}

var (
	fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	scoreRe      = regexp.MustCompile(`(?i)\bscore\b\D{0,10}(\d+(?:\.\d+)?)`)
	ratingRe     = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(?:/|out of)\s*10\b`)
)

// NormalizeResponse recovers a BackendResponse from free text through
// explicit fallback tiers: strict JSON, fenced JSON, embedded JSON
// object, regex score extraction, then keyword inference. Returns the
// tier that succeeded.
func NormalizeResponse(raw string) (*BackendResponse, string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, "", ErrUnparseable
	}

	if resp, ok := tryJSON(trimmed); ok {
		return resp, TierStrictJSON, nil
	}
	if resp, ok := tryFencedJSON(trimmed); ok {
		return resp, TierFencedJSON, nil
	}
	if resp, ok := tryRegexScore(trimmed); ok {
		return resp, TierRegex, nil
	}
	if resp, ok := tryKeywordInference(trimmed); ok {
		return resp, TierKeyword, nil
	}
	return nil, "", ErrUnparseable
}

func tryJSON(raw string) (*BackendResponse, bool) {
	var resp BackendResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, false
	}
	sanitize(&resp)
	return &resp, true
}

// tryFencedJSON looks for a markdown-fenced JSON block, then for the
// first balanced object anywhere in the text. Minor trailing-comma
// errors are repaired before parsing.
func tryFencedJSON(raw string) (*BackendResponse, bool) {
	if m := fencedJSONRe.FindStringSubmatch(raw); m != nil {
		if resp, ok := tryJSON(repairJSON(m[1])); ok {
			return resp, true
		}
	}
	if obj := firstJSONObject(raw); obj != "" {
		if resp, ok := tryJSON(repairJSON(obj)); ok {
			return resp, true
		}
	}
	return nil, false
}

// firstJSONObject returns the first balanced {...} substring, respecting
// strings and escapes.
func firstJSONObject(raw string) string {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && c == '{':
			depth++
		case !inString && c == '}':
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}
	return ""
}

var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

func repairJSON(obj string) string {
	return trailingCommaRe.ReplaceAllString(obj, "$1")
}

// tryRegexScore pulls a numeric score out of prose ("score: 7",
// "8.5/10") and infers confidence from hedging keywords.
func tryRegexScore(raw string) (*BackendResponse, bool) {
	var score float64
	var found bool
	if m := scoreRe.FindStringSubmatch(raw); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			score, found = v, true
		}
	}
	if !found {
		if m := ratingRe.FindStringSubmatch(raw); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				score, found = v, true
			}
		}
	}
	if !found {
		return nil, false
	}
	resp := &BackendResponse{
		Score:      score,
		Confidence: inferConfidence(raw),
		Detected:   score >= 5,
		Reasoning:  "score extracted from unstructured response",
	}
	sanitize(resp)
	return resp, true
}

// tryKeywordInference is the last tier: no score anywhere, but the reply
// plainly asserts manipulation or its absence.
func tryKeywordInference(raw string) (*BackendResponse, bool) {
	lower := strings.ToLower(raw)
	negated := strings.Contains(lower, "not manipulative") ||
		strings.Contains(lower, "no manipulation") ||
		strings.Contains(lower, "benign")
	if negated {
		return &BackendResponse{
			Score:      1,
			Confidence: 0.3,
			Detected:   false,
			Reasoning:  "backend asserted no manipulation without a score",
		}, true
	}
	if strings.Contains(lower, "manipulat") || strings.Contains(lower, "deceptive") ||
		strings.Contains(lower, "dark pattern") {
		return &BackendResponse{
			Score:      6,
			Confidence: 0.3,
			Detected:   true,
			Reasoning:  "backend asserted manipulation without a score",
		}, true
	}
	return nil, false
}

// inferConfidence maps hedging language to a confidence value.
func inferConfidence(raw string) float64 {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "certain") || strings.Contains(lower, "clearly") ||
		strings.Contains(lower, "definitely"):
		return 0.85
	case strings.Contains(lower, "likely") || strings.Contains(lower, "probably"):
		return 0.6
	case strings.Contains(lower, "possibly") || strings.Contains(lower, "may be") ||
		strings.Contains(lower, "perhaps"):
		return 0.4
	default:
		return 0.5
	}
}

func sanitize(resp *BackendResponse) {
	resp.Score = clampScore(resp.Score)
	resp.Confidence = clampConfidence(resp.Confidence)
	if resp.Evidence == nil {
		resp.Evidence = []string{}
	}
}
