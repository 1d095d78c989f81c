package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/persuasion-scanner/internal/domain"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"empty", "", nil},
		{"single sentence", "Buy now.", []string{"Buy now."}},
		{
			"multiple sentences",
			"Only 2 left! Order today. Don't wait",
			[]string{"Only 2 left!", "Order today.", "Don't wait"},
		},
		{
			"decimal price stays whole",
			"Now only $4.99 for members.",
			[]string{"Now only $4.99 for members."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitSentences(tt.line))
		})
	}
}

func TestCollector_CapsCandidates(t *testing.T) {
	c := newCollector(domain.TacticUrgency)
	for i := 0; i < MaxCandidatesPerTactic+5; i++ {
		c.add("hurry up number "+strings.Repeat("x", i+1), "body", nil)
	}
	assert.Len(t, c.candidates(), MaxCandidatesPerTactic)
}

func TestCollector_RejectsOverlongSegments(t *testing.T) {
	c := newCollector(domain.TacticUrgency)
	c.add(strings.Repeat("a", MaxCandidateRunes+1), "body", nil)
	assert.Empty(t, c.candidates())
}

func TestCollector_LocalDedupe(t *testing.T) {
	c := newCollector(domain.TacticUrgency)
	c.add("Hurry  up", "body", nil)
	c.add("hurry up", "heading", nil)
	c.add("HURRY UP", "title", nil)

	got := c.candidates()
	require.Len(t, got, 1)
	assert.Equal(t, "Hurry  up", got[0].Text)
	assert.Equal(t, "body", got[0].Anchor)
}

func TestTextSegments_Order(t *testing.T) {
	content := &domain.ContentRecord{
		Title:    "Widget deals",
		Headings: []string{"Top offers", ""},
		Body:     "First sentence. Second sentence.",
	}
	content.Normalize()

	segs := textSegments(content)
	require.Len(t, segs, 4)
	assert.Equal(t, "Top offers", segs[0].text)
	assert.Equal(t, "heading", segs[0].anchor)
	assert.Equal(t, "Widget deals", segs[1].text)
	assert.Equal(t, "title", segs[1].anchor)
	assert.Equal(t, "First sentence.", segs[2].text)
	assert.Equal(t, "Second sentence.", segs[3].text)
}

func TestLexicon_WordBoundaries(t *testing.T) {
	lex := newLexicon([]string{"act now", "limited time"})

	assert.True(t, lex.contains("Act now, before it ends"))
	assert.True(t, lex.contains("LIMITED-TIME offer"))
	assert.False(t, lex.contains("the transaction completed"))
}
