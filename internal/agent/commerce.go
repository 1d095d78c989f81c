package agent

import (
	"strings"

	"github.com/jonesrussell/persuasion-scanner/internal/dedupe"
	"github.com/jonesrussell/persuasion-scanner/internal/domain"
	"github.com/jonesrussell/persuasion-scanner/internal/extractor"
	"github.com/jonesrussell/persuasion-scanner/internal/logger"
	"github.com/jonesrussell/persuasion-scanner/internal/oracle"
	"github.com/jonesrussell/persuasion-scanner/internal/telemetry"
)

// CommerceAgentKey identifies the commerce agent in the registry and the
// config store.
const CommerceAgentKey = "commerce"

// commerceSignals are body/metadata markers that identify a shopping
// surface when the page type is inconclusive.
var commerceSignals = []string{
	"add to cart", "add to basket", "checkout", "buy now",
	"free shipping", "in stock", "price", "order now",
}

// DefaultCommerceConfig returns the commerce agent's default
// configuration: full sensitivity with moderate per-tactic thresholds.
func DefaultCommerceConfig() *domain.AgentConfig {
	return &domain.AgentConfig{
		Enabled:     true,
		Sensitivity: 1.0,
		Thresholds: map[domain.TacticType]float64{
			domain.TacticUrgency:     4.0,
			domain.TacticAnchoring:   4.5,
			domain.TacticSocialProof: 4.5,
			domain.TacticFOMO:        4.5,
			domain.TacticBundling:    4.0,
			domain.TacticInterface:   4.0,
		},
	}
}

// NewCommerceAgent creates the commerce surface agent: urgency,
// anchoring, social proof, FOMO, bundling, and interface-pattern
// detection on shopping pages.
func NewCommerceAgent(
	scorer oracle.Scorer,
	tp *telemetry.Provider,
	log logger.Logger,
) *SurfaceAgent {
	extractors := []extractor.Extractor{
		extractor.NewUrgencyExtractor(),
		extractor.NewAnchoringExtractor(),
		extractor.NewSocialProofExtractor(),
		extractor.NewFOMOExtractor(),
		extractor.NewBundlingExtractor(),
		extractor.NewInterfaceExtractor(),
	}
	// Social proof banners repeat heavily on listing pages; keep one.
	dedup := dedupe.New(domain.TacticSocialProof)
	return NewSurfaceAgent(
		CommerceAgentKey, "Commerce Manipulation Agent",
		extractors, commerceCanHandle, scorer, dedup, tp, log,
	)
}

// commerceCanHandle applies on commerce page types, or when the snapshot
// carries enough shopping markers.
func commerceCanHandle(content *domain.ContentRecord) bool {
	switch content.PageType {
	case domain.PageTypeProduct, domain.PageTypeCheckout, domain.PageTypeListing:
		return true
	case domain.PageTypeSocial:
		return false
	case domain.PageTypeArticle, domain.PageTypeUnknown:
		// Fall through to keyword heuristics.
	}
	if content.Metadata["og:type"] == "product" {
		return true
	}
	body := strings.ToLower(content.Body)
	hits := 0
	for _, signal := range commerceSignals {
		if strings.Contains(body, signal) {
			hits++
			if hits >= 2 {
				return true
			}
		}
	}
	return false
}
