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

// SocialAgentKey identifies the social agent in the registry and the
// config store.
const SocialAgentKey = "social"

// socialDomains are hosts treated as social surfaces regardless of page
// type classification.
var socialDomains = []string{
	"twitter.com", "x.com", "facebook.com", "instagram.com",
	"tiktok.com", "reddit.com", "threads.net", "mastodon.social",
}

// DefaultSocialConfig returns the social agent's default configuration.
// Misinformation and toxicity carry lower thresholds: on feeds, fewer
// missed detections matter more than occasional noise.
func DefaultSocialConfig() *domain.AgentConfig {
	return &domain.AgentConfig{
		Enabled:     true,
		Sensitivity: 1.0,
		Thresholds: map[domain.TacticType]float64{
			domain.TacticMisinformation: 4.0,
			domain.TacticToxicity:       4.0,
			domain.TacticBias:           5.0,
			domain.TacticFOMO:           5.0,
		},
	}
}

// NewSocialAgent creates the social surface agent: misinformation,
// toxicity, bias, and FOMO detection on feed content.
func NewSocialAgent(
	scorer oracle.Scorer,
	tp *telemetry.Provider,
	log logger.Logger,
) *SurfaceAgent {
	extractors := []extractor.Extractor{
		extractor.NewMisinformationExtractor(),
		extractor.NewToxicityExtractor(),
		extractor.NewBiasExtractor(),
		extractor.NewFOMOExtractor(),
	}
	dedup := dedupe.New()
	return NewSurfaceAgent(
		SocialAgentKey, "Social Feed Agent",
		extractors, socialCanHandle, scorer, dedup, tp, log,
	)
}

// socialCanHandle applies on social page types and known social hosts.
func socialCanHandle(content *domain.ContentRecord) bool {
	if content.PageType == domain.PageTypeSocial {
		return true
	}
	host := content.Domain()
	for _, d := range socialDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return content.Metadata["og:type"] == "article" &&
		strings.Contains(strings.ToLower(content.Body), "shares")
}
