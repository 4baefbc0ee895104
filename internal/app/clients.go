package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/bloom-backend/internal/content"
	"github.com/yungbote/bloom-backend/internal/platform/gemini"
	"github.com/yungbote/bloom-backend/internal/platform/logger"
)

const (
	providerGemini      = "gemini"
	providerUnavailable = "unavailable"
)

// wireProvider returns the Gemini client, or content.Unavailable when no API
// key is configured so every request settles to fallback content.
func wireProvider(ctx context.Context, log *logger.Logger, cfg Config) (content.Provider, string, error) {
	log.Info("Wiring provider...")
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		log.Warn("GEMINI_API_KEY not set, serving fallback content only")
		return content.Unavailable{}, providerUnavailable, nil
	}
	client, err := gemini.New(ctx, log, cfg.Gemini())
	if err != nil {
		return nil, "", fmt.Errorf("init gemini client: %w", err)
	}
	return client, providerGemini, nil
}
