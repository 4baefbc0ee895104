package app

import (
	"github.com/yungbote/bloom-backend/internal/http"
	"github.com/yungbote/bloom-backend/internal/observability"
	"github.com/yungbote/bloom-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers) *http.Server {
	serviceName := ""
	if cfg.OtelEnabled {
		serviceName = cfg.OtelServiceName
	}
	return http.NewServer(cfg.Addr(), http.RouterConfig{
		Log:              log,
		Metrics:          metrics,
		ServiceName:      serviceName,
		CORSOrigins:      cfg.CORSOrigins,
		HealthHandler:    handlers.Health,
		PregnancyHandler: handlers.Pregnancy,
		ProfileHandler:   handlers.Profile,
		JournalHandler:   handlers.Journal,
		ContentHandler:   handlers.Content,
		NarrationHandler: handlers.Narration,
		RelaxHandler:     handlers.Relax,
	})
}
