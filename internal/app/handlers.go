package app

import (
	"github.com/facebookgo/clock"

	httpH "github.com/yungbote/bloom-backend/internal/http/handlers"
	"github.com/yungbote/bloom-backend/internal/platform/logger"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	Pregnancy *httpH.PregnancyHandler
	Profile   *httpH.ProfileHandler
	Journal   *httpH.JournalHandler
	Content   *httpH.ContentHandler
	Narration *httpH.NarrationHandler
	Relax     *httpH.RelaxHandler
}

func wireHandlers(log *logger.Logger, clk clock.Clock, services Services, providerName string) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(providerName),
		Pregnancy: httpH.NewPregnancyHandler(clk),
		Profile:   httpH.NewProfileHandler(services.Session),
		Journal:   httpH.NewJournalHandler(services.Session),
		Content:   httpH.NewContentHandler(services.Session, services.Content),
		Narration: httpH.NewNarrationHandler(log, services.Content, services.Deck),
		Relax:     httpH.NewRelaxHandler(log, services.Session, clk),
	}
}
