package app

import (
	"fmt"

	"github.com/facebookgo/clock"

	"github.com/yungbote/bloom-backend/internal/audio"
	"github.com/yungbote/bloom-backend/internal/content"
	"github.com/yungbote/bloom-backend/internal/domain/journal"
	"github.com/yungbote/bloom-backend/internal/observability"
	"github.com/yungbote/bloom-backend/internal/pkg/randx"
	"github.com/yungbote/bloom-backend/internal/platform/logger"
	"github.com/yungbote/bloom-backend/internal/session"
)

type Services struct {
	Content *content.Orchestrator
	Session *session.Store
	Deck    *audio.Deck
}

func wireServices(log *logger.Logger, cfg Config, clk clock.Clock, metrics *observability.Metrics, provider content.Provider) (Services, error) {
	log.Info("Wiring services...")
	rnd := randx.New(cfg.RandomSeed)

	orch, err := content.New(provider,
		content.WithLogger(log),
		content.WithMetrics(metrics),
		content.WithClock(clk),
		content.WithRandom(rnd),
		content.WithRetryPolicy(cfg.RetryPolicy()),
		content.WithImageCooldown(cfg.ImageCooldown),
	)
	if err != nil {
		return Services{}, fmt.Errorf("init content orchestrator: %w", err)
	}

	opts := []session.Option{
		session.WithLogger(log),
		session.WithMetrics(metrics),
		session.WithClock(clk),
		session.WithRandom(rnd),
	}
	if cfg.SeedSampleLog {
		opts = append(opts, session.WithEntries(sampleEntries(clk)))
	}
	store := session.New(cfg.ProfileName, cfg.InitialDueDate(clk.Now()), opts...)

	deck := audio.NewDeck(log, func(r audio.EndReason) { metrics.IncPlayback(string(r)) })

	return Services{Content: orch, Session: store, Deck: deck}, nil
}

// sampleEntries is the single demo entry a fresh install starts with.
func sampleEntries(clk clock.Clock) []journal.Entry {
	return []journal.Entry{{
		ID:          "sample-1",
		CreatedAt:   clk.Now(),
		WaterIntake: 8,
		SleepHours:  7.5,
		Mood:        journal.MoodCalm,
		Notes:       "Feeling a lot of kicks today!",
	}}
}
