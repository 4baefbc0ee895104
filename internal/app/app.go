package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/facebookgo/clock"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/bloom-backend/internal/http"
	"github.com/yungbote/bloom-backend/internal/observability"
	"github.com/yungbote/bloom-backend/internal/platform/logger"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Metrics  *observability.Metrics
	Services Services
	Server   *http.Server
	Provider string

	shutdownOTel func(context.Context) error
}

// New wires the app on the wall clock.
func New(ctx context.Context, cfg Config) (*App, error) {
	log, err := logger.New(cfg.LogMode, logger.WithRedaction(cfg.LogRedact), logger.WithHashSalt(cfg.LogHashSalt))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a, err := NewWithClock(ctx, cfg, log, clock.New())
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}

func NewWithClock(ctx context.Context, cfg Config, log *logger.Logger, clk clock.Clock) (*App, error) {
	if strings.HasPrefix(strings.ToLower(cfg.LogMode), "prod") {
		gin.SetMode(gin.ReleaseMode)
	}
	log.Info("Starting bloom backend", "env", cfg.AppEnv, "version", cfg.Version, "port", cfg.Port)

	shutdownOTel := observability.InitOTel(ctx, log, cfg.Otel())
	metrics := observability.NewMetrics()

	provider, providerName, err := wireProvider(ctx, log, cfg)
	if err != nil {
		_ = shutdownOTel(ctx)
		return nil, err
	}
	services, err := wireServices(log, cfg, clk, metrics, provider)
	if err != nil {
		_ = shutdownOTel(ctx)
		return nil, err
	}
	handlers := wireHandlers(log, clk, services, providerName)
	server := wireServer(log, cfg, metrics, handlers)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Metrics:      metrics,
		Services:     services,
		Server:       server,
		Provider:     providerName,
		shutdownOTel: shutdownOTel,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts the server down.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	errc := make(chan error, 1)
	go func() {
		a.Log.Info("HTTP server listening", "addr", a.Server.Addr(), "provider", a.Provider)
		errc <- a.Server.Run()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.Log.Info("Shutting down HTTP server")
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return <-errc
}

// Close stops playback and timers and flushes traces and logs.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Services.Deck != nil {
		a.Services.Deck.Stop()
	}
	if a.Services.Content != nil {
		a.Services.Content.Close()
	}
	if a.shutdownOTel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := a.shutdownOTel(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
		a.shutdownOTel = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
