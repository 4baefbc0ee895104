package content

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/facebookgo/clock"

	"github.com/yungbote/bloom-backend/internal/observability"
	"github.com/yungbote/bloom-backend/internal/pkg/randx"
	"github.com/yungbote/bloom-backend/internal/platform/logger"
)

type Option func(*Orchestrator) error

func WithLogger(log *logger.Logger) Option {
	return func(o *Orchestrator) error {
		if log == nil {
			return fmt.Errorf("logger is nil")
		}
		o.log = log
		return nil
	}
}

func WithMetrics(m *observability.Metrics) Option {
	return func(o *Orchestrator) error {
		o.metrics = m
		return nil
	}
}

func WithRetryPolicy(p RetryPolicy) Option {
	return func(o *Orchestrator) error {
		if p.MaxAttempts < 1 {
			return fmt.Errorf("retry policy needs at least one attempt, got %d", p.MaxAttempts)
		}
		if p.BaseDelay < 0 || p.BackoffFactor < 1 {
			return fmt.Errorf("invalid retry policy %+v", p)
		}
		o.retrier.Policy = p
		return nil
	}
}

// WithBackoffTimer replaces the timer used between retries.
func WithBackoffTimer(newTimer func() backoff.Timer) Option {
	return func(o *Orchestrator) error {
		o.retrier.NewTimer = newTimer
		return nil
	}
}

func WithRandom(src *randx.Source) Option {
	return func(o *Orchestrator) error {
		if src == nil {
			return fmt.Errorf("random source is nil")
		}
		o.rnd = src
		return nil
	}
}

func WithClock(clk clock.Clock) Option {
	return func(o *Orchestrator) error {
		if clk == nil {
			return fmt.Errorf("clock is nil")
		}
		o.clk = clk
		return nil
	}
}

func WithImageCooldown(d time.Duration) Option {
	return func(o *Orchestrator) error {
		if d < 0 {
			return fmt.Errorf("negative image cooldown %s", d)
		}
		o.cooldownDur = d
		return nil
	}
}

func WithCatalog(cat *Catalog) Option {
	return func(o *Orchestrator) error {
		if cat == nil {
			return fmt.Errorf("catalog is nil")
		}
		o.catalog = cat
		return nil
	}
}
