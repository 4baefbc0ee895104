package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/facebookgo/clock"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/bloom-backend/internal/observability"
	"github.com/yungbote/bloom-backend/internal/pkg/randx"
	"github.com/yungbote/bloom-backend/internal/platform/logger"
)

const DefaultStoryMood = "calm"

// Orchestrator settles every tip, story and image request to displayable
// content. Audio failures are returned to the caller. No lock is held across a
// provider call.
type Orchestrator struct {
	provider Provider
	log      *logger.Logger
	metrics  *observability.Metrics
	retrier  Retrier
	clk      clock.Clock
	rnd      *randx.Source

	catalog     *Catalog
	fallbacks   *Fallbacks
	variations  variationPicker
	cooldownDur time.Duration
	cooldown    *Cooldown

	// imageGate makes the cooldown check and Begin atomic, and orders cooldown
	// starts against Close.
	imageGate sync.Mutex

	tip   *Slot[string]
	story *Slot[Story]
	image *Slot[Image]
	audio *Slot[Audio]
}

func New(provider Provider, opts ...Option) (*Orchestrator, error) {
	if provider == nil {
		return nil, fmt.Errorf("content provider required")
	}
	o := &Orchestrator{
		provider:    provider,
		log:         logger.Nop(),
		retrier:     Retrier{Policy: DefaultRetryPolicy()},
		clk:         clock.New(),
		cooldownDur: DefaultImageCooldown,
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	o.log = o.log.With("service", "ContentOrchestrator")
	if o.rnd == nil {
		o.rnd = randx.New(0)
	}
	if o.catalog == nil {
		cat, err := DefaultCatalog()
		if err != nil {
			return nil, err
		}
		o.catalog = cat
	}
	fb, err := NewFallbacks(o.catalog)
	if err != nil {
		return nil, fmt.Errorf("build fallbacks: %w", err)
	}
	o.fallbacks = fb
	o.variations = variationPicker{cat: o.catalog, rnd: o.rnd}
	o.cooldown = NewCooldown(o.cooldownDur, o.clk)

	now := o.clk.Now
	o.tip = NewSlot[string](now)
	o.story = NewSlot[Story](now)
	o.image = NewSlot[Image](now)
	o.audio = NewSlot[Audio](now)
	return o, nil
}

func (o *Orchestrator) Fallbacks() *Fallbacks { return o.fallbacks }

func (o *Orchestrator) RequestTip(ctx context.Context, week int) Result[string] {
	start := o.clk.Now()
	gen := o.tip.Begin()
	v, err := call(ctx, o, KindTip, gen, func(ctx context.Context) (string, error) {
		tip, err := o.provider.GenerateTip(ctx, week)
		if err != nil {
			return "", err
		}
		tip = strings.TrimSpace(tip)
		if tip == "" {
			return "", &ProviderError{Kind: KindTip, Err: errors.New("empty tip")}
		}
		return tip, nil
	})
	return settle(o, KindTip, o.tip, gen, start, v, err, o.fallbacks.Tip)
}

func (o *Orchestrator) RequestStory(ctx context.Context, week int, mood string) Result[Story] {
	mood = strings.ToLower(strings.TrimSpace(mood))
	if mood == "" {
		mood = DefaultStoryMood
	}
	start := o.clk.Now()
	gen := o.story.Begin()
	v, err := call(ctx, o, KindStory, gen, func(ctx context.Context) (Story, error) {
		s, err := o.provider.GenerateStory(ctx, week, mood)
		if err != nil {
			return Story{}, err
		}
		s.Title, s.Content = strings.TrimSpace(s.Title), strings.TrimSpace(s.Content)
		if s.Title == "" || s.Content == "" {
			return Story{}, &ProviderError{Kind: KindStory, Err: errors.New("story missing title or content")}
		}
		return s, nil
	})
	return settle(o, KindStory, o.story, gen, start, v, err, o.fallbacks.Story)
}

// RequestImage returns a *ThrottledError, before any provider call, while the
// cooldown is running. Otherwise it always settles to an image.
func (o *Orchestrator) RequestImage(ctx context.Context, week int) (Result[Image], error) {
	o.imageGate.Lock()
	if rem := o.cooldown.Remaining(); rem > 0 {
		o.imageGate.Unlock()
		o.metrics.IncThrottled()
		o.log.Debug("image request throttled", "remaining_seconds", rem)
		return Result[Image]{}, &ThrottledError{RemainingSeconds: rem}
	}
	gen := o.image.Begin()
	o.imageGate.Unlock()

	start := o.clk.Now()
	variation := o.variations.pick(week)
	v, err := call(ctx, o, KindImage, gen, func(ctx context.Context) (Image, error) {
		img, err := o.provider.GenerateImage(ctx, week, variation)
		if err != nil {
			return Image{}, err
		}
		if len(img.Data) == 0 && img.Reference == "" {
			return Image{}, &ProviderError{Kind: KindImage, Err: errors.New("no image in response")}
		}
		img.Variation = variation
		return img, nil
	})
	if err == nil {
		o.imageGate.Lock()
		if o.image.Latest(gen) {
			o.cooldown.StartCooldown()
			o.metrics.IncCooldownStarted()
		}
		o.imageGate.Unlock()
	}
	fallback := func() Image {
		img := o.fallbacks.Image(o.rnd.Intn(o.fallbacks.ImageCount()))
		img.Variation = variation
		return img
	}
	return settle(o, KindImage, o.image, gen, start, v, err, fallback), nil
}

// RequestAudio synthesizes narration. Failures come back as *ProviderError; a
// rate limit that outlasted the retries still matches ErrRateLimited.
func (o *Orchestrator) RequestAudio(ctx context.Context, text string) (Audio, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Audio{}, ErrEmptyText
	}
	start := o.clk.Now()
	gen := o.audio.Begin()
	v, err := call(ctx, o, KindAudio, gen, func(ctx context.Context) (Audio, error) {
		a, err := o.provider.GenerateSpeech(ctx, text)
		if err != nil {
			return Audio{}, err
		}
		if len(a.PCM) == 0 {
			return Audio{}, &ProviderError{Kind: KindAudio, Err: errors.New("no audio in response")}
		}
		if a.SampleRate == 0 {
			a.SampleRate = SpeechSampleRate
		}
		if a.Channels == 0 {
			a.Channels = SpeechChannels
		}
		return a, nil
	})
	elapsed := o.clk.Now().Sub(start)
	if err != nil {
		pe := asProviderError(KindAudio, err)
		if !o.audio.Fail(gen, pe, nil) {
			o.metrics.IncStale(string(KindAudio))
		}
		o.metrics.ObserveContent(string(KindAudio), "error", elapsed)
		o.log.Warn("narration failed", "error", pe)
		return Audio{}, pe
	}
	if !o.audio.Succeed(gen, v) {
		o.metrics.IncStale(string(KindAudio))
	}
	o.metrics.ObserveContent(string(KindAudio), "success", elapsed)
	return v, nil
}

// Prefetched is the dashboard warm-up result. Image is nil when the cooldown
// rejected the request.
type Prefetched struct {
	Tip       Result[string]
	Image     *Result[Image]
	Throttled *ThrottledError
}

// Prefetch requests a tip and an image concurrently. A throttled image is
// reported in Prefetched, not as an error.
func (o *Orchestrator) Prefetch(ctx context.Context, week int) (Prefetched, error) {
	var out Prefetched
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.Tip = o.RequestTip(gctx, week)
		return nil
	})
	g.Go(func() error {
		res, err := o.RequestImage(gctx, week)
		if err != nil {
			var te *ThrottledError
			if errors.As(err, &te) {
				out.Throttled = te
				return nil
			}
			return err
		}
		out.Image = &res
		return nil
	})
	return out, g.Wait()
}

func (o *Orchestrator) CanRequestImage() bool { return o.cooldown.CanRequest() }

func (o *Orchestrator) ImageCooldownRemaining() int { return o.cooldown.Remaining() }

func (o *Orchestrator) TipSnapshot() Snapshot[string] { return o.tip.Snapshot() }
func (o *Orchestrator) StorySnapshot() Snapshot[Story] { return o.story.Snapshot() }
func (o *Orchestrator) ImageSnapshot() Snapshot[Image] { return o.image.Snapshot() }
func (o *Orchestrator) AudioSnapshot() Snapshot[Audio] { return o.audio.Snapshot() }

// MarkDisplayed moves a settled slot back to idle.
func (o *Orchestrator) MarkDisplayed(kind Kind) (Status, error) {
	switch kind {
	case KindTip:
		return o.tip.MarkDisplayed(), nil
	case KindStory:
		return o.story.MarkDisplayed(), nil
	case KindImage:
		return o.image.MarkDisplayed(), nil
	case KindAudio:
		return o.audio.MarkDisplayed(), nil
	default:
		return "", fmt.Errorf("unknown content kind %q", kind)
	}
}

// Close resets the cooldown and drops every slot. Requests still in flight
// settle as stale.
func (o *Orchestrator) Close() {
	o.imageGate.Lock()
	o.image.Clear()
	o.cooldown.Reset()
	o.imageGate.Unlock()
	o.tip.Clear()
	o.story.Clear()
	o.audio.Clear()
}

func call[T any](ctx context.Context, o *Orchestrator, kind Kind, gen uint64, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := observability.Tracer().Start(ctx, "content."+string(kind),
		trace.WithAttributes(
			attribute.String("content.kind", string(kind)),
			attribute.Int64("content.generation", int64(gen)),
		),
	)
	defer span.End()

	r := o.retrier
	r.OnRetry = func(attempt int, delay time.Duration, err error) {
		o.metrics.IncProviderRetry(string(kind))
		span.AddEvent("retry", trace.WithAttributes(
			attribute.Int("attempt", attempt),
			attribute.Int64("delay_ms", delay.Milliseconds()),
		))
		o.log.Warn("provider rate limited, retrying",
			"kind", string(kind),
			"attempt", attempt,
			"retry_in", delay.String(),
			"error", err,
		)
	}
	v, err := Retry(ctx, r, func(ctx context.Context) (T, error) {
		v, err := fn(ctx)
		o.metrics.IncProviderAttempt(string(kind), attemptStatus(err))
		return v, err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return v, err
}

func settle[T any](o *Orchestrator, kind Kind, slot *Slot[T], gen uint64, start time.Time, v T, err error, fallback func() T) Result[T] {
	res := Result[T]{Generation: gen}
	outcome := "success"
	if err != nil {
		fb := fallback()
		res.Value, res.Fallback = fb, true
		res.Stale = !slot.Fail(gen, asProviderError(kind, err), &fb)
		outcome = "fallback"
		o.log.Warn("content request failed, serving fallback",
			"kind", string(kind),
			"rate_limited", IsRateLimited(err),
			"error", err,
		)
	} else {
		res.Value = v
		res.Stale = !slot.Succeed(gen, v)
	}
	if res.Stale {
		o.metrics.IncStale(string(kind))
		o.log.Debug("discarded superseded result", "kind", string(kind), "generation", gen)
	}
	o.metrics.ObserveContent(string(kind), outcome, o.clk.Now().Sub(start))
	return res
}

func attemptStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsRateLimited(err):
		return "rate_limited"
	default:
		return "error"
	}
}
