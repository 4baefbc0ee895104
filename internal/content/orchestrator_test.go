package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRequestTipRetriesRateLimitThenSucceeds(t *testing.T) {
	p := &fakeProvider{
		tip: func(_ context.Context, call, week int) (string, error) {
			if call < 3 {
				return "", fmt.Errorf("tip: %w", ErrRateLimited)
			}
			return fmt.Sprintf("Week %d: rest your feet.", week), nil
		},
	}
	h := newHarness(t, p)

	res := h.o.RequestTip(context.Background(), 20)
	require.False(t, res.Fallback)
	require.Equal(t, "Week 20: rest your feet.", res.Value)
	require.EqualValues(t, 3, p.tipCalls.Load())

	delays := h.waits.Delays()
	require.Len(t, delays, 2)
	require.Greater(t, delays[1], delays[0])

	snap := h.o.TipSnapshot()
	require.Equal(t, StatusSuccess, snap.Status)
	require.Equal(t, res.Value, snap.Value)
}

func TestFallbackGuarantee(t *testing.T) {
	boom := errors.New("connection reset")
	p := &fakeProvider{
		tip:    func(context.Context, int, int) (string, error) { return "", boom },
		story:  func(context.Context, int, int, string) (Story, error) { return Story{}, boom },
		image:  func(context.Context, int, int, Variation) (Image, error) { return Image{}, boom },
		speech: func(context.Context, int, string) (Audio, error) { return Audio{}, boom },
	}
	h := newHarness(t, p)
	ctx := context.Background()
	fb := h.o.Fallbacks()

	tip := h.o.RequestTip(ctx, 12)
	require.True(t, tip.Fallback)
	require.Equal(t, fb.Tip(), tip.Value)

	story := h.o.RequestStory(ctx, 12, "tired")
	require.True(t, story.Fallback)
	require.Equal(t, fb.Story(), story.Value)

	img, err := h.o.RequestImage(ctx, 12)
	require.NoError(t, err)
	require.True(t, img.Fallback)
	require.NotEmpty(t, img.Value.Data)
	require.True(t, strings.HasPrefix(img.Value.Reference, "fallback:"))
	require.True(t, h.o.CanRequestImage(), "fallback images do not start the cooldown")

	_, err = h.o.RequestAudio(ctx, "Once upon a time")
	require.Error(t, err)
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, KindAudio, pe.Kind)
	require.ErrorIs(t, err, boom)

	for _, tc := range []struct {
		kind   Kind
		status Status
		has    bool
	}{
		{KindTip, h.o.TipSnapshot().Status, h.o.TipSnapshot().HasValue},
		{KindStory, h.o.StorySnapshot().Status, h.o.StorySnapshot().HasValue},
		{KindImage, h.o.ImageSnapshot().Status, h.o.ImageSnapshot().HasValue},
	} {
		require.Equal(t, StatusFailure, tc.status, tc.kind)
		require.True(t, tc.has, tc.kind)
	}
	require.Equal(t, StatusFailure, h.o.AudioSnapshot().Status)
	require.False(t, h.o.AudioSnapshot().HasValue)

	// None of these failures is a rate limit, so nothing was retried.
	require.Empty(t, h.waits.Delays())
	require.EqualValues(t, 1, p.tipCalls.Load())
}

func TestExhaustedRateLimitFallsBack(t *testing.T) {
	p := &fakeProvider{
		story: func(context.Context, int, int, string) (Story, error) { return Story{}, statusErr(429) },
	}
	h := newHarness(t, p)

	res := h.o.RequestStory(context.Background(), 30, "calm")
	require.True(t, res.Fallback)
	require.EqualValues(t, 3, p.storyCalls.Load())
	require.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, h.waits.Delays())
}

func TestRequestAudioSurfacesExhaustedRateLimit(t *testing.T) {
	p := &fakeProvider{
		speech: func(context.Context, int, string) (Audio, error) { return Audio{}, ErrRateLimited },
	}
	h := newHarness(t, p, WithRetryPolicy(RetryPolicy{MaxAttempts: 2, BaseDelay: time.Second, BackoffFactor: 2}))

	_, err := h.o.RequestAudio(context.Background(), "hello")
	require.ErrorIs(t, err, ErrRateLimited)
	require.EqualValues(t, 2, p.speechCalls.Load())
	require.Equal(t, []time.Duration{time.Second}, h.waits.Delays())
}

func TestRequestAudioDefaultsFormat(t *testing.T) {
	p := &fakeProvider{
		speech: func(_ context.Context, _ int, text string) (Audio, error) {
			return Audio{PCM: []byte(text)}, nil
		},
	}
	h := newHarness(t, p)

	a, err := h.o.RequestAudio(context.Background(), "  breathe  ")
	require.NoError(t, err)
	require.Equal(t, []byte("breathe"), a.PCM)
	require.Equal(t, SpeechSampleRate, a.SampleRate)
	require.Equal(t, SpeechChannels, a.Channels)
	require.Equal(t, StatusSuccess, h.o.AudioSnapshot().Status)
}

func TestRequestAudioRejectsEmptyText(t *testing.T) {
	p := &fakeProvider{}
	h := newHarness(t, p)
	_, err := h.o.RequestAudio(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyText)
	require.EqualValues(t, 0, p.speechCalls.Load())
}

func TestRequestImageStartsCooldown(t *testing.T) {
	p := &fakeProvider{
		image: func(context.Context, int, int, Variation) (Image, error) { return pngImage(1), nil },
	}
	h := newHarness(t, p)
	ctx := context.Background()

	res, err := h.o.RequestImage(ctx, 24)
	require.NoError(t, err)
	require.False(t, res.Fallback)
	require.False(t, h.o.CanRequestImage())
	require.Equal(t, 5, h.o.ImageCooldownRemaining())

	_, err = h.o.RequestImage(ctx, 24)
	require.ErrorIs(t, err, ErrThrottled)
	var te *ThrottledError
	require.ErrorAs(t, err, &te)
	require.Equal(t, 5, te.RemainingSeconds)
	require.EqualValues(t, 1, p.imageCalls.Load(), "a throttled request never reaches the provider")

	for i := 0; i < 5; i++ {
		h.clk.Add(time.Second)
		want := 4 - i
		require.Eventually(t, func() bool { return h.o.ImageCooldownRemaining() == want }, time.Second, time.Millisecond)
	}
	require.True(t, h.o.CanRequestImage())

	_, err = h.o.RequestImage(ctx, 24)
	require.NoError(t, err)
	require.EqualValues(t, 2, p.imageCalls.Load())
}

func TestRequestImageVariesBetweenRequests(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []Variation
	)
	p := &fakeProvider{
		image: func(_ context.Context, _ int, _ int, v Variation) (Image, error) {
			mu.Lock()
			seen = append(seen, v)
			mu.Unlock()
			return pngImage(1), nil
		},
	}
	h := newHarness(t, p, WithImageCooldown(0))

	first, err := h.o.RequestImage(context.Background(), 24)
	require.NoError(t, err)
	second, err := h.o.RequestImage(context.Background(), 24)
	require.NoError(t, err)

	require.Len(t, seen, 2)
	require.NotEqual(t, seen[0].Seed, seen[1].Seed)
	require.Equal(t, seen[0], first.Value.Variation)
	require.Equal(t, seen[1], second.Value.Variation)
	require.NotEmpty(t, seen[0].Subject)
}

// blockingImages lets a test decide when each provider call returns.
type blockingImages struct {
	started chan int
	release []chan struct{}
}

func newBlockingImages(n int) *blockingImages {
	b := &blockingImages{started: make(chan int, n)}
	for i := 0; i < n; i++ {
		b.release = append(b.release, make(chan struct{}))
	}
	return b
}

func (b *blockingImages) generate(ctx context.Context, call int, _ int, _ Variation) (Image, error) {
	b.started <- call
	select {
	case <-b.release[call-1]:
		return pngImage(byte(call)), nil
	case <-ctx.Done():
		return Image{}, ctx.Err()
	}
}

func TestImageRaceLatestWins(t *testing.T) {
	for _, order := range [][]int{{2, 1}, {1, 2}} {
		t.Run(fmt.Sprintf("settle_%d_then_%d", order[0], order[1]), func(t *testing.T) {
			b := newBlockingImages(2)
			p := &fakeProvider{image: b.generate}
			h := newHarness(t, p)

			results := make([]Result[Image], 2)
			var wg sync.WaitGroup
			for i := 0; i < 2; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					res, err := h.o.RequestImage(context.Background(), 24)
					if err == nil {
						results[i] = res
					}
				}(i)
				<-b.started
			}

			for _, call := range order {
				close(b.release[call-1])
			}
			wg.Wait()

			snap := h.o.ImageSnapshot()
			require.Equal(t, pngImage(2).Data, snap.Value.Data)
			require.Equal(t, StatusSuccess, snap.Status)
			require.True(t, results[0].Stale)
			require.False(t, results[1].Stale)
		})
	}
}

func TestStaleImageSuccessDoesNotRestartCooldown(t *testing.T) {
	b := newBlockingImages(2)
	h := newHarness(t, &fakeProvider{image: b.generate})

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = h.o.RequestImage(context.Background(), 24)
		}()
		<-b.started
	}

	close(b.release[1])
	require.Eventually(t, func() bool { return h.o.ImageCooldownRemaining() == 5 }, time.Second, time.Millisecond)
	h.clk.Add(time.Second)
	require.Eventually(t, func() bool { return h.o.ImageCooldownRemaining() == 4 }, time.Second, time.Millisecond)

	close(b.release[0])
	wg.Wait()
	require.Equal(t, 4, h.o.ImageCooldownRemaining())
}

func TestImageSettlingAfterCloseStartsNoCooldown(t *testing.T) {
	b := newBlockingImages(1)
	h := newHarness(t, &fakeProvider{image: b.generate})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = h.o.RequestImage(context.Background(), 24)
	}()
	<-b.started

	h.o.Close()
	close(b.release[0])
	<-done

	require.True(t, h.o.CanRequestImage())
	require.Equal(t, 0, h.o.ImageCooldownRemaining())
}

func TestStoryRaceLatestWins(t *testing.T) {
	release := []chan struct{}{make(chan struct{}), make(chan struct{})}
	started := make(chan struct{}, 2)
	p := &fakeProvider{
		story: func(_ context.Context, call int, _ int, mood string) (Story, error) {
			started <- struct{}{}
			<-release[call-1]
			return Story{Title: fmt.Sprintf("Story %d", call), Content: mood}, nil
		},
	}
	h := newHarness(t, p)

	var wg sync.WaitGroup
	for _, mood := range []string{"calm", "excited"} {
		wg.Add(1)
		go func(mood string) {
			defer wg.Done()
			h.o.RequestStory(context.Background(), 10, mood)
		}(mood)
		<-started
	}
	close(release[1])
	close(release[0])
	wg.Wait()

	require.Equal(t, Story{Title: "Story 2", Content: "excited"}, h.o.StorySnapshot().Value)
}

func TestRequestStoryNormalizesMood(t *testing.T) {
	var got string
	p := &fakeProvider{
		story: func(_ context.Context, _ int, _ int, mood string) (Story, error) {
			got = mood
			return Story{Title: "T", Content: "C"}, nil
		},
	}
	h := newHarness(t, p)

	h.o.RequestStory(context.Background(), 10, "")
	require.Equal(t, DefaultStoryMood, got)
	h.o.RequestStory(context.Background(), 10, " Joyful ")
	require.Equal(t, "joyful", got)
}

func TestRequestStoryRejectsIncompleteStory(t *testing.T) {
	p := &fakeProvider{
		story: func(context.Context, int, int, string) (Story, error) { return Story{Title: "Only a title"}, nil },
	}
	h := newHarness(t, p)
	res := h.o.RequestStory(context.Background(), 10, "calm")
	require.True(t, res.Fallback)
	require.EqualValues(t, 1, p.storyCalls.Load())
}

func TestEmptyTipFallsBack(t *testing.T) {
	p := &fakeProvider{tip: func(context.Context, int, int) (string, error) { return "  ", nil }}
	h := newHarness(t, p)
	res := h.o.RequestTip(context.Background(), 10)
	require.True(t, res.Fallback)
	require.Equal(t, "Drink plenty of water today!", res.Value)
}

func TestKindsDoNotBlockEachOther(t *testing.T) {
	releaseTip := make(chan struct{})
	tipStarted := make(chan struct{})
	p := &fakeProvider{
		tip: func(context.Context, int, int) (string, error) {
			close(tipStarted)
			<-releaseTip
			return "tip", nil
		},
		image: func(context.Context, int, int, Variation) (Image, error) { return pngImage(1), nil },
	}
	h := newHarness(t, p)

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.o.RequestTip(context.Background(), 8)
	}()
	<-tipStarted

	res, err := h.o.RequestImage(context.Background(), 8)
	require.NoError(t, err)
	require.False(t, res.Fallback)
	require.Equal(t, StatusLoading, h.o.TipSnapshot().Status)

	close(releaseTip)
	<-done
	require.Equal(t, StatusSuccess, h.o.TipSnapshot().Status)
}

func TestPrefetchRunsTipAndImage(t *testing.T) {
	p := &fakeProvider{
		tip:   func(context.Context, int, int) (string, error) { return "stretch gently", nil },
		image: func(context.Context, int, int, Variation) (Image, error) { return pngImage(3), nil },
	}
	h := newHarness(t, p)

	got, err := h.o.Prefetch(context.Background(), 16)
	require.NoError(t, err)
	require.Equal(t, "stretch gently", got.Tip.Value)
	require.NotNil(t, got.Image)
	require.Nil(t, got.Throttled)

	again, err := h.o.Prefetch(context.Background(), 16)
	require.NoError(t, err)
	require.Nil(t, again.Image)
	require.NotNil(t, again.Throttled)
	require.Equal(t, 5, again.Throttled.RemainingSeconds)
}

func TestMarkDisplayed(t *testing.T) {
	p := &fakeProvider{tip: func(context.Context, int, int) (string, error) { return "tip", nil }}
	h := newHarness(t, p)
	h.o.RequestTip(context.Background(), 8)

	st, err := h.o.MarkDisplayed(KindTip)
	require.NoError(t, err)
	require.Equal(t, StatusIdle, st)

	_, err = h.o.MarkDisplayed(Kind("video"))
	require.Error(t, err)
}

func TestCloseResetsCooldownAndSlots(t *testing.T) {
	p := &fakeProvider{image: func(context.Context, int, int, Variation) (Image, error) { return pngImage(1), nil }}
	h := newHarness(t, p)

	_, err := h.o.RequestImage(context.Background(), 8)
	require.NoError(t, err)
	require.False(t, h.o.CanRequestImage())

	h.o.Close()
	require.True(t, h.o.CanRequestImage())
	require.False(t, h.o.ImageSnapshot().HasValue)
}

func TestUnavailableProviderServesFallbacks(t *testing.T) {
	h := newHarness(t, Unavailable{})
	ctx := context.Background()

	require.True(t, h.o.RequestTip(ctx, 5).Fallback)
	require.True(t, h.o.RequestStory(ctx, 5, "").Fallback)
	img, err := h.o.RequestImage(ctx, 5)
	require.NoError(t, err)
	require.True(t, img.Fallback)
	_, err = h.o.RequestAudio(ctx, "hi")
	require.Error(t, err)
}

func TestNewValidatesOptions(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	_, err = New(Unavailable{}, WithRetryPolicy(RetryPolicy{MaxAttempts: 0}))
	require.Error(t, err)

	_, err = New(Unavailable{}, WithImageCooldown(-time.Second))
	require.Error(t, err)
}
