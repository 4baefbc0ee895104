package audio

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/bloom-backend/internal/platform/logger"
)

type EndReason string

const (
	EndFinished   EndReason = "finished"
	EndStopped    EndReason = "stopped"
	EndSuperseded EndReason = "superseded"
)

type Clip struct {
	PCM        []byte
	SampleRate int
	Channels   int
}

func (c Clip) Duration() time.Duration { return Duration(len(c.PCM), c.SampleRate, c.Channels) }

// Playback is one playing clip. Its context is cancelled when it ends for
// any reason.
type Playback struct {
	ID   string
	Clip Clip

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	reason EndReason
}

func (p *Playback) Context() context.Context { return p.ctx }

func (p *Playback) Done() <-chan struct{} { return p.done }

// Reason is empty until the playback has ended.
func (p *Playback) Reason() EndReason {
	select {
	case <-p.done:
		return p.reason
	default:
		return ""
	}
}

func (p *Playback) end(r EndReason) bool {
	ended := false
	p.once.Do(func() {
		p.reason = r
		p.cancel()
		close(p.done)
		ended = true
	})
	return ended
}

const streamChunk = 32 << 10

// WriteTo streams the clip as WAV, stopping early if the playback ends.
func (p *Playback) WriteTo(w io.Writer) (int64, error) {
	h, err := WAVHeader(len(p.Clip.PCM), p.Clip.SampleRate, p.Clip.Channels)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(h)
	written := int64(n)
	if err != nil {
		return written, err
	}
	pcm := p.Clip.PCM
	for off := 0; off < len(pcm); off += streamChunk {
		if err := p.ctx.Err(); err != nil {
			return written, err
		}
		end := off + streamChunk
		if end > len(pcm) {
			end = len(pcm)
		}
		n, err := w.Write(pcm[off:end])
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// Deck holds at most one active Playback.
type Deck struct {
	mu      sync.Mutex
	current *Playback
	log     *logger.Logger
	onEnd   func(EndReason)
}

// NewDeck calls onEnd (may be nil) once per playback that ends.
func NewDeck(log *logger.Logger, onEnd func(EndReason)) *Deck {
	if log == nil {
		log = logger.Nop()
	}
	return &Deck{log: log.With("service", "AudioDeck"), onEnd: onEnd}
}

// Play stops the current playback, if any, before starting clip.
func (d *Deck) Play(parent context.Context, clip Clip) *Playback {
	ctx, cancel := context.WithCancel(parent)
	pb := &Playback{
		ID:     uuid.NewString(),
		Clip:   clip,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	d.mu.Lock()
	prev := d.current
	if prev != nil {
		d.finish(prev, EndSuperseded)
	}
	d.current = pb
	d.mu.Unlock()

	d.log.Debug("playback started", "playback_id", pb.ID, "duration_ms", clip.Duration().Milliseconds())
	return pb
}

// Stop ends the current playback. It reports whether one was playing.
func (d *Deck) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current == nil {
		return false
	}
	d.finish(d.current, EndStopped)
	d.current = nil
	return true
}

// Finish marks pb as played to the end and releases it if it is current.
func (d *Deck) Finish(pb *Playback) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current == pb {
		d.current = nil
	}
	d.finish(pb, EndFinished)
}

func (d *Deck) Current() *Playback {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

func (d *Deck) finish(pb *Playback, r EndReason) {
	if !pb.end(r) {
		return
	}
	d.log.Debug("playback ended", "playback_id", pb.ID, "reason", string(r))
	if d.onEnd != nil {
		d.onEnd(r)
	}
}
