// Package content orchestrates generated tips, stories, images and narration
// audio: bounded retries on rate limits, safe fallbacks, an image cooldown and
// latest-wins result slots per content kind.
package content

import (
	"context"
	"encoding/base64"
)

type Kind string

const (
	KindTip   Kind = "tip"
	KindStory Kind = "story"
	KindImage Kind = "image"
	KindAudio Kind = "audio"
)

type Story struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Image struct {
	MIMEType  string    `json:"mime_type"`
	Data      []byte    `json:"-"`
	Reference string    `json:"reference,omitempty"`
	Variation Variation `json:"variation"`
}

// DataURI inlines the image bytes; it falls back to Reference when there are
// no bytes.
func (i Image) DataURI() string {
	if len(i.Data) == 0 {
		return i.Reference
	}
	mt := i.MIMEType
	if mt == "" {
		mt = "image/png"
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// Audio is raw little-endian 16-bit PCM.
type Audio struct {
	PCM        []byte `json:"-"`
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

const (
	SpeechSampleRate = 24000
	SpeechChannels   = 1
)

// Provider is the remote generative service. Implementations report a
// rate-limit failure with an error matching ErrRateLimited (or carrying HTTP
// status 429); anything else is treated as non-retryable.
type Provider interface {
	GenerateTip(ctx context.Context, week int) (string, error)
	GenerateStory(ctx context.Context, week int, mood string) (Story, error)
	GenerateImage(ctx context.Context, week int, v Variation) (Image, error)
	GenerateSpeech(ctx context.Context, text string) (Audio, error)
}

// Result is what tip, story and image requests settle to. Fallback is set when
// Value came from the local catalog. Stale is set when a newer request of the
// same kind started before this one settled, so the slot kept the newer one.
type Result[T any] struct {
	Value      T      `json:"value"`
	Fallback   bool   `json:"fallback"`
	Stale      bool   `json:"stale"`
	Generation uint64 `json:"generation"`
}
