package content

import (
	"context"
	"errors"
)

var errNoProvider = errors.New("generative provider not configured")

// Unavailable fails every call, so the app runs on fallbacks alone.
type Unavailable struct{}

func (Unavailable) GenerateTip(context.Context, int) (string, error) {
	return "", &ProviderError{Kind: KindTip, Err: errNoProvider}
}

func (Unavailable) GenerateStory(context.Context, int, string) (Story, error) {
	return Story{}, &ProviderError{Kind: KindStory, Err: errNoProvider}
}

func (Unavailable) GenerateImage(context.Context, int, Variation) (Image, error) {
	return Image{}, &ProviderError{Kind: KindImage, Err: errNoProvider}
}

func (Unavailable) GenerateSpeech(context.Context, string) (Audio, error) {
	return Audio{}, &ProviderError{Kind: KindAudio, Err: errNoProvider}
}
