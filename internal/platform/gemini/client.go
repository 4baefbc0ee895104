// Package gemini implements content.Provider on the Google GenAI SDK.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"github.com/yungbote/bloom-backend/internal/content"
	"github.com/yungbote/bloom-backend/internal/platform/logger"
)

const (
	DefaultTextModel   = "gemini-3-flash-preview"
	DefaultImageModel  = "gemini-2.5-flash-image"
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"
	DefaultVoice       = "Kore"
)

type Config struct {
	APIKey      string
	TextModel   string
	ImageModel  string
	SpeechModel string
	Voice       string
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.TextModel) == "" {
		c.TextModel = DefaultTextModel
	}
	if strings.TrimSpace(c.ImageModel) == "" {
		c.ImageModel = DefaultImageModel
	}
	if strings.TrimSpace(c.SpeechModel) == "" {
		c.SpeechModel = DefaultSpeechModel
	}
	if strings.TrimSpace(c.Voice) == "" {
		c.Voice = DefaultVoice
	}
	return c
}

// generator is the slice of *genai.Models the client uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Client struct {
	models generator
	cfg    Config
	log    *logger.Logger
}

var _ content.Provider = (*Client)(nil)

func New(ctx context.Context, log *logger.Logger, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	sdk, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newClient(sdk.Models, log, cfg), nil
}

func newClient(models generator, log *logger.Logger, cfg Config) *Client {
	if log == nil {
		log = logger.Nop()
	}
	cfg = cfg.withDefaults()
	return &Client{
		models: models,
		cfg:    cfg,
		log:    log.With("client", "GeminiClient"),
	}
}

func (c *Client) GenerateTip(ctx context.Context, week int) (string, error) {
	resp, err := c.models.GenerateContent(ctx, c.cfg.TextModel, genai.Text(tipPrompt(week)), nil)
	if err != nil {
		return "", classify(content.KindTip, "tip", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &content.ProviderError{Kind: content.KindTip, Err: errors.New("empty response")}
	}
	return text, nil
}

var storySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":   {Type: genai.TypeString},
		"content": {Type: genai.TypeString},
	},
	Required: []string{"title", "content"},
}

func (c *Client) GenerateStory(ctx context.Context, week int, mood string) (content.Story, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   storySchema,
	}
	resp, err := c.models.GenerateContent(ctx, c.cfg.TextModel, genai.Text(storyPrompt(week, mood)), cfg)
	if err != nil {
		return content.Story{}, classify(content.KindStory, "story", err)
	}
	var out content.Story
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp.Text())), &out); err != nil {
		return content.Story{}, &content.ProviderError{Kind: content.KindStory, Err: fmt.Errorf("decode story: %w", err)}
	}
	if strings.TrimSpace(out.Title) == "" || strings.TrimSpace(out.Content) == "" {
		return content.Story{}, &content.ProviderError{Kind: content.KindStory, Err: errors.New("story missing title or content")}
	}
	return out, nil
}

func (c *Client) GenerateImage(ctx context.Context, week int, v content.Variation) (content.Image, error) {
	seed := v.Seed
	cfg := &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{AspectRatio: "1:1"},
		Seed:        &seed,
	}
	resp, err := c.models.GenerateContent(ctx, c.cfg.ImageModel, genai.Text(imagePrompt(week, v)), cfg)
	if err != nil {
		return content.Image{}, classify(content.KindImage, "image", err)
	}
	blob := firstInline(resp, "image/")
	if blob == nil {
		return content.Image{}, &content.ProviderError{Kind: content.KindImage, Err: errors.New("no inline image in response")}
	}
	mt := blob.MIMEType
	if mt == "" {
		mt = "image/png"
	}
	return content.Image{MIMEType: mt, Data: blob.Data, Variation: v}, nil
}

func (c *Client) GenerateSpeech(ctx context.Context, text string) (content.Audio, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: c.cfg.Voice},
			},
		},
	}
	resp, err := c.models.GenerateContent(ctx, c.cfg.SpeechModel, genai.Text(speechPrompt(text)), cfg)
	if err != nil {
		return content.Audio{}, classify(content.KindAudio, "speech", err)
	}
	blob := firstInline(resp, "audio/")
	if blob == nil {
		return content.Audio{}, &content.ProviderError{Kind: content.KindAudio, Err: errors.New("no inline audio in response")}
	}
	return content.Audio{
		PCM:        blob.Data,
		SampleRate: sampleRateFromMIME(blob.MIMEType, content.SpeechSampleRate),
		Channels:   content.SpeechChannels,
	}, nil
}

// firstInline returns the first inline part of the first candidate whose MIME
// type has prefix. Parts with no MIME type are accepted.
func firstInline(resp *genai.GenerateContentResponse, prefix string) *genai.Blob {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		mt := strings.ToLower(part.InlineData.MIMEType)
		if mt == "" || strings.HasPrefix(mt, prefix) {
			return part.InlineData
		}
	}
	return nil
}

// sampleRateFromMIME reads "rate=" from e.g. "audio/L16;codec=pcm;rate=24000".
func sampleRateFromMIME(mt string, def int) int {
	for _, param := range strings.Split(mt, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || !strings.EqualFold(k, "rate") {
			continue
		}
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
