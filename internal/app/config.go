package app

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/yungbote/bloom-backend/internal/content"
	"github.com/yungbote/bloom-backend/internal/domain/pregnancy"
	"github.com/yungbote/bloom-backend/internal/observability"
	"github.com/yungbote/bloom-backend/internal/platform/gemini"
)

type Config struct {
	AppEnv      string   `envconfig:"APP_ENV" default:"development"`
	LogMode     string   `envconfig:"LOG_MODE" default:"development"`
	LogRedact   bool     `envconfig:"LOG_REDACTION_ENABLED" default:"true"`
	LogHashSalt string   `envconfig:"LOG_HASH_SALT"`
	Version     string   `envconfig:"APP_VERSION" default:"dev"`
	Port        int      `envconfig:"PORT" default:"8080"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS"`

	GeminiAPIKey      string `envconfig:"GEMINI_API_KEY"`
	GeminiTextModel   string `envconfig:"GEMINI_TEXT_MODEL" default:"gemini-3-flash-preview"`
	GeminiImageModel  string `envconfig:"GEMINI_IMAGE_MODEL" default:"gemini-2.5-flash-image"`
	GeminiSpeechModel string `envconfig:"GEMINI_SPEECH_MODEL" default:"gemini-2.5-flash-preview-tts"`
	GeminiVoice       string `envconfig:"GEMINI_VOICE" default:"Kore"`

	RetryMaxAttempts   int           `envconfig:"RETRY_MAX_ATTEMPTS" default:"3"`
	RetryBaseDelay     time.Duration `envconfig:"RETRY_BASE_DELAY" default:"2s"`
	RetryBackoffFactor float64       `envconfig:"RETRY_BACKOFF_FACTOR" default:"2"`
	ImageCooldown      time.Duration `envconfig:"IMAGE_COOLDOWN" default:"5s"`

	// Empty BLOOM_DUE_DATE means week 20 as of startup.
	ProfileName   string `envconfig:"BLOOM_PROFILE_NAME" default:"Sarah"`
	DueDate       string `envconfig:"BLOOM_DUE_DATE"`
	SeedSampleLog bool   `envconfig:"BLOOM_SEED_SAMPLE_LOG" default:"true"`
	RandomSeed    int64  `envconfig:"RANDOM_SEED" default:"0"`

	OtelEnabled     bool    `envconfig:"OTEL_ENABLED" default:"false"`
	OtelServiceName string  `envconfig:"OTEL_SERVICE_NAME" default:"bloom-backend"`
	OtelExporter    string  `envconfig:"OTEL_TRACES_EXPORTER"`
	OtelEndpoint    string  `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelHeaders     string  `envconfig:"OTEL_EXPORTER_OTLP_HEADERS"`
	OtelInsecure    bool    `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"false"`
	OtelSampleRatio float64 `envconfig:"OTEL_TRACES_SAMPLER_ARG" default:"1"`
}

// LoadConfig reads an optional .env file, then the process environment.
// Variables already set in the environment win over the file.
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var problems []string
	if c.Port <= 0 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("PORT %d out of range", c.Port))
	}
	switch strings.ToLower(c.LogMode) {
	case "development", "dev", "production", "prod":
	default:
		problems = append(problems, fmt.Sprintf("LOG_MODE %q must be development or production", c.LogMode))
	}
	if c.RetryMaxAttempts < 1 {
		problems = append(problems, "RETRY_MAX_ATTEMPTS must be at least 1")
	}
	if c.RetryBaseDelay < 0 {
		problems = append(problems, "RETRY_BASE_DELAY must not be negative")
	}
	if c.RetryBackoffFactor < 1 {
		problems = append(problems, "RETRY_BACKOFF_FACTOR must be at least 1")
	}
	if c.ImageCooldown < 0 {
		problems = append(problems, "IMAGE_COOLDOWN must not be negative")
	}
	if strings.TrimSpace(c.ProfileName) == "" {
		problems = append(problems, "BLOOM_PROFILE_NAME must not be empty")
	}
	if strings.TrimSpace(c.DueDate) != "" {
		if _, err := pregnancy.ParseDueDate(c.DueDate); err != nil {
			problems = append(problems, "BLOOM_DUE_DATE: "+err.Error())
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.OtelExporter)) {
	case "", observability.ExporterOTLP, observability.ExporterConsole, observability.ExporterNone:
	default:
		problems = append(problems, fmt.Sprintf("OTEL_TRACES_EXPORTER %q must be otlp, console or none", c.OtelExporter))
	}
	if c.OtelSampleRatio < 0 || c.OtelSampleRatio > 1 {
		problems = append(problems, "OTEL_TRACES_SAMPLER_ARG must be within [0, 1]")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

func (c Config) RetryPolicy() content.RetryPolicy {
	return content.RetryPolicy{
		MaxAttempts:   c.RetryMaxAttempts,
		BaseDelay:     c.RetryBaseDelay,
		BackoffFactor: c.RetryBackoffFactor,
	}
}

func (c Config) Gemini() gemini.Config {
	return gemini.Config{
		APIKey:      c.GeminiAPIKey,
		TextModel:   c.GeminiTextModel,
		ImageModel:  c.GeminiImageModel,
		SpeechModel: c.GeminiSpeechModel,
		Voice:       c.GeminiVoice,
	}
}

func (c Config) Otel() observability.OtelConfig {
	return observability.OtelConfig{
		Enabled:     c.OtelEnabled,
		ServiceName: c.OtelServiceName,
		Environment: c.AppEnv,
		Version:     c.Version,
		Exporter:    c.OtelExporter,
		Endpoint:    c.OtelEndpoint,
		Headers:     observability.ParseHeaders(c.OtelHeaders),
		Insecure:    c.OtelInsecure,
		SampleRatio: c.OtelSampleRatio,
	}
}

// InitialDueDate is BLOOM_DUE_DATE, or the date that puts today at week 20.
func (c Config) InitialDueDate(today time.Time) time.Time {
	if d, err := pregnancy.ParseDueDate(c.DueDate); err == nil {
		return d
	}
	return pregnancy.CalendarDay(today).AddDate(0, 0, 20*7)
}
