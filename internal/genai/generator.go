// Package genai orchestrates prompt delivery to the hosted completion
// service. It owns the single-attempt contract: one request per generation,
// failures classified and returned, never retried here.
package genai

import (
	"context"
	"fmt"
	"strings"

	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/toldwithlove/toldwithlove/internal/genai/driver"
	"github.com/toldwithlove/toldwithlove/internal/genai/driver/openai"
)

// Generator sends rendered prompts to a completion driver using the fixed
// sampling parameters from configuration.
type Generator struct {
	drv    driver.Driver
	cfg    Config
	logger *logging.Logger
}

// New builds a Generator for the configured provider. The API key is
// required; its absence is a configuration error surfaced at startup, not
// per request.
func New(cfg Config, logger *logging.Logger) (*Generator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("completion api key is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("completion model is required")
	}

	provider := strings.TrimSpace(cfg.Provider)
	if provider == "" {
		provider = "openai"
	}
	if provider != "openai" {
		return nil, fmt.Errorf("unsupported completion provider: %s", provider)
	}

	client := openai.NewClient(cfg.BaseURL, cfg.APIKey)
	client.Timeout = cfg.Timeout

	return &Generator{drv: client, cfg: cfg, logger: logger}, nil
}

// NewWithDriver builds a Generator around an existing driver. Used by tests
// and by callers that manage driver construction themselves.
func NewWithDriver(drv driver.Driver, cfg Config, logger *logging.Logger) *Generator {
	return &Generator{drv: drv, cfg: cfg, logger: logger}
}

// Generate sends the persona and prompt as a two-message exchange and
// returns the trimmed completion text. Any transport, authentication, or
// service failure is logged and returned as a *GenerationError; nothing
// escapes this boundary as a panic or raw provider error.
func (g *Generator) Generate(ctx context.Context, persona, prompt string) (string, error) {
	return g.complete(ctx, persona, prompt, false)
}

// GenerateLoveStory is the dedicated love-story variant: same exchange
// shape, with the configured presence/frequency penalties applied.
func (g *Generator) GenerateLoveStory(ctx context.Context, persona, prompt string) (string, error) {
	return g.complete(ctx, persona, prompt, true)
}

func (g *Generator) complete(ctx context.Context, persona, prompt string, penalties bool) (string, error) {
	if g == nil || g.drv == nil {
		return "", &GenerationError{Kind: ErrKindProvider, Err: fmt.Errorf("generator not configured")}
	}

	temperature := g.cfg.Temperature
	req := &driver.Request{
		Model: g.cfg.Model,
		Messages: []driver.Message{
			{Role: driver.RoleSystem, Content: persona},
			{Role: driver.RoleUser, Content: prompt},
		},
		Temperature: &temperature,
	}
	if g.cfg.MaxTokens > 0 {
		maxTokens := g.cfg.MaxTokens
		req.MaxTokens = &maxTokens
	}
	if penalties {
		presence := g.cfg.PresencePenalty
		frequency := g.cfg.FrequencyPenalty
		req.PresencePenalty = &presence
		req.FrequencyPenalty = &frequency
	}

	resp, err := g.drv.Complete(ctx, req)
	if err != nil {
		genErr := classify(err)
		if g.logger != nil {
			g.logger.Error("Completion request failed",
				zap.String("provider", g.drv.Name()),
				zap.String("model", g.cfg.Model),
				zap.String("kind", string(genErr.Kind)),
				zap.Error(err))
		}
		return "", genErr
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		if g.logger != nil {
			g.logger.Warn("Completion returned empty content",
				zap.String("provider", g.drv.Name()),
				zap.String("model", g.cfg.Model))
		}
		return "", &GenerationError{Kind: ErrKindEmpty}
	}

	if g.logger != nil {
		fields := []zap.Field{
			zap.String("provider", g.drv.Name()),
			zap.String("model", g.cfg.Model),
			zap.Int("content_length", len(text)),
		}
		if resp.Usage != nil {
			fields = append(fields, zap.Int("total_tokens", resp.Usage.TotalTokens))
		}
		g.logger.Info("Completion succeeded", fields...)
	}

	return text, nil
}
