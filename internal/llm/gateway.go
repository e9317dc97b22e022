package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/dungscout96/prompt-experiment/internal/config"
	"github.com/dungscout96/prompt-experiment/internal/logger"
)

// HostedModelPrefix selects the hosted Gemini backend. Any other model name
// is sent to local inference. This is a naming convention, not a type
// distinction: every model name is accepted.
const HostedModelPrefix = "gemini"

// ErrMissingAPIKey is returned before any network call when the hosted
// backend is selected but no credential is configured.
var ErrMissingAPIKey = errors.New("missing GEMINI_API_KEY: hosted models require an API key")

// Gateway routes a completion request to the right backend and measures the
// wall-clock time of the dispatch. One attempt per call, no retries.
type Gateway struct {
	registry      *Registry
	env           *config.Env
	ollamaBaseURL string
	hostedLimit   *rate.Limiter
}

// NewGateway creates a gateway over the given provider registry.
func NewGateway(registry *Registry, env *config.Env, ollamaBaseURL string) *Gateway {
	return &Gateway{
		registry:      registry,
		env:           env,
		ollamaBaseURL: ollamaBaseURL,
		// Hosted API calls are trickled to stay inside free-tier quotas.
		hostedLimit: rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

// Complete dispatches prompt to the backend selected by the model name and
// returns the reply text with the elapsed dispatch time. The duration covers
// the backend call only, not credential resolution or rate limiting.
func (g *Gateway) Complete(ctx context.Context, model, prompt string) (string, time.Duration, error) {
	var (
		provider Provider
		cfg      = Config{Model: model}
	)

	if strings.HasPrefix(model, HostedModelPrefix) {
		apiKey := g.env.Get(config.EnvGeminiAPIKey)
		if apiKey == "" {
			return "", 0, ErrMissingAPIKey
		}
		if err := g.hostedLimit.Wait(ctx); err != nil {
			return "", 0, fmt.Errorf("completion canceled: %w", err)
		}

		p, ok := g.registry.Get("google")
		if !ok {
			return "", 0, fmt.Errorf("provider not found: google")
		}
		provider = p
		cfg.APIKey = apiKey
	} else {
		p, ok := g.registry.Get("ollama")
		if !ok {
			return "", 0, fmt.Errorf("provider not found: ollama")
		}
		provider = p
		cfg.BaseURL = g.ollamaBaseURL
	}

	startTime := time.Now()
	resp, err := provider.Generate(ctx, prompt, cfg)
	elapsed := time.Since(startTime)

	if err != nil {
		logger.Error("Completion failed for model %s after %v: %v", model, elapsed, err)
		return "", elapsed, fmt.Errorf("completion failed: %w", err)
	}
	if resp.Error != "" {
		logger.Error("Backend error for model %s after %v: %s", model, elapsed, resp.Error)
		return "", elapsed, fmt.Errorf("completion failed: %s", resp.Error)
	}

	logger.Debug("Completion for model %s succeeded in %v, response length %d", model, elapsed, len(resp.Text))
	return resp.Text, elapsed, nil
}
