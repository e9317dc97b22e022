package llm

import (
	"context"

	"github.com/dungscout96/prompt-experiment/internal/models"
)

// Config carries per-call generation settings.
type Config struct {
	Model   string
	APIKey  string
	BaseURL string
}

// Response is a normalized completion result from any backend.
type Response struct {
	Text       string
	TokensUsed int
	LatencyMs  int64
	Model      string
	Provider   string
	Error      string
}

// Provider is a single LLM backend
type Provider interface {
	// Name returns the provider name
	Name() string
	// Generate sends a prompt and returns the response. Backend-side
	// failures may be reported either as an error or in Response.Error.
	Generate(ctx context.Context, prompt string, config Config) (*Response, error)
	// ListModels lists text models available from the provider
	ListModels(ctx context.Context, apiKey, baseURL string) ([]models.ModelInfo, error)
}

// Registry holds the registered providers by name
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates an empty provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider to the registry
func (r *Registry) Register(provider Provider) {
	r.providers[provider.Name()] = provider
}

// Get returns a provider by name
func (r *Registry) Get(name string) (Provider, bool) {
	provider, ok := r.providers[name]
	return provider, ok
}
