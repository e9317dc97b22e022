package llm

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dungscout96/prompt-experiment/internal/config"
	"github.com/dungscout96/prompt-experiment/internal/models"
)

type stubProvider struct {
	name string
	resp *Response
	err  error

	lastConfig Config
	calls      int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Generate(ctx context.Context, prompt string, cfg Config) (*Response, error) {
	p.calls++
	p.lastConfig = cfg
	return p.resp, p.err
}

func (p *stubProvider) ListModels(ctx context.Context, apiKey, baseURL string) ([]models.ModelInfo, error) {
	return nil, nil
}

func newTestGateway(t *testing.T, google, ollama *stubProvider, apiKey string) *Gateway {
	t.Helper()

	registry := NewRegistry()
	if google != nil {
		registry.Register(google)
	}
	if ollama != nil {
		registry.Register(ollama)
	}

	env := config.LoadEnv(filepath.Join(t.TempDir(), ".env"))
	if apiKey != "" {
		require.NoError(t, env.Set(config.EnvGeminiAPIKey, apiKey))
	}

	return NewGateway(registry, env, "http://localhost:11434")
}

func TestComplete_RoutesByModelPrefix(t *testing.T) {
	google := &stubProvider{name: "google", resp: &Response{Text: "hosted reply"}}
	ollama := &stubProvider{name: "ollama", resp: &Response{Text: "local reply"}}
	gateway := newTestGateway(t, google, ollama, "test-key")

	text, elapsed, err := gateway.Complete(context.Background(), "gemini-1.5-flash", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "hosted reply", text)
	assert.GreaterOrEqual(t, elapsed.Nanoseconds(), int64(0))
	assert.Equal(t, 1, google.calls)
	assert.Equal(t, "test-key", google.lastConfig.APIKey)
	assert.Equal(t, 0, ollama.calls)

	text, _, err = gateway.Complete(context.Background(), "llama3:8b", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "local reply", text)
	assert.Equal(t, 1, ollama.calls)
	assert.Equal(t, "http://localhost:11434", ollama.lastConfig.BaseURL)
}

func TestComplete_MissingKeyFailsBeforeDispatch(t *testing.T) {
	google := &stubProvider{name: "google", resp: &Response{Text: "never"}}
	gateway := newTestGateway(t, google, nil, "")

	_, _, err := gateway.Complete(context.Background(), "gemini-1.5-flash", "prompt")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Equal(t, 0, google.calls, "no network call without a credential")
}

func TestComplete_ProviderErrorWrapped(t *testing.T) {
	ollama := &stubProvider{name: "ollama", err: errors.New("connection refused")}
	gateway := newTestGateway(t, nil, ollama, "")

	_, _, err := gateway.Complete(context.Background(), "llama3", "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "completion failed")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestComplete_ResponseErrorBecomesFailure(t *testing.T) {
	ollama := &stubProvider{name: "ollama", resp: &Response{Error: "model not found"}}
	gateway := newTestGateway(t, nil, ollama, "")

	_, _, err := gateway.Complete(context.Background(), "nonexistent", "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}
