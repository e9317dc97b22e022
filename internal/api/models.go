package api

import (
	"github.com/gin-gonic/gin"

	"github.com/dungscout96/prompt-experiment/internal/config"
	"github.com/dungscout96/prompt-experiment/internal/logger"
	"github.com/dungscout96/prompt-experiment/internal/models"
)

// Known Gemini models offered when the hosted API can't be queried.
var defaultGeminiModels = []models.ModelInfo{
	{ID: "gemini-1.5-flash", Name: "gemini-1.5-flash"},
	{ID: "gemini-1.5-pro", Name: "gemini-1.5-pro"},
	{ID: "gemini-2.0-flash", Name: "gemini-2.0-flash"},
}

// Fallback when the local Ollama daemon is unreachable.
var defaultOllamaModels = []models.ModelInfo{
	{ID: "qwen3:8b", Name: "qwen3:8b"},
	{ID: "llama3:8b", Name: "llama3:8b"},
	{ID: "mistral:7b", Name: "mistral:7b"},
	{ID: "gemma:7b", Name: "gemma:7b"},
}

// listModels handles GET /api/v1/models
func (s *Server) listModels(c *gin.Context) {
	ctx := c.Request.Context()

	ollamaModels := defaultOllamaModels
	if provider, ok := s.registry.Get("ollama"); ok {
		if live, err := provider.ListModels(ctx, "", s.cfg.OllamaBaseURL); err != nil {
			logger.Warning("Failed to list Ollama models, using defaults: %v", err)
		} else if len(live) > 0 {
			ollamaModels = live
		}
	}

	geminiModels := defaultGeminiModels
	if apiKey := s.env.Get(config.EnvGeminiAPIKey); apiKey != "" {
		if provider, ok := s.registry.Get("google"); ok {
			if live, err := provider.ListModels(ctx, apiKey, ""); err != nil {
				logger.Warning("Failed to list Gemini models, using defaults: %v", err)
			} else if len(live) > 0 {
				geminiModels = live
			}
		}
	}

	s.successResponse(c, map[string][]models.ModelInfo{
		"ollama": ollamaModels,
		"gemini": geminiModels,
	})
}
