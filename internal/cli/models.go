package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dungscout96/prompt-experiment/internal/config"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available models",
	Long:  `List models available from the local Ollama daemon and, when an API key is configured, the hosted Gemini API.`,
	RunE:  runModels,
}

func runModels(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	fmt.Printf("%sLocal models (Ollama)%s\n", HeaderStyle, Reset)
	if provider, ok := llmRegistry.Get("ollama"); ok {
		modelList, err := provider.ListModels(ctx, "", cfg.OllamaBaseURL)
		if err != nil {
			fmt.Printf("  %s⚠️  Could not reach Ollama at %s: %v%s\n", WarningStyle, cfg.OllamaBaseURL, err, Reset)
		} else if len(modelList) == 0 {
			fmt.Printf("  %s(no models pulled)%s\n", DimStyle, Reset)
		} else {
			for _, model := range modelList {
				fmt.Printf("  %s%s%s  %s%s%s\n", ValueStyle, model.Name, Reset, MetaStyle, model.Description, Reset)
			}
		}
	}

	fmt.Println()
	fmt.Printf("%sHosted models (Gemini)%s\n", HeaderStyle, Reset)
	apiKey := env.Get(config.EnvGeminiAPIKey)
	if apiKey == "" {
		fmt.Printf("  %s(GEMINI_API_KEY not set; hosted models unavailable)%s\n", DimStyle, Reset)
		return nil
	}

	provider, ok := llmRegistry.Get("google")
	if !ok {
		return fmt.Errorf("provider not found: google")
	}

	modelList, err := provider.ListModels(ctx, apiKey, "")
	if err != nil {
		return fmt.Errorf("failed to list Gemini models: %w", err)
	}
	for _, model := range modelList {
		fmt.Printf("  %s%s%s  %s%s%s\n", ValueStyle, model.Name, Reset, MetaStyle, truncateLine(model.Description, 60), Reset)
	}

	return nil
}
