package cli

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dungscout96/prompt-experiment/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize hedprompt configuration",
	Long:  `Interactive wizard to set up hedprompt configuration including backends, vocabulary location and the Gemini API key.`,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("🚀 Welcome to Hedprompt - HED Annotation Harness Setup")
	fmt.Println("======================================================")
	fmt.Println()

	// Check if config already exists
	configPath := config.GetConfigPath()
	if config.Exists(configPath) {
		fmt.Printf("Configuration file already exists at: %s\n", configPath)
		confirmed, err := promptYesNo(reader, "Do you want to overwrite it? (y/N): ")
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()

	fmt.Println("\n📁 Storage")
	fmt.Println("----------")

	experimentsDir, err := promptOptional(reader, fmt.Sprintf("Experiments directory [%s]: ", cfg.ExperimentsDir), cfg.ExperimentsDir)
	if err != nil {
		return err
	}
	cfg.ExperimentsDir = experimentsDir

	vocabPath, err := promptOptional(reader, fmt.Sprintf("HED vocabulary file [%s]: ", cfg.VocabPath), cfg.VocabPath)
	if err != nil {
		return err
	}
	cfg.VocabPath = vocabPath

	fmt.Println("\n🤖 Backends")
	fmt.Println("-----------")

	ollamaURL, err := promptOptional(reader, fmt.Sprintf("Ollama base URL [%s]: ", cfg.OllamaBaseURL), cfg.OllamaBaseURL)
	if err != nil {
		return err
	}
	cfg.OllamaBaseURL = ollamaURL

	graderModel, err := promptOptional(reader, fmt.Sprintf("Grader model [%s]: ", cfg.GraderModel), cfg.GraderModel)
	if err != nil {
		return err
	}
	cfg.GraderModel = graderModel

	fmt.Println("\n🔍 Validation")
	fmt.Println("-------------")

	validatorURL, err := promptOptional(reader, fmt.Sprintf("HED validation service URL [%s]: ", cfg.ValidatorURL), cfg.ValidatorURL)
	if err != nil {
		return err
	}
	cfg.ValidatorURL = validatorURL

	schemaVersion, err := promptOptional(reader, fmt.Sprintf("HED schema version [%s]: ", cfg.SchemaVersion), cfg.SchemaVersion)
	if err != nil {
		return err
	}
	cfg.SchemaVersion = schemaVersion

	fmt.Println("\n🔑 Credentials")
	fmt.Println("--------------")

	apiKey, err := promptOptional(reader, "Gemini API key (leave empty to skip hosted models): ", "")
	if err != nil {
		return err
	}
	if apiKey != "" {
		envStore := config.LoadEnv(cfg.EnvFile)
		if err := envStore.Set(config.EnvGeminiAPIKey, apiKey); err != nil {
			return fmt.Errorf("failed to save API key: %w", err)
		}
		fmt.Printf("✅ API key saved to %s (%s)\n", cfg.EnvFile, config.MaskKey(apiKey))
	}

	fmt.Println("\n💾 Saving configuration...")
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("✅ Configuration saved to: %s\n", configPath)
	fmt.Println()
	fmt.Println("🎉 Setup complete!")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Place your HED vocabulary at the configured path")
	fmt.Println("  2. Run an experiment: hedprompt run -m qwen3:8b -d \"A red ball rolls across the floor.\"")
	fmt.Println("  3. Start the API server: hedprompt api")

	return nil
}
