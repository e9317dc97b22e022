package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dungscout96/prompt-experiment/internal/annotation"
	"github.com/dungscout96/prompt-experiment/internal/config"
	"github.com/dungscout96/prompt-experiment/internal/grading"
	"github.com/dungscout96/prompt-experiment/internal/llm"
	"github.com/dungscout96/prompt-experiment/internal/llm/google"
	"github.com/dungscout96/prompt-experiment/internal/llm/ollama"
	"github.com/dungscout96/prompt-experiment/internal/logger"
	"github.com/dungscout96/prompt-experiment/internal/services"
	"github.com/dungscout96/prompt-experiment/internal/store"
	"github.com/dungscout96/prompt-experiment/internal/validation"
)

var (
	cfgFile  string
	logLevel string

	cfg             *config.Config
	env             *config.Env
	llmRegistry     *llm.Registry
	gateway         *llm.Gateway
	experimentStore *store.Store
	experiments     *services.ExperimentService
	statsService    *services.StatsService
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hedprompt",
	Short: "Prompt-engineering harness for HED annotation",
	Long: `Hedprompt converts free-text event descriptions into HED (Hierarchical
Event Descriptor) annotations with a language model, validates the result
against a HED schema, grades annotation quality with a second model call,
and keeps every run as a reproducible experiment record.

Compare models and prompt variants across saved experiments.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip init for the init command itself
		if cmd.Name() == "init" {
			return nil
		}

		logger.Init(logger.ParseLogLevel(logLevel), os.Stderr)

		if cfgFile == "" {
			cfgFile = config.GetConfigPath()
		}

		if !config.Exists(cfgFile) {
			return fmt.Errorf("configuration file not found. Run 'hedprompt init' to create one")
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		env = config.LoadEnv(cfg.EnvFile)

		llmRegistry = llm.NewRegistry()
		llmRegistry.Register(ollama.New(cfg.OllamaBaseURL))
		llmRegistry.Register(google.New())

		gateway = llm.NewGateway(llmRegistry, env, cfg.OllamaBaseURL)
		experimentStore = store.New(cfg.ExperimentsDir)

		// A configured template file replaces the built-in default for
		// every run that doesn't carry its own template.
		var defaultTemplate string
		if cfg.TemplatePath != "" {
			data, err := os.ReadFile(cfg.TemplatePath)
			if err != nil {
				return fmt.Errorf("failed to read template file %s: %w", cfg.TemplatePath, err)
			}
			defaultTemplate = string(data)
		}

		experiments = services.NewExperimentService(services.ExperimentServiceConfig{
			Gateway:         gateway,
			Validator:       validation.NewClient(cfg.ValidatorURL),
			Grader:          grading.New(gateway),
			Extract:         annotation.Extract,
			Store:           experimentStore,
			VocabPath:       cfg.VocabPath,
			DefaultTemplate: defaultTemplate,
			SchemaName:      cfg.SchemaName,
			SchemaVersion:   cfg.SchemaVersion,
			GraderModel:     cfg.GraderModel,
		})
		statsService = services.NewStatsService(experimentStore)

		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.hedprompt/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "log level (DEBUG, INFO, WARNING, ERROR)")

	// Disable completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Add subcommands
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(experimentsCmd)
	rootCmd.AddCommand(statsCmd)
}
