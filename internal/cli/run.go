package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dungscout96/prompt-experiment/internal/services"
)

var (
	runModel        string
	runDescription  string
	runTemplateFile string
	runGraderModel  string
	runSave         bool
	runName         string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the annotation pipeline once",
	Long: `Render the annotation prompt for a description, send it to the selected
model, extract and validate the annotation, and grade its quality.

Model names starting with "gemini" go to the hosted Gemini API (requires
GEMINI_API_KEY); everything else goes to the local Ollama daemon.`,
	RunE: runCommand,
}

func init() {
	runCmd.Flags().StringVarP(&runModel, "model", "m", "", "Model to annotate with (required)")
	runCmd.Flags().StringVarP(&runDescription, "description", "d", "", "Event description to annotate (required)")
	runCmd.Flags().StringVarP(&runTemplateFile, "template", "t", "", "Prompt template file (default: built-in template)")
	runCmd.Flags().StringVarP(&runGraderModel, "grader", "g", "", "Grader model (default: from config)")
	runCmd.Flags().BoolVarP(&runSave, "save", "s", false, "Save the run as an experiment record")
	runCmd.Flags().StringVarP(&runName, "name", "n", "", "Experiment name (with --save)")
	runCmd.MarkFlagRequired("model")
	runCmd.MarkFlagRequired("description")
}

func runCommand(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	req := services.RunRequest{
		Model:       runModel,
		Description: runDescription,
		GraderModel: runGraderModel,
	}

	if runTemplateFile != "" {
		template, err := os.ReadFile(runTemplateFile)
		if err != nil {
			return fmt.Errorf("failed to read template file: %w", err)
		}
		req.PromptTemplate = string(template)
	}

	fmt.Printf("%s⏳ Running %s...%s\n", InfoStyle, runModel, Reset)

	result, err := experiments.Run(ctx, req)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("%sModel response%s (%.2fs):\n%s\n", HeaderStyle, Reset, result.InferenceTime, result.ModelResponse)
	fmt.Println()

	if result.Annotation == "" {
		fmt.Printf("%s⚠️  No annotation block found in the response%s\n", WarningStyle, Reset)
	} else {
		fmt.Printf("%sAnnotation:%s %s\n", HeaderStyle, Reset, result.Annotation)
		if result.ValidationIssues != nil {
			switch issues := *result.ValidationIssues; {
			case issues == 0:
				fmt.Printf("%sValidation:%s %s✅ valid%s\n", HeaderStyle, Reset, SuccessStyle, Reset)
			case issues > 0:
				fmt.Printf("%sValidation:%s %s❌ %d issue(s)%s\n", HeaderStyle, Reset, ErrorStyle, issues, Reset)
			default:
				fmt.Printf("%sValidation:%s %s⚠️  validation failed%s\n", HeaderStyle, Reset, WarningStyle, Reset)
			}
		}
	}

	if result.QualityGrade != nil {
		if result.QualityGrade.Score != nil {
			fmt.Printf("%sQuality:%s %s%.1f/10%s (graded by %s)\n", HeaderStyle, Reset, CountStyle, *result.QualityGrade.Score, Reset, result.QualityGrade.Model)
		} else {
			fmt.Printf("%sQuality:%s ungraded (%s)\n", HeaderStyle, Reset, truncateLine(result.QualityGrade.Response, 80))
		}
	}

	if runSave {
		key, id, err := experiments.Save(req, result, runName)
		if err != nil {
			return fmt.Errorf("failed to save experiment: %w", err)
		}
		fmt.Println()
		fmt.Printf("%s💾 Saved experiment %d (%s)%s\n", SuccessStyle, id, key, Reset)
	}

	return nil
}
