package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate statistics across saved experiments",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	stats, err := statsService.GetStats()
	if err != nil {
		return fmt.Errorf("failed to compute statistics: %w", err)
	}

	fmt.Printf("%s📊 Experiment Statistics%s\n\n", HeaderStyle, Reset)
	fmt.Println(FormatCountLabel("Total experiments:", stats.TotalExperiments))
	fmt.Println(FormatCountLabel("Validated runs:", stats.ValidatedRuns))
	fmt.Println(FormatCountLabel("Graded runs:", stats.GradedRuns))

	if len(stats.ModelStats) == 0 {
		fmt.Printf("\n%sNo experiments saved yet.%s\n", DimStyle, Reset)
		return nil
	}

	fmt.Printf("\n%sBy model%s\n", HeaderStyle, Reset)
	for _, model := range stats.ModelStats {
		fmt.Printf("\n  %s%s%s\n", ValueStyle, model.Model, Reset)
		fmt.Printf("    runs: %s%d%s  valid: %s%d%s\n", CountStyle, model.Runs, Reset, CountStyle, model.ValidRuns, Reset)
		if model.AvgIssues != nil {
			fmt.Printf("    avg issues: %s%.2f%s\n", CountStyle, *model.AvgIssues, Reset)
		}
		if model.AvgQualityScore != nil {
			fmt.Printf("    avg quality: %s%.1f/10%s\n", CountStyle, *model.AvgQualityScore, Reset)
		}
		fmt.Printf("    avg inference: %s%.2fs%s\n", CountStyle, model.AvgInferenceTime, Reset)
	}

	return nil
}
