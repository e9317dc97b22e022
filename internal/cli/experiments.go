package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var experimentsCmd = &cobra.Command{
	Use:   "experiments",
	Short: "Browse saved experiment records",
	Long:  `List, inspect, and rename experiment records stored on disk.`,
}

var experimentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved experiments, newest first",
	RunE:  runExperimentsList,
}

var experimentsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one experiment record in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runExperimentsShow,
}

var experimentsRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename an experiment record",
	Args:  cobra.ExactArgs(2),
	RunE:  runExperimentsRename,
}

func init() {
	experimentsCmd.AddCommand(experimentsListCmd)
	experimentsCmd.AddCommand(experimentsShowCmd)
	experimentsCmd.AddCommand(experimentsRenameCmd)
}

func runExperimentsList(cmd *cobra.Command, args []string) error {
	summaries, err := experimentStore.List()
	if err != nil {
		return fmt.Errorf("failed to list experiments: %w", err)
	}

	if len(summaries) == 0 {
		fmt.Printf("%sNo experiments saved yet. Run one with 'hedprompt run'.%s\n", DimStyle, Reset)
		return nil
	}

	fmt.Printf("%s📋 Experiments (%d)%s\n\n", HeaderStyle, len(summaries), Reset)
	for _, summary := range summaries {
		name := summary.ExperimentName
		if name == "" {
			name = summary.Filename
		}
		fmt.Printf("%s[%d]%s %s%s%s  %s%s%s\n", CountStyle, summary.ExperimentID, Reset,
			ValueStyle, name, Reset, MetaStyle, summary.Model, Reset)
		fmt.Printf("    %s%s%s\n", DimStyle, summary.Description, Reset)
		fmt.Printf("    %s%s · %s%s\n", MetaStyle, summary.Timestamp.Format("2006-01-02 15:04"),
			formatValidation(summary.ValidationIssues), Reset)
		if summary.QualityScore != nil {
			fmt.Printf("    %squality: %.1f/10%s\n", MetaStyle, *summary.QualityScore, Reset)
		}
		fmt.Println()
	}

	return nil
}

func runExperimentsShow(cmd *cobra.Command, args []string) error {
	record, err := experimentStore.Get(args[0])
	if err != nil {
		return fmt.Errorf("failed to load experiment: %w", err)
	}

	title := record.ExperimentName
	if title == "" {
		title = fmt.Sprintf("experiment %d", record.ExperimentID)
	}
	fmt.Printf("%s🔬 %s%s\n\n", HeaderStyle, title, Reset)
	fmt.Println(FormatLabelValue("Model:", record.Model))
	fmt.Println(FormatLabelValue("Timestamp:", record.Timestamp.Format("2006-01-02 15:04:05")))
	fmt.Println(FormatLabelValue("Inference time:", fmt.Sprintf("%.2fs", record.InferenceTime)))
	fmt.Println(FormatLabelValue("Validation:", formatValidation(record.ValidationIssues)))
	if record.QualityGrade != nil {
		if record.QualityGrade.Score != nil {
			fmt.Println(FormatLabelValue("Quality:", fmt.Sprintf("%.1f/10 (graded by %s)", *record.QualityGrade.Score, record.QualityGrade.Model)))
		} else {
			fmt.Println(FormatLabelValue("Quality:", "ungraded"))
		}
	}

	fmt.Printf("\n%sDescription%s\n%s\n", HeaderStyle, Reset, record.Description)
	fmt.Printf("\n%sAnnotation%s\n", HeaderStyle, Reset)
	if record.Annotation == "" {
		fmt.Printf("%s(no annotation extracted)%s\n", DimStyle, Reset)
	} else {
		fmt.Println(record.Annotation)
	}
	fmt.Printf("\n%sModel response%s\n%s\n", HeaderStyle, Reset, record.ModelResponse)

	return nil
}

func runExperimentsRename(cmd *cobra.Command, args []string) error {
	if err := experimentStore.Rename(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to rename experiment: %w", err)
	}
	fmt.Printf("%s✅ Renamed experiment %s to %q%s\n", SuccessStyle, args[0], args[1], Reset)
	return nil
}

// formatValidation renders an issue count the same way everywhere: nil means
// validation was skipped, -1 means the validator could not be reached.
func formatValidation(issues *int) string {
	switch {
	case issues == nil:
		return "not validated"
	case *issues < 0:
		return "validation failed"
	case *issues == 0:
		return "valid ✅"
	default:
		return fmt.Sprintf("%d issue(s)", *issues)
	}
}
