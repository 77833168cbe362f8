package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var researchCmd = &cobra.Command{
	Use:   "research <id>",
	Short: "Run a deep research report for a stored result",
	Long:  "Run a web-grounded deep research report on a stored result's topic and attach the Markdown report to the record.",
	Args:  cobra.ExactArgs(1),
	RunE:  runResearch,
}

var researchQuery string

func init() {
	researchCmd.Flags().StringVarP(&researchQuery, "query", "q", "", "Override the research query (defaults to the record's title)")
	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	if a.researcher == nil {
		return fmt.Errorf("research requires search credentials (set SEARCH_API_KEY and SEARCH_CX)")
	}

	result := a.libStore.Get(ctx, args[0])
	if result == nil {
		return fmt.Errorf("record not found: %s", args[0])
	}

	query := researchQuery
	if query == "" {
		query = result.Title
	}

	report, err := a.researcher.DeepResearch(ctx, a.profiles.Load(ctx), query)
	if err != nil {
		return err
	}

	result.DeepResearchMarkdown = report
	if _, err := a.libStore.Update(ctx, result); err != nil {
		return err
	}

	fmt.Println(report)
	return nil
}
