package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/channelchangers/intelextract/internal/types"
)

var automateCmd = &cobra.Command{
	Use:   "automate <id>",
	Short: "Run the workspace automation pipeline for a stored result",
	Long:  "Run the document automation pipeline for a stored result, or a single operation with --type. Completed tasks are appended to the record's automation history.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAutomate,
}

var automateType string

func init() {
	automateCmd.Flags().StringVar(&automateType, "type", "", "Run a single task instead of the pipeline (docs, sheets, slides, calendar, gmail)")
	rootCmd.AddCommand(automateCmd)
}

func runAutomate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	result := a.libStore.Get(ctx, args[0])
	if result == nil {
		return fmt.Errorf("record not found: %s", args[0])
	}

	var tasks []types.AutomationTask
	if automateType != "" {
		taskType, err := parseTaskType(automateType)
		if err != nil {
			return err
		}
		task, err := a.runner.Trigger(ctx, taskType, result)
		if err != nil {
			return err
		}
		tasks = []types.AutomationTask{task}
	} else {
		tasks, err = a.runner.RunPipeline(ctx, result, func(label string) {
			fmt.Printf("... %s\n", label)
		})
		if err != nil {
			return err
		}
	}

	result.AutomationHistory = append(result.AutomationHistory, tasks...)
	if _, err := a.libStore.Update(ctx, result); err != nil {
		return err
	}

	a.printer.PrintTasks(tasks)
	return nil
}

func parseTaskType(value string) (types.TaskType, error) {
	switch types.TaskType(value) {
	case types.TaskDocs, types.TaskSheets, types.TaskSlides, types.TaskCalendar, types.TaskGmail:
		return types.TaskType(value), nil
	default:
		return "", fmt.Errorf("unknown task type %q", value)
	}
}
