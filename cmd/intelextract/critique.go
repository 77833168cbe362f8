package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var critiqueCmd = &cobra.Command{
	Use:   "critique <id>",
	Short: "Run the advisory board critique on a stored result",
	Args:  cobra.ExactArgs(1),
	RunE:  runCritique,
}

func init() {
	rootCmd.AddCommand(critiqueCmd)
}

func runCritique(cmd *cobra.Command, args []string) error {
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

	tactical, err := a.critic.Critique(ctx, a.profiles.Load(ctx), result)
	if err != nil {
		return err
	}

	result.TacticalCritique = tactical
	if _, err := a.libStore.Update(ctx, result); err != nil {
		return err
	}

	a.printer.PrintCritique(tactical)
	return nil
}
