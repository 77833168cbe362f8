package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Inspect and manage the stored intelligence library",
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored results, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		a.printer.PrintLibrary(a.libStore.Load(ctx))
		return nil
	},
}

var libraryShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one stored result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

var libraryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a stored result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		remaining, err := a.libStore.Remove(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Deleted. %d records remain.\n", len(remaining))
		return nil
	},
}

func init() {
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryShowCmd)
	libraryCmd.AddCommand(libraryDeleteCmd)
	rootCmd.AddCommand(libraryCmd)
}
