package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/channelchangers/intelextract/internal/types"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect and edit the company profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current company profile as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(a.profiles.Load(ctx))
	},
}

var profileSetGoalsCmd = &cobra.Command{
	Use:   "set-goals <goals>",
	Short: "Replace the stated company goals",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		companyProfile := a.profiles.Load(ctx)
		companyProfile.Goals = args[0]
		if err := a.profiles.Save(ctx, companyProfile); err != nil {
			return err
		}
		fmt.Println("Goals updated.")
		return nil
	},
}

var addClientIndustry string

var profileAddClientCmd = &cobra.Command{
	Use:   "add-client <name>",
	Short: "Add a client to the roster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		companyProfile := a.profiles.Load(ctx)
		if companyProfile.HasClient(args[0]) {
			return fmt.Errorf("client %q is already on the roster", args[0])
		}
		companyProfile.ClientProfiles = append(companyProfile.ClientProfiles, types.ClientProfile{
			Name:     args[0],
			Industry: addClientIndustry,
		})
		if err := a.profiles.Save(ctx, companyProfile); err != nil {
			return err
		}
		fmt.Printf("Client %q added.\n", args[0])
		return nil
	},
}

func init() {
	profileAddClientCmd.Flags().StringVar(&addClientIndustry, "industry", "", "Client industry label")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetGoalsCmd)
	profileCmd.AddCommand(profileAddClientCmd)
	rootCmd.AddCommand(profileCmd)
}
