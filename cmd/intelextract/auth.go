package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/channelchangers/intelextract/internal/profile"
)

var signinCmd = &cobra.Command{
	Use:   "signin --token <id-token>",
	Short: "Store the signed-in user from a provider ID token",
	RunE:  runSignin,
}

var signoutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Clear the stored user session",
	RunE:  runSignout,
}

var signinToken string

func init() {
	signinCmd.Flags().StringVar(&signinToken, "token", "", "Provider-issued ID token")
	_ = signinCmd.MarkFlagRequired("token")

	rootCmd.AddCommand(signinCmd)
	rootCmd.AddCommand(signoutCmd)
}

func runSignin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	user, err := profile.ParseIdentityToken(signinToken)
	if err != nil {
		return err
	}
	if err := a.profiles.SaveUser(ctx, user); err != nil {
		return err
	}

	fmt.Printf("Signed in as %s <%s>.\n", user.Name, user.Email)
	return nil
}

func runSignout(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	if err := a.profiles.ClearUser(ctx); err != nil {
		return err
	}
	fmt.Println("Signed out.")
	return nil
}
