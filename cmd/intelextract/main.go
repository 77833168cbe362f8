// Package main provides the entry point for the IntelExtract CLI and server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "intelextract",
	Short: "Business intelligence extraction engine",
	Long:  "IntelExtract turns pasted content and video links into structured, schema-validated business intelligence stored in a local library with a remote knowledge-base mirror.",
}

var (
	flagConfig  string
	flagAPIKey  string
	flagStore   string
	flagVerbose bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "", "Path to the local library database")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print detailed debug information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
