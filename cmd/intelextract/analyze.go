package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/channelchangers/intelextract/internal/analysis"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [input]",
	Short: "Extract structured intelligence from pasted content or a link",
	Long:  "Extract structured intelligence from raw text, a URL, or a video link. Link inputs are grounded via web search before extraction. The result is stored in the library, mirrored, and checked for high-relevance alerts.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

var (
	analyzeFile       string
	analyzeCompetitor bool
	analyzeVoiceDNA   bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Read the input from a file instead of the argument")
	analyzeCmd.Flags().BoolVar(&analyzeCompetitor, "competitor", false, "Run competitor analysis framing")
	analyzeCmd.Flags().BoolVar(&analyzeVoiceDNA, "voice-dna", false, "Extract a voice profile instead of intelligence")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	input, err := resolveInput(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	companyProfile := a.profiles.Load(ctx)
	mode := analysis.ModeFor(analyzeCompetitor, analyzeVoiceDNA)

	result, err := a.engine.Analyze(ctx, input, companyProfile, mode)
	if err != nil {
		return err
	}

	if mode.VoiceExtraction() && result.VoiceDNA != nil {
		if _, err := a.profiles.ApplyVoiceDNA(ctx, result.VoiceDNA); err != nil {
			return fmt.Errorf("extraction succeeded but voice profile was not saved: %w", err)
		}
		fmt.Println("Voice profile updated.")
	}

	_, synced, err := a.libStore.Add(ctx, result)
	if err != nil {
		return err
	}

	a.printer.PrintAnalysisResult(result)
	if !synced && a.cfg.DatabaseURL != "" {
		fmt.Println("Note: remote mirror is unreachable; the record is stored locally.")
	}
	return nil
}

func resolveInput(args []string) (string, error) {
	if analyzeFile != "" {
		data, err := os.ReadFile(analyzeFile)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), nil
	}
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}
	return "", fmt.Errorf("provide the input as an argument or via --file")
}
