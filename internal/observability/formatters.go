// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/channelchangers/intelextract/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAnalysisResult outputs a human-readable summary of one extraction.
func (p *Printer) PrintAnalysisResult(result *types.AnalysisResult) {
	if result == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Title:    %s\n", result.Title))
	sb.WriteString(fmt.Sprintf("Category: %s\n", result.Category))
	if result.StrategicAlignment != nil {
		flag := ""
		if result.IsHighRelevance {
			flag = "  ★ HIGH RELEVANCE"
		}
		sb.WriteString(fmt.Sprintf("Score:    %d/100%s\n", result.StrategicAlignment.Score, flag))
	}
	sb.WriteString("\n")

	if len(result.KeyInsights) > 0 {
		sb.WriteString("Key Insights:\n")
		count := min(len(result.KeyInsights), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", result.KeyInsights[i]))
		}
		if len(result.KeyInsights) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.KeyInsights)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(result.ClientRelevanceScores) > 0 {
		sb.WriteString("Client Relevance:\n")
		for _, s := range result.ClientRelevanceScores {
			sb.WriteString(fmt.Sprintf("  %-14s %d\n", s.ClientName, s.Score))
		}
	}

	if result.VoiceDNA != nil {
		sb.WriteString("Voice DNA captured:\n")
		sb.WriteString(fmt.Sprintf("  • %d signature phrases\n", len(result.VoiceDNA.SignaturePhrases)))
		sb.WriteString(fmt.Sprintf("  • %d hook styles\n", len(result.VoiceDNA.HookStyles)))
		sb.WriteString(fmt.Sprintf("  • %d anti-patterns\n", len(result.VoiceDNA.AntiPatterns)))
	}

	p.printBox("EXTRACTED INTELLIGENCE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCritique outputs the advisory board critique.
func (p *Printer) PrintCritique(critique *types.TacticalCritique) {
	if critique == nil {
		return
	}

	var sb strings.Builder

	printSection := func(heading string, items []string) {
		if len(items) == 0 {
			return
		}
		sb.WriteString(heading + "\n")
		count := min(len(items), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
		}
		sb.WriteString("\n")
	}

	printSection("Blind Spots:", critique.BlindSpots)
	printSection("Hidden Risks:", critique.HiddenRisks)
	printSection("Growth Levers:", critique.GrowthLevers)

	if len(critique.Advisors) > 0 {
		sb.WriteString("Board of Advisors:\n")
		for _, advisor := range critique.Advisors {
			sb.WriteString(fmt.Sprintf("  [%s] %s: %s\n", advisor.Priority, advisor.Persona, advisor.Critique))
		}
	}

	p.printBox("TACTICAL CRITIQUE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTasks outputs an automation run's task history.
func (p *Printer) PrintTasks(tasks []types.AutomationTask) {
	if len(tasks) == 0 {
		return
	}

	var sb strings.Builder
	for _, task := range tasks {
		sb.WriteString(fmt.Sprintf("[%-9s] %-8s %s\n", task.Status, task.Type, task.Label))
	}

	p.printBox("AUTOMATION PIPELINE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintLibrary outputs a compact listing of stored results.
func (p *Printer) PrintLibrary(library []types.AnalysisResult) {
	if len(library) == 0 {
		p.printBox("LIBRARY", "(empty)")
		return
	}

	var sb strings.Builder
	for _, item := range library {
		marker := " "
		if item.IsHighRelevance {
			marker = "★"
		}
		sb.WriteString(fmt.Sprintf("%s %s  %-16s %s\n", marker, shortID(item.ID), item.Category, item.Title))
	}

	p.printBox("LIBRARY", strings.TrimSuffix(sb.String(), "\n"))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
