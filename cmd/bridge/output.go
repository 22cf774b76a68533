package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/akash1629/cross-domain/internal/bridge"
	"github.com/akash1629/cross-domain/internal/concept"
	"github.com/akash1629/cross-domain/internal/pathfind"
)

// Constants for output formatting.
const (
	DefaultSearchLimit = 50 // Default limit for search/list commands

	DescriptionMaxLen = 70 // Used in list command output
	TextWrapWidth     = 68 // Wrap width for descriptions in detail views
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	appLog.Debug("command failed", "exit_code", code, "error", msg)
	appLog.Sync()
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// wrapText wraps text to the specified width with indentation on subsequent lines.
func wrapText(text string, width int, indent string) string {
	if len(text) <= width {
		return text
	}

	var lines []string
	var currentLine strings.Builder
	for _, word := range strings.Fields(text) {
		if currentLine.Len() == 0 {
			currentLine.WriteString(word)
		} else if currentLine.Len()+1+len(word) <= width {
			currentLine.WriteString(" ")
			currentLine.WriteString(word)
		} else {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
			currentLine.WriteString(word)
		}
	}
	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	return strings.Join(lines, "\n"+indent)
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}

// formatBytes formats bytes in a human-readable way.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// formatConceptHuman formats a concept for human-readable output.
// The prefix parameter is prepended to the first line (e.g., "Created concept: ", "").
func formatConceptHuman(c concept.Concept, prefix string) string {
	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteString(c.ID)
	sb.WriteString("\n")
	if c.Name != "" {
		sb.WriteString(fmt.Sprintf("  Name: %s\n", c.Name))
	}
	if len(c.Aliases) > 0 {
		sb.WriteString(fmt.Sprintf("  Aliases: %s\n", strings.Join(c.Aliases, ", ")))
	}
	if c.Description != "" {
		sb.WriteString(fmt.Sprintf("  Description: %s\n", wrapText(c.Description, TextWrapWidth, "               ")))
	}
	return sb.String()
}

// formatPath renders a path as "a -> b -> c".
func formatPath(p *pathfind.Path) string {
	if p == nil {
		return "(no path)"
	}
	return strings.Join(p.ConceptIDs, " -> ")
}

// printBridgesHuman prints a ranked bridge list.
func printBridgesHuman(candidates []bridge.Candidate) {
	if len(candidates) == 0 {
		fmt.Println("No bridges")
		return
	}
	fmt.Printf("%-4s %-28s %8s %8s %8s %8s %8s\n", "#", "CONCEPT", "SCORE", "SIM1", "SIM2", "NOVELTY", "COMMON")
	for i, c := range candidates {
		fmt.Printf("%-4d %-28s %8.4f %8.4f %8.4f %8.4f %8.4f\n",
			i+1, truncateString(c.ConceptID, 28), c.BridgeStrength,
			c.SimilarityToDomain1, c.SimilarityToDomain2, c.Novelty, c.Commonality)
	}
}

// printExplanationHuman prints an explanation record.
func printExplanationHuman(exp *pathfind.Explanation) {
	fmt.Printf("%s <-> %s\n", exp.Domain1, exp.Domain2)
	fmt.Printf("  Direct similarity:  %.4f\n", exp.DirectSimilarity)
	fmt.Printf("  Connection novelty: %.4f\n", exp.ConnectionNovelty)
	if exp.PathFound {
		fmt.Printf("  Path (threshold %.2f): %s\n", exp.PathThreshold, formatPath(exp.Path))
	} else {
		fmt.Println("  Path: none at the threshold floor")
	}
	if exp.StrongestBridge != nil {
		fmt.Printf("  Strongest bridge: %s (%.4f)\n", exp.StrongestBridge.ConceptID, exp.StrongestBridge.BridgeStrength)
	}
	if len(exp.SharedTerms) > 0 {
		terms := make([]string, len(exp.SharedTerms))
		for i, t := range exp.SharedTerms {
			terms[i] = t.Term
		}
		fmt.Printf("  Shared terms: %s\n", strings.Join(terms, ", "))
	}
	if len(exp.Bridges) > 0 {
		fmt.Println()
		printBridgesHuman(exp.Bridges)
	}
}
