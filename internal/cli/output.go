package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// RunResult summarizes one end-to-end pipeline run.
type RunResult struct {
	Success          bool     `json:"success"`
	TotalScraped     int      `json:"total_scraped"`
	TotalUpserted    int      `json:"total_upserted"`
	TotalDeactivated int      `json:"total_deactivated"`
	Errors           []string `json:"errors"`
	Duration         string   `json:"duration"`
}

// WriteOutput writes the run result in the specified format
func WriteOutput(w io.Writer, result *RunResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs the result as indented JSON
func writeJSON(w io.Writer, result *RunResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs the result as human-readable text
func writeText(w io.Writer, result *RunResult) error {
	status := "OK"
	if !result.Success {
		status = "FAILED"
	}

	fmt.Fprintf(w, "Scrape run %s in %s\n", status, result.Duration)
	fmt.Fprintf(w, "  scraped:     %d\n", result.TotalScraped)
	fmt.Fprintf(w, "  upserted:    %d\n", result.TotalUpserted)
	fmt.Fprintf(w, "  deactivated: %d\n", result.TotalDeactivated)

	if len(result.Errors) > 0 {
		fmt.Fprintf(w, "  errors:\n")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "    - %s\n", e)
		}
	}

	return nil
}
