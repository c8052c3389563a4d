package orchestrate

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"echoforge/internal/app/core"
)

// ExportJSON writes the report as an indented JSON document. An empty
// filename picks a timestamped default in the working directory. Returns the
// path written.
func ExportJSON(report *core.SearchReport, filename string) (string, error) {
	if filename == "" {
		filename = fmt.Sprintf("deep_search_%s.json", time.Now().Format("20060102_150405"))
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return filename, nil
}

// ReportJSON renders the report as an indented JSON string.
func ReportJSON(report *core.SearchReport) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(data), nil
}
