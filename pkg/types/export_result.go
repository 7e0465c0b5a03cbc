package types

import "fmt"

// FileOutcome holds the outcome of an export attempt for a single file
type FileOutcome struct {
	SourcePath      string `json:"source_path"`
	DestinationPath string `json:"destination_path,omitempty"`
	Copied          bool   `json:"copied"`
	Renamed         bool   `json:"renamed"`
	Error           error  `json:"error,omitempty"`
}

// ExportResult summarizes one favorites export run
type ExportResult struct {
	Copied  int           `json:"copied"`
	Skipped int           `json:"skipped"`
	Failed  int           `json:"failed"`
	Files   []FileOutcome `json:"files,omitempty"`
}

// Summary returns a human-readable one-line summary
func (r *ExportResult) Summary() string {
	return fmt.Sprintf("%d copied, %d skipped, %d failed", r.Copied, r.Skipped, r.Failed)
}
