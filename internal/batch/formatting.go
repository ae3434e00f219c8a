package batch

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// fileSummary is the per-file entry in the JSON summary.
type fileSummary struct {
	Input      string `json:"input"`
	Output     string `json:"output,omitempty"`
	Success    bool   `json:"success"`
	MapSize    int    `json:"map_size,omitempty"`
	DurationMs int64  `json:"duration_ms,omitempty"`
	Error      string `json:"error,omitempty"`
}

// formatBatchResults formats the batch processing results in the specified format.
func formatBatchResults(r *Result, format string) (string, error) {
	switch format {
	case "json":
		return formatJSON(r)
	default: // text
		return formatText(r), nil
	}
}

// formatJSON formats results as JSON.
func formatJSON(r *Result) (string, error) {
	summary := struct {
		Files      []fileSummary `json:"files"`
		Total      int           `json:"total"`
		Succeeded  int           `json:"succeeded"`
		Failed     int           `json:"failed"`
		DurationMs int64         `json:"duration_ms"`
	}{
		Files:      make([]fileSummary, len(r.Results)),
		Total:      len(r.Results),
		Succeeded:  r.Succeeded(),
		Failed:     r.Failed(),
		DurationMs: r.Duration.Milliseconds(),
	}

	for i, res := range r.Results {
		entry := fileSummary{
			Input:   res.Job.Input,
			Success: res.Err == nil,
		}
		if res.Err != nil {
			entry.Error = res.Err.Error()
		} else {
			entry.Output = res.Job.Output
			if res.Result != nil {
				entry.MapSize = res.Result.MapSize
				entry.DurationMs = res.Result.Stages.Total().Milliseconds()
			}
		}
		summary.Files[i] = entry
	}

	bts, err := json.MarshalIndent(summary, "", "  ")
	return string(bts), err
}

// formatText formats results as plain text.
func formatText(r *Result) string {
	var output strings.Builder
	for _, res := range r.Results {
		if res.Err != nil {
			output.WriteString(fmt.Sprintf("FAIL %s: %v\n", res.Job.Input, res.Err))
			continue
		}
		dur := time.Duration(0)
		if res.Result != nil {
			dur = res.Result.Stages.Total()
		}
		output.WriteString(fmt.Sprintf("OK   %s -> %s (%v)\n",
			res.Job.Input, res.Job.Output, dur.Round(time.Millisecond)))
	}
	output.WriteString(fmt.Sprintf("\n%d converted, %d failed\n", r.Succeeded(), r.Failed()))
	return output.String()
}
