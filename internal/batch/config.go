package batch

import (
	"fmt"
	"os"
	"time"

	"github.com/MeKo-Tech/unfish/internal/converter"
)

// Config holds all configuration for batch processing.
type Config struct {
	// Conversion settings
	Options converter.Options

	// Output settings
	OutputDir  string // destination directory; empty keeps outputs next to inputs
	Suffix     string // appended to the base name of each output file
	Format     string // summary format: text or json
	OutputFile string // summary destination; empty writes to stdout

	// Parallel processing settings
	Workers         int
	ContinueOnError bool

	// File discovery settings
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Progress settings
	ShowProgress     bool
	Quiet            bool
	ShowStats        bool
	ProgressInterval time.Duration
}

// DefaultConfig returns a batch configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Options:          converter.DefaultOptions(),
		Suffix:           "_perspective",
		Format:           "text",
		Workers:          4,
		ProgressInterval: 100 * time.Millisecond,
	}
}

// Result holds the result of batch processing.
type Result struct {
	Results     []converter.FileResult
	Duration    time.Duration
	WorkerCount int
}

// Succeeded returns the number of successfully converted files.
func (r *Result) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the number of failed conversions.
func (r *Result) Failed() int {
	return len(r.Results) - r.Succeeded()
}

// FormatResults formats the batch processing results in the specified format.
func (r *Result) FormatResults(format string) (string, error) {
	return formatBatchResults(r, format)
}

// SaveResults saves the formatted results to a file or stdout.
func (r *Result) SaveResults(format, outputFile string, quiet bool) error {
	output, err := r.FormatResults(format)
	if err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(output), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !quiet {
			_, _ = fmt.Fprintf(os.Stdout, "Results written to %s\n", outputFile)
		}
	} else {
		_, _ = fmt.Fprint(os.Stdout, output)
	}

	return nil
}

// PrintStats prints processing statistics.
func (r *Result) PrintStats(quiet bool) {
	if quiet {
		return
	}

	total := len(r.Results)
	avg := time.Duration(0)
	if total > 0 {
		avg = r.Duration / time.Duration(total)
	}
	throughput := 0.0
	if r.Duration > 0 {
		throughput = float64(total) / r.Duration.Seconds()
	}

	_, _ = fmt.Fprintf(os.Stdout, "\nProcessing Statistics:\n")
	_, _ = fmt.Fprintf(os.Stdout, "  Total images: %d\n", total)
	_, _ = fmt.Fprintf(os.Stdout, "  Converted: %d\n", r.Succeeded())
	_, _ = fmt.Fprintf(os.Stdout, "  Failed: %d\n", r.Failed())
	_, _ = fmt.Fprintf(os.Stdout, "  Workers: %d\n", r.WorkerCount)
	_, _ = fmt.Fprintf(os.Stdout, "  Duration: %v\n", r.Duration.Round(time.Millisecond))
	_, _ = fmt.Fprintf(os.Stdout, "  Avg per image: %v\n", avg.Round(time.Millisecond))
	_, _ = fmt.Fprintf(os.Stdout, "  Throughput: %.1f images/sec\n", throughput)
}
