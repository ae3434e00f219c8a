// Package batch provides batch processing for fisheye conversions.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MeKo-Tech/unfish/internal/converter"
)

// Run converts a batch of fisheye images with the given configuration.
// Inputs may name files, directories, or a mix of both.
func Run(ctx context.Context, inputs []string, config *Config) (*Result, error) {
	files, err := discoverImageFiles(inputs, config.Recursive, config.IncludePatterns, config.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to discover image files: %w", err)
	}

	if len(files) == 0 {
		return nil, errors.New("no image files found")
	}

	jobs, err := buildFileJobs(files, config.OutputDir, config.Suffix)
	if err != nil {
		return nil, err
	}

	var progress converter.ProgressCallback
	if config.ShowProgress && !config.Quiet {
		progress = converter.NewConsoleProgressCallback(
			os.Stdout,
			"Converting: ",
		).WithUpdateInterval(config.ProgressInterval)
	}

	conv, err := buildConverter(config)
	if err != nil {
		return nil, fmt.Errorf("failed to build converter: %w", err)
	}

	startTime := time.Now()
	results, err := conv.ConvertFilesParallel(ctx, jobs, converter.ParallelConfig{
		MaxWorkers:      config.Workers,
		ContinueOnError: config.ContinueOnError,
		Progress:        progress,
	})
	duration := time.Since(startTime)

	if err != nil {
		return nil, fmt.Errorf("batch processing failed: %w", err)
	}

	return &Result{
		Results:     results,
		Duration:    duration,
		WorkerCount: config.Workers,
	}, nil
}

// buildConverter constructs a converter from the batch configuration.
func buildConverter(config *Config) (*converter.Converter, error) {
	return converter.NewBuilder().
		WithFOV(config.Options.FOV).
		WithPerspectiveFOV(config.Options.PerspectiveFOV).
		WithCameraType(string(config.Options.CameraType)).
		WithFormat(string(config.Options.Format)).
		WithOutputShape(config.Options.OutputWidth, config.Options.OutputHeight).
		WithInterpolation(string(config.Options.Interpolation)).
		Build()
}

// buildFileJobs derives output paths for the discovered input files.
func buildFileJobs(files []string, outputDir, suffix string) ([]converter.FileJob, error) {
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	jobs := make([]converter.FileJob, 0, len(files))
	for _, in := range files {
		jobs = append(jobs, converter.FileJob{
			Input:  in,
			Output: outputPathFor(in, outputDir, suffix),
		})
	}
	return jobs, nil
}

// outputPathFor builds the output path for one input: the base name with the
// suffix inserted before the extension, placed in outputDir when set or next
// to the input otherwise.
func outputPathFor(input, outputDir, suffix string) string {
	dir := filepath.Dir(input)
	if outputDir != "" {
		dir = outputDir
	}

	base := filepath.Base(input)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, name+suffix+ext)
}
