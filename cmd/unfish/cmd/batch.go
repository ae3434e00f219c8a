package cmd

import (
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/unfish/internal/batch"
	"github.com/MeKo-Tech/unfish/internal/camera"
	"github.com/MeKo-Tech/unfish/internal/config"
	"github.com/MeKo-Tech/unfish/internal/projection"
)

// batchCmd represents the batch command for parallel image conversion.
var batchCmd = &cobra.Command{
	Use:   "batch [files...]",
	Short: "Convert multiple fisheye images in parallel",
	Long: `Convert multiple fisheye image files in parallel. Inputs may be files,
directories, or a mix of both; directories are scanned for supported images.

Supported formats: JPEG, PNG, BMP

Examples:
  unfish batch *.jpg *.png
  unfish batch images/ --recursive --workers 8
  unfish batch images/ --output-dir converted/ --summary-format json
  unfish batch images/ --include "*.png" --exclude "*_raw.*" --progress`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runBatchCommand,
}

// configToBatchConfig maps centralized configuration to batch.Config.
// CLI flags override config file values.
func configToBatchConfig(cfg *config.Config, cmd *cobra.Command) (*batch.Config, error) {
	opts, err := cfg.ToConverterOptions()
	if err != nil {
		return nil, err
	}

	batchConfig := batch.DefaultConfig()
	batchConfig.Options = opts

	batchConfig.Workers = cfg.Batch.Workers
	if cmd.Flags().Changed("workers") {
		batchConfig.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if batchConfig.Workers <= 0 {
		batchConfig.Workers = runtime.NumCPU()
	}

	batchConfig.OutputDir = cfg.Batch.OutputDir
	if cmd.Flags().Changed("output-dir") {
		batchConfig.OutputDir, _ = cmd.Flags().GetString("output-dir")
	}

	batchConfig.Suffix = cfg.Batch.Suffix
	if cmd.Flags().Changed("suffix") {
		batchConfig.Suffix, _ = cmd.Flags().GetString("suffix")
	}

	batchConfig.ContinueOnError = cfg.Batch.ContinueOnError
	if cmd.Flags().Changed("continue-on-error") {
		batchConfig.ContinueOnError, _ = cmd.Flags().GetBool("continue-on-error")
	}

	batchConfig.Format = cfg.Output.Format
	if cmd.Flags().Changed("summary-format") {
		batchConfig.Format, _ = cmd.Flags().GetString("summary-format")
	}

	batchConfig.OutputFile = cfg.Output.File
	if cmd.Flags().Changed("summary-file") {
		batchConfig.OutputFile, _ = cmd.Flags().GetString("summary-file")
	}

	batchConfig.Recursive, _ = cmd.Flags().GetBool("recursive")
	batchConfig.IncludePatterns, _ = cmd.Flags().GetStringSlice("include")
	batchConfig.ExcludePatterns, _ = cmd.Flags().GetStringSlice("exclude")
	batchConfig.ShowProgress, _ = cmd.Flags().GetBool("progress")
	batchConfig.Quiet, _ = cmd.Flags().GetBool("quiet")
	batchConfig.ShowStats, _ = cmd.Flags().GetBool("stats")
	batchConfig.ProgressInterval = 100 * time.Millisecond

	// Apply projection flag overrides on top of the config values.
	if cmd.Flags().Changed("fov") {
		batchConfig.Options.FOV, _ = cmd.Flags().GetFloat64("fov")
	}
	if cmd.Flags().Changed("perspective-fov") {
		batchConfig.Options.PerspectiveFOV, _ = cmd.Flags().GetFloat64("perspective-fov")
	}
	if cmd.Flags().Changed("width") {
		w, _ := cmd.Flags().GetInt("width")
		batchConfig.Options.OutputWidth = w
	}
	if cmd.Flags().Changed("height") {
		h, _ := cmd.Flags().GetInt("height")
		batchConfig.Options.OutputHeight = h
	}

	return &batchConfig, nil
}

func runBatchCommand(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	batchConfig, err := configToBatchConfig(cfg, cmd)
	if err != nil {
		return err
	}

	// Tag flags are validated by the builder inside batch.Run.
	if cmd.Flags().Changed("camera-type") {
		v, _ := cmd.Flags().GetString("camera-type")
		batchConfig.Options.CameraType = camera.Type(v)
	}
	if cmd.Flags().Changed("format") {
		v, _ := cmd.Flags().GetString("format")
		batchConfig.Options.Format = projection.Format(v)
	}
	if cmd.Flags().Changed("interpolation") {
		v, _ := cmd.Flags().GetString("interpolation")
		batchConfig.Options.Interpolation = projection.Interpolation(v)
	}

	result, err := batch.Run(cmd.Context(), args, batchConfig)
	if err != nil {
		return fmt.Errorf("batch conversion failed: %w", err)
	}

	if err := result.SaveResults(batchConfig.Format, batchConfig.OutputFile, batchConfig.Quiet); err != nil {
		return err
	}

	if batchConfig.ShowStats {
		result.PrintStats(batchConfig.Quiet)
	}

	return nil
}

func init() {
	rootCmd.AddCommand(batchCmd)

	addProjectionFlags(batchCmd)

	batchCmd.Flags().Int("workers", 0, "number of parallel workers (0 = number of CPUs)")
	batchCmd.Flags().String("output-dir", "", "directory for converted images (default: next to inputs)")
	batchCmd.Flags().String("suffix", "_perspective", "suffix appended to output file names")
	batchCmd.Flags().Bool("continue-on-error", false, "keep processing after per-file failures")
	batchCmd.Flags().BoolP("recursive", "r", false, "scan directories recursively")
	batchCmd.Flags().StringSlice("include", nil, "include only files matching these glob patterns")
	batchCmd.Flags().StringSlice("exclude", nil, "exclude files matching these glob patterns")
	batchCmd.Flags().Bool("progress", false, "show a progress bar")
	batchCmd.Flags().BoolP("quiet", "q", false, "suppress non-essential output")
	batchCmd.Flags().Bool("stats", false, "print processing statistics")
	batchCmd.Flags().String("summary-format", "text", "summary format (text, json)")
	batchCmd.Flags().String("summary-file", "", "write the summary to a file instead of stdout")
}
