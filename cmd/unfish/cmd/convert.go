package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/unfish/internal/converter"
)

// convertCmd represents the convert command.
var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert fisheye images to perspective projection",
	Long: `Convert one or more fisheye image files to rectilinear perspective images.

Supported formats: JPEG, PNG, BMP

Examples:
  unfish convert photo.jpg
  unfish convert photo.jpg --output flat.png
  unfish convert photo.jpg --camera-type stereographic --fov 190 --perspective-fov 100
  unfish convert *.jpg --format diagonal --width 1024 --height 768`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE:         runConvertCommand,
}

func runConvertCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.New("no input files provided")
	}

	output, _ := cmd.Flags().GetString("output")
	if output != "" && len(args) > 1 {
		return errors.New("--output can only be used with a single input file")
	}

	conv, err := converterFromFlags(cmd)
	if err != nil {
		return err
	}

	cfg := GetConfig()
	suffix := cfg.Batch.Suffix
	showStats, _ := cmd.Flags().GetBool("stats")

	for _, input := range args {
		outPath := output
		if outPath == "" {
			ext := filepath.Ext(input)
			outPath = strings.TrimSuffix(input, ext) + suffix + ext
		}

		res, err := conv.ConvertFile(cmd.Context(), input, outPath)
		if err != nil {
			return fmt.Errorf("converting %s: %w", input, err)
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", input, outPath)
		if showStats {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  map size: %d, stages: %s, total: %v\n",
				res.MapSize, res.Stages.String(), res.Stages.Total().Round(time.Millisecond))
		}
	}

	return nil
}

// converterFromFlags builds a converter from the resolved configuration with
// per-invocation flag overrides.
func converterFromFlags(cmd *cobra.Command) (*converter.Converter, error) {
	cfg := GetConfig()

	fov := cfg.Projection.FOV
	if cmd.Flags().Changed("fov") {
		fov, _ = cmd.Flags().GetFloat64("fov")
	}

	pfov := cfg.Projection.PerspectiveFOV
	if cmd.Flags().Changed("perspective-fov") {
		pfov, _ = cmd.Flags().GetFloat64("perspective-fov")
	}

	cameraType := cfg.Projection.CameraType
	if cmd.Flags().Changed("camera-type") {
		cameraType, _ = cmd.Flags().GetString("camera-type")
	}

	format := cfg.Projection.Format
	if cmd.Flags().Changed("format") {
		format, _ = cmd.Flags().GetString("format")
	}

	interpolation := cfg.Projection.Interpolation
	if cmd.Flags().Changed("interpolation") {
		interpolation, _ = cmd.Flags().GetString("interpolation")
	}

	width := cfg.Projection.OutputWidth
	if cmd.Flags().Changed("width") {
		width, _ = cmd.Flags().GetInt("width")
	}

	height := cfg.Projection.OutputHeight
	if cmd.Flags().Changed("height") {
		height, _ = cmd.Flags().GetInt("height")
	}

	return converter.NewBuilder().
		WithFOV(fov).
		WithPerspectiveFOV(pfov).
		WithCameraType(cameraType).
		WithFormat(format).
		WithOutputShape(width, height).
		WithInterpolation(interpolation).
		Build()
}

// addProjectionFlags registers the shared projection parameter flags.
func addProjectionFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("fov", 180, "fisheye field of view in degrees")
	cmd.Flags().Float64("perspective-fov", 90, "output perspective field of view in degrees")
	cmd.Flags().String("camera-type", "equidistant",
		"fisheye camera model (equidistant, equisolid, orthographic, stereographic)")
	cmd.Flags().String("format", "circular", "fisheye format (circular, diagonal)")
	cmd.Flags().String("interpolation", "bicubic", "resampling kernel (bilinear, bicubic)")
	cmd.Flags().Int("width", 0, "output width in pixels (0 keeps natural size; requires --height)")
	cmd.Flags().Int("height", 0, "output height in pixels (0 keeps natural size; requires --width)")
}

func init() {
	rootCmd.AddCommand(convertCmd)

	addProjectionFlags(convertCmd)
	convertCmd.Flags().StringP("output", "o", "", "output file path (single input only)")
	convertCmd.Flags().Bool("stats", false, "print per-stage timing statistics")
}
