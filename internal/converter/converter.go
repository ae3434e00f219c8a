// Package converter orchestrates fisheye-to-perspective conversion: crop the
// source to a square, build the undistortion map, and resample through it.
package converter

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/MeKo-Tech/unfish/internal/camera"
	"github.com/MeKo-Tech/unfish/internal/common"
	"github.com/MeKo-Tech/unfish/internal/projection"
	"github.com/MeKo-Tech/unfish/internal/utils"
)

// Options holds the projection parameters for one conversion.
type Options struct {
	FOV            float64
	PerspectiveFOV float64
	CameraType     camera.Type
	Format         projection.Format
	OutputWidth    int
	OutputHeight   int
	Interpolation  projection.Interpolation
}

// DefaultOptions returns the default conversion parameters.
func DefaultOptions() Options {
	return Options{
		FOV:            projection.DefaultFOV,
		PerspectiveFOV: projection.DefaultPerspectiveFOV,
		CameraType:     camera.Equidistant,
		Format:         projection.Circular,
		Interpolation:  projection.Bicubic,
	}
}

// Result carries the outcome of one conversion.
type Result struct {
	Output image.Image
	// MapSize is the natural (pre-resize) map resolution, i.e. the cropped
	// square side.
	MapSize int
	Stages  *common.Stages
}

// Converter converts fisheye images using a fixed set of options.
type Converter struct {
	opts Options
}

// Builder assembles a Converter with a fluent API.
type Builder struct {
	opts Options
	err  error
}

// NewBuilder returns a builder seeded with the default options.
func NewBuilder() *Builder {
	return &Builder{opts: DefaultOptions()}
}

// WithFOV sets the source fisheye field of view in degrees.
func (b *Builder) WithFOV(fov float64) *Builder {
	b.opts.FOV = fov
	return b
}

// WithPerspectiveFOV sets the target perspective field of view in degrees.
func (b *Builder) WithPerspectiveFOV(fov float64) *Builder {
	b.opts.PerspectiveFOV = fov
	return b
}

// WithCameraType sets the fisheye projection model from its string tag.
func (b *Builder) WithCameraType(tag string) *Builder {
	t, err := camera.ParseType(tag)
	if err != nil {
		b.err = err
		return b
	}
	b.opts.CameraType = t
	return b
}

// WithFormat sets the fisheye format from its string tag.
func (b *Builder) WithFormat(tag string) *Builder {
	f, err := projection.ParseFormat(tag)
	if err != nil {
		b.err = err
		return b
	}
	b.opts.Format = f
	return b
}

// WithOutputShape requests a map resize to width x height. Zero for both
// keeps the natural resolution.
func (b *Builder) WithOutputShape(width, height int) *Builder {
	b.opts.OutputWidth = width
	b.opts.OutputHeight = height
	return b
}

// WithInterpolation sets the resampling kernel from its string tag.
func (b *Builder) WithInterpolation(tag string) *Builder {
	i, err := projection.ParseInterpolation(tag)
	if err != nil {
		b.err = err
		return b
	}
	b.opts.Interpolation = i
	return b
}

// Build returns the configured converter, or the first tag-parsing error.
func (b *Builder) Build() (*Converter, error) {
	if b.err != nil {
		return nil, b.err
	}
	return &Converter{opts: b.opts}, nil
}

// Options returns the converter's options.
func (c *Converter) Options() Options {
	return c.opts
}

// ConvertImage converts a decoded fisheye image to a perspective image.
// Parameter validation happens before any pixel work, so invalid requests
// fail fast without touching the image.
func (c *Converter) ConvertImage(ctx context.Context, img image.Image) (*Result, error) {
	if img == nil {
		return nil, errors.New("input image is nil")
	}

	b := img.Bounds()
	req := projection.Request{
		Width:          b.Dx(),
		Height:         b.Dy(),
		FOV:            c.opts.FOV,
		PerspectiveFOV: c.opts.PerspectiveFOV,
		CameraType:     c.opts.CameraType,
		Format:         c.opts.Format,
		OutputWidth:    c.opts.OutputWidth,
		OutputHeight:   c.opts.OutputHeight,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	stages := common.NewStages()

	cropTimer := common.NewNamedTimer("crop")
	cropped, err := utils.CropCenterSquare(img)
	if err != nil {
		return nil, fmt.Errorf("cropping source: %w", err)
	}
	cropTimer.Stop()
	stages.Record(cropTimer)

	mapTimer := common.NewNamedTimer("map")
	mapX, mapY, err := projection.BuildMap(req)
	if err != nil {
		return nil, fmt.Errorf("building undistortion map: %w", err)
	}
	defer mapX.Release()
	defer mapY.Release()
	mapTimer.Stop()
	stages.Record(mapTimer)

	remapTimer := common.NewNamedTimer("remap")
	out, err := projection.Remap(ctx, cropped, mapX, mapY, c.opts.Interpolation)
	if err != nil {
		return nil, fmt.Errorf("remapping image: %w", err)
	}
	remapTimer.Stop()
	stages.Record(remapTimer)

	return &Result{
		Output:  out,
		MapSize: min(b.Dx(), b.Dy()),
		Stages:  stages,
	}, nil
}

// ConvertFile loads inPath, converts it, and writes the result to outPath.
func (c *Converter) ConvertFile(ctx context.Context, inPath, outPath string) (*Result, error) {
	img, _, err := utils.LoadImage(inPath)
	if err != nil {
		return nil, err
	}

	res, err := c.ConvertImage(ctx, img)
	if err != nil {
		return nil, err
	}

	saveTimer := common.NewNamedTimer("save")
	if err := utils.SaveImage(res.Output, outPath); err != nil {
		return nil, err
	}
	saveTimer.Stop()
	res.Stages.Record(saveTimer)

	return res, nil
}
