package support

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/cucumber/godog"
	"github.com/disintegration/imaging"

	"github.com/MeKo-Tech/unfish/internal/testutil"

	_ "image/png"
)

// aFisheyeTestImage renders a synthetic fisheye image into the scenario temp dir.
func (testCtx *TestContext) aFisheyeTestImage(name string) error {
	return testCtx.aFisheyeTestImageOfSize(name, 128, 128)
}

// aFisheyeTestImageOfSize renders a synthetic fisheye image with explicit dimensions.
func (testCtx *TestContext) aFisheyeTestImageOfSize(name string, width, height int) error {
	cfg := testutil.DefaultFisheyeImageConfig()
	cfg.Width = width
	cfg.Height = height

	path := testCtx.ResolveTempPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}

	img := testutil.GenerateFisheyeImage(cfg)
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save test image %s: %w", path, err)
	}

	testCtx.TrackFile(path)
	return nil
}

// theFileShouldExist verifies an output file was produced.
func (testCtx *TestContext) theFileShouldExist(name string) error {
	path := testCtx.ResolveTempPath(name)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("expected file %s to exist: %w", path, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("file %s exists but is empty", path)
	}
	testCtx.TrackFile(path)
	return nil
}

// theFileShouldNotExist verifies no output file was produced.
func (testCtx *TestContext) theFileShouldNotExist(name string) error {
	path := testCtx.ResolveTempPath(name)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("file %s exists but should not", path)
	}
	return nil
}

// theFileShouldBeAnImageOfSize decodes an output file and checks its dimensions.
func (testCtx *TestContext) theFileShouldBeAnImageOfSize(name string, width, height int) error {
	path := testCtx.ResolveTempPath(name)
	file, err := os.Open(path) //nolint:gosec // test file with controlled path
	if err != nil {
		return fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	if cfg.Width != width || cfg.Height != height {
		return fmt.Errorf("image %s has size %dx%d, expected %dx%d",
			path, cfg.Width, cfg.Height, width, height)
	}

	testCtx.TrackFile(path)
	return nil
}

// RegisterImageSteps registers image fixture and output verification steps.
func (testCtx *TestContext) RegisterImageSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a fisheye test image "([^"]*)"$`, testCtx.aFisheyeTestImage)
	sc.Step(`^a fisheye test image "([^"]*)" of size (\d+)x(\d+)$`, testCtx.aFisheyeTestImageOfSize)
	sc.Step(`^the file "([^"]*)" should exist$`, testCtx.theFileShouldExist)
	sc.Step(`^the file "([^"]*)" should not exist$`, testCtx.theFileShouldNotExist)
	sc.Step(`^the file "([^"]*)" should be an image of size (\d+)x(\d+)$`, testCtx.theFileShouldBeAnImageOfSize)
}
