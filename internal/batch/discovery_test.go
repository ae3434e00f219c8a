package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/unfish/internal/testutil"
)

func writeTree(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	cfg := testutil.DefaultFisheyeImageConfig()
	cfg.Width = 32
	cfg.Height = 32

	testutil.WriteFisheyeImage(t, dir, "a.png", cfg)
	testutil.WriteFisheyeImage(t, dir, "b.jpg", cfg)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an image"), 0o600))

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.MkdirAll(sub, 0o750))
	testutil.WriteFisheyeImage(t, sub, "c.png", cfg)

	return dir
}

func baseNames(paths []string) []string {
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	return names
}

func TestDiscoverImageFilesDirectory(t *testing.T) {
	dir := writeTree(t)

	files, err := discoverImageFiles([]string{dir}, false, nil, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.png", "b.jpg"}, baseNames(files))
}

func TestDiscoverImageFilesRecursive(t *testing.T) {
	dir := writeTree(t)

	files, err := discoverImageFiles([]string{dir}, true, nil, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.png", "b.jpg", "c.png"}, baseNames(files))
}

func TestDiscoverImageFilesExplicitFile(t *testing.T) {
	dir := writeTree(t)

	files, err := discoverImageFiles([]string{filepath.Join(dir, "a.png")}, false, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png"}, baseNames(files))
}

func TestDiscoverImageFilesPatterns(t *testing.T) {
	dir := writeTree(t)

	files, err := discoverImageFiles([]string{dir}, true, []string{"*.png"}, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.png", "c.png"}, baseNames(files))

	files, err = discoverImageFiles([]string{dir}, true, nil, []string{"c.*"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.png", "b.jpg"}, baseNames(files))
}

func TestDiscoverImageFilesMissingPath(t *testing.T) {
	_, err := discoverImageFiles([]string{"/nonexistent/path"}, false, nil, nil)
	require.Error(t, err)
}

func TestShouldIncludeFile(t *testing.T) {
	assert.True(t, shouldIncludeFile("photo.png", nil, nil))
	assert.False(t, shouldIncludeFile("notes.txt", nil, nil))
	assert.False(t, shouldIncludeFile("photo.png", nil, []string{"photo.*"}))
	assert.True(t, shouldIncludeFile("photo.png", []string{"*.png"}, nil))
	assert.False(t, shouldIncludeFile("photo.jpg", []string{"*.png"}, nil))
}
