package converter

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/unfish/internal/testutil"
)

// countingProgress records callback invocations for assertions.
type countingProgress struct {
	mu        sync.Mutex
	started   int
	total     int
	progress  int
	completed int
	errs      []error
}

func (p *countingProgress) OnStart(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started++
	p.total = total
}

func (p *countingProgress) OnProgress(_, _ int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.progress++
}

func (p *countingProgress) OnComplete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed++
}

func (p *countingProgress) OnError(_ int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs = append(p.errs, err)
}

func writeJobs(t *testing.T, dir string, n int) []FileJob {
	t.Helper()

	cfg := testutil.DefaultFisheyeImageConfig()
	cfg.Width = 64
	cfg.Height = 64

	jobs := make([]FileJob, 0, n)
	for i := range n {
		in := testutil.WriteFisheyeImage(t, dir, fmt.Sprintf("in_%d.png", i), cfg)
		out := filepath.Join(dir, fmt.Sprintf("out_%d.png", i))
		jobs = append(jobs, FileJob{Input: in, Output: out})
	}
	return jobs
}

func TestConvertFilesParallel(t *testing.T) {
	dir := t.TempDir()
	jobs := writeJobs(t, dir, 5)

	conv, err := NewBuilder().Build()
	require.NoError(t, err)

	progress := &countingProgress{}
	cfg := DefaultParallelConfig()
	cfg.MaxWorkers = 2
	cfg.Progress = progress

	results, err := conv.ConvertFilesParallel(context.Background(), jobs, cfg)
	require.NoError(t, err)
	require.Len(t, results, len(jobs))

	// Results come back in input order regardless of worker scheduling.
	for i, res := range results {
		assert.Equal(t, jobs[i].Input, res.Job.Input)
		require.NoError(t, res.Err)
		require.NotNil(t, res.Result)
		assert.Equal(t, 64, res.Result.Output.Bounds().Dx())
	}

	assert.Equal(t, 1, progress.started)
	assert.Equal(t, len(jobs), progress.total)
	assert.Equal(t, len(jobs), progress.progress)
	assert.Equal(t, 1, progress.completed)
	assert.Empty(t, progress.errs)
}

func TestConvertFilesParallelEmpty(t *testing.T) {
	conv, err := NewBuilder().Build()
	require.NoError(t, err)

	_, err = conv.ConvertFilesParallel(context.Background(), nil, DefaultParallelConfig())
	require.Error(t, err)
}

func TestConvertFilesParallelStopsOnError(t *testing.T) {
	dir := t.TempDir()
	jobs := writeJobs(t, dir, 3)
	jobs[1].Input = filepath.Join(dir, "missing.png")

	conv, err := NewBuilder().Build()
	require.NoError(t, err)

	cfg := DefaultParallelConfig()
	cfg.MaxWorkers = 1

	results, err := conv.ConvertFilesParallel(context.Background(), jobs, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.png")
	require.Len(t, results, len(jobs))
	assert.Error(t, results[1].Err)
}

func TestConvertFilesParallelContinueOnError(t *testing.T) {
	dir := t.TempDir()
	jobs := writeJobs(t, dir, 4)
	jobs[0].Input = filepath.Join(dir, "missing_a.png")
	jobs[2].Input = filepath.Join(dir, "missing_b.png")

	conv, err := NewBuilder().Build()
	require.NoError(t, err)

	progress := &countingProgress{}
	cfg := DefaultParallelConfig()
	cfg.ContinueOnError = true
	cfg.Progress = progress

	results, err := conv.ConvertFilesParallel(context.Background(), jobs, cfg)
	require.NoError(t, err)
	require.Len(t, results, len(jobs))

	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.Error(t, results[2].Err)
	assert.NoError(t, results[3].Err)
	assert.Len(t, progress.errs, 2)
}

func TestConvertFilesParallelCancelledContext(t *testing.T) {
	dir := t.TempDir()
	jobs := writeJobs(t, dir, 3)

	conv, err := NewBuilder().Build()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := conv.ConvertFilesParallel(ctx, jobs, DefaultParallelConfig())
	require.NoError(t, err)
	for _, res := range results {
		assert.Error(t, res.Err)
	}
}
