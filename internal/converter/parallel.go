package converter

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// FileJob names one input/output file pair.
type FileJob struct {
	Input  string
	Output string
}

// FileResult is the outcome of one file conversion. Err is set when the
// conversion failed and processing continued past it.
type FileResult struct {
	Job    FileJob
	Result *Result
	Err    error
}

// ParallelConfig holds configuration for parallel file conversion.
type ParallelConfig struct {
	MaxWorkers      int              // Number of parallel workers (0 = runtime.NumCPU())
	ContinueOnError bool             // Keep processing after per-file failures
	Progress        ProgressCallback // Optional progress reporting
}

// DefaultParallelConfig returns sensible defaults for parallel conversion.
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{
		MaxWorkers:      runtime.NumCPU(),
		ContinueOnError: false,
	}
}

type fileJobIndexed struct {
	index int
	job   FileJob
}

type fileResultIndexed struct {
	index  int
	result *Result
	err    error
}

// ConvertFilesParallel converts multiple files using a worker pool. Results
// come back in input order. Without ContinueOnError the first failure aborts
// remaining work and is returned.
func (c *Converter) ConvertFilesParallel(ctx context.Context, jobs []FileJob, cfg ParallelConfig) ([]FileResult, error) {
	if len(jobs) == 0 {
		return nil, errors.New("no files provided")
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.NumCPU()
	}
	if cfg.MaxWorkers > len(jobs) {
		cfg.MaxWorkers = len(jobs)
	}

	if cfg.Progress != nil {
		cfg.Progress.OnStart(len(jobs))
		defer cfg.Progress.OnComplete()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobCh := make(chan fileJobIndexed, len(jobs))
	resCh := make(chan fileResultIndexed, len(jobs))

	var wg sync.WaitGroup
	for range cfg.MaxWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				if ctx.Err() != nil {
					resCh <- fileResultIndexed{index: j.index, err: ctx.Err()}
					continue
				}
				res, err := c.ConvertFile(ctx, j.job.Input, j.job.Output)
				if err != nil && !cfg.ContinueOnError {
					cancel()
				}
				resCh <- fileResultIndexed{index: j.index, result: res, err: err}
			}
		}()
	}

	for i, job := range jobs {
		jobCh <- fileJobIndexed{index: i, job: job}
	}
	close(jobCh)

	go func() {
		wg.Wait()
		close(resCh)
	}()

	results := make([]FileResult, len(jobs))
	processed := 0
	var firstErr error
	for r := range resCh {
		results[r.index] = FileResult{Job: jobs[r.index], Result: r.result, Err: r.err}
		processed++

		if r.err != nil {
			if cfg.Progress != nil {
				cfg.Progress.OnError(r.index, r.err)
			}
			if firstErr == nil && !errors.Is(r.err, context.Canceled) {
				firstErr = fmt.Errorf("converting %s: %w", jobs[r.index].Input, r.err)
			}
		}
		if cfg.Progress != nil {
			cfg.Progress.OnProgress(processed, len(jobs))
		}
	}

	if firstErr != nil && !cfg.ContinueOnError {
		return results, firstErr
	}
	return results, nil
}
