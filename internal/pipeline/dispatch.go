package pipeline

import (
	"context"
	"os"
	"runtime"
	"sync"

	"github.com/backmassage/sbsconv/internal/config"
	"github.com/backmassage/sbsconv/internal/oiio"
)

// jobResult is the recorded outcome of one job: exactly one result is
// produced per submitted job, so no job is ever dropped or double-counted.
type jobResult struct {
	job      ConversionJob
	err      error
	stderr   string // Converter stderr, kept only on failure.
	outBytes int64
}

// workerCount resolves the concurrency ceiling: the configured override, or
// the host's logical processor count.
func workerCount(cfg *config.Config) int {
	if cfg.Workers > 0 {
		return cfg.Workers
	}
	return runtime.NumCPU()
}

// dispatch runs the jobs of one shot through a bounded worker pool and
// streams results to handle as they complete.
//
// Jobs are fed through an unbuffered channel in slice order, so admission
// follows enumeration order and a queued job is admitted the moment any
// running process exits (dynamic ceiling, not static batches). Cancelling
// ctx stops admission; jobs already running are killed via their process
// context and still produce a result, so by the time dispatch returns every
// submitted job has been accounted for and no child process is left behind.
//
// Returns the number of jobs actually submitted.
func dispatch(ctx context.Context, cfg *config.Config, tool string, jobs []ConversionJob, handle func(jobResult)) int {
	workers := workerCount(cfg)
	if workers > len(jobs) {
		workers = len(jobs)
	}

	fz := newFinalizer(cfg)
	feed := make(chan ConversionJob)
	results := make(chan jobResult, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range feed {
				results <- runJob(ctx, cfg, fz, tool, job)
			}
		}()
	}

	go func() {
		for _, job := range jobs {
			if ctx.Err() != nil {
				break
			}
			feed <- job
		}
		close(feed)
		wg.Wait()
		close(results)
	}()

	count := 0
	for r := range results {
		count++
		handle(r)
	}
	return count
}

// runJob executes the converter for one job and finalizes its output.
// Conversion failure discards the temporary file; placement failure defers
// to the finalizer's cleanup policy (which preserves the temp on move
// timeout so the converted data is not lost).
func runJob(ctx context.Context, cfg *config.Config, fz *finalizer, tool string, job ConversionJob) jobResult {
	args := oiio.Build(cfg, tool, job.SrcPath, job.TmpPath)
	res := oiio.Execute(ctx, cfg, args)
	if res.Err != nil {
		fz.Discard(job)
		return jobResult{job: job, err: res.Err, stderr: res.Stderr}
	}

	if err := fz.Place(job); err != nil {
		return jobResult{job: job, err: err}
	}

	out := jobResult{job: job}
	if fi, err := os.Stat(job.FinalPath); err == nil {
		out.outBytes = fi.Size()
	}
	return out
}
