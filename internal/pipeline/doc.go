// Package pipeline orchestrates the batch run: shots are processed
// sequentially, frames within a shot are converted by a bounded pool of
// external oiiotool processes, and each finished output is placed by the
// finalizer (plain move, or backup-then-swap for in-place runs).
//
// Split across files:
//   - runner.go: per-shot loop, resume filtering, summary logging.
//   - job.go: ConversionJob construction and path derivation.
//   - dispatch.go: worker pool and result collection.
//   - finalize.go: atomic output placement with lock retry.
//   - stats.go: aggregate run counters.
package pipeline
