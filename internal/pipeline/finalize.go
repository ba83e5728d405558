package pipeline

import (
	"fmt"
	"os"
	"time"

	"github.com/backmassage/sbsconv/internal/config"
)

// finalizer performs the last step of a job: placing the temporary converter
// output under its final name. Moves are retried on contention (cloud-sync
// tools and virus scanners hold transient locks on fresh files) up to a
// total timeout.
type finalizer struct {
	interval time.Duration
	timeout  time.Duration
}

func newFinalizer(cfg *config.Config) *finalizer {
	return &finalizer{
		interval: time.Duration(cfg.MoveRetryInterval) * time.Millisecond,
		timeout:  time.Duration(cfg.MoveTimeout) * time.Millisecond,
	}
}

// Discard handles a failed conversion: the temporary file is removed and the
// source is left untouched. Terminal for the job; nothing is retried.
func (fz *finalizer) Discard(job ConversionJob) {
	_ = os.Remove(job.TmpPath)
}

// Place moves a successfully converted temporary file to its final path.
//
// Sibling mode is a single retried move. On timeout the temporary file is
// deliberately left behind so the converted data can be recovered by hand.
//
// In-place mode parks the original at the backup name first. A pre-existing
// backup is treated as authoritative (a prior interrupted run already saved
// the true original), so the current source is simply removed instead of
// overwriting it. If the swap fails after the backup step, the temporary
// file is removed: the recoverable states are exactly {original intact} or
// {backup present, temp cleaned}.
func (fz *finalizer) Place(job ConversionJob) error {
	if !job.InPlace {
		return fz.moveWithRetry(job.TmpPath, job.FinalPath)
	}

	if _, err := os.Lstat(job.BackupPath); err == nil {
		if err := os.Remove(job.SrcPath); err != nil && !os.IsNotExist(err) {
			_ = os.Remove(job.TmpPath)
			return fmt.Errorf("cannot remove source before swap: %w", err)
		}
	} else {
		if err := os.Rename(job.SrcPath, job.BackupPath); err != nil {
			_ = os.Remove(job.TmpPath)
			return fmt.Errorf("cannot back up source: %w", err)
		}
	}

	if err := fz.moveWithRetry(job.TmpPath, job.FinalPath); err != nil {
		_ = os.Remove(job.TmpPath)
		return err
	}
	return nil
}

// moveWithRetry renames src to dst, removing an already-present dst first.
// A file at dst here is a tolerated race (the job was dispatched because no
// output existed), not corruption. Rename failures are retried at a fixed
// interval until the timeout ceiling.
func (fz *finalizer) moveWithRetry(src, dst string) error {
	deadline := time.Now().Add(fz.timeout)
	for {
		if _, err := os.Lstat(dst); err == nil {
			_ = os.Remove(dst)
		}
		err := os.Rename(src, dst)
		if err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("move to %s timed out after %s (converted file kept at %s): %w",
				dst, fz.timeout, src, err)
		}
		time.Sleep(fz.interval)
	}
}
