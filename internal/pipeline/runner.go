package pipeline

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/backmassage/sbsconv/internal/config"
	"github.com/backmassage/sbsconv/internal/display"
	"github.com/backmassage/sbsconv/internal/logging"
	"github.com/backmassage/sbsconv/internal/shot"
)

// Run is the top-level batch entry point. It validates and enumerates the
// requested shots, processes them sequentially, and returns aggregate stats.
// The returned error is non-nil only for setup failures (no valid inputs);
// per-frame failures are rolled into the stats instead.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, tool string) (RunStats, error) {
	shots, err := shot.Resolve(cfg.ShotDirs, cfg.Recurse, cfg.InPlace, log)
	if err != nil {
		return RunStats{}, err
	}

	stats := RunStats{ShotsTotal: len(shots)}
	logBatchHeader(cfg, log, shots, tool)

	prog := display.NewProgress(len(shots))
	defer prog.Finish()

	for i, s := range shots {
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			break
		}
		processShot(ctx, cfg, log, tool, s, i, len(shots), prog, &stats)
		stats.ShotsDone++
	}

	logSummary(cfg, log, &stats)
	return stats, nil
}

// processShot handles one shot: resume-filter, build jobs, dispatch, and
// emit the per-shot summary before the outer progress indicator advances.
func processShot(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	tool string,
	s shot.Shot,
	index, total int,
	prog *display.Progress,
	stats *RunStats,
) {
	prog.ClearLine()
	log.Info("[%d/%d] %s", index+1, total, s.Name)

	if len(s.Frames) == 0 {
		log.Warn("No frames found in %s", s.SrcDir)
		prog.StartShot(s.Name, 0)
		prog.ShotDone()
		return
	}

	frames := shot.FilterConverted(s)
	if done := len(s.Frames) - len(frames); done > 0 {
		log.Info("Resuming: %d of %d frames already converted", done, len(s.Frames))
	}

	if len(frames) == 0 {
		log.Success("Already complete (%d frames) -> %s", len(s.Frames), s.DstDir)
		prog.StartShot(s.Name, 0)
		prog.ShotDone()
		return
	}

	if cfg.DryRun {
		for _, f := range frames {
			log.Frame(cfg.Quiet, "  [DRY] %s -> %s", f.RelPath, outputRel(f))
		}
		log.Success("[DRY] Would convert %d frames -> %s", len(frames), s.DstDir)
		stats.Planned += len(frames)
		prog.StartShot(s.Name, 0)
		prog.ShotDone()
		return
	}

	jobs, err := buildJobs(s, frames)
	if err != nil {
		log.Error("%v", err)
		stats.Failed += len(frames)
		prog.StartShot(s.Name, 0)
		prog.ShotDone()
		return
	}

	log.Info("Converting %d frames (%s, %s) -> %s",
		len(jobs), cfg.CompressionArg(), cfg.DataType, s.DstDir)

	prog.StartShot(s.Name, len(jobs))

	ok, failed := 0, 0
	dispatched := dispatch(ctx, cfg, tool, jobs, func(r jobResult) {
		if r.err != nil {
			failed++
			stats.Failed++
			if !cfg.Quiet {
				prog.ClearLine()
				log.Error("%s failed: %v", r.job.Frame.RelPath, r.err)
				logStderr(log, r.stderr)
			}
		} else {
			ok++
			stats.Converted++
			stats.TotalInputBytes += r.job.SrcBytes
			stats.TotalOutputBytes += r.outBytes
			if !cfg.Quiet {
				prog.ClearLine()
			}
			log.Frame(cfg.Quiet, "  %s -> %s", r.job.Frame.RelPath, filepath.Base(r.job.FinalPath))
		}
		prog.FrameDone()
	})

	prog.ClearLine()
	if failed > 0 {
		log.Warn("Shot %s: %d converted, %d failed -> %s", s.Name, ok, failed, s.DstDir)
	} else {
		log.Success("Shot %s: %d converted, %d failed -> %s", s.Name, ok, failed, s.DstDir)
	}
	if dispatched < len(jobs) {
		log.Warn("Shot %s: %d frames not dispatched (interrupted)", s.Name, len(jobs)-dispatched)
	}
	prog.ShotDone()
}

// outputRel is the frame's destination path relative to the shot's
// destination root, for dry-run display.
func outputRel(f shot.Frame) string {
	return filepath.Join(f.RelDir(), f.OutputName())
}

// logStderr prints the tail of the converter's stderr after a failure.
func logStderr(log *logging.Logger, stderr string) {
	if stderr == "" {
		return
	}
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	start := 0
	if len(lines) > 5 {
		start = len(lines) - 5
	}
	for _, l := range lines[start:] {
		log.Error("  %s", l)
	}
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, shots []shot.Shot, tool string) {
	totalFrames := 0
	for _, s := range shots {
		totalFrames += len(s.Frames)
	}
	log.Info("Found %d shots, %d frames", len(shots), totalFrames)
	log.Info("Compression: %s, pixel type: %s", cfg.CompressionArg(), cfg.DataType)
	if cfg.FirstSubimage {
		log.Info("Subimages: first only")
	} else {
		log.Info("Subimages: copy all")
	}
	if cfg.InPlace {
		log.Info("Mode: in-place (originals kept as *%s%s)", shot.BackupInfix, ".exr")
	} else {
		log.Info("Mode: sibling output (<shot>%s directories)", shot.Suffix)
	}
	log.Info("Workers: %d", workerCount(cfg))
	log.Info("Converter: %s", tool)
	if cfg.DryRun {
		log.Warn("DRY RUN")
	}
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	if cfg.DryRun {
		log.Info("Done (dry run): %d shots, %d frames would convert",
			stats.ShotsDone, stats.Planned)
		return
	}
	log.Info("Done: %d shots, %d converted, %d failed",
		stats.ShotsDone, stats.Converted, stats.Failed)

	if stats.TotalInputBytes == 0 {
		return
	}

	saved := stats.SpaceSaved()
	if saved >= 0 {
		log.Success("Space saved: %s (input %s -> output %s)",
			display.FormatBytes(saved),
			display.FormatBytes(stats.TotalInputBytes),
			display.FormatBytes(stats.TotalOutputBytes))
	} else {
		log.Warn("Space saved: -%s (output is larger)",
			display.FormatBytes(-saved))
	}
}
