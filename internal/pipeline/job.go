package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/backmassage/sbsconv/internal/shot"
)

// ConversionJob pairs one frame with its resolved output paths and the
// in-place flag. Jobs are built once per dispatch and never mutated; each is
// processed exactly end to end or recorded as failed.
type ConversionJob struct {
	ID    string
	Frame shot.Frame

	SrcPath    string // Absolute input path.
	TmpPath    string // Converter writes here; never a final name.
	FinalPath  string // Destination after successful placement.
	BackupPath string // In-place only: where the original is parked.
	InPlace    bool

	SrcBytes int64 // Input size, captured at build time (before any swap).
}

// buildJobs derives one job per frame, mirroring the frame's relative
// directory under the shot's destination root. Destination subdirectories
// are created here, on demand, so workers never race on MkdirAll.
//
// The temporary name is dot-prefixed and uuid-tagged: it can never collide
// with a sibling job, never satisfies the resume filter, and is easy to spot
// after a hard interrupt.
func buildJobs(s shot.Shot, frames []shot.Frame) ([]ConversionJob, error) {
	jobs := make([]ConversionJob, 0, len(frames))
	for _, f := range frames {
		destDir := filepath.Join(s.DstDir, f.RelDir())
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return nil, fmt.Errorf("cannot create destination directory %s: %w", destDir, err)
		}

		id := uuid.NewString()
		job := ConversionJob{
			ID:      id,
			Frame:   f,
			SrcPath: f.AbsPath,
			TmpPath: filepath.Join(destDir, fmt.Sprintf(".%s.tmp-%s", f.OutputName(), id[:8])),
			InPlace: s.InPlace,
		}
		if s.InPlace {
			job.FinalPath = f.AbsPath
			job.BackupPath = filepath.Join(filepath.Dir(f.AbsPath), f.BackupName())
		} else {
			job.FinalPath = filepath.Join(destDir, f.OutputName())
		}

		if fi, err := os.Stat(f.AbsPath); err == nil {
			job.SrcBytes = fi.Size()
		}

		jobs = append(jobs, job)
	}
	return jobs, nil
}
