// Package shot models the input side of the converter: shots (directories
// of frames), the frames discovered inside them, and the resume filter that
// drops frames whose output already exists.
package shot

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// Suffix names both the sibling destination directory (<shot>_SBS) and
	// the converted output files (<base>_SBS.exr).
	Suffix = "_SBS"

	// BackupInfix is inserted before the extension when an in-place swap
	// backs up the original (a.exr -> a.orig.exr).
	BackupInfix = ".orig"

	frameExt = ".exr"
)

// ErrNoValidInput is returned when none of the requested paths is a usable
// shot directory. This is a fatal setup error.
var ErrNoValidInput = errors.New("no valid input directories")

// Logger is the minimal logging interface the enumerator needs to report
// skipped paths without importing the logging package.
type Logger interface {
	Warn(string, ...interface{})
}

// Frame is one discoverable input file within a shot.
type Frame struct {
	AbsPath string // Absolute source file path.
	RelPath string // Path relative to the shot root (OS separators).
}

// OutputName derives the converted file's base name: the source base name
// with the fixed suffix inserted before the extension.
func (f Frame) OutputName() string {
	base := filepath.Base(f.RelPath)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + Suffix + ext
}

// BackupName derives the in-place backup base name (a.exr -> a.orig.exr).
func (f Frame) BackupName() string {
	base := filepath.Base(f.RelPath)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + BackupInfix + ext
}

// RelDir returns the frame's directory relative to the shot root ("." for
// frames at the top level).
func (f Frame) RelDir() string {
	return filepath.Dir(f.RelPath)
}

// Shot is one validated input directory with its candidate frames.
// Constructed once per run and immutable thereafter.
type Shot struct {
	Name    string  // Base name of the source directory.
	SrcDir  string  // Canonical absolute source path.
	DstDir  string  // Destination root: SrcDir+Suffix, or SrcDir when in-place.
	InPlace bool    // Outputs replace sources.
	Frames  []Frame // Unfiltered candidates, sorted by RelPath.
}

// Resolve validates the requested paths and enumerates each shot's candidate
// frames. Paths that do not exist or are not directories are skipped with a
// warning; an empty validated set is ErrNoValidInput. The returned order
// follows the input order, with each shot's frames sorted for a stable
// dispatch order and reproducible progress percentages.
func Resolve(paths []string, recurse, inPlace bool, log Logger) ([]Shot, error) {
	shots := make([]Shot, 0, len(paths))
	for _, p := range paths {
		abs, err := canonical(p)
		if err != nil {
			log.Warn("Skipping %s: %v", p, err)
			continue
		}
		fi, err := os.Stat(abs)
		if err != nil {
			log.Warn("Skipping %s: not found", p)
			continue
		}
		if !fi.IsDir() {
			log.Warn("Skipping %s: not a directory", p)
			continue
		}

		s := Shot{
			Name:    filepath.Base(abs),
			SrcDir:  abs,
			DstDir:  abs + Suffix,
			InPlace: inPlace,
		}
		if inPlace {
			s.DstDir = abs
		}

		frames, err := listFrames(abs, recurse)
		if err != nil {
			log.Warn("Skipping %s: %v", p, err)
			continue
		}
		s.Frames = frames
		shots = append(shots, s)
	}

	if len(shots) == 0 {
		return nil, ErrNoValidInput
	}
	return shots, nil
}

// listFrames collects candidate frames under root. Directories carrying the
// destination suffix are pruned so a sibling output tree is never scanned as
// input, and files already named like outputs are excluded so converted
// frames are not re-converted.
func listFrames(root string, recurse bool) ([]Frame, error) {
	var frames []Frame
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if !recurse || isOutputName(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !isFrameFile(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		frames = append(frames, Frame{AbsPath: path, RelPath: rel})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(frames, func(i, j int) bool { return frames[i].RelPath < frames[j].RelPath })
	return frames, nil
}

// isFrameFile reports whether name is a candidate input: the frame extension
// (case-insensitive) and not already a converted output or a swap backup.
func isFrameFile(name string) bool {
	ext := filepath.Ext(name)
	if !strings.EqualFold(ext, frameExt) {
		return false
	}
	stem := strings.TrimSuffix(name, ext)
	if strings.HasSuffix(stem, Suffix) {
		return false
	}
	return !strings.HasSuffix(stem, BackupInfix)
}

// isOutputName reports whether a directory name carries the destination
// suffix (e.g. "seq010_SBS").
func isOutputName(name string) bool {
	return strings.HasSuffix(name, Suffix)
}

// canonical returns the absolute path with symlinks resolved so shots are
// compared and reported consistently.
func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return resolved, nil
}
