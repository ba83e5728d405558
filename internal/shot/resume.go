package shot

import (
	"os"
	"path/filepath"
)

// FilterConverted returns the frames of s that still need conversion.
//
// In-place mode never filters: every frame is a candidate on every run, and
// idempotence is handled downstream by the finalizer's backup check.
//
// Sibling mode drops frames whose derived output name already exists in the
// corresponding destination directory. Resume is purely output-existence
// based; there is no manifest, so a prior partial write that reached its
// final name is treated as complete.
func FilterConverted(s Shot) []Frame {
	if s.InPlace {
		return s.Frames
	}

	// One listing per destination subdirectory; mirroring preserves the
	// relative structure, so each frame maps into exactly one of them.
	existing := make(map[string]map[string]bool)

	remaining := make([]Frame, 0, len(s.Frames))
	for _, f := range s.Frames {
		dir := f.RelDir()
		names, ok := existing[dir]
		if !ok {
			names = listNames(filepath.Join(s.DstDir, dir))
			existing[dir] = names
		}
		if names[f.OutputName()] {
			continue
		}
		remaining = append(remaining, f)
	}
	return remaining
}

// listNames returns the base names of the regular files in dir. A missing or
// unreadable directory reads as empty: everything then counts as pending,
// which at worst re-converts rather than skips.
func listNames(dir string) map[string]bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return map[string]bool{}
	}
	names := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names[e.Name()] = true
	}
	return names
}
