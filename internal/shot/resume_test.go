package shot

import (
	"os"
	"path/filepath"
	"testing"
)

func resolveOne(t *testing.T, dir string, recurse, inPlace bool) Shot {
	t.Helper()
	shots, err := Resolve([]string{dir}, recurse, inPlace, nopLogger{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(shots) != 1 {
		t.Fatalf("got %d shots, want 1", len(shots))
	}
	return shots[0]
}

func TestFilterConverted_NoOutputs(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.exr")
	touch(t, dir, "b.exr")
	touch(t, dir, "c.exr")

	s := resolveOne(t, dir, false, false)
	if got := len(FilterConverted(s)); got != 3 {
		t.Errorf("got %d pending frames, want 3", got)
	}
}

func TestFilterConverted_PartialResume(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.exr")
	touch(t, dir, "b.exr")
	touch(t, dir, "c.exr")

	s := resolveOne(t, dir, false, false)
	os.MkdirAll(s.DstDir, 0o755)
	touch(t, s.DstDir, "a_SBS.exr")
	touch(t, s.DstDir, "c_SBS.exr")

	got := relPaths(FilterConverted(s))
	if len(got) != 1 || got[0] != "b.exr" {
		t.Errorf("got %v, want [b.exr]", got)
	}
}

func TestFilterConverted_FullyConverted(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.exr")
	touch(t, dir, "b.exr")

	s := resolveOne(t, dir, false, false)
	os.MkdirAll(s.DstDir, 0o755)
	touch(t, s.DstDir, "a_SBS.exr")
	touch(t, s.DstDir, "b_SBS.exr")

	if got := len(FilterConverted(s)); got != 0 {
		t.Errorf("got %d pending frames, want 0", got)
	}
}

func TestFilterConverted_NestedDestination(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "layers")
	os.MkdirAll(sub, 0o755)
	touch(t, dir, "a.exr")
	touch(t, sub, "beauty.exr")
	touch(t, sub, "spec.exr")

	s := resolveOne(t, dir, true, false)
	os.MkdirAll(filepath.Join(s.DstDir, "layers"), 0o755)
	touch(t, filepath.Join(s.DstDir, "layers"), "beauty_SBS.exr")

	got := relPaths(FilterConverted(s))
	want := []string{"a.exr", "layers/spec.exr"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFilterConverted_InPlaceNeverFilters(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.exr")
	touch(t, dir, "b.exr")
	touch(t, dir, "a.orig.exr") // backup from a prior run

	s := resolveOne(t, dir, false, true)
	if got := len(FilterConverted(s)); got != len(s.Frames) {
		t.Errorf("got %d pending frames, want all %d", got, len(s.Frames))
	}
}

func TestFilterConverted_DirectoryEntriesIgnored(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.exr")

	s := resolveOne(t, dir, false, false)
	// A directory named like the output must not satisfy the filter.
	os.MkdirAll(filepath.Join(s.DstDir, "a_SBS.exr"), 0o755)

	if got := len(FilterConverted(s)); got != 1 {
		t.Errorf("got %d pending frames, want 1", got)
	}
}
