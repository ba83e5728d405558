package shot

import (
	"os"
	"path/filepath"
	"testing"
)

type nopLogger struct{}

func (nopLogger) Warn(string, ...interface{}) {}

func touch(t *testing.T, dir, name string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte{}, 0o644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
}

func relPaths(frames []Frame) []string {
	out := make([]string, len(frames))
	for i, f := range frames {
		out[i] = filepath.ToSlash(f.RelPath)
	}
	return out
}

func TestFrame_OutputName(t *testing.T) {
	tests := []struct {
		name string
		rel  string
		want string
	}{
		{"plain", "a.exr", "a_SBS.exr"},
		{"frame number", "sh020.1001.exr", "sh020.1001_SBS.exr"},
		{"nested", filepath.Join("layers", "beauty.exr"), "beauty_SBS.exr"},
		{"upper extension kept", "A.EXR", "A_SBS.EXR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Frame{RelPath: tt.rel}
			if got := f.OutputName(); got != tt.want {
				t.Errorf("OutputName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFrame_BackupName(t *testing.T) {
	f := Frame{RelPath: "sh020.1001.exr"}
	if got := f.BackupName(); got != "sh020.1001.orig.exr" {
		t.Errorf("BackupName() = %q, want sh020.1001.orig.exr", got)
	}
}

func TestResolve_SiblingDestination(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.exr")

	shots, err := Resolve([]string{dir}, false, false, nopLogger{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(shots) != 1 {
		t.Fatalf("got %d shots, want 1", len(shots))
	}
	s := shots[0]
	if s.DstDir != s.SrcDir+Suffix {
		t.Errorf("DstDir = %q, want %q", s.DstDir, s.SrcDir+Suffix)
	}
	if s.Name != filepath.Base(s.SrcDir) {
		t.Errorf("Name = %q, want %q", s.Name, filepath.Base(s.SrcDir))
	}
}

func TestResolve_InPlaceDestination(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.exr")

	shots, err := Resolve([]string{dir}, false, true, nopLogger{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if shots[0].DstDir != shots[0].SrcDir {
		t.Errorf("in-place DstDir = %q, want SrcDir %q", shots[0].DstDir, shots[0].SrcDir)
	}
}

func TestResolve_SkipsInvalidPaths(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.exr")
	touch(t, dir, "plainfile.txt")

	shots, err := Resolve([]string{
		filepath.Join(dir, "does-not-exist"),
		filepath.Join(dir, "plainfile.txt"),
		dir,
	}, false, false, nopLogger{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(shots) != 1 {
		t.Errorf("got %d shots, want 1 (invalid paths skipped)", len(shots))
	}
}

func TestResolve_NoValidInput(t *testing.T) {
	_, err := Resolve([]string{"/does/not/exist/anywhere"}, false, false, nopLogger{})
	if err != ErrNoValidInput {
		t.Errorf("got %v, want ErrNoValidInput", err)
	}
}

func TestListFrames_FiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.exr")
	touch(t, dir, "a.exr")
	touch(t, dir, "a_SBS.exr")    // converted output, not an input
	touch(t, dir, "a.orig.exr")   // swap backup, not an input
	touch(t, dir, "notes.txt")    // wrong extension
	touch(t, dir, "UPPER.EXR")    // extension match is case-insensitive

	shots, err := Resolve([]string{dir}, false, false, nopLogger{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	got := relPaths(shots[0].Frames)
	want := []string{"UPPER.EXR", "a.exr", "b.exr"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}

func TestListFrames_NonRecursiveIgnoresSubdirs(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.exr")
	sub := filepath.Join(dir, "layers")
	os.MkdirAll(sub, 0o755)
	touch(t, sub, "beauty.exr")

	shots, err := Resolve([]string{dir}, false, false, nopLogger{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(shots[0].Frames) != 1 {
		t.Errorf("got %d frames, want 1 (subdirs pruned without -r)", len(shots[0].Frames))
	}
}

func TestListFrames_RecursiveDescends(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.exr")
	sub := filepath.Join(dir, "layers")
	os.MkdirAll(sub, 0o755)
	touch(t, sub, "beauty.exr")

	shots, err := Resolve([]string{dir}, true, false, nopLogger{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	got := relPaths(shots[0].Frames)
	want := []string{"a.exr", "layers/beauty.exr"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestListFrames_PrunesOutputDirs(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.exr")
	out := filepath.Join(dir, "layers_SBS")
	os.MkdirAll(out, 0o755)
	touch(t, out, "stale.exr")

	shots, err := Resolve([]string{dir}, true, false, nopLogger{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(shots[0].Frames) != 1 {
		t.Errorf("got %d frames, want 1 (suffixed dirs never scanned)", len(shots[0].Frames))
	}
}
