package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/backmassage/sbsconv/internal/config"
)

// fastFinalizer uses short retry timing so contested-move tests stay quick.
func fastFinalizer() *finalizer {
	cfg := config.DefaultConfig()
	cfg.MoveRetryInterval = 10
	cfg.MoveTimeout = 100
	return newFinalizer(&cfg)
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func read(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func TestPlace_Sibling(t *testing.T) {
	dir := t.TempDir()
	job := ConversionJob{
		TmpPath:   filepath.Join(dir, ".a_SBS.exr.tmp-1"),
		FinalPath: filepath.Join(dir, "a_SBS.exr"),
	}
	write(t, job.TmpPath, "converted")

	if err := fastFinalizer().Place(job); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if read(t, job.FinalPath) != "converted" {
		t.Error("final content wrong")
	}
	if exists(job.TmpPath) {
		t.Error("temp file left behind")
	}
}

func TestPlace_SiblingOverwritesStaleDestination(t *testing.T) {
	dir := t.TempDir()
	job := ConversionJob{
		TmpPath:   filepath.Join(dir, ".a_SBS.exr.tmp-1"),
		FinalPath: filepath.Join(dir, "a_SBS.exr"),
	}
	write(t, job.TmpPath, "new")
	write(t, job.FinalPath, "stale")

	if err := fastFinalizer().Place(job); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if read(t, job.FinalPath) != "new" {
		t.Error("stale destination not replaced")
	}
}

func TestPlace_InPlaceSwap(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.exr")
	job := ConversionJob{
		SrcPath:    src,
		TmpPath:    filepath.Join(dir, ".a_SBS.exr.tmp-1"),
		FinalPath:  src,
		BackupPath: filepath.Join(dir, "a.orig.exr"),
		InPlace:    true,
	}
	write(t, src, "original")
	write(t, job.TmpPath, "converted")

	if err := fastFinalizer().Place(job); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if read(t, src) != "converted" {
		t.Error("source not replaced with converted data")
	}
	if read(t, job.BackupPath) != "original" {
		t.Error("backup does not hold the original")
	}
	if exists(job.TmpPath) {
		t.Error("temp file left behind")
	}
}

func TestPlace_InPlacePreservesExistingBackup(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.exr")
	job := ConversionJob{
		SrcPath:    src,
		TmpPath:    filepath.Join(dir, ".a_SBS.exr.tmp-1"),
		FinalPath:  src,
		BackupPath: filepath.Join(dir, "a.orig.exr"),
		InPlace:    true,
	}
	// A prior interrupted run: backup holds the true original, source holds
	// a half-swapped state. The backup must never be overwritten.
	write(t, job.BackupPath, "true original")
	write(t, src, "half swapped")
	write(t, job.TmpPath, "converted")

	if err := fastFinalizer().Place(job); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if read(t, job.BackupPath) != "true original" {
		t.Error("pre-existing backup was overwritten")
	}
	if read(t, src) != "converted" {
		t.Error("source not replaced with converted data")
	}
}

func TestPlace_InPlaceBackupFailureCleansTemp(t *testing.T) {
	dir := t.TempDir()
	job := ConversionJob{
		SrcPath:    filepath.Join(dir, "missing.exr"), // rename will fail
		TmpPath:    filepath.Join(dir, ".a.tmp-1"),
		FinalPath:  filepath.Join(dir, "missing.exr"),
		BackupPath: filepath.Join(dir, "missing.orig.exr"),
		InPlace:    true,
	}
	write(t, job.TmpPath, "converted")

	if err := fastFinalizer().Place(job); err == nil {
		t.Fatal("expected backup failure")
	}
	if exists(job.TmpPath) {
		t.Error("temp file must be removed when the swap fails")
	}
}

func TestMoveWithRetry_TimesOutAndKeepsSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	write(t, src, "data")
	// Destination inside a missing directory: every rename attempt fails.
	dst := filepath.Join(dir, "no-such-dir", "dst")

	err := fastFinalizer().moveWithRetry(src, dst)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !exists(src) {
		t.Error("source must survive a failed move for manual recovery")
	}
}

func TestDiscard_RemovesTemp(t *testing.T) {
	dir := t.TempDir()
	job := ConversionJob{TmpPath: filepath.Join(dir, ".a.tmp-1")}
	write(t, job.TmpPath, "partial")

	fastFinalizer().Discard(job)
	if exists(job.TmpPath) {
		t.Error("temp file not removed")
	}
}
