// Package check resolves the external oiiotool converter and provides the
// --check diagnostics mode.
package check

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/backmassage/sbsconv/internal/config"
)

// ErrToolNotFound is returned when oiiotool cannot be resolved anywhere.
// The hint mentions the OpenImageIO tools package; automatic download of the
// converter is deliberately not supported.
var ErrToolNotFound = errors.New("oiiotool not found (install OpenImageIO tools or pass --tool)")

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// ResolveTool locates the oiiotool executable. Order: explicit --tool path,
// PATH lookup, then well-known install locations. Returns the absolute path
// or ErrToolNotFound.
func ResolveTool(cfg *config.Config) (string, error) {
	if cfg.ToolPath != "" {
		p, err := exec.LookPath(cfg.ToolPath)
		if err != nil {
			return "", fmt.Errorf("--tool %q: %w", cfg.ToolPath, ErrToolNotFound)
		}
		return abs(p), nil
	}

	for _, name := range toolNames() {
		if p, err := exec.LookPath(name); err == nil {
			return abs(p), nil
		}
	}

	for _, candidate := range wellKnownLocations() {
		if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
			return abs(candidate), nil
		}
	}

	return "", ErrToolNotFound
}

// RunCheck runs the interactive --check flow: prints where oiiotool was
// found (or every location searched), its version banner, and the result of
// a trivial self-test invocation. Informational only; it does not stop on
// failure.
func RunCheck(cfg *config.Config, log Logger) {
	log.Info("=== Converter Check ===")

	tool, err := ResolveTool(cfg)
	if err != nil {
		log.Error("%v", err)
		log.Info("Searched PATH for: %s", strings.Join(toolNames(), ", "))
		for _, c := range wellKnownLocations() {
			log.Info("Searched: %s", c)
		}
		return
	}
	log.Success("oiiotool: %s", tool)

	checkVersion(tool, log)
	checkSelfTest(tool, log)
}

// checkVersion logs the first line of oiiotool's help output, which carries
// the OpenImageIO version banner.
func checkVersion(tool string, log Logger) {
	out, err := exec.Command(tool, "--help").Output()
	if err != nil {
		log.Warn("oiiotool found but --help failed: %v", err)
		return
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Info("  %s", firstLine)
}

// checkSelfTest runs a minimal no-output invocation to verify the binary
// actually executes on this host (not just that the file exists).
func checkSelfTest(tool string, log Logger) {
	if runSilent(tool, "--info", "--hash") {
		log.Success("self-test invocation works")
	} else {
		log.Error("self-test invocation failed (binary present but not runnable?)")
	}
}

// --- internal helpers ---

// toolNames returns the executable names to search on PATH.
func toolNames() []string {
	if runtime.GOOS == "windows" {
		return []string{"oiiotool.exe", "oiiotool"}
	}
	return []string{"oiiotool"}
}

// wellKnownLocations returns install paths checked after PATH: the vcpkg
// tree under the user's home directory and, on Windows, the OpenImageIO
// Program Files directories.
func wellKnownLocations() []string {
	var out []string
	exe := "oiiotool"
	if runtime.GOOS == "windows" {
		exe = "oiiotool.exe"
	}

	if home, err := os.UserHomeDir(); err == nil {
		out = append(out,
			filepath.Join(home, "vcpkg", "installed", "x64-windows", "tools", "openimageio", exe),
			filepath.Join(home, "vcpkg", "installed", "x64-linux", "tools", "openimageio", exe),
		)
	}

	if runtime.GOOS == "windows" {
		for _, env := range []string{"PROGRAMFILES", "PROGRAMFILES(X86)"} {
			if base := os.Getenv(env); base != "" {
				out = append(out, filepath.Join(base, "OpenImageIO", "bin", exe))
			}
		}
	} else {
		out = append(out, "/usr/local/bin/"+exe, "/opt/openimageio/bin/"+exe)
	}
	return out
}

func abs(p string) string {
	a, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return a
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
