// Package config holds runtime configuration: defaults, CLI flag parsing, and
// validation. Defaults match the original SBS GUI tool so existing shot trees
// convert identically.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// --- Enum types for validated string fields ---

// Codec is the EXR compression codec passed through to oiiotool.
type Codec string

const (
	CodecZIP  Codec = "zip"  // Lossless zip compression.
	CodecDWAA Codec = "dwaa" // Lossy DWA, scanline blocks.
	CodecDWAB Codec = "dwab" // Lossy DWA, larger blocks (default).
	CodecNone Codec = "none" // Uncompressed.
)

// PixelType selects the output pixel data type.
type PixelType string

const (
	PixelFloat PixelType = "float" // 32-bit float (default).
	PixelHalf  PixelType = "half"  // 16-bit half float.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] before being passed (by pointer) to packages
// that need it. It is not mutated once the run starts.
type Config struct {
	// Input shot directories (positional args; stdin when empty).
	ShotDirs []string

	// Conversion options passed through to oiiotool.
	Compression   Codec     // Default: "dwab".
	CodecLevel    int       // Default: 45. Applies to dwaa/dwab only.
	DataType      PixelType // Default: "float".
	FirstSubimage bool      // Default: false (copy all subimages).

	// Behavior flags.
	Recurse bool // Descend into shot subdirectories.
	InPlace bool // Replace sources via backup-then-swap.
	DryRun  bool // Report work without launching converters.
	Quiet   bool // Suppress per-frame log lines (not progress/summary).

	// Concurrency.
	Workers int // Default: 0 = number of logical CPUs.

	// Converter resolution.
	ToolPath string // Optional explicit oiiotool path.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.

	// Finalizer tuning (not user-configurable; tests override).
	MoveRetryInterval int // Milliseconds between contested-move retries.
	MoveTimeout       int // Total milliseconds before a contested move fails.
}

// DefaultConfig returns a Config with all defaults matching the original
// SBS converter behavior. Used as the base before [ParseFlags] applies
// CLI overrides.
func DefaultConfig() Config {
	return Config{
		Compression:       CodecDWAB,
		CodecLevel:        45,
		DataType:          PixelFloat,
		FirstSubimage:     false,
		Recurse:           false,
		InPlace:           false,
		DryRun:            false,
		Quiet:             false,
		Workers:           0,
		Verbose:           false,
		ColorMode:         ColorAuto,
		CheckOnly:         false,
		MoveRetryInterval: 500,
		MoveTimeout:       30000,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks that enum fields (compression, data type, color) hold valid
// values and that the codec level is sane for the chosen codec.
func (c *Config) Validate() error {
	switch c.Compression {
	case CodecZIP, CodecDWAA, CodecDWAB, CodecNone:
		// valid
	default:
		return errors.New("invalid compression (use 'zip', 'dwaa', 'dwab' or 'none')")
	}

	switch c.DataType {
	case PixelFloat, PixelHalf:
		// valid
	default:
		return errors.New("invalid data type (use 'float' or 'half')")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.CodecLevel <= 0 {
		return fmt.Errorf("invalid compression level %d (use a positive value, e.g. 45)", c.CodecLevel)
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid worker count %d", c.Workers)
	}
	return nil
}

// CompressionArg returns the oiiotool --compression value: the codec name
// with the level suffix appended for the DWA codecs ("dwab:45").
func (c *Config) CompressionArg() string {
	switch c.Compression {
	case CodecDWAA, CodecDWAB:
		return fmt.Sprintf("%s:%d", c.Compression, c.CodecLevel)
	default:
		return string(c.Compression)
	}
}
