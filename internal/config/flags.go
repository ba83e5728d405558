package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into conversion, behavior, display, and utility.
// Shot directories come from positional args; when none are given the
// caller falls back to reading paths from stdin (see ReadShotDirs).

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// version and commit are shown in --version and help; override at build time
// with -ldflags "-X github.com/backmassage/sbsconv/internal/config.version=...".
var (
	version = "1.0.0-dev"
	commit  = "unknown"
)

// ParseFlags parses args (usually os.Args[1:]) into cfg. On --help or
// --version it prints and exits. On error it returns non-nil (e.g. unknown
// flag, invalid enum value).
func ParseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("sbsconv", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs) }

	var util utilityFlags

	defineConversionFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &util)
	defineUtilityFlags(fs, cfg, &util)

	if err := fs.Parse(args); err != nil {
		return err
	}

	applyColorFlags(cfg, &util)

	if util.showHelp {
		printUsage(fs)
		os.Exit(0)
	}
	if util.showVersion {
		fmt.Fprintln(os.Stdout, "sbsconv v"+version+" ("+commit+")")
		os.Exit(0)
	}

	for _, a := range fs.Args() {
		cfg.ShotDirs = append(cfg.ShotDirs, NormalizeDirArg(a))
	}
	return nil
}

// utilityFlags holds flags that are applied after Parse: color overrides and
// help/version (which exit after printing).
type utilityFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineConversionFlags registers --compression, --level, --type, --first-subimage.
func defineConversionFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Var(&codecValue{&cfg.Compression}, "compression", "EXR codec: zip | dwaa | dwab | none")
	fs.IntVar(&cfg.CodecLevel, "level", cfg.CodecLevel, "DWA compression level")
	fs.Var(&pixelTypeValue{&cfg.DataType}, "type", "Pixel data type: float | half")
	fs.Var(&pixelTypeValue{&cfg.DataType}, "t", "Same as --type")
	fs.BoolVar(&cfg.FirstSubimage, "first-subimage", false, "Copy only the first subimage")
}

// defineBehaviorFlags registers recurse, in-place, dry-run, quiet, workers, tool.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config) {
	fs.BoolVar(&cfg.Recurse, "recurse", false, "Descend into shot subdirectories")
	fs.BoolVar(&cfg.Recurse, "r", false, "Same as --recurse")
	fs.BoolVar(&cfg.InPlace, "in-place", false, "Replace source frames (backup-then-swap)")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Preview only; do not convert")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Suppress per-frame log lines")
	fs.BoolVar(&cfg.Quiet, "q", false, "Same as --quiet")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Concurrent converter processes (0 = logical CPUs)")
	fs.StringVar(&cfg.ToolPath, "tool", "", "Explicit path to oiiotool")
}

// defineDisplayFlags registers --color, --no-color, verbose, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, u *utilityFlags) {
	fs.BoolVar(&u.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&u.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output (converter stderr, per-job detail)")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --check, --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, cfg *Config, u *utilityFlags) {
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run converter diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.BoolVar(&u.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&u.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&u.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&u.showHelp, "h", false, "Same as --help")
}

// applyColorFlags resolves --color/--no-color into cfg.ColorMode.
func applyColorFlags(cfg *Config, u *utilityFlags) {
	if u.noColor {
		cfg.ColorMode = ColorNever
	} else if u.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// ReadShotDirs reads newline-delimited shot directory paths from r until a
// blank line or EOF. Used when no positional args are given, so the tool can
// be driven by a folder-selection front end writing to its stdin.
func ReadShotDirs(r io.Reader) ([]string, error) {
	var dirs []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			break
		}
		dirs = append(dirs, NormalizeDirArg(line))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return dirs, nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet) {
	const col1 = 28 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "sbsconv v" + version + " - batch EXR shot converter (oiiotool front end)"},
		{"", ""},
		{"  sbsconv [OPTIONS] [shot_dir ...]", ""},
		{"", ""},
		{"  With no shot_dir arguments, paths are read from stdin", ""},
		{"  (one per line) until a blank line or EOF.", ""},
		{"", ""},
		{"Conversion", ""},
		{"  --compression <codec>", "EXR codec: zip | dwaa | dwab | none (default: dwab)"},
		{"  --level <n>", "DWA compression level (default: 45)"},
		{"  -t, --type <float|half>", "Pixel data type (default: float)"},
		{"  --first-subimage", "Copy only the first subimage (default: all)"},
		{"", ""},
		{"Behavior", ""},
		{"  -r, --recurse", "Descend into shot subdirectories"},
		{"  --in-place", "Replace source frames (backup-then-swap)"},
		{"  -d, --dry-run", "Preview only; do not convert"},
		{"  -q, --quiet", "Suppress per-frame log lines"},
		{"  --workers <n>", "Concurrent converter processes (default: logical CPUs)"},
		{"  --tool <path>", "Explicit path to oiiotool"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "Converter diagnostics (oiiotool lookup + self-test)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapters so we can use enum types (Codec, PixelType) with flag.Var.

type codecValue struct{ p *Codec }

func (c *codecValue) String() string {
	if c.p == nil {
		return ""
	}
	return string(*c.p)
}
func (c *codecValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "zip":
		*c.p = CodecZIP
	case "dwaa":
		*c.p = CodecDWAA
	case "dwab":
		*c.p = CodecDWAB
	case "none":
		*c.p = CodecNone
	default:
		return fmt.Errorf("invalid compression %q (use 'zip', 'dwaa', 'dwab' or 'none')", s)
	}
	return nil
}

type pixelTypeValue struct{ p *PixelType }

func (p *pixelTypeValue) String() string {
	if p.p == nil {
		return ""
	}
	return string(*p.p)
}
func (p *pixelTypeValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "float":
		*p.p = PixelFloat
	case "half":
		*p.p = PixelHalf
	default:
		return fmt.Errorf("invalid data type %q (use 'float' or 'half')", s)
	}
	return nil
}
