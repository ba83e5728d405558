// Command sbsconv is the entrypoint for the sbsconv batch EXR converter.
// It parses flags, validates config, and either runs converter diagnostics
// (--check) or the conversion pipeline over the given shot directories.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/backmassage/sbsconv/internal/check"
	"github.com/backmassage/sbsconv/internal/config"
	"github.com/backmassage/sbsconv/internal/display"
	"github.com/backmassage/sbsconv/internal/logging"
	"github.com/backmassage/sbsconv/internal/pipeline"
)

func main() {
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "sbsconv: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "sbsconv: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sbsconv: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	display.PrintBanner()

	if cfg.CheckOnly {
		check.RunCheck(&cfg, log)
		os.Exit(0)
	}

	// With no positional args the tool reads shot paths from stdin, one per
	// line, until a blank line or EOF. This is how the folder-picker front
	// end drives it.
	if len(cfg.ShotDirs) == 0 {
		dirs, err := config.ReadShotDirs(os.Stdin)
		if err != nil {
			log.Error("Cannot read shot paths from stdin: %v", err)
			os.Exit(1)
		}
		cfg.ShotDirs = dirs
	}
	if len(cfg.ShotDirs) == 0 {
		log.Error("No shot directories given (pass paths as arguments or on stdin)")
		os.Exit(1)
	}

	tool, err := check.ResolveTool(&cfg)
	if err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	// Ctrl-C cancels the context: running converter processes are killed,
	// no new frames are admitted, and the summary still prints.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := pipeline.Run(ctx, &cfg, log, tool); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}
