// Package oiio builds and executes oiiotool invocations, one child process
// per frame. The converter is treated as an opaque command: options are
// passed through untouched and only the exit status is interpreted.
package oiio

import (
	"github.com/backmassage/sbsconv/internal/config"
)

// Build constructs the complete oiiotool argument slice for one frame.
//
// The shape matches the original converter invocation: input first, then
// geometry normalization, pixel type, compression, and the output path.
// All subimages are copied unless the first-subimage option is set.
func Build(cfg *config.Config, tool, input, output string) []string {
	args := make([]string, 0, 10)
	args = append(args, tool)

	// -a applies operations to all subimages; omitting it keeps only the
	// first one in the output.
	if !cfg.FirstSubimage {
		args = append(args, "-a")
	}

	args = append(args, input)
	args = append(args, "--fullpixels")
	args = append(args, "-d", string(cfg.DataType))
	args = append(args, "--compression", cfg.CompressionArg())
	args = append(args, "-o", output)
	return args
}
