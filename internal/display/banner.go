package display

import (
	"fmt"
	"os"

	"github.com/backmassage/sbsconv/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if term.Magenta != "" {
		fmt.Fprint(os.Stdout, term.Magenta)
	}
	fmt.Fprint(os.Stdout, `     _
 ___| |__  ___  ___ ___  _ ____   __
/ __| '_ \/ __|/ __/ _ \| '_ \ \ / /
\__ \ |_) \__ \ (_| (_) | | | \ V /
|___/_.__/|___/\___\___/|_| |_|\_/
`)
	if term.Magenta != "" {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}
