package clibase

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"grnexport/internal/version"
)

// PrintUsage writes the help screen for fs: a header, the flag list and
// any tool-specific trailer.
func PrintUsage(out io.Writer, fs *pflag.FlagSet, name string, extra func(out io.Writer)) {
	if out == nil {
		return
	}
	fmt.Fprintf(out, "%s – regulatory network inference and export\n\n", name)
	fmt.Fprintf(out, "Version: %s (%s)\n\n", version.Version, version.GitSHA)
	fmt.Fprintf(out, "Usage:\n  %s -i INPUT -c CISTOPIC -m MOTIFS -o ORGANISM -s CHECKPOINT -g GRN -r R2G -t TRI [flags]\n\n", name)
	fmt.Fprintln(out, "Flags:")
	fmt.Fprint(out, fs.FlagUsages())
	if extra != nil {
		fmt.Fprintln(out)
		extra(out)
	}
}
