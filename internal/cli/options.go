package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"grnexport/internal/clibase"
)

// Options holds all CLI flags.
type Options struct {
	// Inputs
	Input           string
	CistopicObj     string
	MotifEnrichment string
	Organism        string

	// Outputs
	Checkpoint string
	GRN        string
	R2G        string
	Triplets   string

	// Misc
	ConfigFile string
	Quiet      bool
	Verbose    bool
	Version    bool
}

// required lists the flags every run needs, in usage order.
var required = []string{
	"path_input",
	"path_cistopic_obj",
	"path_motif_enrichment",
	"organism",
	"path_scenicplus_obj",
	"path_grn",
	"path_r2g",
	"path_tri",
}

// Register wires all flags onto fs.
func Register(fs *pflag.FlagSet, o *Options, help, examples *bool) {
	fs.StringVarP(&o.Input, "path_input", "i", "", "multi-modal input container (expression + accessibility)")
	fs.StringVarP(&o.CistopicObj, "path_cistopic_obj", "c", "", "serialized topic model")
	fs.StringVarP(&o.MotifEnrichment, "path_motif_enrichment", "m", "", "serialized motif enrichment result")
	fs.StringVarP(&o.Organism, "organism", "o", "", "organism key (human)")

	fs.StringVarP(&o.Checkpoint, "path_scenicplus_obj", "s", "", "recovery path for the model if inference fails")
	fs.StringVarP(&o.GRN, "path_grn", "g", "", "TF to gene edges TSV")
	fs.StringVarP(&o.R2G, "path_r2g", "r", "", "region to gene edges TSV")
	fs.StringVarP(&o.Triplets, "path_tri", "t", "", "TF-region-gene triplets TSV")

	fs.StringVar(&o.ConfigFile, "config", "", "YAML runtime configuration")
	fs.BoolVarP(&o.Quiet, "quiet", "q", false, "only print warnings and errors")
	fs.BoolVar(&o.Verbose, "verbose", false, "print debug output, including engine output")
	fs.BoolVarP(&o.Version, "version", "v", false, "print version and exit")
	fs.BoolVarP(help, "help", "h", false, "show this help and exit")
	fs.BoolVar(examples, "examples", false, "show usage examples and exit")
}

// ParseArgs registers and parses all flags. It returns pflag.ErrHelp for
// --help and clibase.ErrPrintedAndExitOK for --examples; printing is left
// to the caller.
func ParseArgs(fs *pflag.FlagSet, argv []string) (Options, error) {
	var (
		opt      Options
		help     bool
		examples bool
	)
	Register(fs, &opt, &help, &examples)

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	switch {
	case help:
		return opt, pflag.ErrHelp
	case examples:
		return opt, clibase.ErrPrintedAndExitOK
	case opt.Version:
		return opt, nil
	}

	if fs.NArg() > 0 {
		return opt, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	var missing []string
	for _, name := range required {
		if v, _ := fs.GetString(name); v == "" {
			missing = append(missing, "--"+name)
		}
	}
	if len(missing) > 0 {
		return opt, fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
	}
	if opt.Quiet && opt.Verbose {
		return opt, errors.New("--quiet conflicts with --verbose")
	}
	return opt, nil
}
