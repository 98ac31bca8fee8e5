package cli

import (
	"io"

	"github.com/spf13/pflag"
)

// NewFlagSet returns a silent FlagSet with ContinueOnError. The caller
// prints errors and usage itself.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.SortFlags = false
	return fs
}
