package jsonutil

import (
	"encoding/json"
	"io"

	"github.com/spf13/afero"
)

// EncodePretty writes v as indented JSON to w.
func EncodePretty(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteFile writes v as indented JSON to path, truncating it.
func WriteFile(fs afero.Fs, path string, v any) error {
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	if err := EncodePretty(f, v); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
