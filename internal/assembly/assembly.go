// Package assembly builds the initial regulatory model from the three run
// inputs. Decoding the multi-modal container and the serialized topic and
// motif objects is the engine's job; this package only checks the inputs
// and records where they live.
package assembly

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"grnexport/internal/grnerr"
	"grnexport/internal/model"
)

var (
	ErrNotRegular = errors.New("not a regular file")
	ErrEmpty      = errors.New("file is empty")
	ErrNotDir     = errors.New("not a directory")
)

type Assembler interface {
	Assemble(ctx context.Context, src model.Sources) (*model.Model, error)
}

// Files is the default Assembler. The model it returns has no tables yet.
type Files struct {
	Fs afero.Fs
}

func (f Files) Assemble(ctx context.Context, src model.Sources) (*model.Model, error) {
	for _, p := range []string{src.Expression, src.TopicModel, src.MotifEnrichment} {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := CheckInput(f.Fs, p); err != nil {
			return nil, err
		}
	}
	return model.New(src), nil
}

// CheckInput requires path to be an existing, non-empty regular file.
func CheckInput(fs afero.Fs, path string) error {
	fi, err := fs.Stat(path)
	if err != nil {
		return &grnerr.IOError{Op: "stat", Path: path, Err: err}
	}
	if !fi.Mode().IsRegular() {
		return &grnerr.IOError{Op: "open", Path: path, Err: ErrNotRegular}
	}
	if fi.Size() == 0 {
		return &grnerr.IOError{Op: "read", Path: path, Err: ErrEmpty}
	}
	return nil
}

// CheckOutputDir requires the directory that will hold path to exist.
func CheckOutputDir(fs afero.Fs, path string) error {
	dir := filepath.Dir(path)
	fi, err := fs.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &grnerr.IOError{Op: "create", Path: path, Err: err}
		}
		return &grnerr.IOError{Op: "stat", Path: dir, Err: err}
	}
	if !fi.IsDir() {
		return &grnerr.IOError{Op: "create", Path: path, Err: ErrNotDir}
	}
	return nil
}
