// Package checkpoint saves a regulatory model to a recovery file when
// inference fails, and reads it back.
//
// A checkpoint is a zstd stream holding one CBOR-encoded File. Missing
// values (NaN) and absent tables survive the round trip.
package checkpoint

import (
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"

	"grnexport/internal/grnerr"
	"grnexport/internal/model"
)

// FormatVersion is bumped whenever File or the model encoding changes
// incompatibly.
const FormatVersion = 1

var ErrVersion = errors.New("unsupported checkpoint version")

// File is the checkpoint envelope.
type File struct {
	Version int          `cbor:"version"`
	RunID   string       `cbor:"run_id,omitempty"`
	Cause   string       `cbor:"cause,omitempty"`
	Written time.Time    `cbor:"written"`
	Model   *model.Model `cbor:"model"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		panic(err)
	}
	// Tables routinely exceed the default element cap.
	decMode, err = cbor.DecOptions{MaxArrayElements: math.MaxInt32, MaxMapPairs: math.MaxInt32}.DecMode()
	if err != nil {
		panic(err)
	}
}

// Save writes f to path. The file appears atomically; an existing
// checkpoint is replaced.
func Save(fs afero.Fs, path string, f File) error {
	if f.Version == 0 {
		f.Version = FormatVersion
	}
	tmp, err := afero.TempFile(fs, filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return &grnerr.IOError{Op: "create", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	if err := encode(tmp, f); err != nil {
		_ = tmp.Close()
		_ = fs.Remove(tmpName)
		return &grnerr.IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = fs.Remove(tmpName)
		return &grnerr.IOError{Op: "write", Path: path, Err: err}
	}
	if err := fs.Rename(tmpName, path); err != nil {
		_ = fs.Remove(tmpName)
		return &grnerr.IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

func encode(w io.Writer, f File) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if err := encMode.NewEncoder(zw).Encode(f); err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}

// Open reads the whole checkpoint at path.
func Open(fs afero.Fs, path string) (*File, error) {
	fh, err := fs.Open(path)
	if err != nil {
		return nil, &grnerr.IOError{Op: "open", Path: path, Err: err}
	}
	defer fh.Close()

	zr, err := zstd.NewReader(fh)
	if err != nil {
		return nil, &grnerr.IOError{Op: "read", Path: path, Err: err}
	}
	defer zr.Close()

	var f File
	if err := decMode.NewDecoder(zr).Decode(&f); err != nil {
		return nil, &grnerr.IOError{Op: "decode", Path: path, Err: err}
	}
	if f.Version != FormatVersion {
		return nil, &grnerr.IOError{Op: "decode", Path: path, Err: fmt.Errorf("%w %d", ErrVersion, f.Version)}
	}
	if f.Model == nil {
		f.Model = model.New(model.Sources{})
	}
	return &f, nil
}

// Load restores the model stored at path.
func Load(fs afero.Fs, path string) (*model.Model, error) {
	f, err := Open(fs, path)
	if err != nil {
		return nil, err
	}
	return f.Model, nil
}
