package writers

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"syscall"

	"github.com/spf13/afero"

	"grnexport/internal/grnerr"
	"grnexport/internal/model"
	"grnexport/internal/output"
)

// IsBrokenPipe reports whether an error is a broken pipe / closed pipe.
// Useful when downstream consumers (like `head`) close stdout early.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}

// WriteTable writes t as TSV with a header row.
func WriteTable(w io.Writer, t output.Table) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteFile truncates path and writes t to it in a single pass.
func WriteFile(fs afero.Fs, path string, t output.Table) error {
	f, err := fs.Create(path)
	if err != nil {
		return &grnerr.IOError{Op: "create", Path: path, Err: err}
	}
	bw := bufio.NewWriterSize(f, 64<<10)
	err = WriteTable(bw, t)
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return &grnerr.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// Export renders kind from m and writes it to path. It returns the number
// of data rows written.
func Export(fs afero.Fs, kind, path string, m *model.Model) (int, error) {
	t, err := Render(kind, m)
	if err != nil {
		return 0, err
	}
	if err := WriteFile(fs, path, t); err != nil {
		return 0, err
	}
	return len(t.Rows), nil
}
