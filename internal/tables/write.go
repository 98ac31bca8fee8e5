package tables

import (
	"bufio"
	"io"
	"path/filepath"

	"github.com/spf13/afero"

	"grnexport/internal/grnerr"
	"grnexport/internal/model"
)

func WriteTF2G(w io.Writer, tbl *model.TF2GTable) error {
	cw := newWriter(w)
	if err := cw.Write(Columns[model.TableTF2G]); err != nil {
		return err
	}
	for _, r := range tbl.Rows {
		if err := cw.Write([]string{
			r.TF, r.Target, FormatFloat(r.Importance), FormatFloat(r.ImportanceXRho),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteR2G(w io.Writer, tbl *model.R2GTable) error {
	cw := newWriter(w)
	if err := cw.Write(Columns[model.TableR2G]); err != nil {
		return err
	}
	for _, r := range tbl.Rows {
		if err := cw.Write([]string{
			r.Target, r.Region, FormatFloat(r.Distance),
			FormatFloat(r.Importance), FormatFloat(r.Rho), FormatFloat(r.ImportanceXRho),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteTriplets(w io.Writer, tbl *model.TripletTable) error {
	cw := newWriter(w)
	if err := cw.Write(Columns[model.TableTriplets]); err != nil {
		return err
	}
	for _, r := range tbl.Rows {
		if err := cw.Write([]string{
			r.TF, r.Gene, r.Region, FormatBool(r.IsExtended),
			FormatFloat(r.R2GImportance), FormatFloat(r.R2GRho),
			FormatFloat(r.R2GImportanceXRho), FormatFloat(r.R2GImportanceXAbsRho),
			FormatFloat(r.TF2GImportance), FormatFloat(r.TF2GRegulation), FormatFloat(r.TF2GRho),
			FormatFloat(r.TF2GImportanceXAbsRho), FormatFloat(r.TF2GImportanceXRho),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDir writes every present table of m into dir, creating dir.
func WriteDir(fs afero.Fs, dir string, m *model.Model) error {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return &grnerr.IOError{Op: "mkdir", Path: dir, Err: err}
	}
	for _, t := range model.AllTables() {
		if !m.Has(t) {
			continue
		}
		path := filepath.Join(dir, FileName(t))
		if err := writeFile(fs, path, t, m); err != nil {
			return &grnerr.IOError{Op: "write", Path: path, Err: err}
		}
	}
	return nil
}

func writeFile(fs afero.Fs, path string, t model.Table, m *model.Model) error {
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(f, 64<<10)
	switch t {
	case model.TableTF2G:
		err = WriteTF2G(bw, m.TF2G)
	case model.TableR2G:
		err = WriteR2G(bw, m.R2G)
	case model.TableTriplets:
		err = WriteTriplets(bw, m.Triplets)
	}
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
