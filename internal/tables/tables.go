// Package tables reads and writes the regulatory model's annotation tables in
// the engine's own column layout: one tab-separated file per table, named
// after the table, with a header row.
package tables

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"

	"grnexport/internal/grnerr"
	"grnexport/internal/model"
)

// Columns lists the required source columns per table, in write order.
// Extra columns in an input file are ignored.
var Columns = map[model.Table][]string{
	model.TableTF2G: {"TF", "target", "importance", "importance_x_rho"},
	model.TableR2G:  {"target", "region", "Distance", "importance", "rho", "importance_x_rho"},
	model.TableTriplets: {
		"TF", "Gene", "Region", "is_extended",
		"R2G_importance", "R2G_rho", "R2G_importance_x_rho", "R2G_importance_x_abs_rho",
		"TF2G_importance", "TF2G_regulation", "TF2G_rho", "TF2G_importance_x_abs_rho", "TF2G_importance_x_rho",
	},
}

// FileName is the on-disk name of table t inside an exchange directory.
func FileName(t model.Table) string { return string(t) + ".tsv" }

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	return cr
}

func newWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	return cw
}

// decoder maps header names to positions and records the first cell error.
type decoder struct {
	table model.Table
	idx   map[string]int
	rec   []string
	line  int
	err   error
}

func newDecoder(t model.Table, header []string) (*decoder, error) {
	d := &decoder{table: t, idx: make(map[string]int, len(header)), line: 1}
	for i, h := range header {
		if _, dup := d.idx[h]; !dup {
			d.idx[h] = i
		}
	}
	for _, c := range Columns[t] {
		if _, ok := d.idx[c]; !ok {
			return nil, &grnerr.SchemaError{Table: string(t), Column: c}
		}
	}
	return d, nil
}

func (d *decoder) fail(col string, err error) {
	if d.err == nil {
		d.err = &grnerr.SchemaError{
			Table:  string(d.table),
			Column: col,
			Detail: fmt.Sprintf("line %d: %v", d.line, err),
		}
	}
}

func (d *decoder) str(col string) string { return d.rec[d.idx[col]] }

func (d *decoder) float(col string) float64 {
	v, err := ParseFloat(d.str(col))
	if err != nil {
		d.fail(col, err)
	}
	return v
}

func (d *decoder) boolean(col string) bool {
	v, err := ParseBool(d.str(col))
	if err != nil {
		d.fail(col, err)
	}
	return v
}

// decode streams the rows of r through row. An empty input is a missing header.
func decode(r io.Reader, t model.Table, row func(d *decoder)) error {
	cr := newReader(r)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &grnerr.SchemaError{Table: string(t), Detail: "no header row"}
	}
	if err != nil {
		return &grnerr.SchemaError{Table: string(t), Detail: err.Error()}
	}
	d, err := newDecoder(t, header)
	if err != nil {
		return err
	}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return &grnerr.SchemaError{Table: string(t), Detail: err.Error()}
		}
		d.line++
		d.rec = rec
		row(d)
		if d.err != nil {
			return d.err
		}
	}
}

func ReadTF2G(r io.Reader) (*model.TF2GTable, error) {
	tbl := &model.TF2GTable{}
	err := decode(r, model.TableTF2G, func(d *decoder) {
		tbl.Rows = append(tbl.Rows, model.TF2GRow{
			TF:             d.str("TF"),
			Target:         d.str("target"),
			Importance:     d.float("importance"),
			ImportanceXRho: d.float("importance_x_rho"),
		})
	})
	return tbl, err
}

func ReadR2G(r io.Reader) (*model.R2GTable, error) {
	tbl := &model.R2GTable{}
	err := decode(r, model.TableR2G, func(d *decoder) {
		tbl.Rows = append(tbl.Rows, model.R2GRow{
			Target:         d.str("target"),
			Region:         d.str("region"),
			Distance:       d.float("Distance"),
			Importance:     d.float("importance"),
			Rho:            d.float("rho"),
			ImportanceXRho: d.float("importance_x_rho"),
		})
	})
	return tbl, err
}

func ReadTriplets(r io.Reader) (*model.TripletTable, error) {
	tbl := &model.TripletTable{}
	err := decode(r, model.TableTriplets, func(d *decoder) {
		tbl.Rows = append(tbl.Rows, model.TripletRow{
			TF:                    d.str("TF"),
			Gene:                  d.str("Gene"),
			Region:                d.str("Region"),
			IsExtended:            d.boolean("is_extended"),
			R2GImportance:         d.float("R2G_importance"),
			R2GRho:                d.float("R2G_rho"),
			R2GImportanceXRho:     d.float("R2G_importance_x_rho"),
			R2GImportanceXAbsRho:  d.float("R2G_importance_x_abs_rho"),
			TF2GImportance:        d.float("TF2G_importance"),
			TF2GRegulation:        d.float("TF2G_regulation"),
			TF2GRho:               d.float("TF2G_rho"),
			TF2GImportanceXAbsRho: d.float("TF2G_importance_x_abs_rho"),
			TF2GImportanceXRho:    d.float("TF2G_importance_x_rho"),
		})
	})
	return tbl, err
}

// ReadDir loads every table file present in dir into m. Tables without a
// file are left untouched, so a partially populated directory yields a
// partially populated model. A table that fails to load stays untouched
// too; the remaining tables are still loaded and all failures are joined.
func ReadDir(fs afero.Fs, dir string, m *model.Model) error {
	var errs []error
	for _, t := range model.AllTables() {
		path := filepath.Join(dir, FileName(t))
		ok, err := afero.Exists(fs, path)
		if err != nil {
			errs = append(errs, &grnerr.IOError{Op: "stat", Path: path, Err: err})
			continue
		}
		if !ok {
			continue
		}
		if err := readFile(fs, path, t, m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func readFile(fs afero.Fs, path string, t model.Table, m *model.Model) error {
	f, err := fs.Open(path)
	if err != nil {
		return &grnerr.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	switch t {
	case model.TableTF2G:
		tbl, err := ReadTF2G(f)
		if err != nil {
			return err
		}
		m.TF2G = tbl
	case model.TableR2G:
		tbl, err := ReadR2G(f)
		if err != nil {
			return err
		}
		m.R2G = tbl
	case model.TableTriplets:
		tbl, err := ReadTriplets(f)
		if err != nil {
			return err
		}
		m.Triplets = tbl
	}
	return nil
}
