package output

import (
	"strconv"

	"grnexport/internal/export"
	"grnexport/internal/tables"
)

func f(v float64) string { return tables.FormatFloat(v) }

func GRNTable(edges []export.GRNEdge) Table {
	t := Table{Columns: GRNColumns, Rows: make([][]string, len(edges))}
	for i, e := range edges {
		t.Rows[i] = []string{e.Source, e.Target, f(e.Weight), strconv.Itoa(e.PVal)}
	}
	return t
}

func R2GTable(edges []export.R2GEdge) Table {
	t := Table{Columns: R2GColumns, Rows: make([][]string, len(edges))}
	for i, e := range edges {
		t.Rows[i] = []string{
			e.Target, e.Region, f(e.Weight), strconv.Itoa(e.PVal),
			f(e.Importance), f(e.Rho),
		}
	}
	return t
}

func TripletTable(rows []export.Triplet) Table {
	t := Table{Columns: TripletColumns, Rows: make([][]string, len(rows))}
	for i, r := range rows {
		t.Rows[i] = []string{
			r.Source, r.Target, r.Region, f(r.Weight), strconv.Itoa(r.PVal),
			tables.FormatBool(r.IsExtended),
			f(r.R2GImportance), f(r.R2GRho), f(r.R2GImportanceXRho), f(r.R2GImportanceXAbsRho),
			f(r.TF2GImportance), f(r.TF2GRegulation), f(r.TF2GRho),
			f(r.TF2GImportanceXAbsRho), f(r.TF2GImportanceXRho),
		}
	}
	return t
}
