package output

// Export kinds, also used as the writer registry keys.
const (
	KindGRN      = "grn"
	KindR2G      = "r2g"
	KindTriplets = "tri"
)

// Column orders of the three exports. Keep these as the single source of
// truth; downstream network tools select columns by these names.
var (
	GRNColumns = []string{"source", "target", "weight", "pval"}

	R2GColumns = []string{"target", "region", "weight", "pval", "importance", "rho"}

	TripletColumns = []string{
		"source", "target", "region", "weight", "pval", "is_extended",
		"R2G_importance", "R2G_rho", "R2G_importance_x_rho", "R2G_importance_x_abs_rho",
		"TF2G_importance", "TF2G_regulation", "TF2G_rho", "TF2G_importance_x_abs_rho", "TF2G_importance_x_rho",
	}
)

// Table is a rendered export: a header and string cells, ready for TSV.
type Table struct {
	Columns []string
	Rows    [][]string
}
