package writers

import (
	"grnexport/internal/export"
	"grnexport/internal/model"
	"grnexport/internal/output"
)

func init() {
	Register(output.KindGRN, func(m *model.Model) (output.Table, error) {
		edges, err := export.GRN(m)
		if err != nil {
			return output.Table{}, err
		}
		return output.GRNTable(edges), nil
	})
	Register(output.KindR2G, func(m *model.Model) (output.Table, error) {
		edges, err := export.RegionToGene(m)
		if err != nil {
			return output.Table{}, err
		}
		return output.R2GTable(edges), nil
	})
	Register(output.KindTriplets, func(m *model.Model) (output.Table, error) {
		rows, err := export.Triplets(m)
		if err != nil {
			return output.Table{}, err
		}
		return output.TripletTable(rows), nil
	})
}
