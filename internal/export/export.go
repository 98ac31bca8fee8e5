// Package export derives the three canonical edge tables from a regulatory
// model. Each derivation reads one table and is independent of the others.
//
// The derivations are pure: they neither touch the filesystem nor mutate the
// model. Serialization lives in internal/output and internal/writers.
package export

import (
	"strings"

	"grnexport/internal/model"
)

// PValPlaceholder fills the pval column. Significance is not computed; the
// column exists for consumers that expect one.
const PValPlaceholder = 1

// GRNEdge is a TF→gene edge.
type GRNEdge struct {
	Source string
	Target string
	Weight float64
	PVal   int
}

// R2GEdge is a region→gene edge. Distance to TSS is dropped.
type R2GEdge struct {
	Target     string
	Region     string
	Weight     float64
	PVal       int
	Importance float64
	Rho        float64
}

// Triplet is a TF–region–gene row with its provenance scores.
type Triplet struct {
	Source     string
	Target     string
	Region     string
	Weight     float64
	PVal       int
	IsExtended bool

	R2GImportance        float64
	R2GRho               float64
	R2GImportanceXRho    float64
	R2GImportanceXAbsRho float64

	TF2GImportance        float64
	TF2GRegulation        float64
	TF2GRho               float64
	TF2GImportanceXAbsRho float64
	TF2GImportanceXRho    float64
}

// GRN maps every TF2G row to an edge weighted by importance_x_rho, unchanged.
func GRN(m *model.Model) ([]GRNEdge, error) {
	if err := m.Require(model.TableTF2G); err != nil {
		return nil, err
	}
	out := make([]GRNEdge, len(m.TF2G.Rows))
	for i, r := range m.TF2G.Rows {
		out[i] = GRNEdge{
			Source: r.TF,
			Target: r.Target,
			Weight: r.ImportanceXRho,
			PVal:   PValPlaceholder,
		}
	}
	return out, nil
}

// RegionToGene maps every R2G row to an edge weighted by importance_x_rho.
// Region strings pass through untouched.
func RegionToGene(m *model.Model) ([]R2GEdge, error) {
	if err := m.Require(model.TableR2G); err != nil {
		return nil, err
	}
	out := make([]R2GEdge, len(m.R2G.Rows))
	for i, r := range m.R2G.Rows {
		out[i] = R2GEdge{
			Target:     r.Target,
			Region:     r.Region,
			Weight:     r.ImportanceXRho,
			PVal:       PValPlaceholder,
			Importance: r.Importance,
			Rho:        r.Rho,
		}
	}
	return out, nil
}

// Triplets maps every eRegulon metadata row to a triplet. The weight is the
// mean of the R2G and TF2G importance_x_rho scores, skipping a missing one.
func Triplets(m *model.Model) ([]Triplet, error) {
	if err := m.Require(model.TableTriplets); err != nil {
		return nil, err
	}
	out := make([]Triplet, len(m.Triplets.Rows))
	for i, r := range m.Triplets.Rows {
		out[i] = Triplet{
			Source:     r.TF,
			Target:     r.Gene,
			Region:     NormalizeRegion(r.Region),
			Weight:     MeanWeight(r.R2GImportanceXRho, r.TF2GImportanceXRho),
			PVal:       PValPlaceholder,
			IsExtended: r.IsExtended,

			R2GImportance:        r.R2GImportance,
			R2GRho:               r.R2GRho,
			R2GImportanceXRho:    r.R2GImportanceXRho,
			R2GImportanceXAbsRho: r.R2GImportanceXAbsRho,

			TF2GImportance:        r.TF2GImportance,
			TF2GRegulation:        r.TF2GRegulation,
			TF2GRho:               r.TF2GRho,
			TF2GImportanceXAbsRho: r.TF2GImportanceXAbsRho,
			TF2GImportanceXRho:    r.TF2GImportanceXRho,
		}
	}
	return out, nil
}

// NormalizeRegion turns "chr1:100-200" into "chr1-100-200". Every colon is
// replaced, not just the first.
func NormalizeRegion(region string) string {
	return strings.ReplaceAll(region, ":", "-")
}
