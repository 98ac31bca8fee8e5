// Package model holds the regulatory model produced by the inference engine:
// three annotation tables keyed by transcription factor, target gene and
// genomic region.
//
// A nil table means the engine never produced it. Missing scalars are NaN.
package model

import (
	"fmt"
	"math"
	"strings"

	"grnexport/internal/grnerr"
)

// Table names an annotation table by the name the engine gives it.
type Table string

const (
	TableTF2G     Table = "TF2G_adj"
	TableR2G      Table = "region_to_gene"
	TableTriplets Table = "eRegulon_metadata"
)

// AllTables lists every table in export order.
func AllTables() []Table { return []Table{TableTF2G, TableR2G, TableTriplets} }

// Sources are the inputs a model was assembled from.
type Sources struct {
	Expression      string `json:"expression"`
	TopicModel      string `json:"topic_model"`
	MotifEnrichment string `json:"motif_enrichment"`
}

type TF2GRow struct {
	TF             string
	Target         string
	Importance     float64
	ImportanceXRho float64
}

type TF2GTable struct{ Rows []TF2GRow }

type R2GRow struct {
	Target         string
	Region         string
	Distance       float64 // bp to TSS; NaN when the engine left it blank
	Importance     float64
	Rho            float64
	ImportanceXRho float64
}

type R2GTable struct{ Rows []R2GRow }

// TripletRow is one eRegulon metadata row linking a TF, a region and a gene.
type TripletRow struct {
	TF         string
	Gene       string
	Region     string
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

type TripletTable struct{ Rows []TripletRow }

// Model is mutated in place by the engine and the filter, then read once by
// the exporters.
type Model struct {
	Sources  Sources
	TF2G     *TF2GTable
	R2G      *R2GTable
	Triplets *TripletTable
}

func New(src Sources) *Model { return &Model{Sources: src} }

// Has reports whether table t is present.
func (m *Model) Has(t Table) bool {
	switch t {
	case TableTF2G:
		return m.TF2G != nil
	case TableR2G:
		return m.R2G != nil
	case TableTriplets:
		return m.Triplets != nil
	}
	return false
}

// Require returns a SchemaError for the first absent table.
func (m *Model) Require(tables ...Table) error {
	for _, t := range tables {
		if !m.Has(t) {
			return &grnerr.SchemaError{Table: string(t)}
		}
	}
	return nil
}

// Rows returns the row count of t, or -1 when t is absent.
func (m *Model) Rows(t Table) int {
	switch {
	case !m.Has(t):
		return -1
	case t == TableTF2G:
		return len(m.TF2G.Rows)
	case t == TableR2G:
		return len(m.R2G.Rows)
	default:
		return len(m.Triplets.Rows)
	}
}

// Summary renders row counts for logs, e.g. "TF2G_adj=12 region_to_gene=absent".
func (m *Model) Summary() string {
	parts := make([]string, 0, 3)
	for _, t := range AllTables() {
		if n := m.Rows(t); n >= 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", t, n))
		} else {
			parts = append(parts, fmt.Sprintf("%s=absent", t))
		}
	}
	return strings.Join(parts, " ")
}

// NA is the missing-value marker.
func NA() float64 { return math.NaN() }

// IsNA reports whether v is missing.
func IsNA(v float64) bool { return math.IsNaN(v) }
