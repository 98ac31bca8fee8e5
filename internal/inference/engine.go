// Package inference is the seam to the regulatory-inference engine. The
// engine populates the model's annotation tables; it owns motif enrichment,
// co-expression and co-accessibility scoring.
package inference

import (
	"context"
	"path/filepath"

	"grnexport/internal/config"
	"grnexport/internal/model"
	"grnexport/internal/organism"
)

// Params is the fixed engine configuration for one run. Field names in JSON
// follow the engine's own keyword arguments.
type Params struct {
	Variables   []string `json:"variable"`
	Species     string   `json:"species"`
	Assembly    string   `json:"assembly"`
	TFFile      string   `json:"tf_file"`
	SavePath    string   `json:"save_path"`
	BiomartHost string   `json:"biomart_host"`

	Upstream   [2]int `json:"upstream"`
	Downstream [2]int `json:"downstream"`

	CalculateTFEGRNCorrelation bool `json:"calculate_TF_eGRN_correlation"`
	CalculateDEGsDARs          bool `json:"calculate_DEGs_DARs"`
	ExportToLoom               bool `json:"export_to_loom_file"`
	ExportToUCSC               bool `json:"export_to_UCSC_file"`

	BedToBigBedDir string `json:"path_bedToBigBed"`
	Workers        int    `json:"n_cpu"`
	TempDir        string `json:"temp_dir"`
}

// Window bounds around the TSS searched for candidate regions, in bp.
var searchWindow = [2]int{1000, 150000}

// NewParams builds the run configuration for org. The engine's own save path
// is the directory that will hold the checkpoint.
func NewParams(org organism.Organism, cfg config.Config, checkpointPath string) Params {
	return Params{
		Variables:   []string{"GEX_celltype"},
		Species:     org.Species,
		Assembly:    org.Assembly,
		TFFile:      filepath.Join(cfg.ResourcesDir, org.TFList),
		SavePath:    filepath.Dir(checkpointPath),
		BiomartHost: org.BiomartHost,

		Upstream:   searchWindow,
		Downstream: searchWindow,

		CalculateTFEGRNCorrelation: true,
		CalculateDEGsDARs:          false,
		ExportToLoom:               false,
		ExportToUCSC:               false,

		BedToBigBedDir: cfg.BedToBigBedDir,
		Workers:        1,
		TempDir:        cfg.TempDir,
	}
}

// Engine runs inference and extends m's tables in place. On error m holds
// whatever the engine produced before failing.
type Engine interface {
	Infer(ctx context.Context, m *model.Model, p Params) error
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(ctx context.Context, m *model.Model, p Params) error

func (f EngineFunc) Infer(ctx context.Context, m *model.Model, p Params) error { return f(ctx, m, p) }
