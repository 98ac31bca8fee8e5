package inference

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"grnexport/internal/config"
	"grnexport/internal/engineexec"
	"grnexport/internal/model"
	"grnexport/internal/organism"
)

func TestNewParamsHuman(t *testing.T) {
	org, err := organism.Lookup("human")
	require.NoError(t, err)
	cfg := config.Default()
	cfg.ResourcesDir = "/res"

	p := NewParams(org, cfg, "/out/ckpt/scplus.bin")
	assert.Equal(t, "hsapiens", p.Species)
	assert.Equal(t, "hg38", p.Assembly)
	assert.Equal(t, "/res/tf_lists/human.txt", p.TFFile)
	assert.Equal(t, "/out/ckpt", p.SavePath)
	assert.Equal(t, "http://sep2019.archive.ensembl.org/", p.BiomartHost)
	assert.Equal(t, [2]int{1000, 150000}, p.Upstream)
	assert.Equal(t, [2]int{1000, 150000}, p.Downstream)
	assert.Equal(t, []string{"GEX_celltype"}, p.Variables)
	assert.True(t, p.CalculateTFEGRNCorrelation)
	assert.False(t, p.CalculateDEGsDARs)
	assert.False(t, p.ExportToLoom)
	assert.False(t, p.ExportToUCSC)
	assert.Equal(t, 1, p.Workers)
}

func shEngine(t *testing.T, script string) *Command {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs /bin/sh")
	}
	dir := t.TempDir()
	bin := filepath.Join(dir, "engine.sh")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"+script), 0o755))
	return &Command{Runner: engineexec.New([]string{"/bin/sh", bin}, dir, "t", zap.NewNop().Sugar())}
}

// The script finds out_dir as the sibling "tables" directory of the request.
const writeTF2G = `req="$3"
out="$(dirname "$req")/tables"
printf 'TF\ttarget\timportance\timportance_x_rho\nSOX2\tPAX6\t2\t0.5\n' > "$out/TF2G_adj.tsv"
`

func TestCommandReadsTablesAndRequest(t *testing.T) {
	c := shEngine(t, writeTF2G+"cp \"$req\" seen.json\n")
	m := model.New(model.Sources{Expression: "/in/gex.h5mu"})

	require.NoError(t, c.Infer(context.Background(), m, Params{Species: "hsapiens", Workers: 1}))
	require.True(t, m.Has(model.TableTF2G))
	assert.Equal(t, "PAX6", m.TF2G.Rows[0].Target)
	assert.False(t, m.Has(model.TableR2G))

	b, err := os.ReadFile(filepath.Join(c.Runner.Workdir(), "seen.json"))
	require.NoError(t, err)
	var req map[string]any
	require.NoError(t, json.Unmarshal(b, &req))
	assert.Equal(t, "hsapiens", req["params"].(map[string]any)["species"])
	assert.Equal(t, "/in/gex.h5mu", req["sources"].(map[string]any)["expression"])
}

func TestCommandKeepsPartialTablesOnFailure(t *testing.T) {
	c := shEngine(t, writeTF2G+"echo 'motif step crashed' >&2\nexit 1\n")
	m := model.New(model.Sources{})

	err := c.Infer(context.Background(), m, Params{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "motif step crashed")
	assert.Equal(t, 1, m.Rows(model.TableTF2G))
}

func TestCommandLoadsValidTablesNextToACorruptOne(t *testing.T) {
	c := shEngine(t, `out="$(dirname "$3")/tables"
printf 'TF\ttarget\timportance\timportance_x_rho\nSOX2\tPAX6\n' > "$out/TF2G_adj.tsv"
printf 'target\tregion\tDistance\timportance\trho\timportance_x_rho\nPAX6\tchr1:100-200\t\t0.2\t0.5\t0.1\n' > "$out/region_to_gene.tsv"
echo 'killed while writing TF2G' >&2
exit 1
`)
	m := model.New(model.Sources{})

	err := c.Infer(context.Background(), m, Params{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "killed while writing TF2G")
	assert.Contains(t, err.Error(), "TF2G_adj")

	assert.False(t, m.Has(model.TableTF2G))
	require.True(t, m.Has(model.TableR2G))
	assert.Equal(t, "chr1:100-200", m.R2G.Rows[0].Region)
}
