package writers

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grnexport/internal/grnerr"
	"grnexport/internal/model"
	"grnexport/internal/output"
)

func readLines(t *testing.T, fs afero.Fs, path string) []string {
	t.Helper()
	b, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(b), "\n"), "\n")
}

func TestUnknownKindError(t *testing.T) {
	_, err := Render("nope-kind", model.New(model.Sources{}))
	if err == nil || !strings.Contains(err.Error(), "unknown export kind") {
		t.Fatalf("want 'unknown export kind' error, got: %v", err)
	}
}

func TestAllKindsRegistered(t *testing.T) {
	for _, k := range []string{output.KindGRN, output.KindR2G, output.KindTriplets} {
		_, ok := Renderers[k]
		assert.True(t, ok, k)
	}
}

func TestExportGRN(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := model.New(model.Sources{})
	m.TF2G = &model.TF2GTable{Rows: []model.TF2GRow{
		{TF: "SOX2", Target: "PAX6", Importance: 2.5, ImportanceXRho: 0.75},
		{TF: "KLF4", Target: "NES", Importance: 1, ImportanceXRho: -0.125},
	}}

	n, err := Export(fs, output.KindGRN, "/out/grn.tsv", m)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{
		"source\ttarget\tweight\tpval",
		"SOX2\tPAX6\t0.75\t1",
		"KLF4\tNES\t-0.125\t1",
	}, readLines(t, fs, "/out/grn.tsv"))
}

func TestExportR2GColumnOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := model.New(model.Sources{})
	m.R2G = &model.R2GTable{Rows: []model.R2GRow{
		{Target: "PAX6", Region: "chr11:31800000-31800500", Distance: -1500, Importance: 0.2, Rho: 0.5, ImportanceXRho: 0.1},
	}}
	_, err := Export(fs, output.KindR2G, "/out/r2g.tsv", m)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"target\tregion\tweight\tpval\timportance\trho",
		"PAX6\tchr11:31800000-31800500\t0.1\t1\t0.2\t0.5",
	}, readLines(t, fs, "/out/r2g.tsv"))
}

func TestExportTripletsScenario(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := model.New(model.Sources{})
	m.Triplets = &model.TripletTable{Rows: []model.TripletRow{
		{TF: "SOX2", Gene: "PAX6", Region: "chr1:100-200", R2GImportanceXRho: 0.5, TF2GImportanceXRho: 0.3},
		{TF: "KLF4", Gene: "NES", Region: "chr2:10-20", R2GImportanceXRho: math.NaN(), TF2GImportanceXRho: 0.9},
	}}
	_, err := Export(fs, output.KindTriplets, "/out/tri.tsv", m)
	require.NoError(t, err)

	lines := readLines(t, fs, "/out/tri.tsv")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(output.TripletColumns, "\t"), lines[0])

	type rw struct{ region, weight, pval string }
	var got []rw
	for _, l := range lines[1:] {
		c := strings.Split(l, "\t")
		require.Len(t, c, len(output.TripletColumns))
		got = append(got, rw{c[2], c[3], c[4]})
	}
	assert.Equal(t, []rw{{"chr1-100-200", "0.4", "1"}, {"chr2-10-20", "0.9", "1"}}, got)
}

func TestExportTruncatesExistingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/out/grn.tsv", []byte(strings.Repeat("stale\n", 50)), 0o644))
	m := model.New(model.Sources{})
	m.TF2G = &model.TF2GTable{}
	_, err := Export(fs, output.KindGRN, "/out/grn.tsv", m)
	require.NoError(t, err)
	assert.Equal(t, []string{"source\ttarget\tweight\tpval"}, readLines(t, fs, "/out/grn.tsv"))
}

func TestExportMissingTableWritesNothing(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := Export(fs, output.KindR2G, "/out/r2g.tsv", model.New(model.Sources{}))
	var se *grnerr.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "region_to_gene", se.Table)

	ok, err := afero.Exists(fs, "/out/r2g.tsv")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWriteFileReadOnlyFsIsIOError(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	err := WriteFile(fs, "/out/grn.tsv", output.Table{Columns: output.GRNColumns})
	var ioe *grnerr.IOError
	require.True(t, errors.As(err, &ioe))
	assert.Equal(t, "/out/grn.tsv", ioe.Path)
}
