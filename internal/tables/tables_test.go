package tables

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grnexport/internal/grnerr"
	"grnexport/internal/model"
)

var nanEqual = cmpopts.EquateNaNs()

func TestReadTF2GIgnoresExtraColumns(t *testing.T) {
	in := "TF\ttarget\timportance\trho\timportance_x_rho\n" +
		"SOX2\tPAX6\t2.5\t0.3\t0.75\n" +
		"KLF4\tNES\t1\t\t\n"
	tbl, err := ReadTF2G(strings.NewReader(in))
	require.NoError(t, err)

	want := []model.TF2GRow{
		{TF: "SOX2", Target: "PAX6", Importance: 2.5, ImportanceXRho: 0.75},
		{TF: "KLF4", Target: "NES", Importance: 1, ImportanceXRho: math.NaN()},
	}
	if diff := cmp.Diff(want, tbl.Rows, nanEqual); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestReadMissingColumnNamesTableAndColumn(t *testing.T) {
	in := "target\tregion\timportance\trho\timportance_x_rho\nPAX6\tchr11:1-2\t1\t0.5\t0.5\n"
	_, err := ReadR2G(strings.NewReader(in))
	var se *grnerr.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "region_to_gene", se.Table)
	assert.Equal(t, "Distance", se.Column)
}

func TestReadBadCellReportsLine(t *testing.T) {
	in := strings.Join(Columns[model.TableTriplets], "\t") + "\n" +
		"SOX2\tPAX6\tchr1:1-2\tmaybe\t1\t1\t1\t1\t1\t1\t1\t1\t1\n"
	_, err := ReadTriplets(strings.NewReader(in))
	var se *grnerr.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "is_extended", se.Column)
	assert.Contains(t, se.Detail, "line 2")
}

func TestReadEmptyInput(t *testing.T) {
	_, err := ReadTF2G(strings.NewReader(""))
	var se *grnerr.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "no header row", se.Detail)
}

func TestFormatCells(t *testing.T) {
	assert.Equal(t, "", FormatFloat(math.NaN()))
	assert.Equal(t, "0.4", FormatFloat(0.4))
	assert.Equal(t, "-1", FormatFloat(-1))
	assert.Equal(t, "True", FormatBool(true))
	b, err := ParseBool("False")
	require.NoError(t, err)
	assert.False(t, b)
}

func sampleModel() *model.Model {
	m := model.New(model.Sources{Expression: "in.h5mu"})
	m.TF2G = &model.TF2GTable{Rows: []model.TF2GRow{{TF: "SOX2", Target: "PAX6", Importance: 2.5, ImportanceXRho: 0.75}}}
	m.Triplets = &model.TripletTable{Rows: []model.TripletRow{{
		TF: "SOX2", Gene: "PAX6", Region: "chr11:31800000-31800500", IsExtended: true,
		R2GImportance: 0.2, R2GRho: 0.5, R2GImportanceXRho: 0.1, R2GImportanceXAbsRho: 0.1,
		TF2GImportance: 2.5, TF2GRegulation: 1, TF2GRho: 0.3, TF2GImportanceXAbsRho: 0.75,
		TF2GImportanceXRho: math.NaN(),
	}}}
	return m
}

func TestDirRoundTripKeepsAbsentTablesAbsent(t *testing.T) {
	fs := afero.NewMemMapFs()
	src := sampleModel()
	require.NoError(t, WriteDir(fs, "/x/out", src))

	ok, err := afero.Exists(fs, "/x/out/region_to_gene.tsv")
	require.NoError(t, err)
	assert.False(t, ok)

	got := model.New(src.Sources)
	require.NoError(t, ReadDir(fs, "/x/out", got))
	if diff := cmp.Diff(src, got, nanEqual); diff != "" {
		t.Fatalf("model mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteTF2GHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTF2G(&buf, &model.TF2GTable{}))
	assert.Equal(t, "TF\ttarget\timportance\timportance_x_rho\n", buf.String())
}

func TestReadR2GBlankDistanceIsMissing(t *testing.T) {
	in := strings.Join(Columns[model.TableR2G], "\t") + "\n" +
		"PAX6\tchr1:1-2\t\t0.2\t0.5\t0.1\n" +
		"NES\tchr2:3-4\tnan\t0.3\t0.5\t0.15\n"
	tbl, err := ReadR2G(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)
	assert.True(t, math.IsNaN(tbl.Rows[0].Distance))
	assert.True(t, math.IsNaN(tbl.Rows[1].Distance))
	assert.Equal(t, 0.1, tbl.Rows[0].ImportanceXRho)
}

func TestReadDirLoadsTablesAfterACorruptOne(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/x/TF2G_adj.tsv",
		[]byte("TF\ttarget\timportance\timportance_x_rho\nSOX2\tPAX6\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/x/region_to_gene.tsv",
		[]byte(strings.Join(Columns[model.TableR2G], "\t")+"\nPAX6\tchr1:1-2\t1500\t0.2\t0.5\t0.1\n"), 0o644))

	m := model.New(model.Sources{})
	err := ReadDir(fs, "/x", m)
	var se *grnerr.SchemaError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, "TF2G_adj", se.Table)

	assert.False(t, m.Has(model.TableTF2G))
	require.True(t, m.Has(model.TableR2G))
	assert.Equal(t, 1500.0, m.R2G.Rows[0].Distance)
	assert.False(t, m.Has(model.TableTriplets))
}
