package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estimate-service/internal/estimate/grouping"
	"estimate-service/internal/estimate/material"
	"estimate-service/internal/estimate/model"
	"estimate-service/internal/estimate/pricing"
)

var tenderHeaders = []string{"Size", "Material", "Total Volume"}

func rec(size, mat, vol string) map[string]string {
	return map[string]string{"Size": size, "Material": mat, "Total Volume": vol}
}

func TestBuildLinesMissingRequiredColumns(t *testing.T) {
	records := []map[string]string{{"Foo": "x", "Bar": "y"}}
	_, err := BuildLines([]string{"Foo", "Bar"}, records, model.Mapping{})

	var mc *MissingColumnsError
	require.ErrorAs(t, err, &mc)
	assert.Len(t, mc.Columns, 3)
}

func TestBuildLinesParsesRows(t *testing.T) {
	records := []map[string]string{
		rec("500mm x 700mm", "3mm Corflute, gloss double sided", "2"),
		rec("no dims", "Unknown Stuff", "abc"),
	}
	lines, err := BuildLines(tenderHeaders, records, model.Mapping{})
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, "3mm Corflute", lines[0].StockName)
	assert.True(t, lines[0].DoubleSided)
	require.NotNil(t, lines[0].AreaM2)
	assert.InDelta(t, 0.35, *lines[0].AreaM2, 1e-9)
	require.NotNil(t, lines[0].Quantity)
	assert.Equal(t, 2.0, *lines[0].Quantity)

	// bad geometry and quantity stay blank, the row still comes through
	assert.Nil(t, lines[1].AreaM2)
	assert.Nil(t, lines[1].Quantity)
	assert.False(t, lines[1].DoubleSided)
}

func TestBuildLinesSkipsFormulaCells(t *testing.T) {
	records := []map[string]string{
		rec("500mm x 700mm", "=SUM(A1:A2)", "2"),
		rec("=B5", "3mm Screenboard", "1"),
	}
	lines, err := BuildLines(tenderHeaders, records, model.Mapping{})
	require.NoError(t, err)
	// the formula material row is dropped entirely
	require.Len(t, lines, 1)
	assert.Equal(t, "3mm Screenboard", lines[0].Material)
	assert.Nil(t, lines[0].AreaM2)
}

func TestBuildLinesForcedSidedness(t *testing.T) {
	records := []map[string]string{
		rec("500 x 700", "3mm Corflute double sided", "1"),
		rec("500 x 700", "3mm Corflute", "1"),
	}
	lines, err := BuildLines(tenderHeaders, records, model.Mapping{ForceSides: "single"})
	require.NoError(t, err)
	assert.False(t, lines[0].DoubleSided)
	assert.False(t, lines[1].DoubleSided)

	lines, err = BuildLines(tenderHeaders, records, model.Mapping{ForceSides: "double"})
	require.NoError(t, err)
	assert.True(t, lines[0].DoubleSided)
	assert.True(t, lines[1].DoubleSided)
}

func TestBuildLinesOptionalColumns(t *testing.T) {
	headers := []string{"Size", "Material", "Total Volume", "Lot", "Runs per annum"}
	records := []map[string]string{{
		"Size": "500 x 700", "Material": "3mm Corflute", "Total Volume": "2",
		"Lot": "LOT-7", "Runs per annum": "12",
	}}
	lines, err := BuildLines(headers, records, model.Mapping{})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "LOT-7", lines[0].Lot)
	require.NotNil(t, lines[0].RunsPA)
	assert.Equal(t, 12.0, *lines[0].RunsPA)
}

func TestBuildLinesRunsPositionalFallback(t *testing.T) {
	headers := []string{"Size", "Material", "Total Volume", "Column 4"}
	records := []map[string]string{{
		"Size": "500 x 700", "Material": "3mm Corflute", "Total Volume": "2",
		"Column 4": "48",
	}}
	lines, err := BuildLines(headers, records, model.Mapping{RunsCol: 4})
	require.NoError(t, err)
	require.NotNil(t, lines[0].RunsPA)
	assert.Equal(t, 48.0, *lines[0].RunsPA)
}

// The three-row upload scenario: distinct auto groups, blank derived fields
// for the unparseable row, totals covering only the priced lines.
func TestComputeEndToEnd(t *testing.T) {
	records := []map[string]string{
		rec("500mm x 700mm", "3mm Corflute, gloss", "2"),
		rec("1000mm x 1000mm", "SAV Avery MPI 2126", "1"),
		rec("no dims", "Unknown Stuff", "5"),
	}
	lines, err := BuildLines(tenderHeaders, records, model.Mapping{})
	require.NoError(t, err)
	require.Len(t, lines, 3)

	store := grouping.NewStore(material.Classify)
	tables := pricing.NewTables()
	tables.Group["3mm Corflute"] = 10
	tables.Group["SAV – Avery MPI 2126"] = 5

	res := Compute(lines, store, tables, 0)

	require.Len(t, res.Groups, 3)
	groups := make([]string, 0, 3)
	for _, g := range res.Groups {
		groups = append(groups, g.Group)
	}
	assert.ElementsMatch(t, []string{"3mm Corflute", "SAV – Avery MPI 2126", "Unknown Stuff"}, groups)

	assert.Nil(t, res.Lines[2].AreaM2)
	assert.Zero(t, res.Lines[2].Value)

	// 0.35*2*10 + 1*1*5
	assert.InDelta(t, 12.0, res.TotalValue, 1e-9)
	assert.Equal(t, "$12", res.TotalFormatted)

	// store reconciled: one entry per distinct material
	require.Len(t, res.Grouping, 3)
	for _, gv := range res.Grouping {
		assert.Equal(t, gv.InitialGroup, gv.AssignedGroup)
	}
}

func TestComputePreservesOverrideAcrossRecompute(t *testing.T) {
	records := []map[string]string{
		rec("500mm x 700mm", "3mm Corflute, gloss", "2"),
		rec("1000mm x 1000mm", "SAV Avery MPI 2126", "1"),
	}
	lines, err := BuildLines(tenderHeaders, records, model.Mapping{})
	require.NoError(t, err)

	store := grouping.NewStore(material.Classify)
	_ = Compute(lines, store, pricing.NewTables(), 0)

	require.True(t, store.Reassign("3mm Corflute, gloss", "Boards"))
	res := Compute(lines, store, pricing.NewTables(), 0)

	assert.Equal(t, "Boards", res.Lines[0].Group)
}
