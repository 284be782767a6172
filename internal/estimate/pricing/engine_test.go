package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estimate-service/internal/estimate/grouping"
	"estimate-service/internal/estimate/model"
)

func f(v float64) *float64 { return &v }

func line(materialDesc string, area, qty *float64, double bool) model.Line {
	return model.Line{
		Material:    materialDesc,
		StockName:   materialDesc,
		AreaM2:      area,
		Quantity:    qty,
		DoubleSided: double,
	}
}

func storeFor(lines []model.Line) *grouping.Store {
	s := grouping.NewStore(func(m string) string { return "G:" + m })
	materials := make([]string, 0, len(lines))
	for _, ln := range lines {
		materials = append(materials, ln.Material)
	}
	s.Reconcile(materials)
	return s
}

func TestComputeLineValue(t *testing.T) {
	lines := []model.Line{line("board", f(2.5), f(10), true)}
	store := storeFor(lines)

	tables := NewTables()
	tables.Group["G:board"] = 4.00

	res := Compute(lines, store, tables, 25)
	require.Len(t, res.Lines, 1)
	// 2.5 * 10 * 4.00 * 1.25
	assert.InDelta(t, 125.00, res.Lines[0].Value, 1e-9)
	assert.InDelta(t, 1.25, res.Lines[0].Multiplier, 1e-9)
	assert.InDelta(t, 125.00, res.TotalValue, 1e-9)
	assert.InDelta(t, 25.0, res.TotalAreaM2, 1e-9)
}

func TestComputeSingleSidedNoLoading(t *testing.T) {
	lines := []model.Line{line("board", f(2.5), f(10), false)}
	store := storeFor(lines)
	tables := NewTables()
	tables.Group["G:board"] = 4.00

	res := Compute(lines, store, tables, 25)
	assert.InDelta(t, 100.00, res.Lines[0].Value, 1e-9)
	assert.InDelta(t, 1.0, res.Lines[0].Multiplier, 1e-9)
}

func TestMaterialOverrideBeatsGroupPrice(t *testing.T) {
	lines := []model.Line{line("special", f(1), f(1), false)}
	store := storeFor(lines)

	tables := NewTables()
	tables.Group["G:special"] = 4.00
	tables.Material["special"] = 6.00

	res := Compute(lines, store, tables, 0)
	assert.Equal(t, "material", res.Lines[0].PriceFrom)
	assert.InDelta(t, 6.00, res.Lines[0].Value, 1e-9)

	// a non-positive override is ignored
	tables.Material["special"] = 0
	res = Compute(lines, store, tables, 0)
	assert.Equal(t, "group", res.Lines[0].PriceFrom)
	assert.InDelta(t, 4.00, res.Lines[0].Value, 1e-9)
}

func TestUnpricedLineIsZeroNotError(t *testing.T) {
	lines := []model.Line{line("mystery", f(2), f(3), false)}
	store := storeFor(lines)

	res := Compute(lines, store, NewTables(), 0)
	require.Len(t, res.Lines, 1)
	assert.Equal(t, "none", res.Lines[0].PriceFrom)
	assert.Zero(t, res.Lines[0].Value)
	// area still aggregates so the operator sees what is unpriced
	assert.InDelta(t, 6.0, res.TotalAreaM2, 1e-9)
}

func TestMissingGeometrySkipsContribution(t *testing.T) {
	lines := []model.Line{
		line("a", f(1), f(2), false),
		line("b", nil, f(5), false), // no area
		line("c", f(1), nil, false), // no qty
	}
	store := storeFor(lines)
	tables := NewTables()
	tables.Group["G:a"] = 10
	tables.Group["G:b"] = 10
	tables.Group["G:c"] = 10

	res := Compute(lines, store, tables, 0)
	require.Len(t, res.Lines, 3)
	assert.InDelta(t, 20.0, res.TotalValue, 1e-9)
	assert.Zero(t, res.Lines[1].Value)
	assert.Zero(t, res.Lines[2].Value)
	assert.InDelta(t, 2.0, res.TotalAreaM2, 1e-9)
}

func TestGroupAggregation(t *testing.T) {
	lines := []model.Line{
		line("m1", f(1), f(1), false),
		line("m2", f(2), f(1), false),
		line("m1", f(0.5), f(4), false),
	}
	store := storeFor(lines)
	require.True(t, store.Reassign("m2", "G:m1")) // merge both materials into one group

	tables := NewTables()
	tables.Group["G:m1"] = 2

	res := Compute(lines, store, tables, 0)
	require.Len(t, res.Groups, 1)
	g := res.Groups[0]
	assert.Equal(t, "G:m1", g.Group)
	assert.Equal(t, 2, g.Materials)
	assert.Equal(t, 3, g.Lines)
	assert.InDelta(t, 5.0, g.AreaM2, 1e-9)
	assert.InDelta(t, 10.0, g.Value, 1e-9)
	assert.InDelta(t, 2.0, g.UnitPrice, 1e-9)
}
