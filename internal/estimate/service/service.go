// Package service wires parsing, classification, grouping and pricing into
// one deterministic pass over an uploaded dataset.
package service

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"estimate-service/internal/estimate/grouping"
	"estimate-service/internal/estimate/model"
	"estimate-service/internal/estimate/parse"
	"estimate-service/internal/estimate/pricing"
)

// MissingColumnsError is the only hard stop: a dataset without the required
// columns produces no partial output.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

// DefaultMapping fills blank mapping fields with the default column names.
func DefaultMapping(m model.Mapping) model.Mapping {
	if m.DimKey == "" {
		m.DimKey = DefaultDimKey
	}
	if m.MaterialKey == "" {
		m.MaterialKey = DefaultMaterialKey
	}
	if m.VolumeKey == "" {
		m.VolumeKey = DefaultVolumeKey
	}
	if m.LotKey == "" {
		m.LotKey = DefaultLotKey
	}
	if m.ItemKey == "" {
		m.ItemKey = DefaultItemKey
	}
	if m.RunsKey == "" {
		m.RunsKey = DefaultRunsKey
	}
	if m.HeaderRow == 0 {
		m.HeaderRow = 1
	}
	return m
}

// BuildLines resolves the mapped columns against the dataset and parses each
// record into a Line. Rows with unparseable geometry or quantity keep nil
// derived fields and still appear in the output; only missing required
// columns abort the run.
func BuildLines(headers []string, records []map[string]string, m model.Mapping) ([]model.Line, error) {
	if len(records) == 0 {
		return nil, nil
	}
	m = DefaultMapping(m)
	probe := records[0]

	dimKey := resolveKey(probe, m.DimKey)
	matKey := resolveKey(probe, m.MaterialKey)
	volKey := resolveKey(probe, m.VolumeKey)

	var missing []string
	if dimKey == "" {
		missing = append(missing, firstAlt(m.DimKey))
	}
	if matKey == "" {
		missing = append(missing, firstAlt(m.MaterialKey))
	}
	if volKey == "" {
		missing = append(missing, firstAlt(m.VolumeKey))
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	lotKey := resolveKey(probe, m.LotKey)
	itemKey := resolveKey(probe, m.ItemKey)
	runsKey := resolveKey(probe, m.RunsKey)
	if runsKey == "" && m.RunsCol > 0 {
		runsKey = columnAt(headers, m.RunsCol)
	}

	lines := make([]model.Line, 0, len(records))
	for i, rec := range records {
		mat := cellValue(rec[matKey])
		if mat == "" {
			continue
		}
		ln := model.Line{
			Index:       i + 1,
			Dimensions:  cellValue(rec[dimKey]),
			Material:    mat,
			StockName:   stockName(mat),
			DoubleSided: doubleSided(mat, m.ForceSides),
			Raw:         rec,
		}
		if a, ok := parse.Area(ln.Dimensions); ok {
			ln.AreaM2 = &a
		}
		if q, ok := parse.Quantity(cellValue(rec[volKey])); ok {
			ln.Quantity = &q
		}
		if lotKey != "" {
			ln.Lot = cellValue(rec[lotKey])
		}
		if itemKey != "" {
			ln.Item = cellValue(rec[itemKey])
		}
		if runsKey != "" {
			if r, ok := parse.Number(cellValue(rec[runsKey])); ok {
				ln.RunsPA = &r
			}
		}
		lines = append(lines, ln)
	}
	return lines, nil
}

// Compute reconciles the grouping store against the dataset's materials and
// prices every line. Called in full on every interaction.
func Compute(lines []model.Line, store *grouping.Store, tables pricing.Tables, loadingPct float64) model.Result {
	materials := make([]string, 0, len(lines))
	for _, ln := range lines {
		materials = append(materials, ln.Material)
	}
	store.Reconcile(materials)

	res := pricing.Compute(lines, store, tables, loadingPct)
	for _, e := range store.Entries() {
		res.Grouping = append(res.Grouping, model.GroupingView{
			Material:      e.Material,
			InitialGroup:  e.InitialGroup,
			AssignedGroup: e.AssignedGroup,
		})
	}
	res.TotalFormatted = "$" + humanize.CommafWithDigits(res.TotalValue, 2)
	return res
}

// doubleSided infers sidedness from the description unless the operator
// forced it for the whole run.
func doubleSided(materialDesc, force string) bool {
	switch strings.ToLower(force) {
	case "double":
		return true
	case "single":
		return false
	}
	return strings.Contains(strings.ToLower(materialDesc), "double")
}

// stockName is the first comma-delimited segment of the description.
func stockName(materialDesc string) string {
	name, _, _ := strings.Cut(materialDesc, ",")
	return strings.TrimSpace(name)
}

// cellValue trims a cell and blanks out formula leftovers ("=..."), which
// appear when a workbook is saved without computed values.
func cellValue(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "=") {
		return ""
	}
	return v
}

func firstAlt(want string) string {
	first, _, _ := strings.Cut(want, "|")
	return first
}
