// Package pricing turns parsed lines plus price tables into line values and
// per-group aggregates. Everything is recomputed fully on every call; the
// datasets are spreadsheet-scale so there is nothing to gain from
// incremental updates.
package pricing

import (
	"sort"

	"estimate-service/internal/estimate/grouping"
	"estimate-service/internal/estimate/material"
	"estimate-service/internal/estimate/model"
)

// Tables holds the two price dictionaries. A per-material price, when
// strictly positive, overrides the group price for that line.
type Tables struct {
	Group    map[string]float64 `json:"groups"`
	Material map[string]float64 `json:"materials"`
}

func NewTables() Tables {
	return Tables{Group: map[string]float64{}, Material: map[string]float64{}}
}

// resolve picks the unit price for one line. Zero means "not yet priced" and
// flows through as a zero value, never an error.
func (t Tables) resolve(materialDesc, group string) (price float64, from string) {
	if p, ok := t.Material[materialDesc]; ok && p > 0 {
		return p, "material"
	}
	if p, ok := t.Group[group]; ok && p > 0 {
		return p, "group"
	}
	return 0, "none"
}

// Compute prices every line against the store's assigned groups and rolls up
// per-group and grand totals. Lines missing area or quantity keep blank
// derived fields and contribute nothing.
func Compute(lines []model.Line, store *grouping.Store, tables Tables, loadingPct float64) model.Result {
	priced := make([]model.PricedLine, 0, len(lines))

	type agg struct {
		materials map[string]struct{}
		lines     int
		area      float64
		value     float64
		unit      float64
	}
	byGroup := make(map[string]*agg)

	var totalArea, totalValue float64
	for _, ln := range lines {
		group := store.Resolve(ln.Material)
		unit, from := tables.resolve(ln.Material, group)

		mult := 1.0
		if ln.DoubleSided {
			mult = 1 + loadingPct/100
		}

		pl := model.PricedLine{
			Line:       ln,
			Group:      group,
			Friendly:   material.Friendly(group),
			UnitPrice:  unit,
			PriceFrom:  from,
			Multiplier: mult,
		}

		a := byGroup[group]
		if a == nil {
			a = &agg{materials: make(map[string]struct{})}
			byGroup[group] = a
		}
		a.lines++
		a.materials[ln.Material] = struct{}{}
		if p, ok := tables.Group[group]; ok && p > 0 {
			a.unit = p
		}

		if ln.AreaM2 != nil && ln.Quantity != nil {
			extent := *ln.AreaM2 * *ln.Quantity
			pl.Value = extent * unit * mult
			a.area += extent
			a.value += pl.Value
			totalArea += extent
			totalValue += pl.Value
		}
		priced = append(priced, pl)
	}

	groups := make([]model.GroupSummary, 0, len(byGroup))
	for g, a := range byGroup {
		groups = append(groups, model.GroupSummary{
			Group:     g,
			Friendly:  material.Friendly(g),
			Materials: len(a.materials),
			Lines:     a.lines,
			AreaM2:    a.area,
			UnitPrice: a.unit,
			Value:     a.value,
		})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Group < groups[j].Group })

	return model.Result{
		Lines:       priced,
		Groups:      groups,
		TotalAreaM2: totalArea,
		TotalValue:  totalValue,
		LoadingPct:  loadingPct,
	}
}
