// Package export renders the annotated workbook: the original columns with
// the computed fields appended, plus a per-group summary sheet.
package export

import (
	"fmt"

	"github.com/dustin/go-humanize"
	excelize "github.com/xuri/excelize/v2"

	"estimate-service/internal/estimate/model"
)

const (
	sheetEstimate = "Estimate"
	sheetSummary  = "Summary"
)

var appendedCols = []string{
	"Area m2", "Stock", "Sides", "Pricing Group", "Friendly Name",
	"Rate", "Multiplier", "Value",
}

// Workbook builds a fresh xlsx from the session's headers and priced lines.
// A fresh file is built rather than patching the upload so .xls and .csv
// inputs export the same way.
func Workbook(headers []string, res model.Result) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheetEstimate); err != nil {
		return nil, err
	}

	row := make([]any, 0, len(headers)+len(appendedCols))
	for _, h := range headers {
		row = append(row, h)
	}
	for _, h := range appendedCols {
		row = append(row, h)
	}
	if err := setRow(f, sheetEstimate, 1, row); err != nil {
		return nil, err
	}

	for i, ln := range res.Lines {
		row = row[:0]
		for _, h := range headers {
			row = append(row, ln.Raw[h])
		}
		row = append(row,
			floatCell(ln.AreaM2),
			ln.StockName,
			sides(ln.DoubleSided),
			ln.Group,
			ln.Friendly,
			ln.UnitPrice,
			ln.Multiplier,
			ln.Value,
		)
		if err := setRow(f, sheetEstimate, i+2, row); err != nil {
			return nil, err
		}
	}

	if err := writeSummary(f, res); err != nil {
		return nil, err
	}
	return f, nil
}

func writeSummary(f *excelize.File, res model.Result) error {
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return err
	}
	head := []any{"Group", "Friendly Name", "Materials", "Lines", "Total Area m2", "Rate", "Value"}
	if err := setRow(f, sheetSummary, 1, head); err != nil {
		return err
	}
	r := 2
	for _, g := range res.Groups {
		row := []any{g.Group, g.Friendly, g.Materials, g.Lines, g.AreaM2, g.UnitPrice, g.Value}
		if err := setRow(f, sheetSummary, r, row); err != nil {
			return err
		}
		r++
	}
	total := []any{"GRAND TOTAL", "", "", "", res.TotalAreaM2, "",
		"$" + humanize.CommafWithDigits(res.TotalValue, 2)}
	if err := setRow(f, sheetSummary, r+1, total); err != nil {
		return err
	}
	return f.SetColWidth(sheetSummary, "A", "B", 32)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// floatCell keeps unparseable fields blank in the export instead of zero.
func floatCell(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func sides(double bool) string {
	if double {
		return "Double sided"
	}
	return "Single sided"
}

// Filename suggests an export name derived from the upload.
func Filename(source string) string {
	if source == "" {
		return "Estimate_Pricing.xlsx"
	}
	return fmt.Sprintf("%s_priced.xlsx", trimExt(source))
}

func trimExt(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[:i]
		}
		if name[i] == '/' || name[i] == '\\' {
			break
		}
	}
	return name
}
