// Package main provides the one-shot CLI: price a tender workbook from the
// command line without running the HTTP service.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"estimate-service/internal/estimate/export"
	"estimate-service/internal/estimate/grouping"
	"estimate-service/internal/estimate/material"
	"estimate-service/internal/estimate/model"
	"estimate-service/internal/estimate/service"
	"estimate-service/internal/fileio"
	"estimate-service/internal/pricedb"
)

var (
	outputPath string
	pricesPath string
	loadingPct float64
	headerRow  int
	dimCol     string
	matCol     string
	volCol     string
	sidesFlag  string
	assigns    []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "estimate [workbook.xlsx]",
		Short: "Classify and price a tender workbook",
		Long: `estimate reads a tender/order workbook (xlsx, xls or csv), groups each
stock description into a pricing group, prices lines against the stored
rates and writes an annotated workbook with a summary sheet.`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Annotated workbook path (default: <input>_priced.xlsx)")
	rootCmd.Flags().StringVar(&pricesPath, "prices", "data/prices.db", "Price database path")
	rootCmd.Flags().Float64Var(&loadingPct, "loading", 20, "Double-sided loading percentage")
	rootCmd.Flags().IntVar(&headerRow, "header-row", 1, "Header row (1-based)")
	rootCmd.Flags().StringVar(&dimCol, "dim-col", "", "Dimension column name")
	rootCmd.Flags().StringVar(&matCol, "material-col", "", "Material column name")
	rootCmd.Flags().StringVar(&volCol, "volume-col", "", "Volume column name")
	rootCmd.Flags().StringVar(&sidesFlag, "sides", "", `Force "single" or "double" sided for every line`)
	rootCmd.Flags().StringArrayVar(&assigns, "assign", nil, `Manual group override, "material=group" (repeatable)`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", inputPath, err)
	}
	defer f.Close()

	headers, records, err := fileio.ReadTable(f, inputPath, headerRow)
	if err != nil {
		return fmt.Errorf("read workbook: %w", err)
	}

	mapping := model.Mapping{
		DimKey:      dimCol,
		MaterialKey: matCol,
		VolumeKey:   volCol,
		HeaderRow:   headerRow,
		ForceSides:  sidesFlag,
	}
	lines, err := service.BuildLines(headers, records, mapping)
	if err != nil {
		return err
	}

	store := grouping.NewStore(material.Classify)
	materials := make([]string, 0, len(lines))
	for _, ln := range lines {
		materials = append(materials, ln.Material)
	}
	store.Reconcile(materials)
	for _, a := range assigns {
		mat, group, ok := strings.Cut(a, "=")
		if !ok {
			return fmt.Errorf("bad --assign %q, want material=group", a)
		}
		store.Reassign(strings.TrimSpace(mat), group)
	}

	db := pricedb.Open(pricesPath, zerolog.New(os.Stderr).With().Timestamp().Logger())
	defer db.Close()
	tables := db.Load()

	res := service.Compute(lines, store, tables, loadingPct)

	if outputPath == "" {
		outputPath = export.Filename(inputPath)
	}
	wb, err := export.Workbook(headers, res)
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	if err := wb.SaveAs(outputPath); err != nil {
		return fmt.Errorf("save %s: %w", outputPath, err)
	}

	printSummary(res)
	fmt.Printf("\nwrote %s (%d lines)\n", outputPath, len(res.Lines))
	return nil
}

func printSummary(res model.Result) {
	fmt.Printf("%-40s %9s %6s %12s %12s\n", "GROUP", "AREA m2", "LINES", "RATE", "VALUE")
	for _, g := range res.Groups {
		fmt.Printf("%-40s %9.3f %6d %12s %12s\n",
			g.Group, g.AreaM2, g.Lines,
			"$"+humanize.CommafWithDigits(g.UnitPrice, 2),
			"$"+humanize.CommafWithDigits(g.Value, 2))
	}
	fmt.Printf("%-40s %9.3f %6s %12s %12s\n", "TOTAL", res.TotalAreaM2, "", "", res.TotalFormatted)
}
