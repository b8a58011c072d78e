package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/joseph-ayodele/dc-receiving/internal/entity"
)

const (
	SheetPackages    = "Packages"
	SheetReceiving   = "Receiving"
	SheetSummary     = "Summary"
	SheetDiagnostics = "Diagnostics"
)

// XLSX returns the receiving workbook (as bytes): the package list, a
// receiving sheet with blank received quantities and variance formulas, a
// summary and the diagnostics.
func (s *Service) XLSX(res entity.ExtractionResult) ([]byte, error) {
	if err := refuseFailed(res); err != nil {
		return nil, err
	}
	start := time.Now()

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", SheetPackages); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetReceiving, SheetSummary, SheetDiagnostics} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	percent, err := f.NewStyle(&excelize.Style{NumFmt: 10})
	if err != nil {
		return nil, err
	}

	w := sheetWriter{f: f, bold: bold}

	// Packages
	w.header(SheetPackages, PackageColumns)
	for i, p := range res.Packages {
		row := packageRow(p)
		vals := make([]any, len(row))
		for j, v := range row {
			vals[j] = v
		}
		vals[0] = p.SequenceNumber
		w.row(SheetPackages, i+2, vals...)
	}
	w.widths(SheetPackages, map[string]float64{"A": 6, "B": 28, "C": 44, "D": 18, "E": 22, "F": 40})

	// Receiving
	w.header(SheetReceiving, []string{"Package #", "Package ID", "Item Name", "Qty Shipped", "Unit", "Qty Received", "Variance", "Variance %"})
	for i, p := range res.Packages {
		r := i + 2
		w.row(SheetReceiving, r, p.SequenceNumber, p.PackageID, p.ItemName, quantityValue(p), entity.StrOrEmpty(p.UnitOfMeasure))
		w.formula(SheetReceiving, "G", r, fmt.Sprintf(`IF(F%d="","",F%d-D%d)`, r, r, r))
		w.formula(SheetReceiving, "H", r, fmt.Sprintf(`IF(OR(F%d="",D%d=0),"",G%d/D%d)`, r, r, r, r))
	}
	if n := len(res.Packages); n > 0 {
		_ = f.SetCellStyle(SheetReceiving, "H2", fmt.Sprintf("H%d", n+1), percent)
	}
	w.widths(SheetReceiving, map[string]float64{"A": 10, "B": 28, "C": 44, "D": 12, "E": 8, "F": 13, "G": 10, "H": 11})

	// Summary
	sum := res.Summary()
	summary := [][2]any{
		{"Manifest Number", entity.StrOrEmpty(res.Header.ManifestNumber)},
		{"Origin", entity.StrOrEmpty(res.Header.Origin)},
		{"Destination", entity.StrOrEmpty(res.Header.Destination)},
		{"Status", string(res.Status)},
		{"Total Packages", sum.TotalPackages},
		{"Valid Packages", sum.Valid},
		{"With Quantity", sum.WithQuantity},
		{"With Batch", sum.WithBatch},
		{"Warnings", res.Warnings()},
	}
	for _, unit := range sum.Units() {
		label := "Total Shipped"
		if unit != "" {
			label += " (" + unit + ")"
		}
		summary = append(summary, [2]any{label, numberValue(sum.ShippedByUnit[unit])})
	}
	for i, kv := range summary {
		w.row(SheetSummary, i+1, kv[0], kv[1])
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		_ = f.SetCellStyle(SheetSummary, cell, cell, bold)
	}
	w.widths(SheetSummary, map[string]float64{"A": 22, "B": 40})

	// Diagnostics
	w.header(SheetDiagnostics, []string{"Severity", "Scope", "Message"})
	for i, d := range res.Diagnostics {
		w.row(SheetDiagnostics, i+2, string(d.Severity), d.Scope.String(), d.Message)
	}
	w.widths(SheetDiagnostics, map[string]float64{"A": 10, "B": 14, "C": 80})

	if w.err != nil {
		return nil, fmt.Errorf("xlsx build: %w", w.err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Debug("export.xlsx.ok",
		zap.String("manifest_number", entity.StrOrEmpty(res.Header.ManifestNumber)),
		zap.Int("rows", len(res.Packages)),
		zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)
	return buf.Bytes(), nil
}

// sheetWriter keeps the first error so the build reads top to bottom.
type sheetWriter struct {
	f    *excelize.File
	bold int
	err  error
}

func (w *sheetWriter) row(sheet string, r int, vals ...any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, r)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(sheet, cell, &vals)
}

func (w *sheetWriter) header(sheet string, cols []string) {
	vals := make([]any, len(cols))
	for i, c := range cols {
		vals[i] = c
	}
	w.row(sheet, 1, vals...)
	if w.err == nil {
		end, _ := excelize.CoordinatesToCellName(len(cols), 1)
		w.err = w.f.SetCellStyle(sheet, "A1", end, w.bold)
	}
}

func (w *sheetWriter) formula(sheet, col string, r int, formula string) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetCellFormula(sheet, col+strconv.Itoa(r), formula)
}

func (w *sheetWriter) widths(sheet string, cols map[string]float64) {
	for col, width := range cols {
		_ = w.f.SetColWidth(sheet, col, col, width)
	}
}

// quantityValue is numeric when verified so the variance formulas work.
func quantityValue(p entity.PackageRecord) any {
	if !p.QuantityVerified {
		return ""
	}
	return numberValue(p.QuantityShipped.String())
}

func numberValue(s string) any {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return s
}
