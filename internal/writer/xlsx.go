package writer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/payslip-converter/internal/parser"
)

const (
	sheetSummary = "Sammanfattning"
	sheetRows    = "Rader"
)

// XLSXWriter writes a workbook with the per-article table on the first
// sheet and every raw ART row on the second.
type XLSXWriter struct{}

func (w *XLSXWriter) Write(out io.Writer, res *parser.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	if _, err := f.NewSheet(sheetRows); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	if err := writeSummarySheet(f, res, bold); err != nil {
		return err
	}
	if err := writeRowsSheet(f, res, bold); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, res *parser.Result, bold int) error {
	row := 1
	for _, kv := range headerFields(res) {
		if err := setRow(f, sheetSummary, row, []interface{}{kv[0], kv[1]}); err != nil {
			return err
		}
		row++
	}
	if row > 1 {
		row++
	}

	header := make([]interface{}, len(recordHeader))
	for i, h := range recordHeader {
		header[i] = h
	}
	if err := setRow(f, sheetSummary, row, header); err != nil {
		return err
	}
	if err := styleRow(f, sheetSummary, row, len(header), bold); err != nil {
		return err
	}
	if err := f.SetPanes(sheetSummary, &excelize.Panes{
		Freeze:      true,
		YSplit:      row,
		TopLeftCell: fmt.Sprintf("A%d", row+1),
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	for _, rec := range artRecords(res.Overview) {
		row++
		if err := setRow(f, sheetSummary, row, rec.cells()); err != nil {
			return err
		}
	}

	if qc := qualifiedNote(res); qc != "" {
		if err := setRow(f, sheetSummary, row+2, []interface{}{"Kvalificerad övertid", qc}); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheetSummary, "B", "B", 32); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	return nil
}

func writeRowsSheet(f *excelize.File, res *parser.Result, bold int) error {
	if err := setRow(f, sheetRows, 1, []interface{}{"ART", "Rad"}); err != nil {
		return err
	}
	if err := styleRow(f, sheetRows, 1, 2, bold); err != nil {
		return err
	}

	row := 2
	for _, g := range res.Groups {
		for _, raw := range g.Rows {
			if err := setRow(f, sheetRows, row, []interface{}{g.Art, raw}); err != nil {
				return err
			}
			row++
		}
	}
	if err := f.SetColWidth(sheetRows, "B", "B", 80); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("xlsx: row %d: %w", row, err)
	}
	return nil
}

func styleRow(f *excelize.File, sheet string, row, cols, style int) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	return f.SetCellStyle(sheet, first, last, style)
}
