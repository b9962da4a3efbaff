// =============================================================================
// reporting/export.go
//
// PURPOSE:
//   Serializes the transaction history into the three formats the desk hands
//   out: a JSON backup, an XLSX workbook, and a printable PDF table. All
//   three share the same column layout and close with a computed TOTAL row.
//
// SEE ALSO:
//   reporting/types.go     - HistoryRecord
//   reporting/aggregate.go - filtered summaries over the same records
// =============================================================================

package reporting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Column headers shared by the XLSX and PDF exports.
var exportHeader = []string{
	"Tanggal", "Jam", "Pelanggan", "Unit / Paket", "Jenis", "Durasi (Jam)", "Pendapatan (Rp)",
}

// =============================================================================
// JSON
// =============================================================================

// MarshalHistory renders the full history as indented JSON, suitable for a
// backup file that can later be restored verbatim.
func MarshalHistory(records []HistoryRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("marshal history: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseHistory decodes a history backup produced by MarshalHistory.
func ParseHistory(data []byte) ([]HistoryRecord, error) {
	var records []HistoryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	return records, nil
}

// =============================================================================
// Rows
// =============================================================================

func typeLabel(t RecordType) string {
	if t == TypeRental {
		return "Sewa / Rental"
	}
	return "Main di Tempat"
}

func recordRow(r HistoryRecord, loc *time.Location) []string {
	ts := r.Timestamp.In(loc)
	return []string{
		ts.Format("02-01-2006"),
		ts.Format("15:04"),
		r.CustomerName,
		r.UnitName,
		typeLabel(r.Type),
		r.DurationHrs.StringFixed(2),
		r.Cost.StringFixed(0),
	}
}

func totalOf(records []HistoryRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Cost)
	}
	return total
}

// =============================================================================
// XLSX
// =============================================================================

// ExportXLSX builds a single-sheet workbook with one row per record and a
// trailing TOTAL row summing the revenue column.
func ExportXLSX(records []HistoryRecord, loc *time.Location) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(sheet, "Laporan"); err != nil {
		return nil, fmt.Errorf("export xlsx: %w", err)
	}
	sheet = "Laporan"

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("export xlsx: header: %w", err)
	}

	row := 2
	for _, r := range records {
		cells := recordRow(r, loc)
		excelRow := []interface{}{
			cells[0], cells[1], cells[2], cells[3], cells[4],
			r.DurationHrs.InexactFloat64(),
			r.Cost.InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("export xlsx: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("export xlsx: row %d: %w", row, err)
		}
		row++
	}

	totalRow := []interface{}{"TOTAL", "", "", "", "", "", totalOf(records).InexactFloat64()}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return nil, fmt.Errorf("export xlsx: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &totalRow); err != nil {
		return nil, fmt.Errorf("export xlsx: total row: %w", err)
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("export xlsx: write: %w", err)
	}
	return buf.Bytes(), nil
}

// =============================================================================
// PDF
// =============================================================================

var pdfColWidths = []float64{24, 14, 44, 38, 30, 24, 32}

// ExportPDF renders the history as a gridded A4 table with a title line and a
// trailing TOTAL row, mirroring the XLSX column layout.
func ExportPDF(records []HistoryRecord, title string, loc *time.Location) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range exportHeader {
		pdf.CellFormat(pdfColWidths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, r := range records {
		cells := recordRow(r, loc)
		for i, c := range cells {
			align := "L"
			if i >= 5 {
				align = "R"
			}
			pdf.CellFormat(pdfColWidths[i], 6, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 8)
	var labelWidth float64
	for _, w := range pdfColWidths[:6] {
		labelWidth += w
	}
	pdf.CellFormat(labelWidth, 7, "TOTAL", "1", 0, "R", true, 0, "")
	pdf.CellFormat(pdfColWidths[6], 7, totalOf(records).StringFixed(0), "1", 0, "R", true, 0, "")
	pdf.Ln(-1)

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("export pdf: %w", err)
	}
	return buf.Bytes(), nil
}
