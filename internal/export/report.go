package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/ingredient-scanner/constants"
	"github.com/joseph-ayodele/ingredient-scanner/internal/ingredients"
)

const SheetName = "Scans"

// Row is one scanned file in the batch report.
type Row struct {
	Path     string
	Status   constants.ScanStatus
	Result   *ingredients.Result
	Text     string
	Err      string
	Duration time.Duration
}

var headers = []string{
	"File",
	"Status",
	"Score %",
	"Health",
	"Flags",
	"Note",
	"Text",
	"Error",
	"Duration (ms)",
}

// Reporter renders scan rows into an XLSX workbook.
type Reporter struct {
	logger *slog.Logger
}

func NewReporter(logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{logger: logger}
}

// ScanReportXLSX returns the workbook bytes; rows are written in the order given.
func (r *Reporter) ScanReportXLSX(rows []Row) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer f.Close()

	// rename the default sheet rather than leaving an empty Sheet1 behind
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		end, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(SheetName, "A1", end, style)
	}

	for i, row := range rows {
		n := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, n)
			_ = f.SetCellValue(SheetName, cell, v)
		}

		write(1, row.Path)
		write(2, string(row.Status))
		if row.Result != nil {
			write(3, row.Result.Percent)
			write(4, row.Result.HealthFlag.Label())
			write(5, keywords(row.Result.Flags))
			write(6, row.Result.Note)
		}
		write(7, truncate(oneLine(row.Text), 200))
		write(8, row.Err)
		write(9, row.Duration.Milliseconds())
	}

	_ = f.SetColWidth(SheetName, "A", "A", 40) // file
	_ = f.SetColWidth(SheetName, "B", "B", 20) // status
	_ = f.SetColWidth(SheetName, "C", "C", 9)
	_ = f.SetColWidth(SheetName, "D", "D", 18)
	_ = f.SetColWidth(SheetName, "E", "E", 30)
	_ = f.SetColWidth(SheetName, "F", "F", 48) // note
	_ = f.SetColWidth(SheetName, "G", "G", 60) // text
	_ = f.SetColWidth(SheetName, "H", "H", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	r.logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func keywords(rules []ingredients.Rule) string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.Keyword)
	}
	return strings.Join(out, ", ")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
