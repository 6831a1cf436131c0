package output

import (
	"errors"
	"fmt"

	"github.com/maxvaer/dirprobe/internal/scanner"
	"github.com/xuri/excelize/v2"
)

const (
	resultsSheet = "Results"
	summarySheet = "Summary"
)

var xlsxHeaders = []string{"Candidate", "URL", "Status", "Content-Length", "Location"}

// XLSXWriter collects matches and saves them as a workbook when the scan
// finishes.
type XLSXWriter struct {
	path string
	rows [][]any
}

// NewXLSXWriter creates an Excel writer. A file path is required.
func NewXLSXWriter(opts Options) (*XLSXWriter, error) {
	if opts.File == "" {
		return nil, errors.New("xlsx output requires an output file")
	}
	return &XLSXWriter{path: opts.File}, nil
}

func (x *XLSXWriter) WriteHeader() error { return nil }

func (x *XLSXWriter) WriteResult(result *scanner.ProbeResult) error {
	var length any = ""
	if result.HasLength {
		length = result.ContentLength
	}
	x.rows = append(x.rows, []any{
		result.Candidate,
		result.URL,
		result.StatusCode,
		length,
		result.Location,
	})
	return nil
}

func (x *XLSXWriter) WriteFooter(stats Stats) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", resultsSheet); err != nil {
		return err
	}
	if err := writeSheet(file, resultsSheet, xlsxHeaders, x.rows); err != nil {
		return err
	}

	if _, err := file.NewSheet(summarySheet); err != nil {
		return err
	}
	summary := [][]any{
		{"Requests", stats.TotalRequests},
		{"Matches", stats.MatchCount},
		{"Errors", stats.ErrorCount},
		{"Duration", stats.Duration.String()},
		{"Requests/s", fmt.Sprintf("%.1f", stats.RequestsPerSec)},
	}
	if err := writeSheet(file, summarySheet, []string{"Metric", "Value"}, summary); err != nil {
		return err
	}

	if err := file.SaveAs(x.path); err != nil {
		return fmt.Errorf("saving %s: %w", x.path, err)
	}
	return nil
}

func (x *XLSXWriter) Close() error { return nil }

func writeSheet(file *excelize.File, sheet string, headers []string, rows [][]any) error {
	headerStyle, err := file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := file.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}
	_ = file.SetColWidth(sheet, "A", "B", 40)

	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := file.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
