// Package excel exports review statistics as xlsx workbooks or csv files.
package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/example/vocabsrs/pkg/models"
)

const (
	defaultSheet = "Sheet1"
	summarySheet = "Summary"
	dateLayout   = "2006-01-02 15:04"
)

// ExportConfig defines the export configuration
type ExportConfig struct {
	FilePath  string         // Path of the .xlsx or .csv file to write
	SheetName string         // Name of the weak-word sheet
	Location  *time.Location // Time zone of the dates in the file
}

// DefaultExportConfig returns the default export configuration
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		SheetName: "Weak words",
		Location:  time.UTC,
	}
}

// Report is the content of one export
type Report struct {
	UserName    string
	GeneratedAt time.Time
	Summary     models.MasterySummary
	WeakWords   []models.WeakWord
}

// ExportResult holds the result of an export operation
type ExportResult struct {
	FilePath string
	Rows     int
}

var weakWordHeader = []string{"Word", "Error rate", "Attempts", "Status", "Last reviewed"}

// ExportReport writes report to cfg.FilePath, as csv when the extension is .csv and as xlsx otherwise
func ExportReport(cfg ExportConfig, report Report) (*ExportResult, error) {
	if cfg.FilePath == "" {
		return nil, fmt.Errorf("%w: export file path is empty", models.ErrInvalidArgument)
	}
	cfg = withDefaults(cfg)

	if dir := filepath.Dir(cfg.FilePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	f, err := os.Create(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if strings.ToLower(filepath.Ext(cfg.FilePath)) == ".csv" {
		err = WriteCSV(f, cfg, report)
	} else {
		err = WriteExcel(f, cfg, report)
	}
	if err != nil {
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close export file: %w", err)
	}

	return &ExportResult{FilePath: cfg.FilePath, Rows: len(report.WeakWords)}, nil
}

// WriteExcel writes a workbook with a weak-word sheet and a summary sheet
func WriteExcel(w io.Writer, cfg ExportConfig, report Report) error {
	cfg = withDefaults(cfg)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultSheet, cfg.SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := writeWeakWordSheet(f, cfg, report.WeakWords); err != nil {
		return err
	}
	if err := writeSummarySheet(f, cfg, report); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %v", err)
	}
	return nil
}

func writeWeakWordSheet(f *excelize.File, cfg ExportConfig, words []models.WeakWord) error {
	sheet := cfg.SheetName

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DCE6F1"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	percent, err := f.NewStyle(&excelize.Style{NumFmt: 9}) // 0%
	if err != nil {
		return fmt.Errorf("failed to create percent style: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &weakWordHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "E1", header); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, word := range words {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			wordText(word),
			word.ErrorRate,
			word.TotalAttempts,
			string(word.Status),
			formatDate(word.LastReviewedAt, cfg.Location),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if len(words) > 0 {
		if err := f.SetCellStyle(sheet, "B2", fmt.Sprintf("B%d", len(words)+1), percent); err != nil {
			return fmt.Errorf("failed to style error rates: %w", err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "D", 12); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "E", "E", 18); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeSummarySheet(f *excelize.File, cfg ExportConfig, report Report) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	rows := [][]interface{}{
		{"User", report.UserName},
		{"Generated at", formatDate(report.GeneratedAt, cfg.Location)},
		{"Words studied", report.Summary.Total},
		{"Learning", report.Summary.Learning},
		{"Reviewing", report.Summary.Reviewing},
		{"Mastered", report.Summary.Mastered},
		{"Due now", report.Summary.Due},
	}
	for i, row := range rows {
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	return f.SetColWidth(summarySheet, "A", "B", 18)
}

// WriteCSV writes the weak-word table as csv
func WriteCSV(w io.Writer, cfg ExportConfig, report Report) error {
	cfg = withDefaults(cfg)

	writer := csv.NewWriter(w)
	if err := writer.Write(weakWordHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, word := range report.WeakWords {
		record := []string{
			wordText(word),
			strconv.FormatFloat(word.ErrorRate, 'f', 2, 64),
			strconv.Itoa(word.TotalAttempts),
			string(word.Status),
			formatDate(word.LastReviewedAt, cfg.Location),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func withDefaults(cfg ExportConfig) ExportConfig {
	def := DefaultExportConfig()
	if cfg.SheetName == "" {
		cfg.SheetName = def.SheetName
	}
	if cfg.Location == nil {
		cfg.Location = def.Location
	}
	return cfg
}

// wordText falls back to the ID for words whose text is unknown
func wordText(word models.WeakWord) string {
	if word.Text != "" {
		return word.Text
	}
	return fmt.Sprintf("#%d", word.WordID)
}

func formatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(dateLayout)
}
