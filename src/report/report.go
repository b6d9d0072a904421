package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"market-signals/src/models"

	"github.com/xuri/excelize/v2"
)

const DatetimeLayout = "2006-01-02 15:04:05"

var Header = []string{"datetime", "ticker", "price", "signal", "pnl"}

type timedRow struct {
	at  time.Time
	row models.MReportRow
}

// -----------------------------------------------------------------------------

// BuildRows merges every series into one list sorted by (datetime, ticker).
// Timestamps are rendered in loc.
func BuildRows(snapshot map[string]*models.MTickerSeries, loc *time.Location) []models.MReportRow {
	if loc == nil {
		loc = time.UTC
	}

	var rows []timedRow
	for symbol, series := range snapshot {
		for i, sample := range series.Samples {
			rows = append(rows, timedRow{
				at: sample.Timestamp,
				row: models.MReportRow{
					Datetime: sample.Timestamp.In(loc).Format(DatetimeLayout),
					Ticker:   symbol,
					Price:    sample.Price,
					Signal:   series.Signal[i],
					PnL:      series.PnL[i],
				},
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].at.Equal(rows[j].at) {
			return rows[i].at.Before(rows[j].at)
		}
		return rows[i].row.Ticker < rows[j].row.Ticker
	})

	out := make([]models.MReportRow, len(rows))
	for i, r := range rows {
		out[i] = r.row
	}
	return out
}

// -----------------------------------------------------------------------------

// FormatFloat renders floats the way the CSV consumers expect: shortest form,
// always with a fractional part.
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// -----------------------------------------------------------------------------

// WriteCSV rewrites the report file from scratch.
func WriteCSV(path string, rows []models.MReportRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	// readers never observe a half-written report
	tmp := path + ".tmp"
	if err := writeCSVFile(tmp, rows); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace report: %w", err)
	}
	return nil
}

func writeCSVFile(name string, rows []models.MReportRow) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{r.Datetime, r.Ticker, FormatFloat(r.Price), strconv.Itoa(r.Signal), FormatFloat(r.PnL)}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// -----------------------------------------------------------------------------

// WriteXLSX writes the same rows to a single-sheet workbook.
func WriteXLSX(path string, rows []models.MReportRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const sheet = "Report"
	if err := fx.SetSheetName(fx.GetSheetName(0), sheet); err != nil {
		return err
	}

	headStyle, _ := fx.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, h := range Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, h)
		fx.SetCellStyle(sheet, cell, cell, headStyle)
	}

	for n, r := range rows {
		values := []interface{}{r.Datetime, r.Ticker, r.Price, r.Signal, r.PnL}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, n+2)
			fx.SetCellValue(sheet, cell, v)
		}
	}

	return fx.SaveAs(path)
}

// -----------------------------------------------------------------------------

// Export builds the rows and writes the CSV, plus the workbook when xlsxPath is set.
func Export(snapshot map[string]*models.MTickerSeries, loc *time.Location, csvPath, xlsxPath string) ([]models.MReportRow, error) {
	rows := BuildRows(snapshot, loc)
	if err := WriteCSV(csvPath, rows); err != nil {
		return nil, err
	}
	if xlsxPath != "" {
		if err := WriteXLSX(xlsxPath, rows); err != nil {
			return nil, fmt.Errorf("write xlsx: %w", err)
		}
	}
	return rows, nil
}
