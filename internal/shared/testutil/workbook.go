package testutil

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

// StudyHeaders are the default study workbook headers
var StudyHeaders = []string{"Date", "gex/rvol20", "SPX Close price"}

// WriteWorkbook writes headers and rows to the first sheet of a new workbook
// in dir and returns its path. A nil cell is left empty.
func WriteWorkbook(t *testing.T, dir, name string, headers []string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("write header: %v", err)
	}

	for i, row := range rows {
		row := row
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			t.Fatalf("write row %d: %v", i+2, err)
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

// DailyRows builds study rows on consecutive calendar days from start.
// prices may be nil, in which case a rising price series is generated.
func DailyRows(start time.Time, ratios []float64, prices []float64) [][]any {
	rows := make([][]any, len(ratios))
	for i, r := range ratios {
		price := 4000 + float64(i)*2.5
		if prices != nil {
			price = prices[i]
		}
		rows[i] = []any{start.AddDate(0, 0, i), r, price}
	}
	return rows
}

// WriteStudyWorkbook writes a study workbook with the default headers
func WriteStudyWorkbook(t *testing.T, dir string, rows [][]any) string {
	t.Helper()
	return WriteWorkbook(t, dir, "rvol.study.xlsx", StudyHeaders, rows)
}

// Ramp returns n values starting at from, stepping by step, with a small
// deterministic wobble so windows never have zero variance
func Ramp(n int, from, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		wobble := float64((i*7)%5) * 0.01
		out[i] = from + float64(i)*step + wobble
	}
	return out
}
