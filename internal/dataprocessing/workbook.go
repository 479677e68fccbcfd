package dataprocessing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "rvolchart/internal/errors"
	"rvolchart/pkg/contracts/domain"
)

// dateLayouts are tried in order for date cells stored as text
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
}

// LoadOptions names the sheet and columns to read. An empty Sheet means the
// first sheet of the workbook.
type LoadOptions struct {
	Sheet       string
	DateColumn  string
	RatioColumn string
	PriceColumn string
}

// DefaultLoadOptions returns the column names of the RVOL study workbook
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		DateColumn:  domain.ColumnDate,
		RatioColumn: domain.ColumnRatio,
		PriceColumn: domain.ColumnPrice,
	}
}

// Loader reads study workbooks into a domain.Table
type Loader struct {
	opts   LoadOptions
	logger *slog.Logger
}

// NewLoader creates a workbook loader
func NewLoader(opts LoadOptions, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{opts: opts, logger: logger}
}

// Load opens the workbook at path and returns its observations sorted
// ascending by date.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return l.read(ctx, f, path)
}

// LoadReader reads a workbook from r; name is only used for reporting
func (l *Loader) LoadReader(ctx context.Context, r io.Reader, name string) (*domain.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return l.read(ctx, f, name)
}

func (l *Loader) read(ctx context.Context, f *excelize.File, name string) (*domain.Table, error) {
	sheet := l.opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%s: %w", name, apperrors.ErrNoData)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	headerIdx := -1
	for i, row := range rows {
		if !isBlank(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, fmt.Errorf("sheet %q: %w", sheet, apperrors.ErrNoData)
	}

	columns := make(map[string]int)
	for j, h := range rows[headerIdx] {
		if _, seen := columns[h]; !seen {
			columns[h] = j
		}
	}

	lookup := func(name string) (int, error) {
		idx, ok := columns[name]
		if !ok {
			return 0, apperrors.MissingColumnError(name, sheet)
		}
		return idx, nil
	}
	dateIdx, err := lookup(l.opts.DateColumn)
	if err != nil {
		return nil, err
	}
	ratioIdx, err := lookup(l.opts.RatioColumn)
	if err != nil {
		return nil, err
	}
	priceIdx, err := lookup(l.opts.PriceColumn)
	if err != nil {
		return nil, err
	}

	observations := make([]domain.Observation, 0, len(rows)-headerIdx-1)
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}
		rowNum := i + 1

		date, err := parseDate(cell(row, dateIdx))
		if err != nil {
			return nil, apperrors.ParseCellError(l.opts.DateColumn, rowNum, cell(row, dateIdx), err)
		}
		ratio, err := parseNumber(cell(row, ratioIdx))
		if err != nil {
			return nil, apperrors.ParseCellError(l.opts.RatioColumn, rowNum, cell(row, ratioIdx), err)
		}
		price, err := parseNumber(cell(row, priceIdx))
		if err != nil {
			return nil, apperrors.ParseCellError(l.opts.PriceColumn, rowNum, cell(row, priceIdx), err)
		}

		observations = append(observations, domain.Observation{Date: date, Ratio: ratio, Price: price})
	}

	if len(observations) == 0 {
		return nil, fmt.Errorf("sheet %q: %w", sheet, apperrors.ErrNoData)
	}

	presorted := sortByDate(observations)
	if err := checkUniqueDates(observations); err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "Workbook loaded",
		slog.String("source", name),
		slog.String("sheet", sheet),
		slog.Int("rows", len(observations)),
		slog.Bool("presorted", presorted),
		slog.String("first_date", observations[0].Date.Format("2006-01-02")),
		slog.String("last_date", observations[len(observations)-1].Date.Format("2006-01-02")))

	return &domain.Table{
		Source: domain.Source{
			Path:        name,
			Sheet:       sheet,
			DateColumn:  l.opts.DateColumn,
			RatioColumn: l.opts.RatioColumn,
			PriceColumn: l.opts.PriceColumn,
		},
		Rows: observations,
	}, nil
}

// sortByDate stably sorts ascending by date and reports whether the input
// was already in order
func sortByDate(obs []domain.Observation) bool {
	less := func(i, j int) bool { return obs[i].Date.Before(obs[j].Date) }
	if sort.SliceIsSorted(obs, less) {
		return true
	}
	sort.SliceStable(obs, less)
	return false
}

// checkUniqueDates expects obs sorted by date
func checkUniqueDates(obs []domain.Observation) error {
	for i := 1; i < len(obs); i++ {
		if obs[i].Date.Equal(obs[i-1].Date) {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateDate, obs[i].Date.Format("2006-01-02"))
		}
	}
	return nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseDate accepts Excel serial dates and the text layouts in dateLayouts.
// The result is truncated to midnight UTC.
func parseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, err
		}
		return truncateDay(t), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// thousandsGrouped matches numbers whose commas separate groups of three
// digits, e.g. 1,234 or -12,345.67
var thousandsGrouped = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d*)?$`)

// parseNumber returns NaN for an empty cell. Commas are accepted only as
// thousands separators; a decimal comma such as 1,5 is an error.
func parseNumber(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return math.NaN(), nil
	}
	if strings.Contains(s, ",") {
		if !thousandsGrouped.MatchString(s) {
			return 0, fmt.Errorf("ambiguous comma in number %q", s)
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	return strconv.ParseFloat(s, 64)
}
