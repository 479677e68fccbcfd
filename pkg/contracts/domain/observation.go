package domain

import (
	"math"
	"time"
)

// Default column names of the RVOL study workbook. Matching is exact and
// case-sensitive.
const (
	ColumnDate   = "Date"
	ColumnRatio  = "gex/rvol20"
	ColumnPrice  = "SPX Close price"
	ColumnZScore = "zscore_rvol20_gex"
)

// Observation is one daily row of the study workbook.
// Ratio and Price are NaN when the source cell was empty.
type Observation struct {
	Date  time.Time `json:"date"`
	Ratio float64   `json:"ratio"`
	Price float64   `json:"price"`
}

// HasRatio reports whether the ratio value is present
func (o Observation) HasRatio() bool {
	return !math.IsNaN(o.Ratio)
}

// HasPrice reports whether the price value is present
func (o Observation) HasPrice() bool {
	return !math.IsNaN(o.Price)
}

// Source describes where a Table was loaded from
type Source struct {
	Path        string `json:"path"`
	Sheet       string `json:"sheet"`
	DateColumn  string `json:"date_column"`
	RatioColumn string `json:"ratio_column"`
	PriceColumn string `json:"price_column"`
}

// Table is the in-memory ordered set of observations, ascending by date.
type Table struct {
	Source Source        `json:"source"`
	Rows   []Observation `json:"rows"`
}

// Len returns the number of observations
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Dates returns the date column
func (t *Table) Dates() []time.Time {
	out := make([]time.Time, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Date
	}
	return out
}

// Ratios returns the ratio column
func (t *Table) Ratios() []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Ratio
	}
	return out
}

// Prices returns the price column
func (t *Table) Prices() []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Price
	}
	return out
}

// Score is one value of the derived z-score column.
//
// Valid is false when the trailing window did not have enough samples
// (the null result). A Valid score may still hold NaN or ±Inf when the
// window had zero variance.
type Score struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// NullScore is the result for an under-filled window
var NullScore = Score{Value: math.NaN()}

// IsFinite reports whether the score is present and a finite number
func (s Score) IsFinite() bool {
	return s.Valid && !math.IsNaN(s.Value) && !math.IsInf(s.Value, 0)
}

// ScoreSeries is aligned index-for-index with Table.Rows
type ScoreSeries []Score

// ScoreStats summarizes a ScoreSeries
type ScoreStats struct {
	Total     int `json:"total"`
	Valid     int `json:"valid"`
	Null      int `json:"null"`
	NonFinite int `json:"non_finite"`
}

// Stats counts valid, null and non-finite scores
func (s ScoreSeries) Stats() ScoreStats {
	st := ScoreStats{Total: len(s)}
	for _, sc := range s {
		switch {
		case !sc.Valid:
			st.Null++
		case sc.IsFinite():
			st.Valid++
		default:
			st.NonFinite++
		}
	}
	return st
}
