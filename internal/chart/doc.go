// Package chart renders the study figure with go-chart.
//
// A Figure owns one chart.Chart built from a table and its z-scores. The
// ratio is drawn against the left axis and the price against the right
// axis. The z-score either shares the ratio axis (LayoutOverlay) or gets a
// third scale drawn further out on the right (LayoutOffset).
//
// Missing values break a line into segments instead of being interpolated.
// Saved images are cropped to their drawn content plus a margin.
package chart
