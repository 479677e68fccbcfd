// Package exporter writes the study table and its z-score column as CSV.
//
// CSVWriter handles the file mechanics: directory creation, truncating or
// appending, and an optional UTF-8 BOM so Excel detects the encoding.
// ScoreRecords formats the rows. Output for identical input is
// byte-identical.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter("", logger)
//	err := writer.WriteScores(ctx, "out/zscore.csv", table, scores, exporter.ScoreOptions{})
package exporter
