// Package config loads rvolchart configuration.
//
// # Configuration Sources
//
// Values are resolved in the following order, later sources winning:
//
//	1. Default() values
//	2. YAML file (--config, or rvolchart.yaml / configs/rvolchart.yaml)
//	3. Environment variables prefixed with RVOL_
//	4. Command line flags (applied by cmd/rvolchart)
//
// # Environment Variables
//
// Variables are named after the section and field:
//
//	RVOL_INPUT_PATH=rvol.study.xlsx
//	RVOL_WINDOW_MODE=time
//	RVOL_WINDOW_DAYS=60
//	RVOL_CHART_DPI=300
//	RVOL_EXPORT_CSV_PATH=zscore.csv
//	RVOL_LOGGING_LEVEL=debug
//	RVOL_TELEMETRY_METRICS_FILE=rvolchart.prom
//
// # Validation
//
// The final struct is validated with go-playground/validator tags. An
// invalid value fails Load rather than being silently corrected.
package config
