package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rvolchart.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "rvol.study.xlsx", cfg.Input.Path)
	assert.Equal(t, "Date", cfg.Input.DateColumn)
	assert.Equal(t, "gex/rvol20", cfg.Input.RatioColumn)
	assert.Equal(t, "SPX Close price", cfg.Input.PriceColumn)
	assert.Equal(t, "dynamic_graph_with_zscore.png", cfg.Chart.OutputPath)
	assert.Equal(t, WindowModeCount, cfg.Window.Mode)
	assert.Equal(t, 60, cfg.Window.Size)
	assert.Equal(t, 60, cfg.Window.Days)
	assert.Equal(t, 2, cfg.Window.MinPeriods)
	assert.Equal(t, 300.0, cfg.Chart.DPI)
	assert.Equal(t, 3, cfg.Chart.TickMonths)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
input:
  path: data/study.xlsx
  sheet: Data
window:
  mode: time
  days: 30
chart:
  dpi: 150
  preview: false
export:
  csv_path: out/zscore.csv
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "data/study.xlsx", cfg.Input.Path)
	assert.Equal(t, "Data", cfg.Input.Sheet)
	assert.Equal(t, WindowModeTime, cfg.Window.Mode)
	assert.Equal(t, 30, cfg.Window.Days)
	assert.Equal(t, 150.0, cfg.Chart.DPI)
	assert.False(t, cfg.Chart.Preview)
	assert.Equal(t, "out/zscore.csv", cfg.Export.CSVPath)

	// untouched keys keep their defaults
	assert.Equal(t, "gex/rvol20", cfg.Input.RatioColumn)
	assert.Equal(t, 60, cfg.Window.Size)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
window:
  mode: time
chart:
  dpi: 150
`)
	t.Setenv("RVOL_WINDOW_MODE", "count")
	t.Setenv("RVOL_WINDOW_SIZE", "20")
	t.Setenv("RVOL_CHART_DPI", "96")
	t.Setenv("RVOL_EXPORT_CSV_PATH", "z.csv")
	t.Setenv("RVOL_LOGGING_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, WindowModeCount, cfg.Window.Mode)
	assert.Equal(t, 20, cfg.Window.Size)
	assert.Equal(t, 96.0, cfg.Chart.DPI)
	assert.Equal(t, "z.csv", cfg.Export.CSVPath)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_UnprefixedVariablesIgnored(t *testing.T) {
	t.Setenv("PATH", "/usr/bin")
	t.Setenv("MODE", "time")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultInputPath, cfg.Input.Path)
	assert.Equal(t, WindowModeCount, cfg.Window.Mode)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr string
	}{
		{
			name: "missing explicit file",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "nope.yaml")
			},
			wantErr: "failed to load config from file",
		},
		{
			name: "malformed yaml",
			setup: func(t *testing.T) string {
				return writeConfigFile(t, "window: [unclosed")
			},
			wantErr: "failed to load config from file",
		},
		{
			name: "bad env value",
			setup: func(t *testing.T) string {
				t.Setenv("RVOL_WINDOW_SIZE", "sixty")
				return ""
			},
			wantErr: "failed to load config from env",
		},
		{
			name: "invalid window mode",
			setup: func(t *testing.T) string {
				return writeConfigFile(t, "window:\n  mode: ewm\n")
			},
			wantErr: "config validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.setup(t)
			cfg, err := Load(path)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"window size one", func(c *Config) { c.Window.Size = 1 }, "Size"},
		{"zero days", func(c *Config) { c.Window.Days = 0 }, "Days"},
		{"zero min periods", func(c *Config) { c.Window.MinPeriods = 0 }, "MinPeriods"},
		{"ddof two", func(c *Config) { c.Window.DDOF = 2 }, "DDOF"},
		{"empty input", func(c *Config) { c.Input.Path = "" }, "Path"},
		{"empty output", func(c *Config) { c.Chart.OutputPath = "" }, "OutputPath"},
		{"unknown layout", func(c *Config) { c.Chart.Layout = "stacked" }, "Layout"},
		{"negative dpi", func(c *Config) { c.Chart.DPI = -1 }, "DPI"},
		{"tick months zero", func(c *Config) { c.Chart.TickMonths = 0 }, "TickMonths"},
		{"file logging without path", func(c *Config) { c.Logging.Output = "file"; c.Logging.FilePath = "" }, "FilePath"},
		{"unknown exporter", func(c *Config) { c.Telemetry.TraceExporter = "otlp" }, "TraceExporter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.field, verrs[0].Field())
		})
	}
}

func TestEffectiveDDOF(t *testing.T) {
	tests := []struct {
		name   string
		window WindowConfig
		want   int
	}{
		{"count default", WindowConfig{Mode: WindowModeCount, DDOF: -1}, 0},
		{"time default", WindowConfig{Mode: WindowModeTime, DDOF: -1}, 1},
		{"count explicit", WindowConfig{Mode: WindowModeCount, DDOF: 1}, 1},
		{"time explicit", WindowConfig{Mode: WindowModeTime, DDOF: 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.window.EffectiveDDOF())
		})
	}
}

func TestResolvedLayout(t *testing.T) {
	cfg := Default()
	assert.Equal(t, LayoutOverlay, cfg.ResolvedLayout())

	cfg.Window.Mode = WindowModeTime
	assert.Equal(t, LayoutOffset, cfg.ResolvedLayout())

	cfg.Chart.Layout = LayoutOverlay
	assert.Equal(t, LayoutOverlay, cfg.ResolvedLayout())
}
