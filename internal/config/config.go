package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the prefix of every environment override, e.g. RVOL_WINDOW_MODE
const EnvPrefix = "RVOL"

// Config represents the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Window    WindowConfig    `yaml:"window" envconfig:"WINDOW"`
	Chart     ChartConfig     `yaml:"chart" envconfig:"CHART"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// InputConfig describes the study workbook
type InputConfig struct {
	Path        string `yaml:"path" split_words:"true" validate:"required"`
	Sheet       string `yaml:"sheet" split_words:"true"`
	DateColumn  string `yaml:"date_column" split_words:"true" validate:"required"`
	RatioColumn string `yaml:"ratio_column" split_words:"true" validate:"required"`
	PriceColumn string `yaml:"price_column" split_words:"true" validate:"required"`
}

// WindowConfig selects and sizes the rolling z-score window.
// DDOF of -1 means the mode default: 0 for count windows, 1 for time windows.
type WindowConfig struct {
	Mode       string `yaml:"mode" split_words:"true" validate:"oneof=count time"`
	Size       int    `yaml:"size" split_words:"true" validate:"gt=1"`
	Days       int    `yaml:"days" split_words:"true" validate:"gt=0"`
	MinPeriods int    `yaml:"min_periods" split_words:"true" validate:"min=1"`
	DDOF       int    `yaml:"ddof" split_words:"true" validate:"oneof=-1 0 1"`
}

// ChartConfig controls the rendered figure
type ChartConfig struct {
	OutputPath   string  `yaml:"output_path" split_words:"true" validate:"required"`
	Title        string  `yaml:"title" split_words:"true"`
	Layout       string  `yaml:"layout" split_words:"true" validate:"oneof=auto overlay offset"`
	WidthInches  float64 `yaml:"width_inches" split_words:"true" validate:"gt=0"`
	HeightInches float64 `yaml:"height_inches" split_words:"true" validate:"gt=0"`
	DPI          float64 `yaml:"dpi" split_words:"true" validate:"gt=0,lte=1200"`
	TickMonths   int     `yaml:"tick_months" split_words:"true" validate:"min=1,max=24"`
	CropMargin   int     `yaml:"crop_margin" split_words:"true" validate:"min=0"`
	Preview      bool    `yaml:"preview" split_words:"true"`
}

// ExportConfig controls the optional CSV export of the derived column
type ExportConfig struct {
	CSVPath   string `yaml:"csv_path" split_words:"true"`
	BOMPrefix bool   `yaml:"bom_prefix" split_words:"true"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" split_words:"true" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" split_words:"true" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" split_words:"true" validate:"required_unless=Output console"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	ServiceName   string `yaml:"service_name" split_words:"true" validate:"required"`
	TraceExporter string `yaml:"trace_exporter" split_words:"true" validate:"oneof=none stdout"`
	TraceFile     string `yaml:"trace_file" split_words:"true"`
	MetricsFile   string `yaml:"metrics_file" split_words:"true"`
}

// Load builds the configuration from defaults, then the YAML file, then
// RVOL_* environment variables. An empty configFile searches the default
// locations; a missing default file is not an error.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Fields without an RVOL_* variable keep their current value. Leaf
	// fields use split_words rather than envconfig tags so that a tag such
	// as PATH never falls back to the unprefixed variable.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// EffectiveDDOF returns the effective delta degrees of freedom for the window mode
func (w WindowConfig) EffectiveDDOF() int {
	if w.DDOF >= 0 {
		return w.DDOF
	}
	if w.Mode == WindowModeTime {
		return 1
	}
	return 0
}

// ResolvedLayout returns the axis layout, deriving it from the window mode
// when set to auto
func (c *Config) ResolvedLayout() string {
	if c.Chart.Layout != LayoutAuto {
		return c.Chart.Layout
	}
	if c.Window.Mode == WindowModeTime {
		return LayoutOffset
	}
	return LayoutOverlay
}

// getConfigFilePath returns the first existing default config file
func getConfigFilePath() string {
	for _, location := range DefaultConfigLocations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Path:        DefaultInputPath,
			DateColumn:  "Date",
			RatioColumn: "gex/rvol20",
			PriceColumn: "SPX Close price",
		},
		Window: WindowConfig{
			Mode:       WindowModeCount,
			Size:       60,
			Days:       60,
			MinPeriods: 2,
			DDOF:       -1,
		},
		Chart: ChartConfig{
			OutputPath:   DefaultOutputPath,
			Title:        DefaultTitle,
			Layout:       LayoutAuto,
			WidthInches:  12,
			HeightInches: 6,
			DPI:          300,
			TickMonths:   3,
			CropMargin:   8,
			Preview:      true,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/rvolchart.log",
		},
		Telemetry: TelemetryConfig{
			ServiceName:   ServiceName,
			TraceExporter: "none",
		},
	}
}
