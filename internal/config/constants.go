package config

import "rvolchart/pkg/contracts"

// Application constants
const (
	AppName     = "rvolchart"
	AppVersion  = contracts.Version
	ServiceName = "rvolchart"

	// Fixed relative paths used when nothing overrides them
	DefaultInputPath  = "rvol.study.xlsx"
	DefaultOutputPath = "dynamic_graph_with_zscore.png"

	DefaultTitle = "RVOL20/GEX, Z-Score (60-day), and SPX Close Price Over Time"

	// Window modes
	WindowModeCount = "count"
	WindowModeTime  = "time"

	// Axis layouts
	LayoutAuto    = "auto"
	LayoutOverlay = "overlay"
	LayoutOffset  = "offset"
)

// DefaultConfigLocations are searched in order when no config file is given
var DefaultConfigLocations = []string{
	"rvolchart.yaml",
	"configs/rvolchart.yaml",
}
