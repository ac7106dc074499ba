package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/vlist/internal/layout"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	appName              = "vlist"
	defaultDataDirectory = ".vlist"
	defaultDatasetName   = "demo"
)

const (
	BackendBubbleTea = "bubbletea"
	BackendTcell     = "tcell"
)

type Padding struct {
	Top    int `json:"top,omitempty" jsonschema:"minimum=0"`
	Right  int `json:"right,omitempty" jsonschema:"minimum=0"`
	Bottom int `json:"bottom,omitempty" jsonschema:"minimum=0"`
	Left   int `json:"left,omitempty" jsonschema:"minimum=0"`
}

// LayoutOptions maps onto the engine options.
type LayoutOptions struct {
	Orientation     string  `json:"orientation,omitempty" jsonschema:"enum=vertical,enum=horizontal,default=vertical"`
	Padding         Padding `json:"padding,omitzero"`
	StickyHeaders   *bool   `json:"sticky_headers,omitempty" jsonschema:"default=true"`
	HeaderPlacement string  `json:"header_placement,omitempty" jsonschema:"enum=inline,enum=adjacent,default=inline"`
	SnapPoints      string  `json:"snap_points,omitempty" jsonschema:"enum=none,enum=near,enum=center,enum=far,default=none"`
	GridColumns     int     `json:"grid_columns,omitempty" jsonschema:"minimum=1,default=1"`
}

// Dataset describes the generated collection the demo and simulations
// scroll through.
type Dataset struct {
	Name          string `json:"name,omitempty" jsonschema:"default=demo"`
	Groups        int    `json:"groups,omitempty" jsonschema:"minimum=0,default=20"`
	ItemsPerGroup int    `json:"items_per_group,omitempty" jsonschema:"minimum=0,default=50"`
	Grouped       *bool  `json:"grouped,omitempty" jsonschema:"default=true"`
	Header        bool   `json:"header,omitempty"`
	Footer        bool   `json:"footer,omitempty"`
	PageSize      int    `json:"page_size,omitempty" jsonschema:"minimum=0"`
	PageThreshold int    `json:"page_threshold,omitempty" jsonschema:"minimum=0"`
	ItemHeight    int    `json:"item_height,omitempty" jsonschema:"minimum=1,default=1"`
}

type Options struct {
	Debug           bool   `json:"debug,omitempty"`
	DataDirectory   string `json:"data_directory,omitempty"` // Relative to the cwd
	Backend         string `json:"backend,omitempty" jsonschema:"enum=bubbletea,enum=tcell,default=bubbletea"`
	RestorePosition *bool  `json:"restore_position,omitempty" jsonschema:"default=true"`
}

// Config holds the configuration for vlist.
type Config struct {
	Layout  *LayoutOptions `json:"layout,omitempty"`
	Dataset *Dataset       `json:"dataset,omitempty"`
	Options *Options       `json:"options,omitempty"`

	workingDir    string
	dataConfigDir string
	paths         []string
}

func (c *Config) WorkingDir() string {
	return c.workingDir
}

// Paths lists the config files that were looked up, existing or not, in
// merge order.
func (c *Config) Paths() []string {
	return c.paths
}

func (c *Config) Grouped() bool {
	return c.Dataset.Grouped == nil || *c.Dataset.Grouped
}

func (c *Config) StickyHeaders() bool {
	return c.Layout.StickyHeaders == nil || *c.Layout.StickyHeaders
}

func (c *Config) RestorePosition() bool {
	return c.Options.RestorePosition == nil || *c.Options.RestorePosition
}

// EngineOptions translates the layout section into engine options.
func (c *Config) EngineOptions() ([]layout.Option, error) {
	orientation, err := layout.ParseOrientation(c.Layout.Orientation)
	if err != nil {
		return nil, err
	}
	placement, err := layout.ParseHeaderPlacement(c.Layout.HeaderPlacement)
	if err != nil {
		return nil, err
	}
	snap, err := layout.ParseSnapPoints(c.Layout.SnapPoints)
	if err != nil {
		return nil, err
	}
	p := c.Layout.Padding
	return []layout.Option{
		layout.WithOrientation(orientation),
		layout.WithPadding(layout.Padding{Top: p.Top, Right: p.Right, Bottom: p.Bottom, Left: p.Left}),
		layout.WithStickyHeaders(c.StickyHeaders()),
		layout.WithHeaderPlacement(placement),
		layout.WithSnapPoints(snap),
		layout.WithAssertions(c.Options.Debug),
	}, nil
}

// GetConfigField reads a field of the effective configuration by its
// dotted path, e.g. "layout.snap_points".
func (c *Config) GetConfigField(key string) (any, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	res := gjson.GetBytes(data, key)
	if !res.Exists() {
		return nil, fmt.Errorf("%s: %w", key, ErrFieldNotFound)
	}
	return res.Value(), nil
}

// SetConfigField persists a field in the global data config.
func (c *Config) SetConfigField(key string, value any) error {
	// read the data
	data, err := os.ReadFile(c.dataConfigDir)
	if err != nil {
		if os.IsNotExist(err) {
			data = []byte("{}")
		} else {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	newValue, err := sjson.Set(string(data), key, value)
	if err != nil {
		return fmt.Errorf("failed to set config field %s: %w", key, err)
	}
	if err := os.MkdirAll(filepath.Dir(c.dataConfigDir), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(c.dataConfigDir, []byte(newValue), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SetSnapPoints switches the snap points alignment and persists it.
func (c *Config) SetSnapPoints(snap layout.SnapPointsAlignment) error {
	c.Layout.SnapPoints = snap.String()
	return c.SetConfigField("layout.snap_points", snap.String())
}

// SetStickyHeaders toggles sticky headers and persists it.
func (c *Config) SetStickyHeaders(sticky bool) error {
	c.Layout.StickyHeaders = &sticky
	return c.SetConfigField("layout.sticky_headers", sticky)
}
