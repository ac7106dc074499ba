package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/charmbracelet/vlist/internal/layout"
	"github.com/qjebbs/go-jsons"
)

var ErrFieldNotFound = errors.New("config field not found")

// Init loads the configuration for workingDir.
func Init(workingDir string, debug bool) (*Config, error) {
	cfg, err := Load(workingDir, debug)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load merges the global, global data and project config files, in that
// order, and applies defaults.
func Load(workingDir string, debug bool) (*Config, error) {
	configPaths := lookupConfigs(workingDir)

	cfg, err := loadFromConfigPaths(configPaths)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from paths %v: %w", configPaths, err)
	}

	cfg.paths = configPaths
	cfg.dataConfigDir = GlobalConfigData()
	cfg.setDefaults(workingDir)
	if debug {
		cfg.Options.Debug = true
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func lookupConfigs(cwd string) []string {
	return []string{
		GlobalConfig(),
		GlobalConfigData(),
		filepath.Join(cwd, fmt.Sprintf("%s.json", appName)),
		filepath.Join(cwd, fmt.Sprintf(".%s.json", appName)),
	}
}

func loadFromConfigPaths(configPaths []string) (*Config, error) {
	var configs []io.Reader

	for _, path := range configPaths {
		fd, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
		}
		defer fd.Close()

		configs = append(configs, fd)
	}

	return loadFromReaders(configs)
}

func loadFromReaders(readers []io.Reader) (*Config, error) {
	if len(readers) == 0 {
		return &Config{}, nil
	}

	merged, err := jsons.Merge(readers)
	if err != nil {
		return nil, fmt.Errorf("failed to merge configuration readers: %w", err)
	}

	return loadFromBytes(merged)
}

func loadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) setDefaults(workingDir string) {
	c.workingDir = workingDir
	if c.Layout == nil {
		c.Layout = &LayoutOptions{}
	}
	if c.Layout.Orientation == "" {
		c.Layout.Orientation = layout.Vertical.String()
	}
	if c.Layout.HeaderPlacement == "" {
		c.Layout.HeaderPlacement = layout.PlacementInline.String()
	}
	if c.Layout.SnapPoints == "" {
		c.Layout.SnapPoints = layout.SnapNone.String()
	}
	if c.Layout.GridColumns == 0 {
		c.Layout.GridColumns = 1
	}

	if c.Dataset == nil {
		c.Dataset = &Dataset{}
	}
	if c.Dataset.Name == "" {
		c.Dataset.Name = defaultDatasetName
	}
	if c.Dataset.Groups == 0 && c.Dataset.ItemsPerGroup == 0 {
		c.Dataset.Groups = 20
		c.Dataset.ItemsPerGroup = 50
	}
	if c.Dataset.ItemHeight == 0 {
		c.Dataset.ItemHeight = 1
	}

	if c.Options == nil {
		c.Options = &Options{}
	}
	if c.Options.DataDirectory == "" {
		c.Options.DataDirectory = filepath.Join(workingDir, defaultDataDirectory)
	} else if !filepath.IsAbs(c.Options.DataDirectory) {
		c.Options.DataDirectory = filepath.Join(workingDir, c.Options.DataDirectory)
	}
	if c.Options.Backend == "" {
		c.Options.Backend = BackendBubbleTea
	}
}

func (c *Config) validate() error {
	var errs []error
	if _, err := layout.ParseOrientation(c.Layout.Orientation); err != nil {
		errs = append(errs, fmt.Errorf("layout.orientation: %w", err))
	}
	if _, err := layout.ParseHeaderPlacement(c.Layout.HeaderPlacement); err != nil {
		errs = append(errs, fmt.Errorf("layout.header_placement: %w", err))
	}
	if _, err := layout.ParseSnapPoints(c.Layout.SnapPoints); err != nil {
		errs = append(errs, fmt.Errorf("layout.snap_points: %w", err))
	}
	if c.Layout.GridColumns < 1 {
		errs = append(errs, fmt.Errorf("layout.grid_columns must be at least 1, got %d", c.Layout.GridColumns))
	}
	p := c.Layout.Padding
	if p.Top < 0 || p.Right < 0 || p.Bottom < 0 || p.Left < 0 {
		errs = append(errs, errors.New("layout.padding must not be negative"))
	}

	d := c.Dataset
	if d.Groups < 0 || d.ItemsPerGroup < 0 {
		errs = append(errs, errors.New("dataset.groups and dataset.items_per_group must not be negative"))
	}
	if d.PageSize < 0 || d.PageThreshold < 0 {
		errs = append(errs, errors.New("dataset.page_size and dataset.page_threshold must not be negative"))
	}
	if d.ItemHeight < 1 {
		errs = append(errs, fmt.Errorf("dataset.item_height must be at least 1, got %d", d.ItemHeight))
	}

	if !slices.Contains([]string{BackendBubbleTea, BackendTcell}, c.Options.Backend) {
		errs = append(errs, fmt.Errorf("options.backend: unknown backend %q", c.Options.Backend))
	}
	if len(errs) > 0 {
		slog.Debug("Config validation failed", "errors", len(errs))
	}
	return errors.Join(errs...)
}

// GlobalConfig returns the global configuration file path for the application.
func GlobalConfig() string {
	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, appName, fmt.Sprintf("%s.json", appName))
	}

	// return the path to the main config directory
	// for windows, it should be in `%LOCALAPPDATA%/vlist/`
	// for linux and macOS, it should be in `$HOME/.config/vlist/`
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
		}
		return filepath.Join(localAppData, appName, fmt.Sprintf("%s.json", appName))
	}

	return filepath.Join(homeDir(), ".config", appName, fmt.Sprintf("%s.json", appName))
}

// GlobalConfigData returns the path to the main data directory for the application.
// this config is used when the app overrides configurations instead of updating the global config.
func GlobalConfigData() string {
	xdgDataHome := os.Getenv("XDG_DATA_HOME")
	if xdgDataHome != "" {
		return filepath.Join(xdgDataHome, appName, fmt.Sprintf("%s.json", appName))
	}

	// return the path to the main data directory
	// for windows, it should be in `%LOCALAPPDATA%/vlist/`
	// for linux and macOS, it should be in `$HOME/.local/share/vlist/`
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
		}
		return filepath.Join(localAppData, appName, fmt.Sprintf("%s.json", appName))
	}

	return filepath.Join(homeDir(), ".local", "share", appName, fmt.Sprintf("%s.json", appName))
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Warn("Failed to get user home directory", "error", err)
		return ""
	}
	return home
}
