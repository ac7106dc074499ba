package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	InitFlagFilename = "init"
)

var ErrProjectConfigExists = errors.New("project config already exists")

// ProjectNeedsInitialization reports whether vlist runs for the first time
// in this project: no project config and no init flag in the data
// directory.
func ProjectNeedsInitialization(cfg *Config) (bool, error) {
	if cfg == nil {
		return false, fmt.Errorf("config not loaded")
	}

	flagFilePath := filepath.Join(cfg.Options.DataDirectory, InitFlagFilename)

	_, err := os.Stat(flagFilePath)
	if err == nil {
		return false, nil
	}

	if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to check init flag file: %w", err)
	}

	exists, err := projectConfigExists(cfg.WorkingDir())
	if err != nil {
		return false, fmt.Errorf("failed to check for project config: %w", err)
	}
	return !exists, nil
}

func projectConfigExists(dir string) (bool, error) {
	for _, name := range []string{appName + ".json", "." + appName + ".json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		if err == nil {
			return true, nil
		}
		if !os.IsNotExist(err) {
			return false, err
		}
	}
	return false, nil
}

func MarkProjectInitialized(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config not loaded")
	}
	if err := os.MkdirAll(cfg.Options.DataDirectory, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	flagFilePath := filepath.Join(cfg.Options.DataDirectory, InitFlagFilename)

	file, err := os.Create(flagFilePath)
	if err != nil {
		return fmt.Errorf("failed to create init flag file: %w", err)
	}
	defer file.Close()

	return nil
}

// InitProjectConfig writes a vlist.json with the layout and dataset of cfg
// into the working directory.
func InitProjectConfig(cfg *Config) (string, error) {
	if cfg == nil {
		return "", fmt.Errorf("config not loaded")
	}
	exists, err := projectConfigExists(cfg.WorkingDir())
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrProjectConfigExists
	}

	data, err := json.MarshalIndent(Config{
		Layout:  cfg.Layout,
		Dataset: cfg.Dataset,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	path := filepath.Join(cfg.WorkingDir(), appName+".json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("failed to write project config: %w", err)
	}
	return path, nil
}
