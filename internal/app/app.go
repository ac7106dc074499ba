// Package app wires the configuration, the dataset and the position store
// together for the commands and the terminal hosts.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/vlist/internal/config"
	"github.com/charmbracelet/vlist/internal/db"
	"github.com/charmbracelet/vlist/internal/layout"
	"github.com/charmbracelet/vlist/internal/position"
	"github.com/charmbracelet/vlist/internal/source"
)

type App struct {
	Config    *config.Config
	Positions position.Service

	// Dataset is the full, unfiltered collection described by the config.
	Dataset []source.Group

	conn *sql.DB
}

// New opens the position store under the data directory and builds the
// dataset described by cfg.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	conn, err := db.Connect(ctx, cfg.Options.DataDirectory)
	if err != nil {
		return nil, err
	}
	return &App{
		Config:    cfg,
		Positions: position.NewService(db.New(conn)),
		Dataset:   Dataset(cfg),
		conn:      conn,
	}, nil
}

// Dataset generates the groups of the configured dataset.
func Dataset(cfg *config.Config) []source.Group {
	d := cfg.Dataset
	return source.Generate(d.Name, d.Groups, d.ItemsPerGroup)
}

// NewSource builds a source over groups with the chrome, grouping and
// paging of cfg.
func NewSource(cfg *config.Config, groups []source.Group) *source.Source {
	d := cfg.Dataset
	return source.New(groups,
		source.WithGrouping(cfg.Grouped()),
		source.WithHeader(d.Header),
		source.WithFooter(d.Footer),
		source.WithPaging(d.PageSize, d.PageThreshold),
	)
}

// Source builds a fresh source over the whole dataset.
func (a *App) Source() *source.Source {
	return NewSource(a.Config, a.Dataset)
}

// Reload reads the configuration again. It reports whether the dataset
// changed, in which case the source has to be rebuilt.
func (a *App) Reload() (datasetChanged bool, err error) {
	cfg, err := config.Load(a.Config.WorkingDir(), a.Config.Options.Debug)
	if err != nil {
		return false, err
	}
	datasetChanged = !sameDataset(cfg, a.Config)
	a.Config = cfg
	if datasetChanged {
		a.Dataset = Dataset(cfg)
	}
	slog.Debug("Reloaded config", "dataset_changed", datasetChanged)
	return datasetChanged, nil
}

func sameDataset(a, b *config.Config) bool {
	x, y := *a.Dataset, *b.Dataset
	x.Grouped, y.Grouped = nil, nil
	return x == y && a.Grouped() == b.Grouped()
}

// SavePosition remembers display as the first visible position of the
// current dataset.
func (a *App) SavePosition(ctx context.Context, display, offset, itemCount int) error {
	if !a.Config.RestorePosition() || display < 0 {
		return nil
	}
	_, err := a.Positions.Save(ctx, position.Position{
		Dataset:   a.Config.Dataset.Name,
		Display:   display,
		Offset:    offset,
		Alignment: layout.AlignLeading,
		ItemCount: itemCount,
	})
	if err != nil {
		return fmt.Errorf("failed to save position: %w", err)
	}
	return nil
}

// RestorePosition returns the saved position of the current dataset. It
// returns false when there is nothing to restore, or when the saved
// position no longer fits the dataset.
func (a *App) RestorePosition(ctx context.Context, displayCount int) (position.Position, bool, error) {
	if !a.Config.RestorePosition() {
		return position.Position{}, false, nil
	}
	p, err := a.Positions.Get(ctx, a.Config.Dataset.Name)
	if errors.Is(err, position.ErrNotFound) {
		return position.Position{}, false, nil
	}
	if err != nil {
		return position.Position{}, false, err
	}
	if p.Display >= displayCount {
		slog.Debug("Saved position is out of range", "display", p.Display, "count", displayCount)
		return position.Position{}, false, nil
	}
	return p, true, nil
}

func (a *App) Shutdown() {
	if a.conn == nil {
		return
	}
	if err := a.conn.Close(); err != nil {
		slog.Error("Failed to close database", "error", err)
	}
	a.conn = nil
}
