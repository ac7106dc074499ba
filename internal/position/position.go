// Package position remembers where each dataset was scrolled to, so a list
// can be restored with ScrollToPosition on the next start.
package position

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/charmbracelet/vlist/internal/db"
	"github.com/charmbracelet/vlist/internal/layout"
)

var ErrNotFound = errors.New("position not found")

type Position struct {
	Dataset   string                 `json:"dataset" yaml:"dataset"`
	Display   int                    `json:"display" yaml:"display"`
	Offset    int                    `json:"offset" yaml:"offset"`
	Alignment layout.ScrollAlignment `json:"alignment" yaml:"alignment"`
	ItemCount int                    `json:"item_count" yaml:"item_count"`
	CreatedAt int64                  `json:"created_at" yaml:"created_at"`
	UpdatedAt int64                  `json:"updated_at" yaml:"updated_at"`
}

type Service interface {
	Get(ctx context.Context, dataset string) (Position, error)
	List(ctx context.Context) ([]Position, error)
	Save(ctx context.Context, p Position) (Position, error)
	Delete(ctx context.Context, dataset string) error
	Clear(ctx context.Context) error
}

type service struct {
	q db.Querier
}

func NewService(q db.Querier) Service {
	return &service{q: q}
}

func (s *service) Get(ctx context.Context, dataset string) (Position, error) {
	dbPosition, err := s.q.GetPosition(ctx, dataset)
	if errors.Is(err, sql.ErrNoRows) {
		return Position{}, fmt.Errorf("%s: %w", dataset, ErrNotFound)
	}
	if err != nil {
		return Position{}, err
	}
	return s.fromDBItem(dbPosition), nil
}

func (s *service) List(ctx context.Context) ([]Position, error) {
	dbPositions, err := s.q.ListPositions(ctx)
	if err != nil {
		return nil, err
	}
	positions := make([]Position, len(dbPositions))
	for i, p := range dbPositions {
		positions[i] = s.fromDBItem(p)
	}
	return positions, nil
}

func (s *service) Save(ctx context.Context, p Position) (Position, error) {
	if p.Dataset == "" {
		return Position{}, errors.New("position has no dataset")
	}
	dbPosition, err := s.q.UpsertPosition(ctx, db.UpsertPositionParams{
		Dataset:      p.Dataset,
		Display:      int64(p.Display),
		ScrollOffset: int64(p.Offset),
		Alignment:    p.Alignment.String(),
		ItemCount:    int64(p.ItemCount),
	})
	if err != nil {
		return Position{}, err
	}
	return s.fromDBItem(dbPosition), nil
}

func (s *service) Delete(ctx context.Context, dataset string) error {
	if _, err := s.Get(ctx, dataset); err != nil {
		return err
	}
	return s.q.DeletePosition(ctx, dataset)
}

func (s *service) Clear(ctx context.Context) error {
	return s.q.DeleteAllPositions(ctx)
}

func (s *service) fromDBItem(item db.Position) Position {
	alignment, _ := layout.ParseScrollAlignment(item.Alignment)
	return Position{
		Dataset:   item.Dataset,
		Display:   int(item.Display),
		Offset:    int(item.ScrollOffset),
		Alignment: alignment,
		ItemCount: int(item.ItemCount),
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}
