package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Querier interface {
	DeleteAllPositions(ctx context.Context) error
	DeletePosition(ctx context.Context, dataset string) error
	GetPosition(ctx context.Context, dataset string) (Position, error)
	ListPositions(ctx context.Context) ([]Position, error)
	UpsertPosition(ctx context.Context, arg UpsertPositionParams) (Position, error)
}

var _ Querier = (*Queries)(nil)

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}
