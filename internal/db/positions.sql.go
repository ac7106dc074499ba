package db

import (
	"context"
)

const deleteAllPositions = `-- name: DeleteAllPositions :exec
DELETE FROM positions
`

func (q *Queries) DeleteAllPositions(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllPositions)
	return err
}

const deletePosition = `-- name: DeletePosition :exec
DELETE FROM positions
WHERE dataset = ?
`

func (q *Queries) DeletePosition(ctx context.Context, dataset string) error {
	_, err := q.db.ExecContext(ctx, deletePosition, dataset)
	return err
}

const getPosition = `-- name: GetPosition :one
SELECT dataset, display, scroll_offset, alignment, item_count, created_at, updated_at
FROM positions
WHERE dataset = ? LIMIT 1
`

func (q *Queries) GetPosition(ctx context.Context, dataset string) (Position, error) {
	row := q.db.QueryRowContext(ctx, getPosition, dataset)
	var i Position
	err := row.Scan(
		&i.Dataset,
		&i.Display,
		&i.ScrollOffset,
		&i.Alignment,
		&i.ItemCount,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listPositions = `-- name: ListPositions :many
SELECT dataset, display, scroll_offset, alignment, item_count, created_at, updated_at
FROM positions
ORDER BY updated_at DESC, dataset ASC
`

func (q *Queries) ListPositions(ctx context.Context) ([]Position, error) {
	rows, err := q.db.QueryContext(ctx, listPositions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Position{}
	for rows.Next() {
		var i Position
		if err := rows.Scan(
			&i.Dataset,
			&i.Display,
			&i.ScrollOffset,
			&i.Alignment,
			&i.ItemCount,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertPosition = `-- name: UpsertPosition :one
INSERT INTO positions (
    dataset,
    display,
    scroll_offset,
    alignment,
    item_count,
    created_at,
    updated_at
) VALUES (
    ?, ?, ?, ?, ?, strftime('%s', 'now'), strftime('%s', 'now')
)
ON CONFLICT (dataset) DO UPDATE SET
    display = excluded.display,
    scroll_offset = excluded.scroll_offset,
    alignment = excluded.alignment,
    item_count = excluded.item_count
RETURNING dataset, display, scroll_offset, alignment, item_count, created_at, updated_at
`

type UpsertPositionParams struct {
	Dataset      string `json:"dataset"`
	Display      int64  `json:"display"`
	ScrollOffset int64  `json:"scroll_offset"`
	Alignment    string `json:"alignment"`
	ItemCount    int64  `json:"item_count"`
}

func (q *Queries) UpsertPosition(ctx context.Context, arg UpsertPositionParams) (Position, error) {
	row := q.db.QueryRowContext(ctx, upsertPosition,
		arg.Dataset,
		arg.Display,
		arg.ScrollOffset,
		arg.Alignment,
		arg.ItemCount,
	)
	var i Position
	err := row.Scan(
		&i.Dataset,
		&i.Display,
		&i.ScrollOffset,
		&i.Alignment,
		&i.ItemCount,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
