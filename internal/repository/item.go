package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/foundly/foundly/internal/model"
)

// ItemFilter narrows ListItems. The zero value matches every item.
type ItemFilter struct {
	// Keywords match case-insensitively as substrings of any item keyword.
	// Nil disables keyword filtering; an empty non-nil slice matches nothing.
	Keywords []string
	// FoundFrom and FoundTo bound found_time inclusively.
	FoundFrom *time.Time
	FoundTo   *time.Time
}

const itemColumns = `id, description, keywords, found_time, found_location, status,
	found_by_agent_id, claimed_by_passenger_id, returned_time, created_at, updated_at`

// CreateItem inserts a new item into the database.
func (r *Repository) CreateItem(ctx context.Context, item *model.Item) error {
	query := `
		INSERT INTO items (id, description, keywords, found_time, found_location, status,
			found_by_agent_id, claimed_by_passenger_id, returned_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.Description,
		pq.Array(item.Keywords),
		item.FoundTime,
		item.FoundLocation,
		item.Status,
		item.FoundByAgentID,
		item.ClaimedByPassengerID,
		item.ReturnedTime,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	return nil
}

// GetItemByID retrieves an item by its ID.
func (r *Repository) GetItemByID(ctx context.Context, id string) (*model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

	item, err := scanItem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item by ID: %w", err)
	}

	return item, nil
}

// DeleteItem removes an item permanently.
func (r *Repository) DeleteItem(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrItemNotFound
	}

	return nil
}

// ListItems returns one page of items ordered by found time, newest first,
// together with the total number of items matching the filter.
func (r *Repository) ListItems(ctx context.Context, filter ItemFilter, offset, limit int) ([]*model.Item, int64, error) {
	if filter.Keywords != nil && len(filter.Keywords) == 0 {
		return []*model.Item{}, 0, nil
	}

	where := " WHERE TRUE"
	var args []any
	argIndex := 1

	if len(filter.Keywords) > 0 {
		patterns := make([]string, len(filter.Keywords))
		for i, kw := range filter.Keywords {
			patterns[i] = containsPattern(kw)
		}
		where += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM unnest(keywords) AS k WHERE k ILIKE ANY($%d))", argIndex)
		args = append(args, pq.Array(patterns))
		argIndex++
	}

	if filter.FoundFrom != nil {
		where += fmt.Sprintf(" AND found_time >= $%d", argIndex)
		args = append(args, *filter.FoundFrom)
		argIndex++
	}

	if filter.FoundTo != nil {
		where += fmt.Sprintf(" AND found_time <= $%d", argIndex)
		args = append(args, *filter.FoundTo)
		argIndex++
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM items`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count items: %w", err)
	}

	query := `SELECT ` + itemColumns + ` FROM items` + where +
		fmt.Sprintf(" ORDER BY found_time DESC, id DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := make([]*model.Item, 0, limit)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating items: %w", err)
	}

	return items, total, nil
}

// MarkItemReturned records the hand-back of a found item in a single statement.
func (r *Repository) MarkItemReturned(ctx context.Context, id, passengerID string, at time.Time) (*model.Item, error) {
	query := `
		UPDATE items
		SET status = 'returned', claimed_by_passenger_id = $2, returned_time = $3, updated_at = $3
		WHERE id = $1 AND status = 'found'
		RETURNING ` + itemColumns

	item, err := scanItem(r.pool.QueryRow(ctx, query, id, passengerID, at))
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to mark item returned: %w", err)
	}

	// Nothing updated: either the item is gone or it was already returned.
	if _, err := r.GetItemByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, ErrItemAlreadyReturned
}

func scanItem(row pgx.Row) (*model.Item, error) {
	var item model.Item
	err := row.Scan(
		&item.ID,
		&item.Description,
		pq.Array(&item.Keywords),
		&item.FoundTime,
		&item.FoundLocation,
		&item.Status,
		&item.FoundByAgentID,
		&item.ClaimedByPassengerID,
		&item.ReturnedTime,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
