package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/simplemeal/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("record not found")
)

// PostgresStorage — Postgres реализация storage.Storage
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// New создаёт PostgresStorage
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &PostgresStorage{pool: pool}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// ---------- Items ----------

func (p *PostgresStorage) ListItems(ctx context.Context, ownerUserID string, category string, query string) ([]storage.Item, error) {
	q := `
		SELECT id, owner_user_id, name, category, custom_emoji, created_at, updated_at
		FROM items
		WHERE owner_user_id = $1
		  AND ($2 = '' OR category = $2)
		  AND ($3 = '' OR name ILIKE '%' || $3 || '%')
		ORDER BY category, name
	`

	rows, err := p.pool.Query(ctx, q, ownerUserID, category, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := []storage.Item{}
	for rows.Next() {
		var it storage.Item
		if err := rows.Scan(&it.ID, &it.OwnerUserID, &it.Name, &it.Category, &it.CustomEmoji, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	return items, rows.Err()
}

func (p *PostgresStorage) GetItem(ctx context.Context, ownerUserID string, id uuid.UUID) (storage.Item, bool, error) {
	q := `
		SELECT id, owner_user_id, name, category, custom_emoji, created_at, updated_at
		FROM items
		WHERE owner_user_id = $1 AND id = $2
	`

	var it storage.Item
	err := p.pool.QueryRow(ctx, q, ownerUserID, id).Scan(
		&it.ID, &it.OwnerUserID, &it.Name, &it.Category, &it.CustomEmoji, &it.CreatedAt, &it.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return storage.Item{}, false, nil
	}
	if err != nil {
		return storage.Item{}, false, fmt.Errorf("failed to get item: %w", err)
	}

	return it, true, nil
}

func (p *PostgresStorage) CreateItem(ctx context.Context, item *storage.Item) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	q := `
		INSERT INTO items (id, owner_user_id, name, category, custom_emoji, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING created_at, updated_at
	`

	err := p.pool.QueryRow(ctx, q, item.ID, item.OwnerUserID, item.Name, item.Category, item.CustomEmoji).
		Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

func (p *PostgresStorage) UpdateItem(ctx context.Context, item *storage.Item) error {
	q := `
		UPDATE items
		SET name = $3, category = $4, custom_emoji = $5, updated_at = now()
		WHERE owner_user_id = $1 AND id = $2
		RETURNING created_at, updated_at
	`

	err := p.pool.QueryRow(ctx, q, item.OwnerUserID, item.ID, item.Name, item.Category, item.CustomEmoji).
		Scan(&item.CreatedAt, &item.UpdatedAt)
	if err == pgx.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return nil
}

func (p *PostgresStorage) DeleteItem(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM items WHERE owner_user_id = $1 AND id = $2`, ownerUserID, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
