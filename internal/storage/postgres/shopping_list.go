package postgres

import (
	"context"
	"fmt"

	"github.com/fdg312/simplemeal/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (p *PostgresStorage) ListShoppingItems(ctx context.Context, ownerUserID string) ([]storage.ShoppingListItem, error) {
	q := `
		SELECT id, owner_user_id, name, count, category, is_checked, created_at, updated_at
		FROM shopping_list_items
		WHERE owner_user_id = $1
		ORDER BY category, name
	`

	rows, err := p.pool.Query(ctx, q, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping items: %w", err)
	}
	defer rows.Close()

	items := []storage.ShoppingListItem{}
	for rows.Next() {
		var it storage.ShoppingListItem
		if err := rows.Scan(&it.ID, &it.OwnerUserID, &it.Name, &it.Count, &it.Category, &it.IsChecked, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	return items, rows.Err()
}

func (p *PostgresStorage) GetShoppingItem(ctx context.Context, ownerUserID string, id uuid.UUID) (storage.ShoppingListItem, bool, error) {
	q := `
		SELECT id, owner_user_id, name, count, category, is_checked, created_at, updated_at
		FROM shopping_list_items
		WHERE owner_user_id = $1 AND id = $2
	`

	var it storage.ShoppingListItem
	err := p.pool.QueryRow(ctx, q, ownerUserID, id).Scan(
		&it.ID, &it.OwnerUserID, &it.Name, &it.Count, &it.Category, &it.IsChecked, &it.CreatedAt, &it.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return storage.ShoppingListItem{}, false, nil
	}
	if err != nil {
		return storage.ShoppingListItem{}, false, fmt.Errorf("failed to get shopping item: %w", err)
	}

	return it, true, nil
}

func (p *PostgresStorage) CreateShoppingItem(ctx context.Context, item *storage.ShoppingListItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.Count < 1 {
		item.Count = 1
	}

	q := `
		INSERT INTO shopping_list_items (id, owner_user_id, name, count, category, is_checked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING created_at, updated_at
	`

	err := p.pool.QueryRow(ctx, q, item.ID, item.OwnerUserID, item.Name, item.Count, item.Category, item.IsChecked).
		Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create shopping item: %w", err)
	}
	return nil
}

func (p *PostgresStorage) UpdateShoppingItem(ctx context.Context, item *storage.ShoppingListItem) error {
	if item.Count < 1 {
		item.Count = 1
	}

	q := `
		UPDATE shopping_list_items
		SET name = $3, count = $4, category = $5, is_checked = $6, updated_at = now()
		WHERE owner_user_id = $1 AND id = $2
		RETURNING created_at, updated_at
	`

	err := p.pool.QueryRow(ctx, q, item.OwnerUserID, item.ID, item.Name, item.Count, item.Category, item.IsChecked).
		Scan(&item.CreatedAt, &item.UpdatedAt)
	if err == pgx.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update shopping item: %w", err)
	}
	return nil
}

func (p *PostgresStorage) DeleteShoppingItem(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM shopping_list_items WHERE owner_user_id = $1 AND id = $2`, ownerUserID, id)
	if err != nil {
		return fmt.Errorf("failed to delete shopping item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresStorage) ClearShoppingList(ctx context.Context, ownerUserID string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM shopping_list_items WHERE owner_user_id = $1`, ownerUserID)
	if err != nil {
		return fmt.Errorf("failed to clear shopping list: %w", err)
	}
	return nil
}

func (p *PostgresStorage) ReplaceShoppingList(ctx context.Context, ownerUserID string, items []storage.ShoppingListItem) ([]storage.ShoppingListItem, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM shopping_list_items WHERE owner_user_id = $1`, ownerUserID); err != nil {
		return nil, fmt.Errorf("failed to clear shopping list: %w", err)
	}

	q := `
		INSERT INTO shopping_list_items (id, owner_user_id, name, count, category, is_checked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING created_at, updated_at
	`

	created := make([]storage.ShoppingListItem, 0, len(items))
	for _, it := range items {
		if it.ID == uuid.Nil {
			it.ID = uuid.New()
		}
		if it.Count < 1 {
			it.Count = 1
		}
		it.OwnerUserID = ownerUserID
		err := tx.QueryRow(ctx, q, it.ID, it.OwnerUserID, it.Name, it.Count, it.Category, it.IsChecked).
			Scan(&it.CreatedAt, &it.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert shopping item: %w", err)
		}
		created = append(created, it)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}
