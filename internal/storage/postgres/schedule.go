package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/fdg312/simplemeal/internal/storage"
	"github.com/google/uuid"
)

func (p *PostgresStorage) ListScheduled(ctx context.Context, ownerUserID string, from, to time.Time) ([]storage.ScheduledMeal, error) {
	q := `
		SELECT id, owner_user_id, date, meal_time, meal_id, created_at
		FROM scheduled_meals
		WHERE owner_user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date, meal_time, id
	`

	rows, err := p.pool.Query(ctx, q, ownerUserID, storage.StartOfDay(from), storage.StartOfDay(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled meals: %w", err)
	}
	defer rows.Close()

	result := []storage.ScheduledMeal{}
	for rows.Next() {
		var sm storage.ScheduledMeal
		if err := rows.Scan(&sm.ID, &sm.OwnerUserID, &sm.Date, &sm.MealTime, &sm.MealID, &sm.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, sm)
	}

	return result, rows.Err()
}

func (p *PostgresStorage) CountForDate(ctx context.Context, ownerUserID string, date time.Time) (int, error) {
	q := `SELECT COUNT(*) FROM scheduled_meals WHERE owner_user_id = $1 AND date = $2`

	var count int
	if err := p.pool.QueryRow(ctx, q, ownerUserID, storage.StartOfDay(date)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count scheduled meals: %w", err)
	}
	return count, nil
}

func (p *PostgresStorage) CreateScheduled(ctx context.Context, sm *storage.ScheduledMeal) error {
	if sm.ID == uuid.Nil {
		sm.ID = uuid.New()
	}
	sm.Date = storage.StartOfDay(sm.Date)
	if sm.MealTime.IsZero() {
		sm.MealTime = sm.Date
	}

	q := `
		INSERT INTO scheduled_meals (id, owner_user_id, date, meal_time, meal_id, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING created_at
	`

	err := p.pool.QueryRow(ctx, q, sm.ID, sm.OwnerUserID, sm.Date, sm.MealTime, sm.MealID).Scan(&sm.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create scheduled meal: %w", err)
	}
	return nil
}

func (p *PostgresStorage) DeleteScheduled(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM scheduled_meals WHERE owner_user_id = $1 AND id = $2`, ownerUserID, id)
	if err != nil {
		return fmt.Errorf("failed to delete scheduled meal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresStorage) DeleteScheduledMany(ctx context.Context, ownerUserID string, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tag, err := p.pool.Exec(ctx, `DELETE FROM scheduled_meals WHERE owner_user_id = $1 AND id = ANY($2)`, ownerUserID, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to purge scheduled meals: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
