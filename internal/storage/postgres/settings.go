package postgres

import (
	"context"
	"fmt"

	"github.com/fdg312/simplemeal/internal/storage"
	"github.com/jackc/pgx/v5"
)

func (p *PostgresStorage) GetPlanSettings(ctx context.Context, ownerUserID string) (storage.PlanSettings, bool, error) {
	q := `
		SELECT owner_user_id, selected_date, number_of_days, updated_at
		FROM plan_settings
		WHERE owner_user_id = $1
	`

	var s storage.PlanSettings
	err := p.pool.QueryRow(ctx, q, ownerUserID).Scan(&s.OwnerUserID, &s.SelectedDate, &s.NumberOfDays, &s.UpdatedAt)
	if err == pgx.ErrNoRows {
		return storage.PlanSettings{}, false, nil
	}
	if err != nil {
		return storage.PlanSettings{}, false, fmt.Errorf("failed to get plan settings: %w", err)
	}

	return s, true, nil
}

func (p *PostgresStorage) UpsertPlanSettings(ctx context.Context, ownerUserID string, s storage.PlanSettings) (storage.PlanSettings, error) {
	q := `
		INSERT INTO plan_settings (owner_user_id, selected_date, number_of_days, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (owner_user_id)
		DO UPDATE SET selected_date = EXCLUDED.selected_date, number_of_days = EXCLUDED.number_of_days, updated_at = now()
		RETURNING owner_user_id, selected_date, number_of_days, updated_at
	`

	var out storage.PlanSettings
	err := p.pool.QueryRow(ctx, q, ownerUserID, storage.StartOfDay(s.SelectedDate), s.NumberOfDays).
		Scan(&out.OwnerUserID, &out.SelectedDate, &out.NumberOfDays, &out.UpdatedAt)
	if err != nil {
		return storage.PlanSettings{}, fmt.Errorf("failed to upsert plan settings: %w", err)
	}

	return out, nil
}

func (p *PostgresStorage) GetEntitlement(ctx context.Context, ownerUserID string) (storage.Entitlement, bool, error) {
	q := `
		SELECT owner_user_id, is_premium, plan, updated_at
		FROM entitlements
		WHERE owner_user_id = $1
	`

	var e storage.Entitlement
	err := p.pool.QueryRow(ctx, q, ownerUserID).Scan(&e.OwnerUserID, &e.IsPremium, &e.Plan, &e.UpdatedAt)
	if err == pgx.ErrNoRows {
		return storage.Entitlement{}, false, nil
	}
	if err != nil {
		return storage.Entitlement{}, false, fmt.Errorf("failed to get entitlement: %w", err)
	}

	return e, true, nil
}

func (p *PostgresStorage) UpsertEntitlement(ctx context.Context, ownerUserID string, e storage.Entitlement) (storage.Entitlement, error) {
	q := `
		INSERT INTO entitlements (owner_user_id, is_premium, plan, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (owner_user_id)
		DO UPDATE SET is_premium = EXCLUDED.is_premium, plan = EXCLUDED.plan, updated_at = now()
		RETURNING owner_user_id, is_premium, plan, updated_at
	`

	var out storage.Entitlement
	err := p.pool.QueryRow(ctx, q, ownerUserID, e.IsPremium, e.Plan).
		Scan(&out.OwnerUserID, &out.IsPremium, &out.Plan, &out.UpdatedAt)
	if err != nil {
		return storage.Entitlement{}, fmt.Errorf("failed to upsert entitlement: %w", err)
	}

	return out, nil
}
