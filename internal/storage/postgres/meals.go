package postgres

import (
	"context"
	"fmt"

	"github.com/fdg312/simplemeal/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const mealColumns = `id, owner_user_id, name, description, image_data, category, created_at, updated_at`

func (p *PostgresStorage) ListMeals(ctx context.Context, ownerUserID string) ([]storage.Meal, map[uuid.UUID][]storage.MealIngredient, error) {
	q := `SELECT ` + mealColumns + ` FROM meals WHERE owner_user_id = $1 ORDER BY name`

	rows, err := p.pool.Query(ctx, q, ownerUserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer rows.Close()

	meals := []storage.Meal{}
	ids := []uuid.UUID{}
	for rows.Next() {
		var meal storage.Meal
		if err := scanMeal(rows, &meal); err != nil {
			return nil, nil, err
		}
		meals = append(meals, meal)
		ids = append(ids, meal.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	ingredients, err := p.ingredientsForMeals(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	return meals, ingredients, nil
}

func (p *PostgresStorage) GetMeal(ctx context.Context, ownerUserID string, id uuid.UUID) (storage.Meal, []storage.MealIngredient, bool, error) {
	q := `SELECT ` + mealColumns + ` FROM meals WHERE owner_user_id = $1 AND id = $2`

	var meal storage.Meal
	err := scanMeal(p.pool.QueryRow(ctx, q, ownerUserID, id), &meal)
	if err == pgx.ErrNoRows {
		return storage.Meal{}, nil, false, nil
	}
	if err != nil {
		return storage.Meal{}, nil, false, fmt.Errorf("failed to get meal: %w", err)
	}

	ingredients, err := p.ingredientsForMeals(ctx, []uuid.UUID{id})
	if err != nil {
		return storage.Meal{}, nil, false, err
	}

	return meal, ingredients[id], true, nil
}

func (p *PostgresStorage) GetMealsByIDs(ctx context.Context, ownerUserID string, ids []uuid.UUID) (map[uuid.UUID]storage.Meal, map[uuid.UUID][]storage.MealIngredient, error) {
	meals := make(map[uuid.UUID]storage.Meal)
	if len(ids) == 0 {
		return meals, map[uuid.UUID][]storage.MealIngredient{}, nil
	}

	q := `SELECT ` + mealColumns + ` FROM meals WHERE owner_user_id = $1 AND id = ANY($2)`

	rows, err := p.pool.Query(ctx, q, ownerUserID, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get meals by ids: %w", err)
	}
	defer rows.Close()

	found := []uuid.UUID{}
	for rows.Next() {
		var meal storage.Meal
		if err := scanMeal(rows, &meal); err != nil {
			return nil, nil, err
		}
		meals[meal.ID] = meal
		found = append(found, meal.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	ingredients, err := p.ingredientsForMeals(ctx, found)
	if err != nil {
		return nil, nil, err
	}

	return meals, ingredients, nil
}

func (p *PostgresStorage) CreateMeal(ctx context.Context, meal *storage.Meal, ingredients []storage.MealIngredient) error {
	if meal.ID == uuid.Nil {
		meal.ID = uuid.New()
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	q := `
		INSERT INTO meals (id, owner_user_id, name, description, image_data, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING created_at, updated_at
	`
	err = tx.QueryRow(ctx, q, meal.ID, meal.OwnerUserID, meal.Name, meal.Description, meal.ImageData, meal.Category).
		Scan(&meal.CreatedAt, &meal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create meal: %w", err)
	}

	if err := insertIngredients(ctx, tx, meal.ID, ingredients); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (p *PostgresStorage) UpdateMeal(ctx context.Context, meal *storage.Meal, ingredients []storage.MealIngredient) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	q := `
		UPDATE meals
		SET name = $3, description = $4, image_data = $5, category = $6, updated_at = now()
		WHERE owner_user_id = $1 AND id = $2
		RETURNING created_at, updated_at
	`
	err = tx.QueryRow(ctx, q, meal.OwnerUserID, meal.ID, meal.Name, meal.Description, meal.ImageData, meal.Category).
		Scan(&meal.CreatedAt, &meal.UpdatedAt)
	if err == pgx.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update meal: %w", err)
	}

	// Replace owned ingredient rows wholesale.
	if _, err := tx.Exec(ctx, `DELETE FROM meal_ingredients WHERE meal_id = $1`, meal.ID); err != nil {
		return fmt.Errorf("failed to clear ingredients: %w", err)
	}
	if err := insertIngredients(ctx, tx, meal.ID, ingredients); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (p *PostgresStorage) DeleteMeal(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	// meal_ingredients has ON DELETE CASCADE; scheduled_meals does not —
	// orphans are purged lazily by the aggregation pass.
	tag, err := p.pool.Exec(ctx, `DELETE FROM meals WHERE owner_user_id = $1 AND id = $2`, ownerUserID, id)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresStorage) ingredientsForMeals(ctx context.Context, mealIDs []uuid.UUID) (map[uuid.UUID][]storage.MealIngredient, error) {
	result := make(map[uuid.UUID][]storage.MealIngredient, len(mealIDs))
	if len(mealIDs) == 0 {
		return result, nil
	}

	q := `
		SELECT id, meal_id, name, category, position
		FROM meal_ingredients
		WHERE meal_id = ANY($1)
		ORDER BY meal_id, position
	`

	rows, err := p.pool.Query(ctx, q, mealIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal ingredients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ing storage.MealIngredient
		if err := rows.Scan(&ing.ID, &ing.MealID, &ing.Name, &ing.Category, &ing.Position); err != nil {
			return nil, err
		}
		result[ing.MealID] = append(result[ing.MealID], ing)
	}

	return result, rows.Err()
}

func insertIngredients(ctx context.Context, tx pgx.Tx, mealID uuid.UUID, ingredients []storage.MealIngredient) error {
	q := `
		INSERT INTO meal_ingredients (id, meal_id, name, category, position)
		VALUES ($1, $2, $3, $4, $5)
	`
	for i, ing := range ingredients {
		id := ing.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		if _, err := tx.Exec(ctx, q, id, mealID, ing.Name, ing.Category, i); err != nil {
			return fmt.Errorf("failed to insert ingredient: %w", err)
		}
	}
	return nil
}

func scanMeal(row pgx.Row, meal *storage.Meal) error {
	return row.Scan(
		&meal.ID,
		&meal.OwnerUserID,
		&meal.Name,
		&meal.Description,
		&meal.ImageData,
		&meal.Category,
		&meal.CreatedAt,
		&meal.UpdatedAt,
	)
}
