package memory

import (
	"context"
	"sort"
	"time"

	"github.com/fdg312/simplemeal/internal/storage"
	"github.com/google/uuid"
)

func (m *MemoryStorage) ListMeals(ctx context.Context, ownerUserID string) ([]storage.Meal, map[uuid.UUID][]storage.MealIngredient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	meals := make([]storage.Meal, 0)
	for _, meal := range m.meals {
		if meal.OwnerUserID == ownerUserID {
			meals = append(meals, meal)
		}
	}
	sort.Slice(meals, func(i, j int) bool { return meals[i].Name < meals[j].Name })

	ingredients := make(map[uuid.UUID][]storage.MealIngredient, len(meals))
	for _, meal := range meals {
		ingredients[meal.ID] = m.copyIngredientsLocked(meal.ID)
	}

	return meals, ingredients, nil
}

func (m *MemoryStorage) GetMeal(ctx context.Context, ownerUserID string, id uuid.UUID) (storage.Meal, []storage.MealIngredient, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	meal, ok := m.meals[id]
	if !ok || meal.OwnerUserID != ownerUserID {
		return storage.Meal{}, nil, false, nil
	}

	return meal, m.copyIngredientsLocked(id), true, nil
}

func (m *MemoryStorage) GetMealsByIDs(ctx context.Context, ownerUserID string, ids []uuid.UUID) (map[uuid.UUID]storage.Meal, map[uuid.UUID][]storage.MealIngredient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	meals := make(map[uuid.UUID]storage.Meal)
	ingredients := make(map[uuid.UUID][]storage.MealIngredient)
	for _, id := range ids {
		meal, ok := m.meals[id]
		if !ok || meal.OwnerUserID != ownerUserID {
			continue // missing IDs are simply absent
		}
		meals[id] = meal
		ingredients[id] = m.copyIngredientsLocked(id)
	}

	return meals, ingredients, nil
}

func (m *MemoryStorage) CreateMeal(ctx context.Context, meal *storage.Meal, ingredients []storage.MealIngredient) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if meal.ID == uuid.Nil {
		meal.ID = uuid.New()
	}
	now := time.Now().UTC()
	meal.CreatedAt = now
	meal.UpdatedAt = now

	m.meals[meal.ID] = *meal
	m.ingredients[meal.ID] = normalizeIngredients(meal.ID, ingredients)
	return nil
}

func (m *MemoryStorage) UpdateMeal(ctx context.Context, meal *storage.Meal, ingredients []storage.MealIngredient) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.meals[meal.ID]
	if !ok || existing.OwnerUserID != meal.OwnerUserID {
		return ErrNotFound
	}

	meal.CreatedAt = existing.CreatedAt
	meal.UpdatedAt = time.Now().UTC()
	m.meals[meal.ID] = *meal
	m.ingredients[meal.ID] = normalizeIngredients(meal.ID, ingredients)
	return nil
}

func (m *MemoryStorage) DeleteMeal(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	meal, ok := m.meals[id]
	if !ok || meal.OwnerUserID != ownerUserID {
		return ErrNotFound
	}

	// Cascade: owned ingredient rows go with the meal. Schedule entries
	// referencing it become orphans and are purged on the next read pass.
	delete(m.meals, id)
	delete(m.ingredients, id)
	return nil
}

// copyIngredientsLocked returns a defensive copy in position order.
func (m *MemoryStorage) copyIngredientsLocked(mealID uuid.UUID) []storage.MealIngredient {
	src := m.ingredients[mealID]
	out := make([]storage.MealIngredient, len(src))
	copy(out, src)
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func normalizeIngredients(mealID uuid.UUID, ingredients []storage.MealIngredient) []storage.MealIngredient {
	out := make([]storage.MealIngredient, len(ingredients))
	for i, ing := range ingredients {
		if ing.ID == uuid.Nil {
			ing.ID = uuid.New()
		}
		ing.MealID = mealID
		ing.Position = i
		out[i] = ing
	}
	return out
}
