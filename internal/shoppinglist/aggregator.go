package shoppinglist

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fdg312/simplemeal/internal/storage"
	"github.com/google/uuid"
)

// AggregatedItem — сведённый ингредиент за окно плана
type AggregatedItem struct {
	Name     string
	Category string
	Count    int
}

// Aggregator folds the ingredients of every scheduled meal in a date
// window into a deduplicated shopping list. Ingredients are matched by
// exact name; each occurrence adds one to the count; the category of the
// first occurrence wins. Schedule entries whose meal no longer exists
// are skipped and purged from storage.
type Aggregator struct {
	schedule storage.ScheduleStorage
	meals    storage.MealsStorage
}

func NewAggregator(schedule storage.ScheduleStorage, meals storage.MealsStorage) *Aggregator {
	return &Aggregator{schedule: schedule, meals: meals}
}

// Aggregate walks the window in (date, meal_time, id) order so that the
// first-wins category rule is deterministic across runs.
func (a *Aggregator) Aggregate(ctx context.Context, ownerUserID string, from, to time.Time) ([]AggregatedItem, error) {
	scheduled, err := a.schedule.ListScheduled(ctx, ownerUserID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled meals: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(scheduled))
	seen := make(map[uuid.UUID]struct{}, len(scheduled))
	for _, sm := range scheduled {
		if _, ok := seen[sm.MealID]; !ok {
			seen[sm.MealID] = struct{}{}
			ids = append(ids, sm.MealID)
		}
	}

	mealRows, ingredientRows, err := a.meals.GetMealsByIDs(ctx, ownerUserID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load meals for aggregation: %w", err)
	}

	counts := make(map[string]*AggregatedItem)
	order := make([]string, 0)
	var orphans []uuid.UUID

	for _, sm := range scheduled {
		if _, ok := mealRows[sm.MealID]; !ok {
			orphans = append(orphans, sm.ID)
			continue
		}
		for _, ing := range ingredientRows[sm.MealID] {
			if entry, ok := counts[ing.Name]; ok {
				entry.Count++
				continue
			}
			counts[ing.Name] = &AggregatedItem{
				Name:     ing.Name,
				Category: ing.Category,
				Count:    1,
			}
			order = append(order, ing.Name)
		}
	}

	if len(orphans) > 0 {
		purged, err := a.schedule.DeleteScheduledMany(ctx, ownerUserID, orphans)
		if err != nil {
			log.Printf("WARN: failed to purge %d orphaned schedule entries: %v", len(orphans), err)
		} else if purged > 0 {
			log.Printf("INFO: purged %d orphaned schedule entries during aggregation", purged)
		}
	}

	result := make([]AggregatedItem, 0, len(order))
	for _, name := range order {
		result = append(result, *counts[name])
	}
	return result, nil
}
