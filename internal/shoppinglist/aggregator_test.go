package shoppinglist

import (
	"context"
	"testing"
	"time"

	"github.com/fdg312/simplemeal/internal/storage"
	"github.com/fdg312/simplemeal/internal/storage/memory"
	"github.com/fdg312/simplemeal/internal/userctx"
	"github.com/google/uuid"
)

func seedMealWithIngredients(t *testing.T, st *memory.MemoryStorage, name string, ingredients []storage.MealIngredient) uuid.UUID {
	t.Helper()
	meal := storage.Meal{
		ID:          uuid.New(),
		OwnerUserID: userctx.DefaultOwner,
		Name:        name,
		Category:    "Dinner",
	}
	for i := range ingredients {
		ingredients[i].ID = uuid.New()
		ingredients[i].MealID = meal.ID
		ingredients[i].Position = i
	}
	if err := st.CreateMeal(context.Background(), &meal, ingredients); err != nil {
		t.Fatalf("seed meal: %v", err)
	}
	return meal.ID
}

func scheduleMeal(t *testing.T, st *memory.MemoryStorage, mealID uuid.UUID, date time.Time, hour int) {
	t.Helper()
	sm := storage.ScheduledMeal{
		ID:          uuid.New(),
		OwnerUserID: userctx.DefaultOwner,
		Date:        date,
		MealTime:    storage.StartOfDay(date).Add(time.Duration(hour) * time.Hour),
		MealID:      mealID,
	}
	if err := st.CreateScheduled(context.Background(), &sm); err != nil {
		t.Fatalf("seed scheduled meal: %v", err)
	}
}

func TestAggregateSumsDuplicateIngredients(t *testing.T) {
	st := memory.New()
	agg := NewAggregator(st, st)
	ctx := context.Background()
	day := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

	pancakes := seedMealWithIngredients(t, st, "Pancakes", []storage.MealIngredient{
		{Name: "Milk", Category: "Dairy & Eggs"},
		{Name: "Eggs", Category: "Dairy & Eggs"},
		{Name: "Flour", Category: "Pantry"},
	})
	porridge := seedMealWithIngredients(t, st, "Porridge", []storage.MealIngredient{
		{Name: "Milk", Category: "Dairy & Eggs"},
		{Name: "Oats", Category: "Pantry"},
	})
	cocoa := seedMealWithIngredients(t, st, "Cocoa", []storage.MealIngredient{
		{Name: "Milk", Category: "Dairy & Eggs"},
	})

	scheduleMeal(t, st, pancakes, day, 8)
	scheduleMeal(t, st, porridge, day.AddDate(0, 0, 1), 8)
	scheduleMeal(t, st, cocoa, day.AddDate(0, 0, 1), 17)

	result, err := agg.Aggregate(ctx, userctx.DefaultOwner, day, day.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}

	byName := make(map[string]AggregatedItem, len(result))
	for _, item := range result {
		byName[item.Name] = item
	}

	if got := byName["Milk"]; got.Count != 3 {
		t.Errorf("Milk count = %d, want 3", got.Count)
	}
	if got := byName["Eggs"]; got.Count != 1 {
		t.Errorf("Eggs count = %d, want 1", got.Count)
	}
	if got := byName["Milk"]; got.Category != "Dairy & Eggs" {
		t.Errorf("Milk category = %q, want Dairy & Eggs", got.Category)
	}
	if len(result) != 5 {
		t.Errorf("distinct items = %d, want 5", len(result))
	}
}

func TestAggregateFirstCategoryWins(t *testing.T) {
	st := memory.New()
	agg := NewAggregator(st, st)
	day := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

	first := seedMealWithIngredients(t, st, "Salad", []storage.MealIngredient{
		{Name: "Tomatoes", Category: "Produce"},
	})
	second := seedMealWithIngredients(t, st, "Sauce", []storage.MealIngredient{
		{Name: "Tomatoes", Category: "Canned Goods"},
	})

	// Earlier meal_time on the same day decides the category.
	scheduleMeal(t, st, second, day, 19)
	scheduleMeal(t, st, first, day, 8)

	result, err := agg.Aggregate(context.Background(), userctx.DefaultOwner, day, day)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("items = %d, want 1", len(result))
	}
	if result[0].Category != "Produce" {
		t.Errorf("category = %q, want Produce (first occurrence)", result[0].Category)
	}
	if result[0].Count != 2 {
		t.Errorf("count = %d, want 2", result[0].Count)
	}
}

func TestAggregateSkipsAndPurgesOrphans(t *testing.T) {
	st := memory.New()
	agg := NewAggregator(st, st)
	ctx := context.Background()
	day := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

	keeper := seedMealWithIngredients(t, st, "Keeper", []storage.MealIngredient{
		{Name: "Rice", Category: "Pantry"},
	})
	doomed := seedMealWithIngredients(t, st, "Doomed", []storage.MealIngredient{
		{Name: "Ghost pepper", Category: "Produce"},
	})

	scheduleMeal(t, st, keeper, day, 12)
	scheduleMeal(t, st, doomed, day, 18)

	if err := st.DeleteMeal(ctx, userctx.DefaultOwner, doomed); err != nil {
		t.Fatalf("delete meal: %v", err)
	}

	result, err := agg.Aggregate(ctx, userctx.DefaultOwner, day, day)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(result) != 1 || result[0].Name != "Rice" {
		t.Fatalf("result = %+v, want only Rice", result)
	}

	// Second pass sees a clean schedule: orphans were deleted, not hidden.
	rows, err := st.ListScheduled(ctx, userctx.DefaultOwner, day, day)
	if err != nil {
		t.Fatalf("list scheduled: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("stored entries after purge = %d, want 1", len(rows))
	}
}

func TestAggregateEmptyWindow(t *testing.T) {
	st := memory.New()
	agg := NewAggregator(st, st)
	day := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

	result, err := agg.Aggregate(context.Background(), userctx.DefaultOwner, day, day)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("items = %d, want 0", len(result))
	}
}

func TestAggregateIsIdempotent(t *testing.T) {
	st := memory.New()
	agg := NewAggregator(st, st)
	ctx := context.Background()
	day := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

	meal := seedMealWithIngredients(t, st, "Curry", []storage.MealIngredient{
		{Name: "Rice", Category: "Pantry"},
		{Name: "Chicken", Category: "Meat & Seafood"},
	})
	scheduleMeal(t, st, meal, day, 12)

	first, err := agg.Aggregate(ctx, userctx.DefaultOwner, day, day)
	if err != nil {
		t.Fatalf("first aggregate: %v", err)
	}
	second, err := agg.Aggregate(ctx, userctx.DefaultOwner, day, day)
	if err != nil {
		t.Fatalf("second aggregate: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("item %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestGenerateFromPlanReplacesList(t *testing.T) {
	st := memory.New()
	svc := NewService(st, NewAggregator(st, st))
	ctx := context.Background()
	day := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

	// Stale manual entry that regeneration must wipe.
	stale := storage.ShoppingListItem{
		ID:          uuid.New(),
		OwnerUserID: userctx.DefaultOwner,
		Name:        "Old candy",
		Count:       2,
		Category:    "Snacks",
		IsChecked:   true,
	}
	if err := st.CreateShoppingItem(ctx, &stale); err != nil {
		t.Fatalf("seed stale item: %v", err)
	}

	meal := seedMealWithIngredients(t, st, "Breakfast", []storage.MealIngredient{
		{Name: "Milk", Category: "Dairy & Eggs"},
	})
	scheduleMeal(t, st, meal, day, 8)

	resp, err := svc.GenerateFromPlan(ctx, GenerateRequest{From: day, To: day})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(resp.Items))
	}
	if resp.Items[0].Name != "Milk" || resp.Items[0].IsChecked {
		t.Errorf("item = %+v, want unchecked Milk", resp.Items[0])
	}
}
