package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fdg312/simplemeal/internal/entitlement"
	"github.com/fdg312/simplemeal/internal/storage"
	"github.com/fdg312/simplemeal/internal/storage/memory"
	"github.com/fdg312/simplemeal/internal/userctx"
	"github.com/google/uuid"
)

func newTestService(t *testing.T) (*Service, *memory.MemoryStorage) {
	t.Helper()
	st := memory.New()
	ents := entitlement.NewService(st, entitlement.DefaultPolicy(), nil)
	return NewService(st, st, st, ents, 7), st
}

func seedMeal(t *testing.T, st *memory.MemoryStorage, owner, name string) uuid.UUID {
	t.Helper()
	meal := storage.Meal{
		ID:          uuid.New(),
		OwnerUserID: owner,
		Name:        name,
		Category:    "Dinner",
	}
	ingredients := []storage.MealIngredient{
		{ID: uuid.New(), MealID: meal.ID, Name: "Salt", Category: "Pantry", Position: 0},
	}
	if err := st.CreateMeal(context.Background(), &meal, ingredients); err != nil {
		t.Fatalf("seed meal: %v", err)
	}
	return meal.ID
}

func makePremium(t *testing.T, st *memory.MemoryStorage, owner string) {
	t.Helper()
	_, err := st.UpsertEntitlement(context.Background(), owner, storage.Entitlement{
		IsPremium: true,
		Plan:      "monthly",
	})
	if err != nil {
		t.Fatalf("seed entitlement: %v", err)
	}
}

func TestCreateEnforcesFreeDailyLimit(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	mealID := seedMeal(t, st, userctx.DefaultOwner, "Stew")
	today := time.Now()

	if _, err := svc.Create(ctx, CreateScheduledRequest{MealID: mealID, Date: today}); err != nil {
		t.Fatalf("first meal of the day: %v", err)
	}

	_, err := svc.Create(ctx, CreateScheduledRequest{MealID: mealID, Date: today})
	if !errors.Is(err, ErrLimitExceeded) {
		t.Errorf("second meal of the day: err = %v, want ErrLimitExceeded", err)
	}
}

func TestCreatePremiumAllowsFiveMealsPerDay(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	makePremium(t, st, userctx.DefaultOwner)
	mealID := seedMeal(t, st, userctx.DefaultOwner, "Stew")
	today := time.Now()

	for i := 0; i < 5; i++ {
		if _, err := svc.Create(ctx, CreateScheduledRequest{MealID: mealID, Date: today}); err != nil {
			t.Fatalf("meal %d: %v", i+1, err)
		}
	}

	_, err := svc.Create(ctx, CreateScheduledRequest{MealID: mealID, Date: today})
	if !errors.Is(err, ErrLimitExceeded) {
		t.Errorf("sixth meal: err = %v, want ErrLimitExceeded", err)
	}
}

func TestCreateEnforcesFreeHorizon(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	mealID := seedMeal(t, st, userctx.DefaultOwner, "Stew")

	_, err := svc.Create(ctx, CreateScheduledRequest{MealID: mealID, Date: time.Now().AddDate(0, 0, 7)})
	if !errors.Is(err, ErrDateOutOfRange) {
		t.Errorf("day 7 for free user: err = %v, want ErrDateOutOfRange", err)
	}

	if _, err := svc.Create(ctx, CreateScheduledRequest{MealID: mealID, Date: time.Now().AddDate(0, 0, 6)}); err != nil {
		t.Errorf("day 6 for free user: %v", err)
	}

	_, err = svc.Create(ctx, CreateScheduledRequest{MealID: mealID, Date: time.Now().AddDate(0, 0, -1)})
	if !errors.Is(err, ErrDateOutOfRange) {
		t.Errorf("yesterday: err = %v, want ErrDateOutOfRange", err)
	}
}

func TestCreateUnknownMeal(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateScheduledRequest{MealID: uuid.New(), Date: time.Now()})
	if !errors.Is(err, ErrMealNotFound) {
		t.Errorf("err = %v, want ErrMealNotFound", err)
	}
}

func TestPlanPurgesOrphanedEntries(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	makePremium(t, st, userctx.DefaultOwner)

	keepID := seedMeal(t, st, userctx.DefaultOwner, "Keeper")
	doomedID := seedMeal(t, st, userctx.DefaultOwner, "Doomed")
	today := time.Now()

	if _, err := svc.Create(ctx, CreateScheduledRequest{MealID: keepID, Date: today}); err != nil {
		t.Fatalf("schedule keeper: %v", err)
	}
	if _, err := svc.Create(ctx, CreateScheduledRequest{MealID: doomedID, Date: today}); err != nil {
		t.Fatalf("schedule doomed: %v", err)
	}

	if err := st.DeleteMeal(ctx, userctx.DefaultOwner, doomedID); err != nil {
		t.Fatalf("delete meal: %v", err)
	}

	plan, err := svc.Plan(ctx, today, today)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(plan.Days) != 1 || len(plan.Days[0].Meals) != 1 {
		t.Fatalf("plan after orphan purge = %+v, want one day with one meal", plan.Days)
	}
	if plan.Days[0].Meals[0].Meal.Name != "Keeper" {
		t.Errorf("surviving meal = %q, want Keeper", plan.Days[0].Meals[0].Meal.Name)
	}

	// Orphan rows must actually be gone from storage, not just hidden.
	rows, err := st.ListScheduled(ctx, userctx.DefaultOwner, storage.StartOfDay(today), storage.StartOfDay(today))
	if err != nil {
		t.Fatalf("list scheduled: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("stored entries after purge = %d, want 1", len(rows))
	}
}

func TestUpdateSettingsClampsToEntitlement(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	saved, err := svc.UpdateSettings(ctx, UpdateSettingsRequest{
		SelectedDate: time.Now(),
		NumberOfDays: 30,
	})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if saved.NumberOfDays != 7 {
		t.Errorf("free NumberOfDays = %d, want clamped to 7", saved.NumberOfDays)
	}
}

func TestGetSettingsDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	settings, err := svc.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if settings.NumberOfDays != 7 {
		t.Errorf("default NumberOfDays = %d, want 7", settings.NumberOfDays)
	}
}
