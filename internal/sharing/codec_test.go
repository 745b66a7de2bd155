package sharing

import (
	"context"
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/fdg312/simplemeal/internal/storage"
	"github.com/fdg312/simplemeal/internal/storage/memory"
	"github.com/fdg312/simplemeal/internal/userctx"
	"github.com/google/uuid"
)

const testScheme = "simplemeal"

func TestMealPlanRoundTrip(t *testing.T) {
	codec := NewCodec(testScheme)
	day := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

	original := MealPlanPayload{
		Meals: []SharedMeal{
			{
				Name:        "Pancakes",
				Description: "Weekend breakfast",
				Category:    "Breakfast",
				Ingredients: []string{"Milk", "Eggs", "Flour"},
				Date:        float64(day.Unix()),
				MealTime:    float64(day.Add(8 * time.Hour).Unix()),
			},
			{
				Name:        "Curry",
				Category:    "Dinner",
				Ingredients: []string{"Rice", "Chicken"},
				Date:        float64(day.AddDate(0, 0, 1).Unix()),
				MealTime:    float64(day.AddDate(0, 0, 1).Add(19 * time.Hour).Unix()),
			},
		},
		DateRange: []float64{float64(day.Unix()), float64(day.AddDate(0, 0, 1).Unix())},
	}

	link, err := codec.EncodeMealPlanURL(original)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(link, "simplemeal://meal-plan?") {
		t.Fatalf("link = %q, want simplemeal://meal-plan?...", link)
	}

	decoded, err := codec.Decode(link)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Kind != KindMealPlan || decoded.MealPlan == nil {
		t.Fatalf("decoded kind = %q, payload %v", decoded.Kind, decoded.MealPlan)
	}
	if len(decoded.MealPlan.Meals) != 2 {
		t.Fatalf("meals = %d, want 2", len(decoded.MealPlan.Meals))
	}
	if decoded.MealPlan.Meals[0].Name != "Pancakes" {
		t.Errorf("meal[0].Name = %q", decoded.MealPlan.Meals[0].Name)
	}
	if decoded.MealPlan.Meals[0].Date != float64(day.Unix()) {
		t.Errorf("meal[0].Date = %v, want %v", decoded.MealPlan.Meals[0].Date, day.Unix())
	}
	if len(decoded.MealPlan.DateRange) != 2 {
		t.Errorf("dateRange = %v, want 2 entries", decoded.MealPlan.DateRange)
	}
}

func TestShoppingListRoundTrip(t *testing.T) {
	codec := NewCodec(testScheme)

	original := ShoppingListPayload{
		Items: []SharedShoppingItem{
			{Name: "Milk", Category: "Dairy & Eggs", Count: 2},
			{Name: "Bread", Category: "Bakery", Count: 1},
		},
	}

	link, err := codec.EncodeShoppingListURL(original)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := codec.Decode(link)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Kind != KindShoppingList || decoded.ShoppingList == nil {
		t.Fatalf("decoded kind = %q", decoded.Kind)
	}
	if len(decoded.ShoppingList.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(decoded.ShoppingList.Items))
	}
	if decoded.ShoppingList.Items[0] != original.Items[0] {
		t.Errorf("item[0] = %+v, want %+v", decoded.ShoppingList.Items[0], original.Items[0])
	}
}

func TestMealRoundTrip(t *testing.T) {
	codec := NewCodec(testScheme)

	link, err := codec.EncodeMealURL(MealPayload{
		Name:        "Borscht",
		Description: "Beet soup",
		Category:    "Lunch",
		Ingredients: []string{"Beets", "Cabbage", "Potatoes"},
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := codec.Decode(link)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Kind != KindMeal || decoded.Meal == nil {
		t.Fatalf("decoded kind = %q", decoded.Kind)
	}
	if decoded.Meal.Name != "Borscht" || len(decoded.Meal.Ingredients) != 3 {
		t.Errorf("meal = %+v", decoded.Meal)
	}
}

func TestDecodeRejectsBadLinks(t *testing.T) {
	codec := NewCodec(testScheme)

	validData := base64.StdEncoding.EncodeToString([]byte(`{"name":"X","description":"","category":"Other","ingredients":[]}`))

	tests := []struct {
		name    string
		rawURL  string
		wantErr error
	}{
		{"wrong scheme", "otherapp://meal?data=" + validData, ErrInvalidURL},
		{"unknown kind", "simplemeal://recipes?data=" + validData, ErrUnknownKind},
		{"missing data", "simplemeal://meal", ErrInvalidURL},
		{"bad base64", "simplemeal://meal?data=%%%", ErrInvalidURL},
		{"not json", "simplemeal://meal?data=" + base64.StdEncoding.EncodeToString([]byte("not json")), ErrInvalidPayload},
		{"empty meal name", "simplemeal://meal?data=" + base64.StdEncoding.EncodeToString([]byte(`{"name":""}`)), ErrInvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Decode(tt.rawURL)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode(%q) err = %v, want %v", tt.rawURL, err, tt.wantErr)
			}
		})
	}
}

func TestDecodeAcceptsURLSafeBase64(t *testing.T) {
	codec := NewCodec(testScheme)

	raw := []byte(`{"name":"Stir fry","description":"","category":"Dinner","ingredients":["Soy sauce"]}`)
	data := base64.RawURLEncoding.EncodeToString(raw)
	link := "simplemeal://meal?data=" + url.QueryEscape(data)

	decoded, err := codec.Decode(link)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Meal.Name != "Stir fry" {
		t.Errorf("name = %q", decoded.Meal.Name)
	}
}

func TestApplyMealPlanPersistsInOrder(t *testing.T) {
	st := memory.New()
	codec := NewCodec(testScheme)
	svc := NewService(codec, st, st, st)
	ctx := context.Background()
	day := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

	link, err := codec.EncodeMealPlanURL(MealPlanPayload{
		Meals: []SharedMeal{
			{
				Name:        "Pancakes",
				Category:    "Breakfast",
				Ingredients: []string{"Milk", "Flour"},
				Date:        float64(day.Unix()),
				MealTime:    float64(day.Add(8 * time.Hour).Unix()),
			},
		},
		DateRange: []float64{float64(day.Unix())},
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	applied, err := svc.Apply(ctx, link)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if applied.MealsCreated != 1 || applied.ScheduledCreated != 1 {
		t.Fatalf("applied = %+v, want 1 meal, 1 scheduled", applied)
	}

	mealRows, ingredientRows, err := st.ListMeals(ctx, userctx.DefaultOwner)
	if err != nil {
		t.Fatalf("list meals: %v", err)
	}
	if len(mealRows) != 1 {
		t.Fatalf("meals = %d, want 1", len(mealRows))
	}
	ingredients := ingredientRows[mealRows[0].ID]
	if len(ingredients) != 2 {
		t.Fatalf("ingredients = %d, want 2", len(ingredients))
	}
	for _, ing := range ingredients {
		if ing.Category != "Pantry" {
			t.Errorf("imported ingredient category = %q, want Pantry", ing.Category)
		}
	}

	scheduled, err := st.ListScheduled(ctx, userctx.DefaultOwner, day, day)
	if err != nil {
		t.Fatalf("list scheduled: %v", err)
	}
	if len(scheduled) != 1 {
		t.Fatalf("scheduled = %d, want 1", len(scheduled))
	}
	if scheduled[0].MealID != mealRows[0].ID {
		t.Errorf("scheduled entry points at %v, want %v", scheduled[0].MealID, mealRows[0].ID)
	}
}

func TestApplyUnknownMealCategoryFallsBackToOther(t *testing.T) {
	st := memory.New()
	codec := NewCodec(testScheme)
	svc := NewService(codec, st, st, st)
	ctx := context.Background()

	link, err := codec.EncodeMealURL(MealPayload{
		Name:     "Mystery dish",
		Category: "Second breakfast",
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if _, err := svc.Apply(ctx, link); err != nil {
		t.Fatalf("apply: %v", err)
	}

	mealRows, _, err := st.ListMeals(ctx, userctx.DefaultOwner)
	if err != nil {
		t.Fatalf("list meals: %v", err)
	}
	if len(mealRows) != 1 || mealRows[0].Category != "Other" {
		t.Errorf("meals = %+v, want one with category Other", mealRows)
	}
}

func TestPreviewDoesNotWrite(t *testing.T) {
	st := memory.New()
	codec := NewCodec(testScheme)
	svc := NewService(codec, st, st, st)
	ctx := context.Background()

	link, err := codec.EncodeShoppingListURL(ShoppingListPayload{
		Items: []SharedShoppingItem{{Name: "Milk", Category: "Dairy & Eggs", Count: 2}},
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	preview, err := svc.Preview(ctx, link)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if preview.Kind != KindShoppingList || preview.ItemCount != 1 {
		t.Errorf("preview = %+v", preview)
	}

	rows, err := st.ListShoppingItems(ctx, userctx.DefaultOwner)
	if err != nil {
		t.Fatalf("list shopping items: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("preview wrote %d items, want 0", len(rows))
	}
}

func TestApplyShoppingListClampsCount(t *testing.T) {
	st := memory.New()
	codec := NewCodec(testScheme)
	svc := NewService(codec, st, st, st)
	ctx := context.Background()

	link, err := codec.EncodeShoppingListURL(ShoppingListPayload{
		Items: []SharedShoppingItem{
			{Name: "Milk", Category: "", Count: 0},
		},
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	applied, err := svc.Apply(ctx, link)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if applied.ItemsCreated != 1 {
		t.Fatalf("applied = %+v", applied)
	}

	rows, err := st.ListShoppingItems(ctx, userctx.DefaultOwner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if rows[0].Count != 1 {
		t.Errorf("count = %d, want clamped to 1", rows[0].Count)
	}
	if rows[0].Category != "Other" {
		t.Errorf("category = %q, want Other", rows[0].Category)
	}
}

func TestEncodeMealPlanSkipsOrphans(t *testing.T) {
	st := memory.New()
	codec := NewCodec(testScheme)
	svc := NewService(codec, st, st, st)
	ctx := context.Background()
	day := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

	meal := storage.Meal{ID: uuid.New(), OwnerUserID: userctx.DefaultOwner, Name: "Keeper", Category: "Dinner"}
	if err := st.CreateMeal(ctx, &meal, nil); err != nil {
		t.Fatalf("create meal: %v", err)
	}
	for _, mealID := range []uuid.UUID{meal.ID, uuid.New()} {
		sm := storage.ScheduledMeal{
			ID:          uuid.New(),
			OwnerUserID: userctx.DefaultOwner,
			Date:        day,
			MealTime:    day.Add(12 * time.Hour),
			MealID:      mealID,
		}
		if err := st.CreateScheduled(ctx, &sm); err != nil {
			t.Fatalf("create scheduled: %v", err)
		}
	}

	resp, err := svc.EncodeMealPlan(ctx, day, day)
	if err != nil {
		t.Fatalf("encode meal plan: %v", err)
	}

	decoded, err := codec.Decode(resp.URL)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.MealPlan.Meals) != 1 || decoded.MealPlan.Meals[0].Name != "Keeper" {
		t.Errorf("meals = %+v, want only Keeper", decoded.MealPlan.Meals)
	}
}
