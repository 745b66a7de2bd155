package sharing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fdg312/simplemeal/internal/meals"
	"github.com/fdg312/simplemeal/internal/storage"
	"github.com/fdg312/simplemeal/internal/userctx"
	"github.com/google/uuid"
)

var ErrMealNotFound = errors.New("meal not found")

// Service builds share links from stored data and applies imported
// links back into storage.
type Service struct {
	codec        *Codec
	mealsStore   storage.MealsStorage
	schedule     storage.ScheduleStorage
	shoppingList storage.ShoppingListStorage
}

func NewService(
	codec *Codec,
	mealsStore storage.MealsStorage,
	schedule storage.ScheduleStorage,
	shoppingList storage.ShoppingListStorage,
) *Service {
	return &Service{
		codec:        codec,
		mealsStore:   mealsStore,
		schedule:     schedule,
		shoppingList: shoppingList,
	}
}

// EncodeMealPlan builds a link for every scheduled meal in [from, to].
// Orphaned schedule entries are silently skipped.
func (s *Service) EncodeMealPlan(ctx context.Context, from, to time.Time) (*ShareURLResponse, error) {
	owner := userctx.OwnerUserID(ctx)

	scheduled, err := s.schedule.ListScheduled(ctx, owner, from, to)
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

	mealRows, ingredientRows, err := s.mealsStore.GetMealsByIDs(ctx, owner, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load meals: %w", err)
	}

	payload := MealPlanPayload{Meals: []SharedMeal{}, DateRange: []float64{}}
	seenDates := make(map[int64]struct{})
	for _, sm := range scheduled {
		meal, ok := mealRows[sm.MealID]
		if !ok {
			continue
		}

		names := ingredientNames(ingredientRows[sm.MealID])
		payload.Meals = append(payload.Meals, SharedMeal{
			Name:        meal.Name,
			Description: meal.Description,
			Category:    meal.Category,
			Ingredients: names,
			Date:        float64(sm.Date.Unix()),
			MealTime:    float64(sm.MealTime.Unix()),
		})

		epoch := storage.StartOfDay(sm.Date).Unix()
		if _, ok := seenDates[epoch]; !ok {
			seenDates[epoch] = struct{}{}
			payload.DateRange = append(payload.DateRange, float64(epoch))
		}
	}

	// ListScheduled is date-ordered, so DateRange comes out ascending.
	link, err := s.codec.EncodeMealPlanURL(payload)
	if err != nil {
		return nil, err
	}
	return &ShareURLResponse{URL: link}, nil
}

// EncodeShoppingList builds a link from the current stored list.
func (s *Service) EncodeShoppingList(ctx context.Context) (*ShareURLResponse, error) {
	owner := userctx.OwnerUserID(ctx)

	rows, err := s.shoppingList.ListShoppingItems(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping items: %w", err)
	}

	payload := ShoppingListPayload{Items: []SharedShoppingItem{}}
	for _, row := range rows {
		payload.Items = append(payload.Items, SharedShoppingItem{
			Name:     row.Name,
			Category: row.Category,
			Count:    row.Count,
		})
	}

	link, err := s.codec.EncodeShoppingListURL(payload)
	if err != nil {
		return nil, err
	}
	return &ShareURLResponse{URL: link}, nil
}

// EncodeMeal builds a link for a single meal.
func (s *Service) EncodeMeal(ctx context.Context, mealID uuid.UUID) (*ShareURLResponse, error) {
	owner := userctx.OwnerUserID(ctx)

	meal, ingredients, found, err := s.mealsStore.GetMeal(ctx, owner, mealID)
	if err != nil {
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}
	if !found {
		return nil, ErrMealNotFound
	}

	link, err := s.codec.EncodeMealURL(MealPayload{
		Name:        meal.Name,
		Description: meal.Description,
		Category:    meal.Category,
		Ingredients: ingredientNames(ingredients),
	})
	if err != nil {
		return nil, err
	}
	return &ShareURLResponse{URL: link}, nil
}

// Preview decodes a link and summarizes it. Nothing is written.
func (s *Service) Preview(ctx context.Context, rawURL string) (*ImportPreviewResponse, error) {
	decoded, err := s.codec.Decode(rawURL)
	if err != nil {
		return nil, err
	}

	resp := &ImportPreviewResponse{Kind: decoded.Kind}
	switch decoded.Kind {
	case KindMealPlan:
		resp.MealCount = len(decoded.MealPlan.Meals)
		for _, m := range decoded.MealPlan.Meals {
			resp.MealNames = append(resp.MealNames, m.Name)
		}
		for _, epoch := range decoded.MealPlan.DateRange {
			resp.DateRange = append(resp.DateRange, time.Unix(int64(epoch), 0).UTC())
		}
	case KindShoppingList:
		resp.ItemCount = len(decoded.ShoppingList.Items)
	case KindMeal:
		resp.MealCount = 1
		resp.MealNames = []string{decoded.Meal.Name}
	}
	return resp, nil
}

// Apply decodes a link and persists its contents for the current owner.
// Meal plans create meals first, then schedule entries; unknown meal
// categories fall back to Other, ingredients default to Pantry.
func (s *Service) Apply(ctx context.Context, rawURL string) (*ImportApplyResponse, error) {
	decoded, err := s.codec.Decode(rawURL)
	if err != nil {
		return nil, err
	}

	owner := userctx.OwnerUserID(ctx)
	resp := &ImportApplyResponse{Kind: decoded.Kind}

	switch decoded.Kind {
	case KindMealPlan:
		for _, shared := range decoded.MealPlan.Meals {
			mealID, err := s.createMeal(ctx, owner, shared.Name, shared.Description, shared.Category, shared.Ingredients)
			if err != nil {
				return nil, err
			}
			resp.MealsCreated++

			date := storage.StartOfDay(time.Unix(int64(shared.Date), 0))
			mealTime := time.Unix(int64(shared.MealTime), 0).UTC()
			sm := storage.ScheduledMeal{
				ID:          uuid.New(),
				OwnerUserID: owner,
				Date:        date,
				MealTime:    mealTime,
				MealID:      mealID,
				CreatedAt:   time.Now().UTC(),
			}
			if err := s.schedule.CreateScheduled(ctx, &sm); err != nil {
				return nil, fmt.Errorf("failed to schedule imported meal: %w", err)
			}
			resp.ScheduledCreated++
		}

	case KindShoppingList:
		now := time.Now().UTC()
		for _, shared := range decoded.ShoppingList.Items {
			if shared.Name == "" {
				continue
			}
			count := shared.Count
			if count < 1 {
				count = 1
			}
			category := shared.Category
			if category == "" {
				category = "Other"
			}
			item := storage.ShoppingListItem{
				ID:          uuid.New(),
				OwnerUserID: owner,
				Name:        shared.Name,
				Count:       count,
				Category:    category,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := s.shoppingList.CreateShoppingItem(ctx, &item); err != nil {
				return nil, fmt.Errorf("failed to create imported shopping item: %w", err)
			}
			resp.ItemsCreated++
		}

	case KindMeal:
		if _, err := s.createMeal(ctx, owner, decoded.Meal.Name, decoded.Meal.Description, decoded.Meal.Category, decoded.Meal.Ingredients); err != nil {
			return nil, err
		}
		resp.MealsCreated++
	}

	return resp, nil
}

func (s *Service) createMeal(ctx context.Context, owner, name, description, category string, ingredientList []string) (uuid.UUID, error) {
	if name == "" {
		return uuid.Nil, fmt.Errorf("%w: meal name is required", ErrInvalidPayload)
	}

	now := time.Now().UTC()
	meal := storage.Meal{
		ID:          uuid.New(),
		OwnerUserID: owner,
		Name:        name,
		Description: description,
		Category:    meals.ParseCategory(category).String(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	rows := make([]storage.MealIngredient, 0, len(ingredientList))
	for i, ingName := range ingredientList {
		if ingName == "" {
			continue
		}
		rows = append(rows, storage.MealIngredient{
			ID:       uuid.New(),
			MealID:   meal.ID,
			Name:     ingName,
			Category: meals.DefaultIngredientCategory,
			Position: i,
		})
	}

	if err := s.mealsStore.CreateMeal(ctx, &meal, rows); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create imported meal: %w", err)
	}
	return meal.ID, nil
}

func ingredientNames(rows []storage.MealIngredient) []string {
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
	}
	return names
}
