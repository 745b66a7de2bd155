package meals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fdg312/simplemeal/internal/storage"
	"github.com/fdg312/simplemeal/internal/userctx"
	"github.com/google/uuid"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrMealNotFound   = errors.New("meal not found")
)

// DefaultIngredientCategory назначается ингредиентам без категории
const DefaultIngredientCategory = "Pantry"

// Service — сервис для работы с блюдами
type Service struct {
	storage storage.MealsStorage
}

func NewService(st storage.MealsStorage) *Service {
	return &Service{storage: st}
}

func (s *Service) List(ctx context.Context) (*ListMealsResponse, error) {
	owner := userctx.OwnerUserID(ctx)

	rows, ingredients, err := s.storage.ListMeals(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}

	result := make([]MealDTO, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDTO(row, ingredients[row.ID]))
	}
	return &ListMealsResponse{Meals: result}, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*MealDTO, error) {
	owner := userctx.OwnerUserID(ctx)

	meal, ingredients, found, err := s.storage.GetMeal(ctx, owner, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}
	if !found {
		return nil, ErrMealNotFound
	}

	dto := toDTO(meal, ingredients)
	return &dto, nil
}

func (s *Service) Create(ctx context.Context, req UpsertMealRequest) (*MealDTO, error) {
	owner := userctx.OwnerUserID(ctx)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	now := time.Now().UTC()
	meal := storage.Meal{
		ID:          uuid.New(),
		OwnerUserID: owner,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		ImageData:   req.ImageData,
		Category:    ParseCategory(req.Category).String(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	ingredients := buildIngredients(meal.ID, req.Ingredients)

	if err := s.storage.CreateMeal(ctx, &meal, ingredients); err != nil {
		return nil, fmt.Errorf("failed to create meal: %w", err)
	}

	dto := toDTO(meal, ingredients)
	return &dto, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpsertMealRequest) (*MealDTO, error) {
	owner := userctx.OwnerUserID(ctx)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	existing, _, found, err := s.storage.GetMeal(ctx, owner, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}
	if !found {
		return nil, ErrMealNotFound
	}

	existing.Name = strings.TrimSpace(req.Name)
	existing.Description = strings.TrimSpace(req.Description)
	existing.Category = ParseCategory(req.Category).String()
	existing.ImageData = req.ImageData
	existing.UpdatedAt = time.Now().UTC()
	ingredients := buildIngredients(existing.ID, req.Ingredients)

	if err := s.storage.UpdateMeal(ctx, &existing, ingredients); err != nil {
		return nil, fmt.Errorf("failed to update meal: %w", err)
	}

	dto := toDTO(existing, ingredients)
	return &dto, nil
}

// Delete removes a meal. Schedule entries pointing at it become orphans
// and are purged on the next plan read.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	owner := userctx.OwnerUserID(ctx)

	_, _, found, err := s.storage.GetMeal(ctx, owner, id)
	if err != nil {
		return fmt.Errorf("failed to get meal: %w", err)
	}
	if !found {
		return ErrMealNotFound
	}

	if err := s.storage.DeleteMeal(ctx, owner, id); err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	return nil
}

func (s *Service) Categories() *ListCategoriesResponse {
	all := AllCategories()
	names := make([]string, 0, len(all))
	for _, c := range all {
		names = append(names, c.String())
	}
	return &ListCategoriesResponse{Categories: names}
}

func buildIngredients(mealID uuid.UUID, inputs []IngredientInput) []storage.MealIngredient {
	result := make([]storage.MealIngredient, 0, len(inputs))
	for i, in := range inputs {
		category := strings.TrimSpace(in.Category)
		if category == "" {
			category = DefaultIngredientCategory
		}
		result = append(result, storage.MealIngredient{
			ID:       uuid.New(),
			MealID:   mealID,
			Name:     strings.TrimSpace(in.Name),
			Category: category,
			Position: i,
		})
	}
	return result
}
