package meals

import (
	"errors"
	"strings"
	"time"

	"github.com/fdg312/simplemeal/internal/storage"
	"github.com/google/uuid"
)

// MealDTO — блюдо с ингредиентами для API
type MealDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	ImageData   []byte          `json:"image_data,omitempty"`
	Ingredients []IngredientDTO `json:"ingredients"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// IngredientDTO — ингредиент, принадлежащий блюду
type IngredientDTO struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type ListMealsResponse struct {
	Meals []MealDTO `json:"meals"`
}

type ListCategoriesResponse struct {
	Categories []string `json:"categories"`
}

// UpsertMealRequest — создание или обновление блюда
type UpsertMealRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	ImageData   []byte            `json:"image_data,omitempty"`
	Ingredients []IngredientInput `json:"ingredients"`
}

type IngredientInput struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

func (r *UpsertMealRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	for _, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return errors.New("ingredient name is required")
		}
	}
	return nil
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toDTO(meal storage.Meal, ingredients []storage.MealIngredient) MealDTO {
	dto := MealDTO{
		ID:          meal.ID,
		Name:        meal.Name,
		Description: meal.Description,
		Category:    meal.Category,
		ImageData:   meal.ImageData,
		Ingredients: make([]IngredientDTO, 0, len(ingredients)),
		CreatedAt:   meal.CreatedAt,
		UpdatedAt:   meal.UpdatedAt,
	}
	for _, ing := range ingredients {
		dto.Ingredients = append(dto.Ingredients, IngredientDTO{
			Name:     ing.Name,
			Category: ing.Category,
		})
	}
	return dto
}
