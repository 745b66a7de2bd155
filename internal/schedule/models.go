package schedule

import (
	"errors"
	"time"

	"github.com/fdg312/simplemeal/internal/storage"
	"github.com/google/uuid"
)

// ScheduledMealDTO — запись календарного плана вместе с блюдом
type ScheduledMealDTO struct {
	ID       uuid.UUID   `json:"id"`
	Date     time.Time   `json:"date"`
	MealTime time.Time   `json:"meal_time"`
	Meal     MealSummary `json:"meal"`
}

// MealSummary — встроенная сводка блюда в записи плана
type MealSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Ingredients []string  `json:"ingredients"`
}

// PlanDayDTO — один день плана
type PlanDayDTO struct {
	Date  time.Time          `json:"date"`
	Meals []ScheduledMealDTO `json:"meals"`
}

type PlanResponse struct {
	Days []PlanDayDTO `json:"days"`
}

// CreateScheduledRequest — добавление блюда в план
type CreateScheduledRequest struct {
	MealID   uuid.UUID  `json:"meal_id"`
	Date     time.Time  `json:"date"`
	MealTime *time.Time `json:"meal_time,omitempty"`
}

func (r *CreateScheduledRequest) Validate() error {
	if r.MealID == uuid.Nil {
		return errors.New("meal_id is required")
	}
	if r.Date.IsZero() {
		return errors.New("date is required")
	}
	return nil
}

// PlanSettingsDTO — окно планирования
type PlanSettingsDTO struct {
	SelectedDate time.Time `json:"selected_date"`
	NumberOfDays int       `json:"number_of_days"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UpdateSettingsRequest — смена окна планирования
type UpdateSettingsRequest struct {
	SelectedDate time.Time `json:"selected_date"`
	NumberOfDays int       `json:"number_of_days"`
}

func (r *UpdateSettingsRequest) Validate() error {
	if r.SelectedDate.IsZero() {
		return errors.New("selected_date is required")
	}
	if r.NumberOfDays < 1 {
		return errors.New("number_of_days must be at least 1")
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

func settingsToDTO(s storage.PlanSettings) PlanSettingsDTO {
	return PlanSettingsDTO{
		SelectedDate: s.SelectedDate,
		NumberOfDays: s.NumberOfDays,
		UpdatedAt:    s.UpdatedAt,
	}
}
