package schedule

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fdg312/simplemeal/internal/entitlement"
	"github.com/fdg312/simplemeal/internal/storage"
	"github.com/fdg312/simplemeal/internal/userctx"
	"github.com/google/uuid"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrMealNotFound   = errors.New("meal not found")
	ErrLimitExceeded  = errors.New("daily meal limit exceeded")
	ErrDateOutOfRange = errors.New("date outside planning horizon")
)

// Service — календарный план и настройки окна планирования.
// Запись в план проходит через entitlement-гейтинг; чтение попутно
// вычищает осиротевшие записи (блюдо удалено).
type Service struct {
	schedule     storage.ScheduleStorage
	meals        storage.MealsStorage
	settings     storage.PlanSettingsStorage
	entitlements *entitlement.Service
	defaultDays  int
	now          func() time.Time
}

func NewService(
	schedule storage.ScheduleStorage,
	meals storage.MealsStorage,
	settings storage.PlanSettingsStorage,
	entitlements *entitlement.Service,
	defaultDays int,
) *Service {
	return &Service{
		schedule:     schedule,
		meals:        meals,
		settings:     settings,
		entitlements: entitlements,
		defaultDays:  defaultDays,
		now:          time.Now,
	}
}

// GetSettings returns the planning window, creating defaults on first use.
func (s *Service) GetSettings(ctx context.Context) (*PlanSettingsDTO, error) {
	owner := userctx.OwnerUserID(ctx)

	settings, found, err := s.settings.GetPlanSettings(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan settings: %w", err)
	}
	if !found {
		settings = storage.PlanSettings{
			OwnerUserID:  owner,
			SelectedDate: storage.StartOfDay(s.now()),
			NumberOfDays: s.defaultDays,
			UpdatedAt:    s.now(),
		}
	}

	dto := settingsToDTO(settings)
	return &dto, nil
}

// UpdateSettings stores a new planning window. The requested length is
// clamped to the owner's entitlement, never rejected.
func (s *Service) UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (*PlanSettingsDTO, error) {
	owner := userctx.OwnerUserID(ctx)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	isPremium, err := s.entitlements.IsPremium(ctx, owner)
	if err != nil {
		return nil, err
	}
	days := s.entitlements.Policy().ClampPlanDays(isPremium, req.NumberOfDays)

	saved, err := s.settings.UpsertPlanSettings(ctx, owner, storage.PlanSettings{
		SelectedDate: req.SelectedDate,
		NumberOfDays: days,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save plan settings: %w", err)
	}

	dto := settingsToDTO(saved)
	return &dto, nil
}

// Plan returns schedule entries for [from, to] grouped by day, with meal
// details attached. Entries whose meal no longer exists are dropped from
// the response and deleted from storage.
func (s *Service) Plan(ctx context.Context, from, to time.Time) (*PlanResponse, error) {
	owner := userctx.OwnerUserID(ctx)

	entries, err := s.loadLiveEntries(ctx, owner, from, to)
	if err != nil {
		return nil, err
	}

	days := make([]PlanDayDTO, 0)
	for _, e := range entries {
		if len(days) == 0 || !days[len(days)-1].Date.Equal(e.Date) {
			days = append(days, PlanDayDTO{Date: e.Date, Meals: []ScheduledMealDTO{}})
		}
		days[len(days)-1].Meals = append(days[len(days)-1].Meals, e)
	}
	return &PlanResponse{Days: days}, nil
}

// LiveEntries returns non-orphaned schedule entries for the window in
// (date, meal_time, id) order, purging orphans as a side effect. The
// shopping-list aggregator and exporters read the plan through here.
func (s *Service) LiveEntries(ctx context.Context, from, to time.Time) ([]ScheduledMealDTO, error) {
	owner := userctx.OwnerUserID(ctx)
	return s.loadLiveEntries(ctx, owner, from, to)
}

func (s *Service) loadLiveEntries(ctx context.Context, owner string, from, to time.Time) ([]ScheduledMealDTO, error) {
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

	mealRows, ingredientRows, err := s.meals.GetMealsByIDs(ctx, owner, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load meals for plan: %w", err)
	}

	entries := make([]ScheduledMealDTO, 0, len(scheduled))
	var orphans []uuid.UUID
	for _, sm := range scheduled {
		meal, ok := mealRows[sm.MealID]
		if !ok {
			orphans = append(orphans, sm.ID)
			continue
		}

		ingredients := ingredientRows[sm.MealID]
		names := make([]string, 0, len(ingredients))
		for _, ing := range ingredients {
			names = append(names, ing.Name)
		}

		entries = append(entries, ScheduledMealDTO{
			ID:       sm.ID,
			Date:     sm.Date,
			MealTime: sm.MealTime,
			Meal: MealSummary{
				ID:          meal.ID,
				Name:        meal.Name,
				Description: meal.Description,
				Category:    meal.Category,
				Ingredients: names,
			},
		})
	}

	if len(orphans) > 0 {
		purged, err := s.schedule.DeleteScheduledMany(ctx, owner, orphans)
		if err != nil {
			log.Printf("WARN: failed to purge %d orphaned schedule entries: %v", len(orphans), err)
		} else if purged > 0 {
			log.Printf("INFO: purged %d orphaned schedule entries for owner %s", purged, owner)
		}
	}

	return entries, nil
}

// Create adds a meal to a calendar day after entitlement checks.
func (s *Service) Create(ctx context.Context, req CreateScheduledRequest) (*ScheduledMealDTO, error) {
	owner := userctx.OwnerUserID(ctx)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	meal, ingredients, found, err := s.meals.GetMeal(ctx, owner, req.MealID)
	if err != nil {
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}
	if !found {
		return nil, ErrMealNotFound
	}

	isPremium, err := s.entitlements.IsPremium(ctx, owner)
	if err != nil {
		return nil, err
	}
	policy := s.entitlements.Policy()

	if !policy.CanPlanForDate(isPremium, req.Date, s.now()) {
		return nil, ErrDateOutOfRange
	}

	count, err := s.schedule.CountForDate(ctx, owner, req.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to count scheduled meals: %w", err)
	}
	if !policy.CanAddMeal(isPremium, count) {
		return nil, ErrLimitExceeded
	}

	mealTime := req.Date
	if req.MealTime != nil {
		mealTime = *req.MealTime
	}

	sm := storage.ScheduledMeal{
		ID:          uuid.New(),
		OwnerUserID: owner,
		Date:        storage.StartOfDay(req.Date),
		MealTime:    mealTime,
		MealID:      req.MealID,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.schedule.CreateScheduled(ctx, &sm); err != nil {
		return nil, fmt.Errorf("failed to create scheduled meal: %w", err)
	}

	names := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		names = append(names, ing.Name)
	}

	return &ScheduledMealDTO{
		ID:       sm.ID,
		Date:     sm.Date,
		MealTime: sm.MealTime,
		Meal: MealSummary{
			ID:          meal.ID,
			Name:        meal.Name,
			Description: meal.Description,
			Category:    meal.Category,
			Ingredients: names,
		},
	}, nil
}

// Delete removes one schedule entry.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	owner := userctx.OwnerUserID(ctx)

	if err := s.schedule.DeleteScheduled(ctx, owner, id); err != nil {
		return fmt.Errorf("failed to delete scheduled meal: %w", err)
	}
	return nil
}
