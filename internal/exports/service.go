package exports

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fdg312/simplemeal/internal/blob"
	"github.com/fdg312/simplemeal/internal/storage"
	"github.com/fdg312/simplemeal/internal/userctx"
	"github.com/google/uuid"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Export formats.
const (
	FormatText     = "text"
	FormatDetailed = "detailed"
	FormatSimple   = "simple"
	FormatCSV      = "csv"
	FormatPDF      = "pdf"
)

// Result — готовый файл экспорта. URL is set when the file was uploaded
// to blob storage; otherwise Data is returned inline.
type Result struct {
	FileName    string
	ContentType string
	Data        []byte
	URL         string
}

// Service renders meal plans and shopping lists into shareable files
// and optionally uploads them to blob storage for link delivery.
type Service struct {
	schedule     storage.ScheduleStorage
	meals        storage.MealsStorage
	shoppingList storage.ShoppingListStorage
	store        blob.Store // nil when blob mode is local
	presignTTL   int
}

func NewService(
	schedule storage.ScheduleStorage,
	meals storage.MealsStorage,
	shoppingList storage.ShoppingListStorage,
	store blob.Store,
	presignTTL int,
) *Service {
	return &Service{
		schedule:     schedule,
		meals:        meals,
		shoppingList: shoppingList,
		store:        store,
		presignTTL:   presignTTL,
	}
}

// ExportMealPlan renders the plan for [from, to] in the given format.
func (s *Service) ExportMealPlan(ctx context.Context, format string, from, to time.Time) (*Result, error) {
	owner := userctx.OwnerUserID(ctx)

	entries, dateRange, err := s.loadPlan(ctx, owner, from, to)
	if err != nil {
		return nil, err
	}

	var (
		data        []byte
		contentType string
		ext         string
	)
	switch format {
	case FormatText, "":
		data = []byte(MealPlanText(entries, dateRange))
		contentType, ext = "text/plain; charset=utf-8", "txt"
	case FormatDetailed:
		data = []byte(DetailedMealPlanText(entries, dateRange))
		contentType, ext = "text/plain; charset=utf-8", "txt"
	case FormatCSV:
		data = []byte(MealPlanCSV(entries, dateRange))
		contentType, ext = "text/csv; charset=utf-8", "csv"
	case FormatPDF:
		data, err = MealPlanPDF(entries, dateRange)
		if err != nil {
			return nil, err
		}
		contentType, ext = "application/pdf", "pdf"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return s.deliver(ctx, owner, data, "meal-plan", ext, contentType)
}

// ExportShoppingList renders the current list in the given format.
func (s *Service) ExportShoppingList(ctx context.Context, format string) (*Result, error) {
	owner := userctx.OwnerUserID(ctx)

	rows, err := s.shoppingList.ListShoppingItems(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping items: %w", err)
	}

	items := make([]ShoppingEntry, 0, len(rows))
	for _, row := range rows {
		items = append(items, ShoppingEntry{
			Name:     row.Name,
			Category: row.Category,
			Count:    row.Count,
			Checked:  row.IsChecked,
		})
	}

	var (
		data        []byte
		contentType string
		ext         string
	)
	switch format {
	case FormatText, "":
		data = []byte(ShoppingListText(items))
		contentType, ext = "text/plain; charset=utf-8", "txt"
	case FormatSimple:
		data = []byte(SimpleShoppingListText(items))
		contentType, ext = "text/plain; charset=utf-8", "txt"
	case FormatCSV:
		data = []byte(ShoppingListCSV(items))
		contentType, ext = "text/csv; charset=utf-8", "csv"
	case FormatPDF:
		data, err = ShoppingListPDF(items)
		if err != nil {
			return nil, err
		}
		contentType, ext = "application/pdf", "pdf"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return s.deliver(ctx, owner, data, "shopping-list", ext, contentType)
}

// loadPlan reads the schedule window and joins meals, skipping orphans.
// The returned dateRange covers every day of the window.
func (s *Service) loadPlan(ctx context.Context, owner string, from, to time.Time) ([]PlanEntry, []time.Time, error) {
	scheduled, err := s.schedule.ListScheduled(ctx, owner, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list scheduled meals: %w", err)
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
		return nil, nil, fmt.Errorf("failed to load meals: %w", err)
	}

	entries := make([]PlanEntry, 0, len(scheduled))
	for _, sm := range scheduled {
		meal, ok := mealRows[sm.MealID]
		if !ok {
			continue
		}
		names := make([]string, 0, len(ingredientRows[sm.MealID]))
		for _, ing := range ingredientRows[sm.MealID] {
			names = append(names, ing.Name)
		}
		entries = append(entries, PlanEntry{
			Date:        sm.Date,
			MealTime:    sm.MealTime,
			Name:        meal.Name,
			Description: meal.Description,
			Category:    meal.Category,
			Ingredients: names,
		})
	}

	dateRange := make([]time.Time, 0)
	for d := storage.StartOfDay(from); !d.After(storage.StartOfDay(to)); d = d.AddDate(0, 0, 1) {
		dateRange = append(dateRange, d)
	}

	return entries, dateRange, nil
}

func (s *Service) deliver(ctx context.Context, owner string, data []byte, kind, ext, contentType string) (*Result, error) {
	fileName := fmt.Sprintf("%s-%s.%s", kind, time.Now().UTC().Format("2006-01-02"), ext)
	result := &Result{
		FileName:    fileName,
		ContentType: contentType,
		Data:        data,
	}
	if s.store == nil {
		return result, nil
	}

	key := fmt.Sprintf("exports/%s/%s/%s", owner, uuid.NewString(), fileName)
	if _, err := s.store.PutObject(ctx, key, data, contentType); err != nil {
		log.Printf("WARN: export upload failed, falling back to inline delivery: %v", err)
		return result, nil
	}

	url, err := s.store.PresignGet(ctx, key, s.presignTTL)
	if err != nil {
		log.Printf("WARN: export presign failed, falling back to inline delivery: %v", err)
		return result, nil
	}

	result.URL = url
	result.Data = nil
	return result, nil
}
