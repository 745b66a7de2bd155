package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Item — reusable grocery/household product definition.
// Referenced (not owned) by meals; (name, category) uniqueness is NOT
// enforced, duplicates are tolerated downstream.
type Item struct {
	ID          uuid.UUID
	OwnerUserID string // "default" for single-install mode
	Name        string
	Category    string
	CustomEmoji *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ItemsStorage — интерфейс для работы с библиотекой продуктов
type ItemsStorage interface {
	// ListItems returns items for the owner, optionally filtered by category
	// and a case-insensitive name query, ordered by category then name.
	ListItems(ctx context.Context, ownerUserID string, category string, query string) ([]Item, error)

	// GetItem returns an item by ID. bool=false means not found.
	GetItem(ctx context.Context, ownerUserID string, id uuid.UUID) (Item, bool, error)

	// CreateItem creates a new item.
	CreateItem(ctx context.Context, item *Item) error

	// UpdateItem updates name/category/emoji of an existing item.
	UpdateItem(ctx context.Context, item *Item) error

	// DeleteItem deletes an item.
	DeleteItem(ctx context.Context, ownerUserID string, id uuid.UUID) error
}

// Meal — a named recipe that owns its ingredient rows.
type Meal struct {
	ID          uuid.UUID
	OwnerUserID string
	Name        string
	Description string
	ImageData   []byte
	Category    string // canonical MealCategory string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MealIngredient — ingredient entry owned by a meal (cascade-deleted with
// it). A value copy, not a reference to the Item library.
type MealIngredient struct {
	ID       uuid.UUID
	MealID   uuid.UUID
	Name     string
	Category string
	Position int
}

// MealsStorage — интерфейс для работы с блюдами
type MealsStorage interface {
	// ListMeals returns all meals for the owner, ordered by name, with
	// ingredients attached in position order.
	ListMeals(ctx context.Context, ownerUserID string) ([]Meal, map[uuid.UUID][]MealIngredient, error)

	// GetMeal returns a meal with its ingredients. bool=false means not found.
	GetMeal(ctx context.Context, ownerUserID string, id uuid.UUID) (Meal, []MealIngredient, bool, error)

	// GetMealsByIDs returns the subset of requested meals that exist, with
	// ingredients. Missing IDs are simply absent from the result.
	GetMealsByIDs(ctx context.Context, ownerUserID string, ids []uuid.UUID) (map[uuid.UUID]Meal, map[uuid.UUID][]MealIngredient, error)

	// CreateMeal creates a meal together with its ingredient rows.
	CreateMeal(ctx context.Context, meal *Meal, ingredients []MealIngredient) error

	// UpdateMeal updates a meal and replaces its ingredient rows.
	UpdateMeal(ctx context.Context, meal *Meal, ingredients []MealIngredient) error

	// DeleteMeal deletes a meal and cascade-deletes its ingredients.
	// Scheduled entries referencing the meal are left behind as orphans
	// and are purged lazily on the next aggregation/listing pass.
	DeleteMeal(ctx context.Context, ownerUserID string, id uuid.UUID) error
}

// ScheduledMeal — assignment of one meal to one calendar day. MealID is a
// non-owning reference; the target meal may no longer exist.
type ScheduledMeal struct {
	ID          uuid.UUID
	OwnerUserID string
	Date        time.Time // start-of-day normalized
	MealTime    time.Time // intra-day ordering only
	MealID      uuid.UUID
	CreatedAt   time.Time
}

// ScheduleStorage — интерфейс для календарного плана
type ScheduleStorage interface {
	// ListScheduled returns scheduled meals with date in [from, to]
	// (inclusive), ordered by date, meal_time, id.
	ListScheduled(ctx context.Context, ownerUserID string, from, to time.Time) ([]ScheduledMeal, error)

	// CountForDate returns how many meals are scheduled on a calendar day.
	CountForDate(ctx context.Context, ownerUserID string, date time.Time) (int, error)

	// CreateScheduled creates a schedule entry.
	CreateScheduled(ctx context.Context, sm *ScheduledMeal) error

	// DeleteScheduled deletes a schedule entry.
	DeleteScheduled(ctx context.Context, ownerUserID string, id uuid.UUID) error

	// DeleteScheduledMany deletes a batch of schedule entries (orphan purge).
	DeleteScheduledMany(ctx context.Context, ownerUserID string, ids []uuid.UUID) (int, error)
}

// ShoppingListItem — flat checklist entry, independent of Item/Meal.
type ShoppingListItem struct {
	ID          uuid.UUID
	OwnerUserID string
	Name        string
	Count       int // >= 1
	Category    string
	IsChecked   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ShoppingListStorage — интерфейс для шоппинг-листа
type ShoppingListStorage interface {
	// ListShoppingItems returns all entries for the owner, ordered by
	// category then name.
	ListShoppingItems(ctx context.Context, ownerUserID string) ([]ShoppingListItem, error)

	// GetShoppingItem returns an entry by ID. bool=false means not found.
	GetShoppingItem(ctx context.Context, ownerUserID string, id uuid.UUID) (ShoppingListItem, bool, error)

	// CreateShoppingItem creates an entry.
	CreateShoppingItem(ctx context.Context, item *ShoppingListItem) error

	// UpdateShoppingItem updates count/checked/name/category.
	UpdateShoppingItem(ctx context.Context, item *ShoppingListItem) error

	// DeleteShoppingItem deletes an entry.
	DeleteShoppingItem(ctx context.Context, ownerUserID string, id uuid.UUID) error

	// ClearShoppingList deletes every entry for the owner.
	ClearShoppingList(ctx context.Context, ownerUserID string) error

	// ReplaceShoppingList atomically replaces the whole list with the given
	// entries (generate-from-plan writes through here).
	ReplaceShoppingList(ctx context.Context, ownerUserID string, items []ShoppingListItem) ([]ShoppingListItem, error)
}

// PlanSettings — singleton-per-owner planning window.
type PlanSettings struct {
	OwnerUserID  string
	SelectedDate time.Time
	NumberOfDays int
	UpdatedAt    time.Time
}

// DateRange returns NumberOfDays consecutive start-of-day dates beginning
// at SelectedDate (UTC start-of-day normalized).
func (p PlanSettings) DateRange() []time.Time {
	start := StartOfDay(p.SelectedDate)
	days := make([]time.Time, 0, p.NumberOfDays)
	for i := 0; i < p.NumberOfDays; i++ {
		days = append(days, start.AddDate(0, 0, i))
	}
	return days
}

// StartOfDay normalizes t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// PlanSettingsStorage — интерфейс для настроек окна планирования
type PlanSettingsStorage interface {
	// GetPlanSettings returns settings by owner. bool=false means not found.
	GetPlanSettings(ctx context.Context, ownerUserID string) (PlanSettings, bool, error)

	// UpsertPlanSettings creates or updates settings for the owner.
	UpsertPlanSettings(ctx context.Context, ownerUserID string, s PlanSettings) (PlanSettings, error)
}

// Entitlement — persisted subscription snapshot consumed by the policy.
type Entitlement struct {
	OwnerUserID string
	IsPremium   bool
	Plan        string // free | weekly | monthly | annual
	UpdatedAt   time.Time
}

// EntitlementsStorage — интерфейс для снапшота подписки
type EntitlementsStorage interface {
	// GetEntitlement returns the snapshot. bool=false means not found
	// (treat as free).
	GetEntitlement(ctx context.Context, ownerUserID string) (Entitlement, bool, error)

	// UpsertEntitlement stores the snapshot.
	UpsertEntitlement(ctx context.Context, ownerUserID string, e Entitlement) (Entitlement, error)
}

// Storage — корневой интерфейс хранилища
type Storage interface {
	ItemsStorage
	MealsStorage
	ScheduleStorage
	ShoppingListStorage
	PlanSettingsStorage
	EntitlementsStorage

	// Close закрывает соединение (для Postgres)
	Close() error
}
