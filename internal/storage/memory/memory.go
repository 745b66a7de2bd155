package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fdg312/simplemeal/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("record not found")
)

// MemoryStorage — in-memory реализация storage.Storage
type MemoryStorage struct {
	mu           sync.RWMutex
	items        map[uuid.UUID]storage.Item
	meals        map[uuid.UUID]storage.Meal
	ingredients  map[uuid.UUID][]storage.MealIngredient // key: meal_id
	scheduled    map[uuid.UUID]storage.ScheduledMeal
	shopping     map[uuid.UUID]storage.ShoppingListItem
	planSettings map[string]storage.PlanSettings // key: owner_user_id
	entitlements map[string]storage.Entitlement  // key: owner_user_id
}

// New создаёт новый MemoryStorage
func New() *MemoryStorage {
	return &MemoryStorage{
		items:        make(map[uuid.UUID]storage.Item),
		meals:        make(map[uuid.UUID]storage.Meal),
		ingredients:  make(map[uuid.UUID][]storage.MealIngredient),
		scheduled:    make(map[uuid.UUID]storage.ScheduledMeal),
		shopping:     make(map[uuid.UUID]storage.ShoppingListItem),
		planSettings: make(map[string]storage.PlanSettings),
		entitlements: make(map[string]storage.Entitlement),
	}
}

func (m *MemoryStorage) Close() error {
	// no-op для memory
	return nil
}

// ---------- Items ----------

func (m *MemoryStorage) ListItems(ctx context.Context, ownerUserID string, category string, query string) ([]storage.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]storage.Item, 0)
	for _, it := range m.items {
		if it.OwnerUserID != ownerUserID {
			continue
		}
		if category != "" && it.Category != category {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(it.Name), strings.ToLower(query)) {
			continue
		}
		items = append(items, it)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Name < items[j].Name
	})

	return items, nil
}

func (m *MemoryStorage) GetItem(ctx context.Context, ownerUserID string, id uuid.UUID) (storage.Item, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, ok := m.items[id]
	if !ok || it.OwnerUserID != ownerUserID {
		return storage.Item{}, false, nil
	}
	return it, true, nil
}

func (m *MemoryStorage) CreateItem(ctx context.Context, item *storage.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	m.items[item.ID] = *item
	return nil
}

func (m *MemoryStorage) UpdateItem(ctx context.Context, item *storage.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.items[item.ID]
	if !ok || existing.OwnerUserID != item.OwnerUserID {
		return ErrNotFound
	}

	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = time.Now().UTC()
	m.items[item.ID] = *item
	return nil
}

func (m *MemoryStorage) DeleteItem(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.items[id]
	if !ok || it.OwnerUserID != ownerUserID {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}
