package memory

import (
	"context"
	"sort"
	"time"

	"github.com/fdg312/simplemeal/internal/storage"
	"github.com/google/uuid"
)

func (m *MemoryStorage) ListShoppingItems(ctx context.Context, ownerUserID string) ([]storage.ShoppingListItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]storage.ShoppingListItem, 0)
	for _, it := range m.shopping {
		if it.OwnerUserID == ownerUserID {
			items = append(items, it)
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Name < items[j].Name
	})

	return items, nil
}

func (m *MemoryStorage) GetShoppingItem(ctx context.Context, ownerUserID string, id uuid.UUID) (storage.ShoppingListItem, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, ok := m.shopping[id]
	if !ok || it.OwnerUserID != ownerUserID {
		return storage.ShoppingListItem{}, false, nil
	}
	return it, true, nil
}

func (m *MemoryStorage) CreateShoppingItem(ctx context.Context, item *storage.ShoppingListItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.Count < 1 {
		item.Count = 1
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	m.shopping[item.ID] = *item
	return nil
}

func (m *MemoryStorage) UpdateShoppingItem(ctx context.Context, item *storage.ShoppingListItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.shopping[item.ID]
	if !ok || existing.OwnerUserID != item.OwnerUserID {
		return ErrNotFound
	}
	if item.Count < 1 {
		item.Count = 1
	}

	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = time.Now().UTC()
	m.shopping[item.ID] = *item
	return nil
}

func (m *MemoryStorage) DeleteShoppingItem(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.shopping[id]
	if !ok || it.OwnerUserID != ownerUserID {
		return ErrNotFound
	}
	delete(m.shopping, id)
	return nil
}

func (m *MemoryStorage) ClearShoppingList(ctx context.Context, ownerUserID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clearShoppingListLocked(ownerUserID)
	return nil
}

func (m *MemoryStorage) ReplaceShoppingList(ctx context.Context, ownerUserID string, items []storage.ShoppingListItem) ([]storage.ShoppingListItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clearShoppingListLocked(ownerUserID)

	now := time.Now().UTC()
	created := make([]storage.ShoppingListItem, 0, len(items))
	for _, it := range items {
		if it.ID == uuid.Nil {
			it.ID = uuid.New()
		}
		if it.Count < 1 {
			it.Count = 1
		}
		it.OwnerUserID = ownerUserID
		it.CreatedAt = now
		it.UpdatedAt = now
		m.shopping[it.ID] = it
		created = append(created, it)
	}

	return created, nil
}

func (m *MemoryStorage) clearShoppingListLocked(ownerUserID string) {
	for id, it := range m.shopping {
		if it.OwnerUserID == ownerUserID {
			delete(m.shopping, id)
		}
	}
}
