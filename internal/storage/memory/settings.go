package memory

import (
	"context"
	"time"

	"github.com/fdg312/simplemeal/internal/storage"
)

func (m *MemoryStorage) GetPlanSettings(ctx context.Context, ownerUserID string) (storage.PlanSettings, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.planSettings[ownerUserID]
	if !ok {
		return storage.PlanSettings{}, false, nil
	}
	return s, true, nil
}

func (m *MemoryStorage) UpsertPlanSettings(ctx context.Context, ownerUserID string, s storage.PlanSettings) (storage.PlanSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.OwnerUserID = ownerUserID
	s.SelectedDate = storage.StartOfDay(s.SelectedDate)
	s.UpdatedAt = time.Now().UTC()
	m.planSettings[ownerUserID] = s
	return s, nil
}

func (m *MemoryStorage) GetEntitlement(ctx context.Context, ownerUserID string) (storage.Entitlement, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entitlements[ownerUserID]
	if !ok {
		return storage.Entitlement{}, false, nil
	}
	return e, true, nil
}

func (m *MemoryStorage) UpsertEntitlement(ctx context.Context, ownerUserID string, e storage.Entitlement) (storage.Entitlement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e.OwnerUserID = ownerUserID
	e.UpdatedAt = time.Now().UTC()
	m.entitlements[ownerUserID] = e
	return e, nil
}
