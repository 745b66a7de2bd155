package memory

import (
	"context"
	"sort"
	"time"

	"github.com/fdg312/simplemeal/internal/storage"
	"github.com/google/uuid"
)

func (m *MemoryStorage) ListScheduled(ctx context.Context, ownerUserID string, from, to time.Time) ([]storage.ScheduledMeal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	from = storage.StartOfDay(from)
	to = storage.StartOfDay(to)

	result := make([]storage.ScheduledMeal, 0)
	for _, sm := range m.scheduled {
		if sm.OwnerUserID != ownerUserID {
			continue
		}
		day := storage.StartOfDay(sm.Date)
		if day.Before(from) || day.After(to) {
			continue
		}
		result = append(result, sm)
	}

	// Deterministic order: date, then meal_time, then id.
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		if !result[i].MealTime.Equal(result[j].MealTime) {
			return result[i].MealTime.Before(result[j].MealTime)
		}
		return result[i].ID.String() < result[j].ID.String()
	})

	return result, nil
}

func (m *MemoryStorage) CountForDate(ctx context.Context, ownerUserID string, date time.Time) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	day := storage.StartOfDay(date)
	count := 0
	for _, sm := range m.scheduled {
		if sm.OwnerUserID == ownerUserID && storage.StartOfDay(sm.Date).Equal(day) {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStorage) CreateScheduled(ctx context.Context, sm *storage.ScheduledMeal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sm.ID == uuid.Nil {
		sm.ID = uuid.New()
	}
	sm.Date = storage.StartOfDay(sm.Date)
	if sm.MealTime.IsZero() {
		sm.MealTime = sm.Date
	}
	sm.CreatedAt = time.Now().UTC()

	m.scheduled[sm.ID] = *sm
	return nil
}

func (m *MemoryStorage) DeleteScheduled(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sm, ok := m.scheduled[id]
	if !ok || sm.OwnerUserID != ownerUserID {
		return ErrNotFound
	}
	delete(m.scheduled, id)
	return nil
}

func (m *MemoryStorage) DeleteScheduledMany(ctx context.Context, ownerUserID string, ids []uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for _, id := range ids {
		if sm, ok := m.scheduled[id]; ok && sm.OwnerUserID == ownerUserID {
			delete(m.scheduled, id)
			deleted++
		}
	}
	return deleted, nil
}
