package entitlement

import (
	"context"
	"fmt"
	"time"

	"github.com/fdg312/simplemeal/internal/storage"
)

// Provider — внешний источник статуса подписки (стор, платёжный бэкенд).
// Реализация по умолчанию отсутствует: состояние живёт в хранилище.
type Provider interface {
	FetchEntitlement(ctx context.Context, ownerUserID string) (isPremium bool, plan string, err error)
}

// Service хранит и выдаёт entitlement пользователя
type Service struct {
	storage  storage.EntitlementsStorage
	policy   Policy
	provider Provider
	now      func() time.Time
}

func NewService(st storage.EntitlementsStorage, policy Policy, provider Provider) *Service {
	return &Service{
		storage:  st,
		policy:   policy,
		provider: provider,
		now:      time.Now,
	}
}

// Policy returns the gating policy the service was built with.
func (s *Service) Policy() Policy {
	return s.policy
}

// Get returns the stored entitlement. Unknown users are treated as free.
func (s *Service) Get(ctx context.Context, ownerUserID string) (storage.Entitlement, error) {
	ent, found, err := s.storage.GetEntitlement(ctx, ownerUserID)
	if err != nil {
		return storage.Entitlement{}, fmt.Errorf("failed to get entitlement: %w", err)
	}
	if !found {
		return storage.Entitlement{
			OwnerUserID: ownerUserID,
			IsPremium:   false,
			Plan:        "free",
			UpdatedAt:   s.now(),
		}, nil
	}
	return ent, nil
}

// IsPremium — быстрый ответ для гейтинга
func (s *Service) IsPremium(ctx context.Context, ownerUserID string) (bool, error) {
	ent, err := s.Get(ctx, ownerUserID)
	if err != nil {
		return false, err
	}
	return ent.IsPremium, nil
}

// Set persists a new entitlement state for the owner.
func (s *Service) Set(ctx context.Context, ownerUserID string, isPremium bool, plan string) (storage.Entitlement, error) {
	if plan == "" {
		if isPremium {
			plan = "premium"
		} else {
			plan = "free"
		}
	}

	ent, err := s.storage.UpsertEntitlement(ctx, ownerUserID, storage.Entitlement{
		IsPremium: isPremium,
		Plan:      plan,
	})
	if err != nil {
		return storage.Entitlement{}, fmt.Errorf("failed to save entitlement: %w", err)
	}
	return ent, nil
}

// Refresh pulls the state from the configured provider and stores it.
// Без провайдера возвращает сохранённое состояние как есть.
func (s *Service) Refresh(ctx context.Context, ownerUserID string) (storage.Entitlement, error) {
	if s.provider == nil {
		return s.Get(ctx, ownerUserID)
	}

	isPremium, plan, err := s.provider.FetchEntitlement(ctx, ownerUserID)
	if err != nil {
		return storage.Entitlement{}, fmt.Errorf("failed to refresh entitlement: %w", err)
	}
	return s.Set(ctx, ownerUserID, isPremium, plan)
}

func (s *Service) toResponse(ent storage.Entitlement) EntitlementResponse {
	return EntitlementResponse{
		IsPremium:       ent.IsPremium,
		Plan:            ent.Plan,
		MaxMealsPerDay:  s.policy.MaxMealsPerDay(ent.IsPremium),
		MaxPlanningDays: s.policy.MaxPlanningDays(ent.IsPremium),
		UpdatedAt:       ent.UpdatedAt,
	}
}
