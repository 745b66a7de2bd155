package shoppinglist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fdg312/simplemeal/internal/storage"
	"github.com/fdg312/simplemeal/internal/userctx"
	"github.com/google/uuid"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrItemNotFound   = errors.New("shopping item not found")
)

// Service — шоппинг-лист: ручное редактирование и генерация из плана
type Service struct {
	storage    storage.ShoppingListStorage
	aggregator *Aggregator
}

func NewService(st storage.ShoppingListStorage, aggregator *Aggregator) *Service {
	return &Service{storage: st, aggregator: aggregator}
}

func (s *Service) List(ctx context.Context) (*ListResponse, error) {
	owner := userctx.OwnerUserID(ctx)

	rows, err := s.storage.ListShoppingItems(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping items: %w", err)
	}

	result := make([]ShoppingItemDTO, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDTO(row))
	}
	return &ListResponse{Items: result}, nil
}

func (s *Service) Create(ctx context.Context, req CreateItemRequest) (*ShoppingItemDTO, error) {
	owner := userctx.OwnerUserID(ctx)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	count := req.Count
	if count < 1 {
		count = 1
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "Other"
	}

	now := time.Now().UTC()
	item := storage.ShoppingListItem{
		ID:          uuid.New(),
		OwnerUserID: owner,
		Name:        strings.TrimSpace(req.Name),
		Count:       count,
		Category:    category,
		IsChecked:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.storage.CreateShoppingItem(ctx, &item); err != nil {
		return nil, fmt.Errorf("failed to create shopping item: %w", err)
	}

	dto := toDTO(item)
	return &dto, nil
}

// Update applies a partial update. Counts never drop below one; removal
// goes through Delete instead.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ShoppingItemDTO, error) {
	owner := userctx.OwnerUserID(ctx)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	existing, found, err := s.storage.GetShoppingItem(ctx, owner, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get shopping item: %w", err)
	}
	if !found {
		return nil, ErrItemNotFound
	}

	if req.Name != nil {
		existing.Name = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		existing.Category = strings.TrimSpace(*req.Category)
	}
	if req.Count != nil {
		existing.Count = *req.Count
		if existing.Count < 1 {
			existing.Count = 1
		}
	}
	if req.IsChecked != nil {
		existing.IsChecked = *req.IsChecked
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := s.storage.UpdateShoppingItem(ctx, &existing); err != nil {
		return nil, fmt.Errorf("failed to update shopping item: %w", err)
	}

	dto := toDTO(existing)
	return &dto, nil
}

// ToggleChecked flips the checked flag.
func (s *Service) ToggleChecked(ctx context.Context, id uuid.UUID) (*ShoppingItemDTO, error) {
	owner := userctx.OwnerUserID(ctx)

	existing, found, err := s.storage.GetShoppingItem(ctx, owner, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get shopping item: %w", err)
	}
	if !found {
		return nil, ErrItemNotFound
	}

	existing.IsChecked = !existing.IsChecked
	existing.UpdatedAt = time.Now().UTC()
	if err := s.storage.UpdateShoppingItem(ctx, &existing); err != nil {
		return nil, fmt.Errorf("failed to update shopping item: %w", err)
	}

	dto := toDTO(existing)
	return &dto, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	owner := userctx.OwnerUserID(ctx)

	_, found, err := s.storage.GetShoppingItem(ctx, owner, id)
	if err != nil {
		return fmt.Errorf("failed to get shopping item: %w", err)
	}
	if !found {
		return ErrItemNotFound
	}

	if err := s.storage.DeleteShoppingItem(ctx, owner, id); err != nil {
		return fmt.Errorf("failed to delete shopping item: %w", err)
	}
	return nil
}

func (s *Service) Clear(ctx context.Context) error {
	owner := userctx.OwnerUserID(ctx)

	if err := s.storage.ClearShoppingList(ctx, owner); err != nil {
		return fmt.Errorf("failed to clear shopping list: %w", err)
	}
	return nil
}

// GenerateFromPlan rebuilds the whole list from the scheduled meals in
// [from, to]. The previous list is replaced, checked flags reset.
func (s *Service) GenerateFromPlan(ctx context.Context, req GenerateRequest) (*ListResponse, error) {
	owner := userctx.OwnerUserID(ctx)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	aggregated, err := s.aggregator.Aggregate(ctx, owner, req.From, req.To)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	items := make([]storage.ShoppingListItem, 0, len(aggregated))
	for _, agg := range aggregated {
		items = append(items, storage.ShoppingListItem{
			ID:          uuid.New(),
			OwnerUserID: owner,
			Name:        agg.Name,
			Count:       agg.Count,
			Category:    agg.Category,
			IsChecked:   false,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	saved, err := s.storage.ReplaceShoppingList(ctx, owner, items)
	if err != nil {
		return nil, fmt.Errorf("failed to replace shopping list: %w", err)
	}

	result := make([]ShoppingItemDTO, 0, len(saved))
	for _, row := range saved {
		result = append(result, toDTO(row))
	}
	return &ListResponse{Items: result}, nil
}
