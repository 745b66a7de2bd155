package items

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
	ErrItemNotFound   = errors.New("item not found")
)

// Service — сервис библиотеки продуктов
type Service struct {
	storage storage.ItemsStorage
}

func NewService(st storage.ItemsStorage) *Service {
	return &Service{storage: st}
}

func (s *Service) List(ctx context.Context, category, query string) (*ListItemsResponse, error) {
	owner := userctx.OwnerUserID(ctx)

	rows, err := s.storage.ListItems(ctx, owner, strings.TrimSpace(category), strings.TrimSpace(query))
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	result := make([]ItemDTO, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDTO(row))
	}
	return &ListItemsResponse{Items: result}, nil
}

func (s *Service) Create(ctx context.Context, req UpsertItemRequest) (*ItemDTO, error) {
	owner := userctx.OwnerUserID(ctx)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	now := time.Now().UTC()
	item := storage.Item{
		ID:          uuid.New(),
		OwnerUserID: owner,
		Name:        strings.TrimSpace(req.Name),
		Category:    strings.TrimSpace(req.Category),
		CustomEmoji: req.CustomEmoji,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.storage.CreateItem(ctx, &item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	dto := toDTO(item)
	return &dto, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpsertItemRequest) (*ItemDTO, error) {
	owner := userctx.OwnerUserID(ctx)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	existing, found, err := s.storage.GetItem(ctx, owner, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if !found {
		return nil, ErrItemNotFound
	}

	existing.Name = strings.TrimSpace(req.Name)
	existing.Category = strings.TrimSpace(req.Category)
	existing.CustomEmoji = req.CustomEmoji
	existing.UpdatedAt = time.Now().UTC()

	if err := s.storage.UpdateItem(ctx, &existing); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	dto := toDTO(existing)
	return &dto, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	owner := userctx.OwnerUserID(ctx)

	_, found, err := s.storage.GetItem(ctx, owner, id)
	if err != nil {
		return fmt.Errorf("failed to get item: %w", err)
	}
	if !found {
		return ErrItemNotFound
	}

	if err := s.storage.DeleteItem(ctx, owner, id); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}
