package shoppinglist

import (
	"errors"
	"strings"
	"time"

	"github.com/fdg312/simplemeal/internal/storage"
	"github.com/google/uuid"
)

// ShoppingItemDTO — позиция шоппинг-листа
type ShoppingItemDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Count     int       `json:"count"`
	Category  string    `json:"category"`
	IsChecked bool      `json:"is_checked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListResponse struct {
	Items []ShoppingItemDTO `json:"items"`
}

// CreateItemRequest — добавление позиции вручную
type CreateItemRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Count    int    `json:"count"`
}

func (r *CreateItemRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

// UpdateItemRequest — частичное обновление позиции
type UpdateItemRequest struct {
	Name      *string `json:"name,omitempty"`
	Category  *string `json:"category,omitempty"`
	Count     *int    `json:"count,omitempty"`
	IsChecked *bool   `json:"is_checked,omitempty"`
}

func (r *UpdateItemRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return errors.New("name must not be empty")
	}
	return nil
}

// GenerateRequest — пересборка листа из плана за окно дат
type GenerateRequest struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func (r *GenerateRequest) Validate() error {
	if r.From.IsZero() || r.To.IsZero() {
		return errors.New("from and to are required")
	}
	if r.To.Before(r.From) {
		return errors.New("to must not precede from")
	}
	return nil
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toDTO(item storage.ShoppingListItem) ShoppingItemDTO {
	return ShoppingItemDTO{
		ID:        item.ID,
		Name:      item.Name,
		Count:     item.Count,
		Category:  item.Category,
		IsChecked: item.IsChecked,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}
