package items

import (
	"errors"
	"strings"
	"time"

	"github.com/fdg312/simplemeal/internal/storage"
	"github.com/google/uuid"
)

// ItemDTO — продукт из библиотеки
type ItemDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	CustomEmoji *string   `json:"custom_emoji,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ListItemsResponse struct {
	Items []ItemDTO `json:"items"`
}

// UpsertItemRequest — создание или обновление продукта
type UpsertItemRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	CustomEmoji *string `json:"custom_emoji,omitempty"`
}

func (r *UpsertItemRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(r.Category) == "" {
		return errors.New("category is required")
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

func toDTO(item storage.Item) ItemDTO {
	return ItemDTO{
		ID:          item.ID,
		Name:        item.Name,
		Category:    item.Category,
		CustomEmoji: item.CustomEmoji,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
