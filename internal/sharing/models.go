package sharing

import "time"

// ShareURLResponse — сгенерированная ссылка
type ShareURLResponse struct {
	URL string `json:"url"`
}

// ImportRequest — запрос на разбор или применение ссылки
type ImportRequest struct {
	URL string `json:"url"`
}

// ImportPreviewResponse summarizes a decoded link without persisting
// anything. The client shows this before asking the user to confirm.
type ImportPreviewResponse struct {
	Kind      string      `json:"kind"`
	MealCount int         `json:"meal_count,omitempty"`
	ItemCount int         `json:"item_count,omitempty"`
	MealNames []string    `json:"meal_names,omitempty"`
	DateRange []time.Time `json:"date_range,omitempty"`
}

// ImportApplyResponse — результат применения импорта
type ImportApplyResponse struct {
	Kind             string `json:"kind"`
	MealsCreated     int    `json:"meals_created"`
	ScheduledCreated int    `json:"scheduled_created"`
	ItemsCreated     int    `json:"items_created"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
