package entitlement

import "time"

// EntitlementResponse — состояние подписки и вычисленные лимиты
type EntitlementResponse struct {
	IsPremium       bool      `json:"is_premium"`
	Plan            string    `json:"plan"`
	MaxMealsPerDay  int       `json:"max_meals_per_day"`
	MaxPlanningDays int       `json:"max_planning_days"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UpdateEntitlementRequest — запрос на смену статуса подписки
type UpdateEntitlementRequest struct {
	IsPremium bool   `json:"is_premium"`
	Plan      string `json:"plan,omitempty"`
}

func (r *UpdateEntitlementRequest) Validate() error {
	return nil
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
