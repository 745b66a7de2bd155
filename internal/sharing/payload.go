package sharing

// Wire payloads for app-scheme deep links. Field names and shapes are a
// compatibility contract with existing mobile clients — do not rename.

// MealPlanPayload — план питания целиком
type MealPlanPayload struct {
	Meals     []SharedMeal `json:"meals"`
	DateRange []float64    `json:"dateRange"`
}

// SharedMeal — одно запланированное блюдо в ссылке.
// Date and MealTime are epoch seconds; fractional values are accepted.
type SharedMeal struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Ingredients []string `json:"ingredients"`
	Date        float64  `json:"date"`
	MealTime    float64  `json:"mealTime"`
}

// ShoppingListPayload — шоппинг-лист
type ShoppingListPayload struct {
	Items []SharedShoppingItem `json:"items"`
}

// SharedShoppingItem — позиция шоппинг-листа в ссылке
type SharedShoppingItem struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// MealPayload — отдельное блюдо (рецепт) без привязки к датам
type MealPayload struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Ingredients []string `json:"ingredients"`
}
