package meals

// Category — категория приёма пищи
type Category string

const (
	CategoryBreakfast Category = "Breakfast"
	CategoryLunch     Category = "Lunch"
	CategoryDinner    Category = "Dinner"
	CategorySnack     Category = "Snack"
	CategoryDessert   Category = "Dessert"
	CategoryOther     Category = "Other"
)

// AllCategories lists every meal category in menu order.
func AllCategories() []Category {
	return []Category{
		CategoryBreakfast,
		CategoryLunch,
		CategoryDinner,
		CategorySnack,
		CategoryDessert,
		CategoryOther,
	}
}

// ParseCategory maps a raw string onto a known category. Unknown values
// fall back to Other so imported payloads never fail on category alone.
func ParseCategory(raw string) Category {
	switch Category(raw) {
	case CategoryBreakfast, CategoryLunch, CategoryDinner, CategorySnack, CategoryDessert, CategoryOther:
		return Category(raw)
	default:
		return CategoryOther
	}
}

func (c Category) String() string {
	return string(c)
}
