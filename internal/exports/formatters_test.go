package exports

import (
	"strings"
	"testing"
	"time"
)

func testEntries() ([]PlanEntry, []time.Time) {
	day1 := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	entries := []PlanEntry{
		{
			Date:        day1,
			MealTime:    day1.Add(19 * time.Hour),
			Name:        "Curry",
			Description: "Spicy",
			Category:    "Dinner",
			Ingredients: []string{"Rice", "Chicken"},
		},
		{
			Date:        day1,
			MealTime:    day1.Add(8 * time.Hour),
			Name:        "Pancakes",
			Category:    "Breakfast",
			Ingredients: []string{"Milk", "Flour"},
		},
	}
	return entries, []time.Time{day1, day2}
}

func TestMealPlanText(t *testing.T) {
	entries, dateRange := testEntries()
	text := MealPlanText(entries, dateRange)

	if !strings.HasPrefix(text, "🍽️ MY MEAL PLAN\n") {
		t.Errorf("missing header:\n%s", text)
	}
	if !strings.Contains(text, "📅 Monday, June 16, 2025") {
		t.Errorf("missing day header:\n%s", text)
	}

	// Same-day meals ordered by meal time: breakfast before dinner.
	if strings.Index(text, "Pancakes") > strings.Index(text, "Curry") {
		t.Errorf("meals out of meal-time order:\n%s", text)
	}
	if !strings.Contains(text, "No meals planned") {
		t.Errorf("empty day placeholder missing:\n%s", text)
	}
	if !strings.Contains(text, "🌅 Pancakes") || !strings.Contains(text, "🌙 Curry") {
		t.Errorf("category icons missing:\n%s", text)
	}
}

func TestDetailedMealPlanTextSkipsEmptyDays(t *testing.T) {
	entries, dateRange := testEntries()
	text := DetailedMealPlanText(entries, dateRange)

	if !strings.Contains(text, "PANCAKES") {
		t.Errorf("meal names should be uppercased:\n%s", text)
	}
	if !strings.Contains(text, "   Ingredients:\n   • Milk\n   • Flour\n") {
		t.Errorf("ingredient block missing:\n%s", text)
	}
	if strings.Contains(text, "Tuesday, June 17, 2025") {
		t.Errorf("empty day should be omitted in detailed view:\n%s", text)
	}
	if !strings.Contains(text, "   Spicy\n") {
		t.Errorf("description line missing:\n%s", text)
	}
}

func TestShoppingListCSV(t *testing.T) {
	items := []ShoppingEntry{
		{Name: "Apples", Category: "Produce", Count: 3, Checked: false},
		{Name: "Milk", Category: "Dairy & Eggs", Count: 2, Checked: true},
	}

	csv := ShoppingListCSV(items)
	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")

	if lines[0] != "Item,Category,Count,Checked" {
		t.Errorf("header = %q", lines[0])
	}
	// Rows ordered by category: Dairy & Eggs before Produce.
	if lines[1] != `"Milk","Dairy & Eggs",2,Yes` {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != `"Apples","Produce",3,No` {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestMealPlanCSV(t *testing.T) {
	entries, dateRange := testEntries()
	csv := MealPlanCSV(entries, dateRange)
	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")

	if lines[0] != "Date,Meal,Category,Description,Ingredients" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 3 {
		t.Fatalf("rows = %d, want 2 data rows:\n%s", len(lines)-1, csv)
	}
	if lines[1] != `"2025-06-16","Pancakes","Breakfast","","Milk; Flour"` {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != `"2025-06-16","Curry","Dinner","Spicy","Rice; Chicken"` {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestShoppingListTextGroupsAndCounts(t *testing.T) {
	items := []ShoppingEntry{
		{Name: "Milk", Category: "Dairy & Eggs", Count: 2, Checked: true},
		{Name: "Cheddar", Category: "Dairy & Eggs", Count: 1},
		{Name: "Apples", Category: "Produce", Count: 3},
	}

	text := ShoppingListText(items)

	if !strings.Contains(text, "📦 DAIRY & EGGS") {
		t.Errorf("category header missing:\n%s", text)
	}
	// Categories sorted lexicographically.
	if strings.Index(text, "DAIRY & EGGS") > strings.Index(text, "PRODUCE") {
		t.Errorf("categories out of order:\n%s", text)
	}
	// Names sorted inside a category.
	if strings.Index(text, "Cheddar") > strings.Index(text, "Milk") {
		t.Errorf("items out of order:\n%s", text)
	}
	if !strings.Contains(text, "✅ Milk (x2)") {
		t.Errorf("checked item with count missing:\n%s", text)
	}
	if !strings.Contains(text, "☐ Cheddar\n") {
		t.Errorf("unchecked single item should have no count suffix:\n%s", text)
	}
	if !strings.Contains(text, "Progress: 2/6 items") {
		t.Errorf("progress line wrong:\n%s", text)
	}
}

func TestSimpleShoppingListText(t *testing.T) {
	items := []ShoppingEntry{
		{Name: "Milk", Category: "Dairy & Eggs", Count: 2},
	}

	text := SimpleShoppingListText(items)
	if !strings.HasPrefix(text, "🛒 SHOPPING LIST\n\n") {
		t.Errorf("header wrong:\n%s", text)
	}
	if !strings.Contains(text, "Dairy & Eggs:\n• Milk (x2)\n") {
		t.Errorf("item line wrong:\n%s", text)
	}
}

func TestMealPlanPDFRenders(t *testing.T) {
	entries, dateRange := testEntries()

	data, err := MealPlanPDF(entries, dateRange)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(string(data[:5]), "%PDF-") {
		t.Errorf("output does not look like a PDF: %q", data[:10])
	}
}

func TestShoppingListPDFRenders(t *testing.T) {
	data, err := ShoppingListPDF([]ShoppingEntry{
		{Name: "Milk", Category: "Dairy & Eggs", Count: 2},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(string(data[:5]), "%PDF-") {
		t.Errorf("output does not look like a PDF: %q", data[:10])
	}
}
