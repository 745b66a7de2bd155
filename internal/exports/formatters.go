package exports

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fdg312/simplemeal/internal/storage"
)

const (
	headerRule  = "═══════════════════════════════"
	sectionRule = "───────────────────────────────"
	footer      = "Created with SimpleMeal 📱"
)

// PlanEntry — одна строка плана для форматтеров (уже отсортирована
// по дате и времени приёма)
type PlanEntry struct {
	Date        time.Time
	MealTime    time.Time
	Name        string
	Description string
	Category    string
	Ingredients []string
}

// ShoppingEntry — позиция шоппинг-листа для форматтеров
type ShoppingEntry struct {
	Name     string
	Category string
	Count    int
	Checked  bool
}

// MealPlanText renders the plan as shareable text, one block per day in
// dateRange. Days without meals are kept with a placeholder line.
func MealPlanText(entries []PlanEntry, dateRange []time.Time) string {
	var b strings.Builder
	b.WriteString("🍽️ MY MEAL PLAN\n")
	b.WriteString(headerRule + "\n\n")

	for _, date := range dateRange {
		dayEntries := entriesForDate(entries, date)

		b.WriteString("📅 " + date.Format("Monday, January 2, 2006") + "\n")
		if len(dayEntries) == 0 {
			b.WriteString("   No meals planned\n")
		} else {
			for _, e := range dayEntries {
				b.WriteString("   " + categoryIcon(e.Category) + " " + e.Name + "\n")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(headerRule + "\n")
	b.WriteString(footer + "\n")
	return b.String()
}

// DetailedMealPlanText renders the plan with descriptions and
// ingredients. Empty days are omitted entirely.
func DetailedMealPlanText(entries []PlanEntry, dateRange []time.Time) string {
	var b strings.Builder
	b.WriteString("🍽️ MY MEAL PLAN (DETAILED)\n")
	b.WriteString(headerRule + "\n\n")

	for _, date := range dateRange {
		dayEntries := entriesForDate(entries, date)
		if len(dayEntries) == 0 {
			continue
		}

		b.WriteString("📅 " + date.Format("Monday, January 2, 2006") + "\n")
		b.WriteString(sectionRule + "\n")

		for _, e := range dayEntries {
			b.WriteString(categoryIcon(e.Category) + " " + strings.ToUpper(e.Name) + "\n")
			if e.Description != "" {
				b.WriteString("   " + e.Description + "\n")
			}
			if len(e.Ingredients) > 0 {
				b.WriteString("   Ingredients:\n")
				for _, ing := range e.Ingredients {
					b.WriteString("   • " + ing + "\n")
				}
			}
			b.WriteString("\n")
		}
	}

	b.WriteString(headerRule + "\n")
	b.WriteString(footer + "\n")
	return b.String()
}

// ShoppingListText renders the list grouped by category with checkboxes
// and a progress line.
func ShoppingListText(items []ShoppingEntry) string {
	var b strings.Builder
	b.WriteString("🛒 MY SHOPPING LIST\n")
	b.WriteString(headerRule + "\n\n")

	for _, category := range sortedCategories(items) {
		b.WriteString("📦 " + strings.ToUpper(category) + "\n")
		b.WriteString(sectionRule + "\n")

		for _, item := range itemsForCategory(items, category) {
			checkbox := "☐"
			if item.Checked {
				checkbox = "✅"
			}
			b.WriteString(checkbox + " " + item.Name + countSuffix(item.Count) + "\n")
		}
		b.WriteString("\n")
	}

	total := 0
	purchased := 0
	for _, item := range items {
		total += item.Count
		if item.Checked {
			purchased += item.Count
		}
	}

	b.WriteString(headerRule + "\n")
	b.WriteString(fmt.Sprintf("Progress: %d/%d items\n", purchased, total))
	b.WriteString(footer + "\n")
	return b.String()
}

// SimpleShoppingListText renders a compact list, names only.
func SimpleShoppingListText(items []ShoppingEntry) string {
	var b strings.Builder
	b.WriteString("🛒 SHOPPING LIST\n\n")

	for _, category := range sortedCategories(items) {
		b.WriteString(category + ":\n")
		for _, item := range itemsForCategory(items, category) {
			b.WriteString("• " + item.Name + countSuffix(item.Count) + "\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// ShoppingListCSV renders the list as CSV rows ordered by category.
// Quoting is deliberately minimal to stay byte-compatible with files
// the mobile clients already produce and parse.
func ShoppingListCSV(items []ShoppingEntry) string {
	sorted := make([]ShoppingEntry, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Category < sorted[j].Category
	})

	var b strings.Builder
	b.WriteString("Item,Category,Count,Checked\n")
	for _, item := range sorted {
		checked := "No"
		if item.Checked {
			checked = "Yes"
		}
		b.WriteString(fmt.Sprintf("\"%s\",\"%s\",%d,%s\n", item.Name, item.Category, item.Count, checked))
	}
	return b.String()
}

// MealPlanCSV renders the plan as CSV, one row per scheduled meal,
// ingredients joined with "; ".
func MealPlanCSV(entries []PlanEntry, dateRange []time.Time) string {
	var b strings.Builder
	b.WriteString("Date,Meal,Category,Description,Ingredients\n")

	for _, date := range dateRange {
		for _, e := range entriesForDate(entries, date) {
			ingredients := strings.Join(e.Ingredients, "; ")
			b.WriteString(fmt.Sprintf("\"%s\",\"%s\",\"%s\",\"%s\",\"%s\"\n",
				date.Format("2006-01-02"), e.Name, e.Category, e.Description, ingredients))
		}
	}
	return b.String()
}

func entriesForDate(entries []PlanEntry, date time.Time) []PlanEntry {
	day := storage.StartOfDay(date)
	result := make([]PlanEntry, 0)
	for _, e := range entries {
		if storage.StartOfDay(e.Date).Equal(day) {
			result = append(result, e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].MealTime.Before(result[j].MealTime)
	})
	return result
}

func sortedCategories(items []ShoppingEntry) []string {
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, item := range items {
		if _, ok := seen[item.Category]; !ok {
			seen[item.Category] = struct{}{}
			categories = append(categories, item.Category)
		}
	}
	sort.Strings(categories)
	return categories
}

func itemsForCategory(items []ShoppingEntry, category string) []ShoppingEntry {
	result := make([]ShoppingEntry, 0)
	for _, item := range items {
		if item.Category == category {
			result = append(result, item)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

func countSuffix(count int) string {
	if count > 1 {
		return fmt.Sprintf(" (x%d)", count)
	}
	return ""
}

func categoryIcon(category string) string {
	switch category {
	case "Breakfast":
		return "🌅"
	case "Lunch":
		return "☀️"
	case "Dinner":
		return "🌙"
	case "Snack":
		return "🥤"
	case "Dessert":
		return "🍰"
	default:
		return "🍽️"
	}
}
