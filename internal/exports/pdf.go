package exports

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PDF rendering uses the built-in Helvetica font (cp1252), so the emoji
// decorations of the text formats are replaced with plain headings.

func MealPlanPDF(entries []PlanEntry, dateRange []time.Time) ([]byte, error) {
	pdf := newDocument("My Meal Plan")

	for _, date := range dateRange {
		dayEntries := entriesForDate(entries, date)
		if len(dayEntries) == 0 {
			continue
		}

		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, date.Format("Monday, January 2, 2006"), "", 1, "L", false, 0, "")
		pdf.Ln(1)

		for _, e := range dayEntries {
			pdf.SetFont("Helvetica", "B", 11)
			title := e.Name
			if e.Category != "" {
				title = fmt.Sprintf("%s - %s", e.Name, e.Category)
			}
			pdf.CellFormat(0, 6, title, "", 1, "L", false, 0, "")

			pdf.SetFont("Helvetica", "", 10)
			if e.Description != "" {
				pdf.MultiCell(0, 5, e.Description, "", "L", false)
			}
			if len(e.Ingredients) > 0 {
				pdf.MultiCell(0, 5, "Ingredients: "+strings.Join(e.Ingredients, ", "), "", "L", false)
			}
			pdf.Ln(2)
		}
		pdf.Ln(3)
	}

	return renderPDF(pdf)
}

func ShoppingListPDF(items []ShoppingEntry) ([]byte, error) {
	pdf := newDocument("My Shopping List")

	for _, category := range sortedCategories(items) {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, category, "", 1, "L", false, 0, "")
		pdf.Ln(1)

		pdf.SetFont("Helvetica", "", 11)
		for _, item := range itemsForCategory(items, category) {
			marker := "[ ]"
			if item.Checked {
				marker = "[x]"
			}
			pdf.CellFormat(0, 6, fmt.Sprintf("%s %s%s", marker, item.Name, countSuffix(item.Count)), "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}

	return renderPDF(pdf)
}

func newDocument(title string) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	return pdf
}

func renderPDF(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}
