package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase    string
	token      string
	client     = &http.Client{Timeout: 30 * time.Second}
	testDate   string
	createdIDs = make(map[string]string) // track created resources for cleanup
	shareLink  string
)

func main() {
	fmt.Println("=== SimpleMeal E2E Smoke Test ===")
	fmt.Println()

	// Load config from env
	apiBase = getEnv("API_BASE_URL", defaultAPIBase)
	token = getEnv("SMOKE_TOKEN", "")

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Printf("Token: %s\n", maskString(token))
	fmt.Println()

	// Test date (today)
	testDate = time.Now().Format("2006-01-02")

	// Run smoke tests
	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Get Entitlement", testGetEntitlement},
		{"Create Meal", testCreateMeal},
		{"Schedule Meal", testScheduleMeal},
		{"Get Plan", testGetPlan},
		{"Generate Shopping List", testGenerateShoppingList},
		{"Get Shopping List", testGetShoppingList},
		{"Share Meal Plan", testShareMealPlan},
		{"Import Preview", testImportPreview},
		{"Export Shopping List (CSV)", testExportShoppingListCSV},
		{"Delete Scheduled Meal", testDeleteScheduledMeal},
		{"Delete Meal", testDeleteMeal},
		{"Clear Shopping List", testClearShoppingList},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("❌ FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("✅ OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("✅ ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	req, err := http.NewRequest("GET", apiBase+"/healthz", nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return unexpectedStatus(resp)
	}

	return nil
}

func testGetEntitlement() error {
	req, err := http.NewRequest("GET", apiBase+"/v1/entitlement", nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return unexpectedStatus(resp)
	}

	var result struct {
		IsPremium       bool `json:"is_premium"`
		MaxMealsPerDay  int  `json:"max_meals_per_day"`
		MaxPlanningDays int  `json:"max_planning_days"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	if result.MaxMealsPerDay <= 0 {
		return fmt.Errorf("max_meals_per_day is %d", result.MaxMealsPerDay)
	}

	return nil
}

func testCreateMeal() error {
	payload := map[string]interface{}{
		"name":        "Smoke Test Pasta",
		"description": "Created by the smoke test",
		"category":    "Dinner",
		"ingredients": []map[string]interface{}{
			{"name": "Pasta", "category": "Pantry"},
			{"name": "Tomatoes", "category": "Produce"},
		},
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := postJSON("/v1/meals", payload, http.StatusCreated, &result); err != nil {
		return err
	}
	if result.ID == "" {
		return fmt.Errorf("created meal has empty id")
	}

	createdIDs["meal"] = result.ID
	return nil
}

func testScheduleMeal() error {
	payload := map[string]interface{}{
		"meal_id": createdIDs["meal"],
		"date":    testDate + "T00:00:00Z",
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := postJSON("/v1/plan/meals", payload, http.StatusCreated, &result); err != nil {
		return err
	}

	createdIDs["scheduled"] = result.ID
	return nil
}

func testGetPlan() error {
	url := fmt.Sprintf("%s/v1/plan?from=%s&to=%s", apiBase, testDate, testDate)
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return unexpectedStatus(resp)
	}

	var result struct {
		Days []struct {
			Meals []struct {
				ID string `json:"id"`
			} `json:"meals"`
		} `json:"days"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	for _, day := range result.Days {
		if len(day.Meals) > 0 {
			return nil
		}
	}
	return fmt.Errorf("scheduled meal not found in plan")
}

func testGenerateShoppingList() error {
	payload := map[string]interface{}{
		"from": testDate + "T00:00:00Z",
		"to":   testDate + "T00:00:00Z",
	}

	var result struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	if err := postJSON("/v1/shopping-list/generate", payload, http.StatusOK, &result); err != nil {
		return err
	}

	if len(result.Items) == 0 {
		return fmt.Errorf("generated shopping list is empty")
	}
	return nil
}

func testGetShoppingList() error {
	req, err := http.NewRequest("GET", apiBase+"/v1/shopping-list", nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return unexpectedStatus(resp)
	}

	return nil
}

func testShareMealPlan() error {
	url := fmt.Sprintf("%s/v1/share/meal-plan?from=%s&to=%s", apiBase, testDate, testDate)
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return unexpectedStatus(resp)
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	if !strings.Contains(result.URL, "://meal-plan?data=") {
		return fmt.Errorf("unexpected share link: %s", result.URL)
	}

	shareLink = result.URL
	return nil
}

func testImportPreview() error {
	if shareLink == "" {
		return fmt.Errorf("no share link to preview")
	}

	var result struct {
		Kind      string `json:"kind"`
		MealCount int    `json:"meal_count"`
	}
	if err := postJSON("/v1/share/import/preview", map[string]interface{}{"url": shareLink}, http.StatusOK, &result); err != nil {
		return err
	}

	if result.Kind != "meal-plan" {
		return fmt.Errorf("unexpected preview kind %q", result.Kind)
	}
	if result.MealCount == 0 {
		return fmt.Errorf("preview reports zero meals")
	}
	return nil
}

func testExportShoppingListCSV() error {
	url := fmt.Sprintf("%s/v1/exports/shopping-list?format=csv", apiBase)
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return unexpectedStatus(resp)
	}

	// Inline delivery returns the raw CSV; blob delivery returns a JSON envelope
	// with a presigned URL. Accept both.
	contentType := resp.Header.Get("Content-Type")
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}

	if strings.Contains(contentType, "application/json") {
		var result struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(data, &result); err != nil {
			return fmt.Errorf("decode failed: %w", err)
		}
		if result.URL == "" {
			return fmt.Errorf("blob delivery without url")
		}
		return nil
	}

	if !strings.HasPrefix(string(data), "Item,Category,Count,Checked") {
		return fmt.Errorf("unexpected CSV header: %.60s", string(data))
	}
	return nil
}

func testDeleteScheduledMeal() error {
	return deleteResource("/v1/plan/meals/" + createdIDs["scheduled"])
}

func testDeleteMeal() error {
	return deleteResource("/v1/meals/" + createdIDs["meal"])
}

func testClearShoppingList() error {
	return deleteResource("/v1/shopping-list")
}

// Helper functions

func postJSON(path string, payload interface{}, wantStatus int, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", apiBase+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return unexpectedStatus(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode failed: %w", err)
		}
	}
	return nil
}

func deleteResource(path string) error {
	req, err := http.NewRequest("DELETE", apiBase+path, nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return unexpectedStatus(resp)
	}
	return nil
}

func unexpectedStatus(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
}

func addAuth(req *http.Request) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func maskString(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
