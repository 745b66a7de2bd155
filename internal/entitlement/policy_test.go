package entitlement

import (
	"testing"
	"time"
)

func TestPolicyMaxMealsPerDay(t *testing.T) {
	p := DefaultPolicy()

	if got := p.MaxMealsPerDay(false); got != 1 {
		t.Errorf("free MaxMealsPerDay = %d, want 1", got)
	}
	if got := p.MaxMealsPerDay(true); got != 5 {
		t.Errorf("premium MaxMealsPerDay = %d, want 5", got)
	}
}

func TestPolicyCanAddMeal(t *testing.T) {
	p := DefaultPolicy()

	if !p.CanAddMeal(false, 0) {
		t.Error("free user with empty day should be able to add a meal")
	}
	if p.CanAddMeal(false, 1) {
		t.Error("free user at limit should not be able to add a meal")
	}
	if !p.CanAddMeal(true, 4) {
		t.Error("premium user with 4 meals should be able to add a fifth")
	}
	if p.CanAddMeal(true, 5) {
		t.Error("premium user at limit should not be able to add a meal")
	}
}

func TestPolicyCanPlanForDate(t *testing.T) {
	p := DefaultPolicy()
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name       string
		offsetDays int
		isPremium  bool
		want       bool
	}{
		{"free yesterday", -1, false, false},
		{"free today", 0, false, true},
		{"free day 6", 6, false, true},
		{"free day 7", 7, false, false},
		{"free far future", 30, false, false},
		{"premium yesterday", -1, true, true},
		{"premium far future", 365, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date := now.AddDate(0, 0, tt.offsetDays)
			if got := p.CanPlanForDate(tt.isPremium, date, now); got != tt.want {
				t.Errorf("CanPlanForDate(offset %d) = %v, want %v", tt.offsetDays, got, tt.want)
			}
		})
	}
}

func TestPolicyCanPlanForDateIgnoresTimeOfDay(t *testing.T) {
	p := DefaultPolicy()

	// 23:59 today against 00:01 on day 6: still inside the window.
	now := time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC)
	date := time.Date(2025, 6, 21, 0, 1, 0, 0, time.UTC)
	if !p.CanPlanForDate(false, date, now) {
		t.Error("day 6 at 00:01 should be plannable for a free user")
	}

	// Earlier hour on a day past the window must not sneak in.
	date = time.Date(2025, 6, 22, 0, 1, 0, 0, time.UTC)
	if p.CanPlanForDate(false, date, now) {
		t.Error("day 7 should be out of range for a free user")
	}
}

func TestPolicyClampPlanDays(t *testing.T) {
	p := DefaultPolicy()

	if got := p.ClampPlanDays(false, 30); got != 7 {
		t.Errorf("free clamp(30) = %d, want 7", got)
	}
	if got := p.ClampPlanDays(true, 30); got != 30 {
		t.Errorf("premium clamp(30) = %d, want 30", got)
	}
	if got := p.ClampPlanDays(true, 60); got != 30 {
		t.Errorf("premium clamp(60) = %d, want 30", got)
	}
	if got := p.ClampPlanDays(false, 0); got != 1 {
		t.Errorf("clamp(0) = %d, want 1", got)
	}
	if got := p.ClampPlanDays(false, 3); got != 3 {
		t.Errorf("free clamp(3) = %d, want 3", got)
	}
}
