package entitlement

import (
	"time"

	"github.com/fdg312/simplemeal/internal/storage"
)

// Policy answers gating questions from a premium flag plus limits.
// Все расчёты по датам ведутся от начала дня (UTC).
type Policy struct {
	FreeHorizonDays    int
	FreeMealsPerDay    int
	PremiumMealsPerDay int
	FreePlanDays       int
	PremiumPlanDays    int
}

// DefaultPolicy returns the stock limits: free users plan one meal per
// day inside a 7-day window, premium users get 5 meals per day and a
// 30-day window.
func DefaultPolicy() Policy {
	return Policy{
		FreeHorizonDays:    7,
		FreeMealsPerDay:    1,
		PremiumMealsPerDay: 5,
		FreePlanDays:       7,
		PremiumPlanDays:    30,
	}
}

// MaxMealsPerDay — лимит приёмов пищи на один день
func (p Policy) MaxMealsPerDay(isPremium bool) int {
	if isPremium {
		return p.PremiumMealsPerDay
	}
	return p.FreeMealsPerDay
}

// CanAddMeal reports whether another meal fits into a day that already
// holds currentCount meals.
func (p Policy) CanAddMeal(isPremium bool, currentCount int) bool {
	return currentCount < p.MaxMealsPerDay(isPremium)
}

// CanPlanForDate reports whether a date is inside the planning horizon.
// Premium users have no horizon. Free users may plan from today up to
// FreeHorizonDays-1 days ahead; past dates are always out of range.
func (p Policy) CanPlanForDate(isPremium bool, date, now time.Time) bool {
	if isPremium {
		return true
	}

	days := daysBetween(now, date)
	return days >= 0 && days < p.FreeHorizonDays
}

// MaxPlanningDays — максимальная длина плана в днях
func (p Policy) MaxPlanningDays(isPremium bool) int {
	if isPremium {
		return p.PremiumPlanDays
	}
	return p.FreePlanDays
}

// ClampPlanDays ограничивает запрошенную длину плана доступным лимитом
func (p Policy) ClampPlanDays(isPremium bool, requested int) int {
	if requested < 1 {
		return 1
	}
	if limit := p.MaxPlanningDays(isPremium); requested > limit {
		return limit
	}
	return requested
}

// daysBetween counts whole calendar days between the start-of-day of
// from and the start-of-day of to. Negative when to precedes from.
func daysBetween(from, to time.Time) int {
	a := storage.StartOfDay(from)
	b := storage.StartOfDay(to)
	return int(b.Sub(a).Hours() / 24)
}
