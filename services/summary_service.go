package services

import (
	"context"

	"github.com/nutrixpro/nutrix-backend/models"
	"github.com/nutrixpro/nutrix-backend/store"
	"github.com/nutrixpro/nutrix-backend/utils"
)

// DaySummary compares a day's intake with the user's goal.
type DaySummary struct {
	Date      string  `json:"date"`
	Consumed  int     `json:"consumed"`
	Goal      int     `json:"goal"`
	Remaining int     `json:"remaining"`
	Percent   float64 `json:"percent"`
	MealCount int     `json:"meal_count"`
}

type SummaryService struct {
	ledger   *LedgerService
	profiles store.ProfileStore
}

func NewSummaryService(ledger *LedgerService, profiles store.ProfileStore) *SummaryService {
	return &SummaryService{ledger: ledger, profiles: profiles}
}

func (s *SummaryService) DaySummary(ctx context.Context, userID uint, date string) (*DaySummary, error) {
	u, err := s.profiles.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	day, err := s.ledger.GetDay(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	return summarize(day.Date, day.ConsumedCalories, goalOf(u), len(day.Meals)), nil
}

func goalOf(u *models.User) int {
	if u.DailyCalorieGoal != nil && *u.DailyCalorieGoal > 0 {
		return *u.DailyCalorieGoal
	}
	return utils.GoalFromForm(u.FormResponses)
}

func summarize(date string, consumed, goal, meals int) *DaySummary {
	return &DaySummary{
		Date:      date,
		Consumed:  consumed,
		Goal:      goal,
		Remaining: goal - consumed,
		Percent:   pct(float64(consumed), float64(goal)),
		MealCount: meals,
	}
}

// pct is consumed/target clamped to [0,1].
func pct(consumed, target float64) float64 {
	if target <= 0 || consumed <= 0 {
		return 0
	}
	p := consumed / target
	if p > 1 {
		return 1
	}
	return p
}
