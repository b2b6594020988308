package services

import (
	"context"
	"math"
	"time"

	"github.com/nutrixpro/nutrix-backend/store"
	"github.com/nutrixpro/nutrix-backend/utils"
)

// maxRangeDays bounds a single analytics query.
const maxRangeDays = 366

type AnalyticsService struct {
	ledger   store.LedgerStore
	profiles store.ProfileStore
}

func NewAnalyticsService(ledger store.LedgerStore, profiles store.ProfileStore) *AnalyticsService {
	return &AnalyticsService{ledger: ledger, profiles: profiles}
}

type RangeSummary struct {
	From string        `json:"from"`
	To   string        `json:"to"`
	Days []*DaySummary `json:"days"`

	AvgConsumed  float64 `json:"avg_consumed"`
	AvgPercent   float64 `json:"avg_percent"`
	DaysOverGoal int     `json:"days_over_goal"`

	Metadata struct {
		DaysCounted        int  `json:"days_counted"`
		IncludeMissingDays bool `json:"include_missing_days"`
	} `json:"metadata"`
}

// Range summarizes every logged day in from..to. With includeMissing, days
// without a log count as zero intake.
func (s *AnalyticsService) Range(ctx context.Context, userID uint, from, to string, includeMissing bool) (*RangeSummary, error) {
	var err error
	if from, err = validateDate(from); err != nil {
		return nil, err
	}
	if to, err = validateDate(to); err != nil {
		return nil, err
	}
	if from > to {
		return nil, NewValidationError("from", "must not be after to")
	}
	start, _ := time.Parse(utils.DateKeyLayout, from)
	end, _ := time.Parse(utils.DateKeyLayout, to)
	// Sub saturates, so this holds even for ranges spanning millennia
	if int64(end.Sub(start)/(24*time.Hour))+1 > maxRangeDays {
		return nil, NewValidationError("to", "range is longer than a year")
	}
	dates, err := utils.DateRange(from, to)
	if err != nil {
		return nil, err
	}

	u, err := s.profiles.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	goal := goalOf(u)

	logs, err := s.ledger.ListDailyLogs(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]*DaySummary, len(logs))
	for _, l := range logs {
		byDate[l.Date] = summarize(l.Date, l.ConsumedCalories, goal, len(l.Meals))
	}

	out := &RangeSummary{From: from, To: to, Days: []*DaySummary{}}
	out.Metadata.IncludeMissingDays = includeMissing

	var sumConsumed, sumPct float64
	for _, d := range dates {
		day, ok := byDate[d]
		if !ok {
			if !includeMissing {
				continue
			}
			day = summarize(d, 0, goal, 0)
		}
		out.Days = append(out.Days, day)
		sumConsumed += float64(day.Consumed)
		sumPct += day.Percent
		if day.Consumed > goal {
			out.DaysOverGoal++
		}
	}

	n := len(out.Days)
	out.Metadata.DaysCounted = n
	out.AvgConsumed = round2(avg(sumConsumed, n))
	out.AvgPercent = round2(avg(sumPct, n))
	return out, nil
}

func avg(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }
