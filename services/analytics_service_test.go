package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrixpro/nutrix-backend/store/storetest"
)

func TestSummary_DayAgainstGoal(t *testing.T) {
	st := storetest.NewStore(t)
	u := createUser(t, st, scenarioForm())
	ledger := NewLedgerService(st, NewRealtimeHub(zerolog.Nop()), zerolog.Nop())
	svc := NewSummaryService(ledger, st)
	ctx := context.Background()

	_, _, err := ledger.AddMeal(ctx, u.ID, LogMealInput{Date: "2026-03-10", Type: "Almoço", Description: "prato", Calories: 1047})
	require.NoError(t, err)

	sum, err := svc.DaySummary(ctx, u.ID, "2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, 2094, sum.Goal)
	assert.Equal(t, 1047, sum.Consumed)
	assert.Equal(t, 1047, sum.Remaining)
	assert.InDelta(t, 0.5, sum.Percent, 0.0001)
	assert.Equal(t, 1, sum.MealCount)

	_, _, err = ledger.AddMeal(ctx, u.ID, LogMealInput{Date: "2026-03-10", Type: "Jantar", Description: "rodízio", Calories: 2000})
	require.NoError(t, err)
	sum, err = svc.DaySummary(ctx, u.ID, "2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, 1.0, sum.Percent, "percent is clamped")
	assert.Negative(t, sum.Remaining)
}

func TestSummary_IncompleteProfileUsesFallback(t *testing.T) {
	st := storetest.NewStore(t)
	u := createUser(t, st, nil)
	ledger := NewLedgerService(st, NewRealtimeHub(zerolog.Nop()), zerolog.Nop())

	sum, err := NewSummaryService(ledger, st).DaySummary(context.Background(), u.ID, "2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, 2000, sum.Goal)
	assert.Zero(t, sum.Consumed)
}

func TestAnalytics_Range(t *testing.T) {
	st := storetest.NewStore(t)
	u := createUser(t, st, nil)
	ledger := NewLedgerService(st, NewRealtimeHub(zerolog.Nop()), zerolog.Nop())
	svc := NewAnalyticsService(st, st)
	ctx := context.Background()

	for date, kcal := range map[string]int{"2026-03-01": 1500, "2026-03-03": 2500} {
		_, _, err := ledger.AddMeal(ctx, u.ID, LogMealInput{Date: date, Type: "Almoço", Description: "prato", Calories: kcal})
		require.NoError(t, err)
	}

	res, err := svc.Range(ctx, u.ID, "2026-03-01", "2026-03-04", false)
	require.NoError(t, err)
	require.Len(t, res.Days, 2)
	assert.Equal(t, "2026-03-01", res.Days[0].Date)
	assert.Equal(t, "2026-03-03", res.Days[1].Date)
	assert.Equal(t, 2000.0, res.AvgConsumed)
	assert.Equal(t, 1, res.DaysOverGoal)
	assert.Equal(t, 2, res.Metadata.DaysCounted)

	res, err = svc.Range(ctx, u.ID, "2026-03-01", "2026-03-04", true)
	require.NoError(t, err)
	require.Len(t, res.Days, 4)
	assert.Equal(t, 1000.0, res.AvgConsumed)
	assert.True(t, res.Metadata.IncludeMissingDays)

	_, err = svc.Range(ctx, u.ID, "2026-03-05", "2026-03-01", false)
	assert.True(t, IsValidationError(err))
}

func TestAnalytics_RangeRejectsOverlongSpanBeforeExpanding(t *testing.T) {
	st := storetest.NewStore(t)
	u := createUser(t, st, nil)
	svc := NewAnalyticsService(st, st)
	ctx := context.Background()

	_, err := svc.Range(ctx, u.ID, "0001-01-01", "9999-12-31", false)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	_, err = svc.Range(ctx, u.ID, "2025-01-01", "2026-01-02", true)
	assert.True(t, IsValidationError(err), "367 days")

	res, err := svc.Range(ctx, u.ID, "2024-01-01", "2024-12-31", true)
	require.NoError(t, err, "a leap year is exactly the limit")
	assert.Len(t, res.Days, 366)
}
