package utils

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioForm() map[string]any {
	return map[string]any{
		FormWeight:   70,
		FormHeight:   175,
		FormAge:      25,
		FormSex:      "Masculino",
		FormActivity: "Moderadamente ativo (3–4x por semana)",
		FormGoal:     "Emagrecimento",
	}
}

func TestDailyCalorieGoal_Scenario(t *testing.T) {
	b := BreakdownCalories(ProfileFromForm(scenarioForm()))
	assert.False(t, b.Fallback)
	assert.InDelta(t, 1673.75, b.BMR, 1e-9)
	assert.InDelta(t, 2594.3125, b.TDEE, 1e-9)
	assert.Equal(t, -500.0, b.Adjustment)
	assert.Equal(t, 2094, b.DailyCalories)
}

func TestDailyCalorieGoal_Deterministic(t *testing.T) {
	p := ProfileFromForm(scenarioForm())
	first := DailyCalorieGoal(p)
	for i := 0; i < 50; i++ {
		require.Equal(t, first, DailyCalorieGoal(p))
	}
}

func TestDailyCalorieGoal_FallbackOnAnyMissingInput(t *testing.T) {
	for _, key := range []string{FormWeight, FormHeight, FormAge, FormSex, FormActivity, FormGoal} {
		form := scenarioForm()
		delete(form, key)
		assert.Equal(t, FallbackCalorieGoal, GoalFromForm(form), "without %s", key)
	}

	form := scenarioForm()
	form[FormWeight] = 0
	assert.Equal(t, FallbackCalorieGoal, GoalFromForm(form), "zero weight counts as missing")

	p := ProfileFromForm(scenarioForm())
	p.HeightCm = math.NaN()
	assert.Equal(t, FallbackCalorieGoal, DailyCalorieGoal(p))

	assert.Equal(t, FallbackCalorieGoal, GoalFromForm(nil))
}

func TestDailyCalorieGoal_FallbackOnAbsurdMeasurements(t *testing.T) {
	for name, mutate := range map[string]func(p *CalorieProfile){
		"huge weight":     func(p *CalorieProfile) { p.WeightKg = 1e308 },
		"huge height":     func(p *CalorieProfile) { p.HeightCm = 1e300 },
		"negative huge":   func(p *CalorieProfile) { p.WeightKg = -1e300 },
		"infinite age":    func(p *CalorieProfile) { p.AgeYears = math.Inf(1) },
		"infinite weight": func(p *CalorieProfile) { p.WeightKg = math.Inf(-1) },
	} {
		p := ProfileFromForm(scenarioForm())
		mutate(&p)
		b := BreakdownCalories(p)
		assert.True(t, b.Fallback, name)
		assert.Equal(t, FallbackCalorieGoal, b.DailyCalories, name)
	}
}

func TestDailyCalorieGoal_Tables(t *testing.T) {
	base := CalorieProfile{WeightKg: 60, HeightCm: 165, AgeYears: 30, Sex: SexFemale, Activity: ActivitySedentary, Goal: GoalMaintenance}
	// 600 + 1031.25 - 150 - 161 = 1320.25
	assert.Equal(t, 1584, DailyCalorieGoal(base))

	other := base
	other.Sex = SexOther
	assert.Equal(t, int(math.Floor(1481.25*1.2+0.5)), DailyCalorieGoal(other))

	unknown := base
	unknown.Activity = ActivityUnknown
	unknown.Goal = GoalUnknown
	assert.Equal(t, int(math.Floor(1320.25*1.55+0.5)), DailyCalorieGoal(unknown))

	athlete := base
	athlete.Activity = ActivityAthlete
	athlete.Goal = GoalMuscleGain
	assert.Equal(t, int(math.Floor(1320.25*1.9+300+0.5)), DailyCalorieGoal(athlete))
}

func TestParseLabels(t *testing.T) {
	assert.Equal(t, SexMale, ParseSex(" masculino "))
	assert.Equal(t, SexFemale, ParseSex("Feminino"))
	assert.Equal(t, SexOther, ParseSex("Prefiro não informar"))
	assert.Equal(t, SexUnset, ParseSex(""))

	assert.Equal(t, ActivityLight, ParseActivityLevel("Levemente ativo (1-2x por semana)"))
	assert.Equal(t, ActivityVeryActive, ParseActivityLevel("very_active"))
	assert.Equal(t, ActivityUnknown, ParseActivityLevel("às vezes"))
	assert.Equal(t, ActivityUnset, ParseActivityLevel(" "))

	assert.Equal(t, GoalReeducation, ParseGoal("Reeducação alimentar"))
	assert.Equal(t, GoalPerformance, ParseGoal("Melhorar performance esportiva"))
	assert.Equal(t, GoalUnknown, ParseGoal("Outros"))
}

func TestFormNumber(t *testing.T) {
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"peso": 72.5}`), &decoded))

	form := map[string]any{"a": "80,5", "b": "abc", "c": int64(3), "d": float32(1.5), "e": json.Number("12")}
	assert.Equal(t, 72.5, FormNumber(decoded, "peso"))
	assert.Equal(t, 80.5, FormNumber(form, "a"))
	assert.Zero(t, FormNumber(form, "b"))
	assert.Equal(t, 3.0, FormNumber(form, "c"))
	assert.Equal(t, 1.5, FormNumber(form, "d"))
	assert.Equal(t, 12.0, FormNumber(form, "e"))
	assert.Zero(t, FormNumber(form, "missing"))
}
