package utils

import (
	"math"
	"strconv"
	"strings"
)

// FallbackCalorieGoal is returned whenever the profile is incomplete.
const FallbackCalorieGoal = 2000

// Sex is the biological-sex category used by the BMR formula.
type Sex int

const (
	SexUnset Sex = iota
	SexMale
	SexFemale
	// SexOther covers "Prefiro não informar" and any unrecognized answer; no BMR adjustment.
	SexOther
)

// ActivityLevel is one of the five activity tiers.
type ActivityLevel int

const (
	ActivityUnset ActivityLevel = iota
	ActivitySedentary
	ActivityLight
	ActivityModerate
	ActivityVeryActive
	ActivityAthlete
	ActivityUnknown
)

// Goal is one of the five objective tiers.
type Goal int

const (
	GoalUnset Goal = iota
	GoalWeightLoss
	GoalMuscleGain
	GoalMaintenance
	GoalReeducation
	GoalPerformance
	GoalUnknown
)

var activityFactors = map[ActivityLevel]float64{
	ActivitySedentary:  1.2,
	ActivityLight:      1.375,
	ActivityModerate:   1.55,
	ActivityVeryActive: 1.725,
	ActivityAthlete:    1.9,
}

const defaultActivityFactor = 1.55

var goalAdjustments = map[Goal]float64{
	GoalWeightLoss:  -500,
	GoalMuscleGain:  300,
	GoalMaintenance: 0,
	GoalReeducation: -250,
	GoalPerformance: 200,
}

var sexLabels = map[string]Sex{
	"masculino": SexMale,
	"male":      SexMale,
	"m":         SexMale,
	"feminino":  SexFemale,
	"female":    SexFemale,
	"f":         SexFemale,
}

var activityLabels = map[string]ActivityLevel{
	"sedentário (sem exercícios regulares)": ActivitySedentary,
	"sedentário":                        ActivitySedentary,
	"sedentary":                         ActivitySedentary,
	"levemente ativo (1–2x por semana)": ActivityLight,
	"levemente ativo":                   ActivityLight,
	"light":                             ActivityLight,
	"lightly_active":                    ActivityLight,
	"moderadamente ativo (3–4x por semana)": ActivityModerate,
	"moderadamente ativo":                   ActivityModerate,
	"moderate":                              ActivityModerate,
	"moderately_active":                     ActivityModerate,
	"muito ativo (5+ vezes por semana)":     ActivityVeryActive,
	"muito ativo":                           ActivityVeryActive,
	"very_active":                           ActivityVeryActive,
	"atleta":                                ActivityAthlete,
	"athlete":                               ActivityAthlete,
}

var goalLabels = map[string]Goal{
	"emagrecimento":                  GoalWeightLoss,
	"weight_loss":                    GoalWeightLoss,
	"ganho de massa muscular":        GoalMuscleGain,
	"muscle_gain":                    GoalMuscleGain,
	"manutenção de peso":             GoalMaintenance,
	"maintenance":                    GoalMaintenance,
	"reeducação alimentar":           GoalReeducation,
	"reeducation":                    GoalReeducation,
	"melhorar performance esportiva": GoalPerformance,
	"performance":                    GoalPerformance,
}

func normalizeLabel(s string) string {
	// the questionnaire uses an en dash in "1–2x"; accept a plain hyphen too
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "–")
}

func lookupLabel[T any](labels map[string]T, s string) (T, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if v, ok := labels[key]; ok {
		return v, true
	}
	v, ok := labels[normalizeLabel(s)]
	return v, ok
}

// ParseSex maps a questionnaire answer to a Sex. Empty input is SexUnset.
func ParseSex(s string) Sex {
	if strings.TrimSpace(s) == "" {
		return SexUnset
	}
	if v, ok := lookupLabel(sexLabels, s); ok {
		return v
	}
	return SexOther
}

// ParseActivityLevel maps a questionnaire answer to an ActivityLevel.
func ParseActivityLevel(s string) ActivityLevel {
	if strings.TrimSpace(s) == "" {
		return ActivityUnset
	}
	if v, ok := lookupLabel(activityLabels, s); ok {
		return v
	}
	return ActivityUnknown
}

// ParseGoal maps a questionnaire answer to a Goal. "Outros" becomes GoalUnknown.
func ParseGoal(s string) Goal {
	if strings.TrimSpace(s) == "" {
		return GoalUnset
	}
	if v, ok := lookupLabel(goalLabels, s); ok {
		return v
	}
	return GoalUnknown
}

// CalorieProfile is the input of the goal calculator. Zero numeric values and
// Unset categories mean "not answered".
type CalorieProfile struct {
	WeightKg float64
	HeightCm float64
	AgeYears float64
	Sex      Sex
	Activity ActivityLevel
	Goal     Goal
}

// Complete reports whether all six inputs are present.
func (p CalorieProfile) Complete() bool {
	missing := func(v float64) bool { return v == 0 || math.IsNaN(v) || math.IsInf(v, 0) }
	if missing(p.WeightKg) || missing(p.HeightCm) || missing(p.AgeYears) {
		return false
	}
	return p.Sex != SexUnset && p.Activity != ActivityUnset && p.Goal != GoalUnset
}

// CalorieBreakdown exposes the intermediate values of the calculation.
type CalorieBreakdown struct {
	BMR            float64 `json:"bmr"`
	ActivityFactor float64 `json:"activity_factor"`
	TDEE           float64 `json:"tdee"`
	Adjustment     float64 `json:"adjustment"`
	DailyCalories  int     `json:"daily_calories"`
	Fallback       bool    `json:"fallback"`
}

// maxDailyCalories bounds a computed goal; anything beyond it comes from
// nonsensical body measurements.
const maxDailyCalories = 1_000_000

// BreakdownCalories runs Mifflin-St Jeor, scales by the activity factor and
// applies the goal adjustment. Incomplete profiles get FallbackCalorieGoal.
func BreakdownCalories(p CalorieProfile) CalorieBreakdown {
	if !p.Complete() {
		return CalorieBreakdown{DailyCalories: FallbackCalorieGoal, Fallback: true}
	}

	bmr := 10*p.WeightKg + 6.25*p.HeightCm - 5*p.AgeYears
	switch p.Sex {
	case SexMale:
		bmr += 5
	case SexFemale:
		bmr -= 161
	}

	factor, ok := activityFactors[p.Activity]
	if !ok {
		factor = defaultActivityFactor
	}
	tdee := bmr * factor
	adj := goalAdjustments[p.Goal]
	total := math.Floor(tdee + adj + 0.5)
	// absurd inputs are treated like missing ones rather than overflowing int
	if math.IsNaN(total) || math.Abs(total) > maxDailyCalories {
		return CalorieBreakdown{DailyCalories: FallbackCalorieGoal, Fallback: true}
	}

	return CalorieBreakdown{
		BMR:            bmr,
		ActivityFactor: factor,
		TDEE:           tdee,
		Adjustment:     adj,
		// half-up rounding, so x.5 always goes toward +inf
		DailyCalories: int(total),
	}
}

// DailyCalorieGoal returns the recommended daily calorie intake. It never fails.
func DailyCalorieGoal(p CalorieProfile) int {
	return BreakdownCalories(p).DailyCalories
}

// Questionnaire keys.
const (
	FormWeight   = "peso"
	FormHeight   = "altura"
	FormAge      = "idade"
	FormSex      = "genero"
	FormActivity = "nivelAtividade"
	FormGoal     = "objetivo"
)

// ProfileFromForm reads the calculator inputs out of the questionnaire answers.
func ProfileFromForm(form map[string]any) CalorieProfile {
	return CalorieProfile{
		WeightKg: FormNumber(form, FormWeight),
		HeightCm: FormNumber(form, FormHeight),
		AgeYears: FormNumber(form, FormAge),
		Sex:      ParseSex(FormString(form, FormSex)),
		Activity: ParseActivityLevel(FormString(form, FormActivity)),
		Goal:     ParseGoal(FormString(form, FormGoal)),
	}
}

// GoalFromForm is DailyCalorieGoal over questionnaire answers.
func GoalFromForm(form map[string]any) int {
	return DailyCalorieGoal(ProfileFromForm(form))
}

// FormNumber returns a numeric answer, or 0 when absent or not numeric.
// Numeric strings are accepted, with either "." or "," as decimal separator.
func FormNumber(form map[string]any, key string) float64 {
	switch v := form[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case interface{ Float64() (float64, error) }:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(v), ",", "."), 64)
		if err != nil || math.IsInf(f, 0) {
			return 0
		}
		return f
	}
	return 0
}

// FormString returns a string answer, or "" when absent.
func FormString(form map[string]any, key string) string {
	s, _ := form[key].(string)
	return s
}
