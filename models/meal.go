package models

import "strings"

// MealType classifies a logged meal.
type MealType string

const (
	MealBreakfast MealType = "Café da Manhã"
	MealLunch     MealType = "Almoço"
	MealDinner    MealType = "Jantar"
	MealSnack     MealType = "Lanche"
)

var mealTypeAliases = map[string]MealType{
	"café da manhã": MealBreakfast,
	"cafe da manha": MealBreakfast,
	"breakfast":     MealBreakfast,
	"almoço":        MealLunch,
	"almoco":        MealLunch,
	"lunch":         MealLunch,
	"jantar":        MealDinner,
	"dinner":        MealDinner,
	"lanche":        MealSnack,
	"snack":         MealSnack,
}

// ParseMealType maps a client label onto one of the four meal types.
func ParseMealType(s string) (MealType, bool) {
	t, ok := mealTypeAliases[strings.ToLower(strings.TrimSpace(s))]
	return t, ok
}

// MealEntry is one logged food item inside a DailyLog.
type MealEntry struct {
	ID          string   `json:"id"`
	Type        MealType `json:"type"`
	Description string   `json:"description"`
	Calories    int      `json:"calories"`
}
