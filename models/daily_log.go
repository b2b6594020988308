package models

import "time"

// DailyLog aggregates one user's meals for one calendar date.
// ConsumedCalories must always equal the sum of Meals[*].Calories.
type DailyLog struct {
	ID               uint        `gorm:"primaryKey" json:"-"`
	UserID           uint        `gorm:"not null;uniqueIndex:uidx_daily_logs_user_date" json:"-"`
	Date             string      `gorm:"size:10;not null;uniqueIndex:uidx_daily_logs_user_date" json:"date"`
	ConsumedCalories int         `gorm:"not null;default:0" json:"consumed_calories"`
	Meals            []MealEntry `gorm:"serializer:json;type:jsonb" json:"meals"`
	Version          int64       `gorm:"not null;default:0" json:"version"`
	CreatedAt        time.Time   `json:"-"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// Clone returns a deep copy safe to mutate.
func (d *DailyLog) Clone() *DailyLog {
	out := *d
	out.Meals = append([]MealEntry(nil), d.Meals...)
	return &out
}

// MealsTotal sums the calories of all entries.
func (d *DailyLog) MealsTotal() int {
	total := 0
	for _, m := range d.Meals {
		total += m.Calories
	}
	return total
}

// FindMeal returns the index of the entry with the given id, or -1.
func (d *DailyLog) FindMeal(id string) int {
	for i, m := range d.Meals {
		if m.ID == id {
			return i
		}
	}
	return -1
}
