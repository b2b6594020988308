package models

import (
	"time"
)

// FormResponses holds the onboarding questionnaire answers as sent by the
// client (peso, altura, idade, genero, nivelAtividade, objetivo, ...).
type FormResponses map[string]any

// CachedTips are the last AI-generated tips and when they were produced.
type CachedTips struct {
	Tips        []string  `json:"tips"`
	GeneratedAt time.Time `json:"generated_at"`
}

// User is the per-account profile.
type User struct {
	ID               uint          `gorm:"primaryKey" json:"id"`
	Email            string        `gorm:"uniqueIndex;not null" json:"email"`
	Password         string        `gorm:"not null" json:"-"`
	DisplayName      string        `json:"display_name"`
	TimeZone         string        `gorm:"size:64" json:"time_zone,omitempty"`
	Onboarded        bool          `gorm:"not null;default:false" json:"onboarded"`
	FormResponses    FormResponses `gorm:"serializer:json;type:jsonb" json:"form_responses,omitempty"`
	DailyCalorieGoal *int          `json:"daily_calorie_goal,omitempty"`
	CachedTips       *CachedTips   `gorm:"serializer:json;type:jsonb" json:"cached_tips,omitempty"`
	ProfilePicture   string        `json:"profile_picture,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}
