package models

import "time"

// WeightSample is one body-weight measurement. RecordedAt is assigned by the server.
type WeightSample struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index:idx_weight_samples_user_time;not null" json:"-"`
	Weight     float64   `gorm:"not null" json:"weight"`
	RecordedAt time.Time `gorm:"index:idx_weight_samples_user_time;not null" json:"date"`
}
