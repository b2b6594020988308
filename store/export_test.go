package store

import (
	"gorm.io/gorm"

	"github.com/nutrixpro/nutrix-backend/models"
)

// SetBeforeWrite installs a hook that runs inside each daily-log transaction
// right before the conditional write.
func SetBeforeWrite(g *Gorm, fn func(tx *gorm.DB, current *models.DailyLog, exists bool) error) {
	g.beforeWrite = fn
}
