package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nutrixpro/nutrix-backend/models"
)

const defaultMaxAttempts = 5

// Gorm implements LedgerStore, ProfileStore and WeightStore over one *gorm.DB.
// The DB must be opened with TranslateError so duplicate keys surface as
// gorm.ErrDuplicatedKey.
type Gorm struct {
	db          *gorm.DB
	log         zerolog.Logger
	maxAttempts int
	now         func() time.Time
	// beforeWrite runs inside the transaction just before the conditional
	// write; tests use it to simulate a concurrent writer.
	beforeWrite func(tx *gorm.DB, current *models.DailyLog, exists bool) error
}

// Option configures a Gorm store.
type Option func(*Gorm)

// WithMaxAttempts sets how many times a conflicting daily-log write is retried.
func WithMaxAttempts(n int) Option {
	return func(g *Gorm) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithClock overrides the server clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Gorm) { g.now = now }
}

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(g *Gorm) { g.log = log }
}

func NewGorm(db *gorm.DB, opts ...Option) *Gorm {
	g := &Gorm{db: db, log: zerolog.Nop(), maxAttempts: defaultMaxAttempts, now: time.Now}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Migrate creates or updates the tables this store needs.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.DailyLog{},
		&models.WeightSample{},
	)
}

// HealthPing checks database connectivity.
func (g *Gorm) HealthPing(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// --- Daily logs ---

func (g *Gorm) GetDailyLog(ctx context.Context, userID uint, date string) (*models.DailyLog, error) {
	var out models.DailyLog
	err := g.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateDailyLog stops between attempts once ctx is done, but an attempt that
// has started always runs to commit or rollback.
func (g *Gorm) UpdateDailyLog(ctx context.Context, userID uint, date string, fn DailyLogMutation) (*models.DailyLog, error) {
	txCtx := context.WithoutCancel(ctx)
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := g.tryUpdateDailyLog(txCtx, userID, date, fn)
		if !errors.Is(err, ErrConflict) {
			return out, err
		}
		g.log.Debug().
			Uint("user_id", userID).
			Str("date", date).
			Int("attempt", attempt).
			Msg("daily log write conflict, retrying")
	}
	return nil, fmt.Errorf("daily log %s: %w", date, ErrTooManyConflicts)
}

func (g *Gorm) tryUpdateDailyLog(ctx context.Context, userID uint, date string, fn DailyLogMutation) (*models.DailyLog, error) {
	var out *models.DailyLog
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.DailyLog
		exists := true
		err := tx.Where("user_id = ? AND date = ?", userID, date).Take(&current).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			exists = false
			current = models.DailyLog{UserID: userID, Date: date, Meals: []models.MealEntry{}}
		case err != nil:
			return err
		}

		next, err := fn(current.Clone(), exists)
		if err != nil {
			return err
		}
		next.UserID = userID
		next.Date = date
		if next.Meals == nil {
			next.Meals = []models.MealEntry{}
		}
		if g.beforeWrite != nil {
			if err := g.beforeWrite(tx, &current, exists); err != nil {
				return err
			}
		}

		if !exists {
			next.ID = 0
			next.Version = 1
			if err := tx.Create(next).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrConflict
				}
				return err
			}
			out = next
			return nil
		}

		next.ID = current.ID
		next.CreatedAt = current.CreatedAt
		next.Version = current.Version + 1
		next.UpdatedAt = g.now()
		res := tx.Model(next).
			Where("version = ?", current.Version).
			Select("consumed_calories", "meals", "version", "updated_at").
			Updates(next)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}
		out = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Gorm) ListDailyLogs(ctx context.Context, userID uint, from, to string) ([]*models.DailyLog, error) {
	var out []*models.DailyLog
	err := g.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date ASC").
		Find(&out).Error
	return out, err
}

// --- Users ---

func (g *Gorm) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	out := *u
	if err := g.db.WithContext(ctx).Create(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return &out, nil
}

func (g *Gorm) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var out models.User
	err := g.db.WithContext(ctx).First(&out, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *Gorm) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var out models.User
	err := g.db.WithContext(ctx).Where("email = ?", email).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *Gorm) UpdateUser(ctx context.Context, userID uint, fn func(u *models.User) error) (*models.User, error) {
	var out models.User
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&out, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := fn(&out); err != nil {
			return err
		}
		out.ID = userID
		return tx.Save(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Weight ---

func (g *Gorm) AddWeightSample(ctx context.Context, userID uint, weight float64) (*models.WeightSample, error) {
	ws := &models.WeightSample{UserID: userID, Weight: weight, RecordedAt: g.now().UTC()}
	if err := g.db.WithContext(ctx).Create(ws).Error; err != nil {
		return nil, err
	}
	return ws, nil
}

func (g *Gorm) ListWeightSamples(ctx context.Context, userID uint) ([]*models.WeightSample, error) {
	var out []*models.WeightSample
	err := g.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("recorded_at ASC, id ASC").
		Find(&out).Error
	return out, err
}
