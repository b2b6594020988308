// Package store holds the persistence ports used by services and their gorm implementation.
package store

import (
	"context"
	"errors"

	"github.com/nutrixpro/nutrix-backend/models"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrAlreadyExists is returned on a unique-key violation outside the ledger.
	ErrAlreadyExists = errors.New("store: already exists")
	// ErrConflict marks a lost optimistic write; UpdateDailyLog retries on it.
	ErrConflict = errors.New("store: write conflict")
	// ErrTooManyConflicts is returned once the retry budget is spent. Retryable by the caller.
	ErrTooManyConflicts = errors.New("store: write conflict retry budget exhausted")
)

// DailyLogMutation receives a private copy of the day's log and returns the
// log to persist. exists is false when the day has no document yet, in which
// case current is an empty log for that date. Returning an error aborts the
// transaction without writing.
type DailyLogMutation func(current *models.DailyLog, exists bool) (*models.DailyLog, error)

// LedgerStore persists DailyLog documents.
type LedgerStore interface {
	GetDailyLog(ctx context.Context, userID uint, date string) (*models.DailyLog, error)
	// UpdateDailyLog runs fn inside a read-then-conditional-write transaction,
	// re-reading and re-running fn when a concurrent writer got there first.
	UpdateDailyLog(ctx context.Context, userID uint, date string, fn DailyLogMutation) (*models.DailyLog, error)
	ListDailyLogs(ctx context.Context, userID uint, from, to string) ([]*models.DailyLog, error)
}

// ProfileStore persists user profiles.
type ProfileStore interface {
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	GetUser(ctx context.Context, userID uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, userID uint, fn func(u *models.User) error) (*models.User, error)
}

// WeightStore persists weight samples.
type WeightStore interface {
	AddWeightSample(ctx context.Context, userID uint, weight float64) (*models.WeightSample, error)
	ListWeightSamples(ctx context.Context, userID uint) ([]*models.WeightSample, error)
}
