package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nutrixpro/nutrix-backend/models"
	"github.com/nutrixpro/nutrix-backend/store"
	"github.com/nutrixpro/nutrix-backend/utils"
)

// LedgerService keeps each day's consumedCalories equal to the sum of its meals.
// Every mutation runs as one store transaction; snapshots are published to the
// hub only after commit.
type LedgerService struct {
	store store.LedgerStore
	hub   *RealtimeHub
	log   zerolog.Logger
	newID func() string
}

func NewLedgerService(st store.LedgerStore, hub *RealtimeHub, log zerolog.Logger) *LedgerService {
	return &LedgerService{
		store: st,
		hub:   hub,
		log:   log,
		newID: func() string { return uuid.NewString() },
	}
}

// LogMealInput is a new meal for a day.
type LogMealInput struct {
	Date        string
	Type        string
	Description string
	Calories    int
}

// EditMealInput replaces an existing entry. An empty Type keeps the current one.
type EditMealInput struct {
	Date        string
	EntryID     string
	Type        string
	Description string
	Calories    int
}

func validateDate(date string) (string, error) {
	key, err := utils.ParseDateKey(date)
	if err != nil {
		return "", NewValidationError("date", err.Error())
	}
	return key, nil
}

func validateMealFields(description string, calories int) (string, error) {
	desc := strings.TrimSpace(description)
	if desc == "" {
		return "", NewValidationError("description", "must not be empty")
	}
	if calories <= 0 {
		return "", NewValidationError("calories", "must be greater than zero")
	}
	return desc, nil
}

// GetDay returns the day's current state; an absent day reads as empty.
func (s *LedgerService) GetDay(ctx context.Context, userID uint, date string) (DayView, error) {
	key, err := validateDate(date)
	if err != nil {
		return DayView{}, err
	}
	log, err := s.store.GetDailyLog(ctx, userID, key)
	if errors.Is(err, store.ErrNotFound) {
		return NewDayView(key, nil), nil
	}
	if err != nil {
		return DayView{}, err
	}
	return NewDayView(key, log), nil
}

// AddMeal appends an entry, creating the day on first use.
func (s *LedgerService) AddMeal(ctx context.Context, userID uint, in LogMealInput) (DayView, *models.MealEntry, error) {
	key, err := validateDate(in.Date)
	if err != nil {
		return DayView{}, nil, err
	}
	mealType, ok := models.ParseMealType(in.Type)
	if !ok {
		return DayView{}, nil, NewValidationError("type", "must be one of breakfast, lunch, dinner, snack")
	}
	desc, err := validateMealFields(in.Description, in.Calories)
	if err != nil {
		return DayView{}, nil, err
	}

	entry := models.MealEntry{
		ID:          s.newID(),
		Type:        mealType,
		Description: desc,
		Calories:    in.Calories,
	}
	log, err := s.store.UpdateDailyLog(ctx, userID, key, func(cur *models.DailyLog, exists bool) (*models.DailyLog, error) {
		if !exists {
			cur.ConsumedCalories = entry.Calories
			cur.Meals = []models.MealEntry{entry}
			return cur, nil
		}
		if cur.FindMeal(entry.ID) >= 0 {
			return nil, &ConsistencyError{Date: key, EntryID: entry.ID, Err: errors.New("duplicate meal id")}
		}
		cur.Meals = append(cur.Meals, entry)
		cur.ConsumedCalories += entry.Calories
		return cur, nil
	})
	if err != nil {
		return DayView{}, nil, err
	}
	return s.committed(userID, key, "add", log), &entry, nil
}

// EditMeal replaces an entry in place and shifts the total by the calorie delta.
func (s *LedgerService) EditMeal(ctx context.Context, userID uint, in EditMealInput) (DayView, error) {
	key, err := validateDate(in.Date)
	if err != nil {
		return DayView{}, err
	}
	if strings.TrimSpace(in.EntryID) == "" {
		return DayView{}, NewValidationError("id", "must not be empty")
	}
	var newType models.MealType
	if strings.TrimSpace(in.Type) != "" {
		t, ok := models.ParseMealType(in.Type)
		if !ok {
			return DayView{}, NewValidationError("type", "must be one of breakfast, lunch, dinner, snack")
		}
		newType = t
	}
	desc, err := validateMealFields(in.Description, in.Calories)
	if err != nil {
		return DayView{}, err
	}

	log, err := s.store.UpdateDailyLog(ctx, userID, key, func(cur *models.DailyLog, exists bool) (*models.DailyLog, error) {
		i := cur.FindMeal(in.EntryID)
		if !exists || i < 0 {
			return nil, &ConsistencyError{Date: key, EntryID: in.EntryID, Err: ErrEntryNotFound}
		}
		delta := in.Calories - cur.Meals[i].Calories
		if cur.ConsumedCalories+delta < 0 {
			return nil, &ConsistencyError{Date: key, EntryID: in.EntryID, Err: ErrNegativeTotal}
		}
		cur.Meals[i].Description = desc
		cur.Meals[i].Calories = in.Calories
		if newType != "" {
			cur.Meals[i].Type = newType
		}
		cur.ConsumedCalories += delta
		return cur, nil
	})
	if err != nil {
		return DayView{}, err
	}
	return s.committed(userID, key, "edit", log), nil
}

// DeleteMeal removes an entry and subtracts its calories. A total that would
// go negative aborts the transaction instead of clamping.
func (s *LedgerService) DeleteMeal(ctx context.Context, userID uint, date, entryID string) (DayView, error) {
	key, err := validateDate(date)
	if err != nil {
		return DayView{}, err
	}
	if strings.TrimSpace(entryID) == "" {
		return DayView{}, NewValidationError("id", "must not be empty")
	}

	log, err := s.store.UpdateDailyLog(ctx, userID, key, func(cur *models.DailyLog, exists bool) (*models.DailyLog, error) {
		i := cur.FindMeal(entryID)
		if !exists || i < 0 {
			return nil, &ConsistencyError{Date: key, EntryID: entryID, Err: ErrEntryNotFound}
		}
		removed := cur.Meals[i]
		if cur.ConsumedCalories-removed.Calories < 0 {
			return nil, &ConsistencyError{Date: key, EntryID: entryID, Err: ErrNegativeTotal}
		}
		cur.Meals = append(cur.Meals[:i], cur.Meals[i+1:]...)
		cur.ConsumedCalories -= removed.Calories
		return cur, nil
	})
	if err != nil {
		return DayView{}, err
	}
	return s.committed(userID, key, "delete", log), nil
}

// Subscribe calls fn with the day's current state and then with every
// committed change until cancel is called.
func (s *LedgerService) Subscribe(ctx context.Context, userID uint, date string, fn func(DayView)) (cancel func(), err error) {
	key, err := validateDate(date)
	if err != nil {
		return nil, err
	}
	// register before reading so no commit between the two is missed
	sub, cancel := s.hub.Subscribe(userID, key, fn)
	view, err := s.GetDay(ctx, userID, key)
	if err != nil {
		cancel()
		return nil, err
	}
	sub.Offer(view)
	return cancel, nil
}

func (s *LedgerService) committed(userID uint, date, op string, log *models.DailyLog) DayView {
	view := NewDayView(date, log)
	s.log.Info().
		Uint("user_id", userID).
		Str("date", date).
		Str("op", op).
		Int("consumed_calories", view.ConsumedCalories).
		Int("meals", len(view.Meals)).
		Msg("daily log committed")
	s.hub.Publish(userID, view)
	return view
}
