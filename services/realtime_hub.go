package services

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/nutrixpro/nutrix-backend/models"
)

// DayView is the observable state of one DailyLog.
type DayView struct {
	Date             string             `json:"date"`
	ConsumedCalories int                `json:"consumed_calories"`
	Meals            []models.MealEntry `json:"meals"`
	Version          int64              `json:"version"`
}

// NewDayView builds a view; a nil log is an absent day.
func NewDayView(date string, log *models.DailyLog) DayView {
	if log == nil {
		return DayView{Date: date, Meals: []models.MealEntry{}}
	}
	meals := append([]models.MealEntry{}, log.Meals...)
	return DayView{Date: date, ConsumedCalories: log.ConsumedCalories, Meals: meals, Version: log.Version}
}

type hubKey struct {
	userID uint
	date   string
}

// Subscription is one registered observer.
type Subscription struct {
	mu        sync.Mutex
	fn        func(DayView)
	delivered bool
	version   int64
	cancelled bool
}

// Offer delivers v unless an equal or newer version was already delivered.
func (s *Subscription) Offer(v DayView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled || (s.delivered && v.Version <= s.version) {
		return
	}
	s.delivered = true
	s.version = v.Version
	s.fn(v)
}

// RealtimeHub fans committed day snapshots out to observers of that (user, date).
type RealtimeHub struct {
	mu   sync.RWMutex
	subs map[hubKey]map[*Subscription]struct{}
	log  zerolog.Logger
}

func NewRealtimeHub(log zerolog.Logger) *RealtimeHub {
	return &RealtimeHub{subs: make(map[hubKey]map[*Subscription]struct{}), log: log}
}

// Subscribe registers fn for the given day. Deliveries to one observer are
// serialized and never go back in version. The returned cancel is idempotent.
func (h *RealtimeHub) Subscribe(userID uint, date string, fn func(DayView)) (sub *Subscription, cancel func()) {
	key := hubKey{userID: userID, date: date}
	sub = &Subscription{fn: fn}

	h.mu.Lock()
	if h.subs[key] == nil {
		h.subs[key] = make(map[*Subscription]struct{})
	}
	h.subs[key][sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return sub, func() {
		once.Do(func() {
			h.mu.Lock()
			if set := h.subs[key]; set != nil {
				delete(set, sub)
				if len(set) == 0 {
					delete(h.subs, key)
				}
			}
			h.mu.Unlock()

			sub.mu.Lock()
			sub.cancelled = true
			sub.mu.Unlock()
		})
	}
}

// Publish hands v to every observer of the day.
func (h *RealtimeHub) Publish(userID uint, v DayView) {
	h.mu.RLock()
	set := h.subs[hubKey{userID: userID, date: v.Date}]
	targets := make([]*Subscription, 0, len(set))
	for s := range set {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	for _, s := range targets {
		s.Offer(v)
	}
	if len(targets) > 0 {
		h.log.Debug().Uint("user_id", userID).Str("date", v.Date).Int("observers", len(targets)).Msg("published day snapshot")
	}
}

// Observers returns how many observers are registered for a day.
func (h *RealtimeHub) Observers(userID uint, date string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[hubKey{userID: userID, date: date}])
}
