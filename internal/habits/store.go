// Package habits owns the habit collection: creation, deletion and
// completion, each persisted as one write of the whole collection.
package habits

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/schedule"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

// Clock returns the current time. Injected so tests can pin "now".
type Clock func() time.Time

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for createdAt/updatedAt.
func WithClock(c Clock) Option {
	return func(s *Store) { s.now = c }
}

// WithIDGenerator overrides habit id assignment.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(s *Store) { s.newID = gen }
}

// Store is the single writer of the habit collection. Every mutation holds
// mu across its read-modify-write, and the in-memory collection is replaced
// only after the provider accepted the new blob.
type Store struct {
	provider storage.Provider
	now      Clock
	newID    func() (string, error)

	mu          sync.Mutex
	habits      []models.Habit
	subscribers []func([]models.Habit)
}

func New(provider storage.Provider, opts ...Option) *Store {
	s := &Store{
		provider: provider,
		now:      time.Now,
		newID: func() (string, error) {
			id, err := uuid.NewV7()
			if err != nil {
				return "", err
			}
			return id.String(), nil
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn to receive a snapshot after every load and
// successful mutation. fn runs while the store lock is held and must not
// call back into the Store.
func (s *Store) Subscribe(fn func([]models.Habit)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
	fn(s.cloneLocked())
}

// Load replaces the in-memory collection with the persisted one. A missing
// key yields an empty collection. On failure the collection is reset to
// empty and a *errors.PersistenceError is returned.
func (s *Store) Load() ([]models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded, err := s.read()
	if err != nil {
		logger.Error("Error loading habits", "error", err)
		s.habits = nil
		s.notifyLocked()
		return []models.Habit{}, err
	}

	s.habits = loaded
	logger.Debug("Loaded habits", "count", len(loaded))
	s.notifyLocked()
	return s.cloneLocked(), nil
}

func (s *Store) read() ([]models.Habit, error) {
	data, err := s.provider.Get(constants.HabitsKey)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, &errors.PersistenceError{Op: "load", Key: constants.HabitsKey, Err: err}
	}
	if len(data) == 0 {
		return nil, nil
	}

	var loaded []models.Habit
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, &errors.PersistenceError{Op: "load", Key: constants.HabitsKey, Err: fmt.Errorf("failed to parse habits: %w", err)}
	}
	for i := range loaded {
		if loaded[i].CompletedDates == nil {
			loaded[i].CompletedDates = []models.CompletionEvent{}
		}
	}
	return loaded, nil
}

// persistLocked writes next as the whole collection and adopts it on success.
func (s *Store) persistLocked(next []models.Habit) error {
	if next == nil {
		next = []models.Habit{}
	}
	data, err := json.Marshal(next)
	if err != nil {
		return &errors.PersistenceError{Op: "save", Key: constants.HabitsKey, Err: err}
	}
	if err := s.provider.Set(constants.HabitsKey, data); err != nil {
		return &errors.PersistenceError{Op: "save", Key: constants.HabitsKey, Err: err}
	}

	s.habits = next
	s.notifyLocked()
	return nil
}

// Create validates the draft, assigns id and timestamps, and persists the
// collection with the new habit appended.
func (s *Store) Create(draft models.HabitDraft) (models.Habit, error) {
	habit, err := s.fromDraft(draft)
	if err != nil {
		return models.Habit{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, h := range s.habits {
		if strings.EqualFold(h.Name, habit.Name) {
			return models.Habit{}, &errors.ValidationError{Field: "name", Message: fmt.Sprintf("a habit named %q already exists", h.Name)}
		}
	}

	id, err := s.uniqueIDLocked()
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to assign habit id: %w", err)
	}
	habit.ID = id

	next := append(s.cloneLocked(), habit)
	if err := s.persistLocked(next); err != nil {
		logger.Error("Error adding habit", "name", habit.Name, "error", err)
		return models.Habit{}, err
	}

	logger.Info("Added habit", "id", habit.ID, "name", habit.Name)
	return habit.Clone(), nil
}

func (s *Store) fromDraft(draft models.HabitDraft) (models.Habit, error) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return models.Habit{}, &errors.ValidationError{Field: "name", Message: "please enter a habit name"}
	}

	frequency, err := schedule.NormalizeFrequency(draft.Frequency)
	if err != nil {
		return models.Habit{}, &errors.ValidationError{Field: "frequency", Message: err.Error()}
	}
	if len(frequency) == 0 {
		return models.Habit{}, &errors.ValidationError{Field: "frequency", Message: "please select at least one day"}
	}

	var reminder *string
	if draft.ReminderTime != nil && strings.TrimSpace(*draft.ReminderTime) != "" {
		rt := strings.TrimSpace(*draft.ReminderTime)
		if !utils.ValidateTimeFormat(rt) {
			return models.Habit{}, &errors.ValidationError{Field: "reminderTime", Message: fmt.Sprintf("%q is not HH:MM", rt)}
		}
		reminder = &rt
	}

	now := s.now()
	return models.Habit{
		Name:           name,
		Description:    strings.TrimSpace(draft.Description),
		Frequency:      frequency,
		ReminderTime:   reminder,
		CreatedAt:      now,
		UpdatedAt:      now,
		CompletedDates: []models.CompletionEvent{},
	}, nil
}

func (s *Store) uniqueIDLocked() (string, error) {
	for attempt := 0; attempt < 3; attempt++ {
		id, err := s.newID()
		if err != nil {
			return "", err
		}
		if s.indexLocked(id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("id generator keeps returning existing ids")
}

// Delete removes the habit with the given id. An unknown id is not an error.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.Habit, 0, len(s.habits))
	for _, h := range s.habits {
		if h.ID != id {
			next = append(next, h.Clone())
		}
	}
	removed := len(next) != len(s.habits)

	if err := s.persistLocked(next); err != nil {
		logger.Error("Error deleting habit", "id", id, "error", err)
		return err
	}

	if removed {
		logger.Info("Deleted habit", "id", id)
	} else {
		logger.Debug("Delete of unknown habit ignored", "id", id)
	}
	return nil
}

// Complete records that the habit was done on today's calendar day. The
// scheduled date is the most recent weekday in the habit's frequency on or
// before today; a completion is late when the two differ. A second
// completion on the same day returns the existing event and writes nothing.
func (s *Store) Complete(id string, today time.Time) (models.CompletionEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		err := &errors.NotFoundError{ID: id}
		logger.Warn("Error completing habit", "error", err)
		return models.CompletionEvent{}, err
	}

	todayString := utils.FormatDate(today)
	for _, e := range s.habits[idx].CompletedDates {
		if e.CompletedDate == todayString {
			logger.Debug("Habit already completed today", "id", id, "day", todayString)
			return e, nil
		}
	}

	scheduled, err := schedule.MostRecent(s.habits[idx].Frequency, today)
	if err != nil {
		return models.CompletionEvent{}, &errors.ValidationError{Field: "frequency", Message: err.Error()}
	}
	scheduledString := utils.FormatDate(scheduled)

	event := models.CompletionEvent{
		ScheduledDate: scheduledString,
		CompletedDate: todayString,
		IsLate:        scheduledString != todayString,
	}

	next := s.cloneLocked()
	next[idx].CompletedDates = append(next[idx].CompletedDates, event)
	next[idx].UpdatedAt = s.now()

	if err := s.persistLocked(next); err != nil {
		logger.Error("Error completing habit", "id", id, "error", err)
		return models.CompletionEvent{}, err
	}

	logger.Info("Completed habit", "id", id, "scheduled", event.ScheduledDate, "late", event.IsLate)
	return event, nil
}

// Habits returns a copy of the collection in insertion order.
func (s *Store) Habits() []models.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cloneLocked()
}

// Get returns a copy of one habit.
func (s *Store) Get(id string) (models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return models.Habit{}, &errors.NotFoundError{ID: id}
	}
	return s.habits[idx].Clone(), nil
}

// Find resolves a habit by exact id, or else by case-insensitive name.
func (s *Store) Find(ref string) (models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexLocked(ref); idx >= 0 {
		return s.habits[idx].Clone(), nil
	}
	for _, h := range s.habits {
		if strings.EqualFold(h.Name, strings.TrimSpace(ref)) {
			return h.Clone(), nil
		}
	}
	return models.Habit{}, &errors.NotFoundError{ID: ref}
}

func (s *Store) indexLocked(id string) int {
	for i, h := range s.habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) cloneLocked() []models.Habit {
	out := make([]models.Habit, len(s.habits))
	for i, h := range s.habits {
		out[i] = h.Clone()
	}
	return out
}

func (s *Store) notifyLocked() {
	for _, fn := range s.subscribers {
		fn(s.cloneLocked())
	}
}
