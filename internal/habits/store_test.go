package habits

import (
	stderrors "errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

var allDays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// 2024-01-02 is a Tuesday.
var tuesday = time.Date(2024, 1, 2, 9, 30, 0, 0, time.Local)

// flakyProvider wraps a MemoryStore and fails on demand.
type flakyProvider struct {
	*storage.MemoryStore
	failGet bool
	failSet bool
	sets    int
}

func (p *flakyProvider) Get(key string) ([]byte, error) {
	if p.failGet {
		return nil, stderrors.New("disk unreadable")
	}
	return p.MemoryStore.Get(key)
}

func (p *flakyProvider) Set(key string, value []byte) error {
	if p.failSet {
		return stderrors.New("disk full")
	}
	p.sets++
	return p.MemoryStore.Set(key, value)
}

func setupTestStore(t *testing.T) (*Store, *flakyProvider) {
	t.Helper()
	provider := &flakyProvider{MemoryStore: storage.NewMemoryStore()}
	seq := 0
	store := New(provider,
		WithClock(func() time.Time { return tuesday }),
		WithIDGenerator(func() (string, error) {
			seq++
			return fmt.Sprintf("habit-%d", seq), nil
		}),
	)
	if _, err := store.Load(); err != nil {
		t.Fatalf("Load() on empty provider failed: %v", err)
	}
	return store, provider
}

func mustCreate(t *testing.T, store *Store, name string, frequency ...string) models.Habit {
	t.Helper()
	h, err := store.Create(models.HabitDraft{Name: name, Frequency: frequency})
	if err != nil {
		t.Fatalf("Create(%q) failed: %v", name, err)
	}
	return h
}

func TestCreate(t *testing.T) {
	store, provider := setupTestStore(t)
	reminder := "07:15"

	h, err := store.Create(models.HabitDraft{
		Name:         "  Meditate ",
		Description:  "10 minutes",
		Frequency:    []string{"friday", "Monday", "monday"},
		ReminderTime: &reminder,
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if h.ID != "habit-1" {
		t.Errorf("ID = %q, want habit-1", h.ID)
	}
	if h.Name != "Meditate" {
		t.Errorf("Name = %q, want trimmed name", h.Name)
	}
	if len(h.Frequency) != 2 || h.Frequency[0] != "Monday" || h.Frequency[1] != "Friday" {
		t.Errorf("Frequency = %v, want [Monday Friday]", h.Frequency)
	}
	if !h.CreatedAt.Equal(tuesday) || !h.UpdatedAt.Equal(tuesday) {
		t.Errorf("timestamps = %v / %v, want %v", h.CreatedAt, h.UpdatedAt, tuesday)
	}
	if h.CompletedDates == nil || len(h.CompletedDates) != 0 {
		t.Errorf("CompletedDates = %#v, want empty", h.CompletedDates)
	}
	if h.ReminderTime == nil || *h.ReminderTime != "07:15" {
		t.Errorf("ReminderTime = %v", h.ReminderTime)
	}
	if provider.sets != 1 {
		t.Errorf("provider writes = %d, want 1", provider.sets)
	}
}

func TestCreateValidation(t *testing.T) {
	badTime := "7pm"
	tests := []struct {
		name  string
		draft models.HabitDraft
		field string
	}{
		{"empty frequency", models.HabitDraft{Name: "Run"}, "frequency"},
		{"blank name", models.HabitDraft{Name: "   ", Frequency: []string{"Monday"}}, "name"},
		{"unknown weekday", models.HabitDraft{Name: "Run", Frequency: []string{"Caturday"}}, "frequency"},
		{"bad reminder", models.HabitDraft{Name: "Run", Frequency: []string{"Monday"}, ReminderTime: &badTime}, "reminderTime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, provider := setupTestStore(t)

			_, err := store.Create(tt.draft)
			var verr *errors.ValidationError
			if !stderrors.As(err, &verr) {
				t.Fatalf("Create() error = %v, want ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("ValidationError.Field = %q, want %q", verr.Field, tt.field)
			}
			if len(store.Habits()) != 0 || provider.sets != 0 {
				t.Error("rejected draft was stored")
			}
		})
	}
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	store, provider := setupTestStore(t)
	mustCreate(t, store, "Read", "Monday")

	_, err := store.Create(models.HabitDraft{Name: "  read ", Frequency: []string{"Friday"}})
	var verr *errors.ValidationError
	if !stderrors.As(err, &verr) || verr.Field != "name" {
		t.Fatalf("Create() error = %v, want name ValidationError", err)
	}
	if len(store.Habits()) != 1 || provider.sets != 1 {
		t.Errorf("duplicate was stored: %d habits, %d writes", len(store.Habits()), provider.sets)
	}
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	store := New(storage.NewMemoryStore(), WithIDGenerator(func() (string, error) { return "same", nil }))
	if _, err := store.Create(models.HabitDraft{Name: "A", Frequency: []string{"Monday"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Create(models.HabitDraft{Name: "B", Frequency: []string{"Monday"}}); err == nil {
		t.Error("Create() accepted a duplicate id")
	}

	defaultIDs := New(storage.NewMemoryStore())
	a := mustCreate(t, defaultIDs, "A", "Monday")
	b := mustCreate(t, defaultIDs, "B", "Monday")
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("default ids not unique: %q %q", a.ID, b.ID)
	}
}

func TestCompleteLateOnUnscheduledDay(t *testing.T) {
	store, _ := setupTestStore(t)
	h := mustCreate(t, store, "Gym", "Monday", "Wednesday", "Friday")

	event, err := store.Complete(h.ID, tuesday)
	if err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}
	if event.ScheduledDate != "2024-01-01" || event.CompletedDate != "2024-01-02" || !event.IsLate {
		t.Errorf("event = %+v, want scheduled Monday 2024-01-01, late", event)
	}
}

func TestCompleteOnTime(t *testing.T) {
	store, _ := setupTestStore(t)
	h := mustCreate(t, store, "Water", allDays...)

	event, err := store.Complete(h.ID, tuesday)
	if err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}
	if event.IsLate || event.ScheduledDate != "2024-01-02" || event.CompletedDate != "2024-01-02" {
		t.Errorf("event = %+v, want on-time completion today", event)
	}
}

func TestCompleteIsIdempotentPerDay(t *testing.T) {
	store, provider := setupTestStore(t)
	h := mustCreate(t, store, "Read", allDays...)

	first, err := store.Complete(h.ID, tuesday)
	if err != nil {
		t.Fatal(err)
	}
	writes := provider.sets

	second, err := store.Complete(h.ID, tuesday.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("second Complete() failed: %v", err)
	}
	if second != first {
		t.Errorf("second Complete() = %+v, want existing %+v", second, first)
	}
	if provider.sets != writes {
		t.Error("duplicate completion was persisted")
	}

	got, _ := store.Get(h.ID)
	if len(got.CompletedDates) != 1 {
		t.Errorf("CompletedDates = %v, want exactly one", got.CompletedDates)
	}

	if _, err := store.Complete(h.ID, tuesday.AddDate(0, 0, 1)); err != nil {
		t.Fatal(err)
	}
	got, _ = store.Get(h.ID)
	if len(got.CompletedDates) != 2 {
		t.Errorf("next-day completion not appended: %v", got.CompletedDates)
	}
}

func TestCompleteUpdatesTimestamp(t *testing.T) {
	provider := storage.NewMemoryStore()
	now := tuesday
	store := New(provider, WithClock(func() time.Time { return now }))
	h := mustCreate(t, store, "Stretch", allDays...)

	now = tuesday.Add(2 * time.Hour)
	if _, err := store.Complete(h.ID, now); err != nil {
		t.Fatal(err)
	}
	got, _ := store.Get(h.ID)
	if !got.UpdatedAt.Equal(now) || !got.CreatedAt.Equal(tuesday) {
		t.Errorf("timestamps = created %v updated %v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestCompleteUnknownHabit(t *testing.T) {
	store, provider := setupTestStore(t)

	_, err := store.Complete("nope", tuesday)
	if !errors.IsNotFound(err) {
		t.Errorf("Complete() error = %v, want NotFoundError", err)
	}
	if provider.sets != 0 {
		t.Error("Complete() of unknown habit wrote to storage")
	}
}

func TestIsLateMatchesDates(t *testing.T) {
	store, _ := setupTestStore(t)
	h := mustCreate(t, store, "Journal", "Sunday", "Thursday")

	for d := 0; d < 14; d++ {
		if _, err := store.Complete(h.ID, tuesday.AddDate(0, 0, d)); err != nil {
			t.Fatal(err)
		}
	}

	got, _ := store.Get(h.ID)
	for _, e := range got.CompletedDates {
		if e.IsLate != (e.ScheduledDate != e.CompletedDate) {
			t.Errorf("event %+v violates isLate == (scheduled != completed)", e)
		}
		scheduled, _ := time.ParseInLocation(constants.DateFormat, e.ScheduledDate, time.Local)
		if wd := scheduled.Weekday(); wd != time.Sunday && wd != time.Thursday {
			t.Errorf("scheduledDate %s falls on %v, not in frequency", e.ScheduledDate, wd)
		}
	}
}

func TestDelete(t *testing.T) {
	store, _ := setupTestStore(t)
	a := mustCreate(t, store, "A", "Monday")
	b := mustCreate(t, store, "B", "Monday")
	c := mustCreate(t, store, "C", "Monday")

	if err := store.Delete(b.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	habits := store.Habits()
	if len(habits) != 2 || habits[0].ID != a.ID || habits[1].ID != c.ID {
		t.Errorf("Habits() after delete = %v", habits)
	}

	if err := store.Delete("missing"); err != nil {
		t.Errorf("Delete() of unknown id = %v, want nil", err)
	}
	if len(store.Habits()) != 2 {
		t.Error("Delete() of unknown id changed the collection")
	}

	d := mustCreate(t, store, "D", "Monday")
	if d.ID == b.ID {
		t.Error("deleted id was reused")
	}
}

func TestRoundTripAfterMutation(t *testing.T) {
	store, provider := setupTestStore(t)
	h := mustCreate(t, store, "Walk", "Monday", "Tuesday")
	if _, err := store.Complete(h.ID, tuesday); err != nil {
		t.Fatal(err)
	}
	inMemory, _ := store.Get(h.ID)

	reloaded := New(provider)
	habits, err := reloaded.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(habits) != 1 {
		t.Fatalf("Load() returned %d habits", len(habits))
	}
	got := habits[0]
	if got.ID != inMemory.ID || got.Name != inMemory.Name || len(got.CompletedDates) != 1 ||
		got.CompletedDates[0] != inMemory.CompletedDates[0] || !got.UpdatedAt.Equal(inMemory.UpdatedAt) {
		t.Errorf("reloaded habit %+v differs from in-memory %+v", got, inMemory)
	}
}

func TestPersistenceFailureKeepsMemoryConsistent(t *testing.T) {
	store, provider := setupTestStore(t)
	h := mustCreate(t, store, "Floss", allDays...)

	provider.failSet = true

	if _, err := store.Complete(h.ID, tuesday); !errors.IsPersistence(err) {
		t.Errorf("Complete() error = %v, want PersistenceError", err)
	}
	if err := store.Delete(h.ID); !errors.IsPersistence(err) {
		t.Errorf("Delete() error = %v, want PersistenceError", err)
	}
	if _, err := store.Create(models.HabitDraft{Name: "X", Frequency: []string{"Monday"}}); !errors.IsPersistence(err) {
		t.Errorf("Create() error = %v, want PersistenceError", err)
	}

	habits := store.Habits()
	if len(habits) != 1 || len(habits[0].CompletedDates) != 0 {
		t.Errorf("in-memory state diverged from storage: %+v", habits)
	}
}

func TestLoadFailures(t *testing.T) {
	t.Run("provider error", func(t *testing.T) {
		store, provider := setupTestStore(t)
		mustCreate(t, store, "A", "Monday")
		provider.failGet = true

		habits, err := store.Load()
		if !errors.IsPersistence(err) {
			t.Errorf("Load() error = %v, want PersistenceError", err)
		}
		if habits == nil || len(habits) != 0 || len(store.Habits()) != 0 {
			t.Errorf("Load() failure should leave an empty collection, got %v", habits)
		}
	})

	t.Run("corrupt blob", func(t *testing.T) {
		provider := storage.NewMemoryStore()
		if err := provider.Set(constants.HabitsKey, []byte("{oops")); err != nil {
			t.Fatal(err)
		}
		if _, err := New(provider).Load(); !errors.IsPersistence(err) {
			t.Errorf("Load() error = %v, want PersistenceError", err)
		}
	})

	t.Run("null completedDates", func(t *testing.T) {
		provider := storage.NewMemoryStore()
		blob := `[{"id":"1","name":"A","description":"","frequency":["Monday"],"createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z","completedDates":null}]`
		if err := provider.Set(constants.HabitsKey, []byte(blob)); err != nil {
			t.Fatal(err)
		}
		habits, err := New(provider).Load()
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if habits[0].CompletedDates == nil {
			t.Error("CompletedDates should be normalized to empty")
		}
	})
}

func TestFind(t *testing.T) {
	store, _ := setupTestStore(t)
	h := mustCreate(t, store, "Morning Run", "Monday")

	for _, ref := range []string{h.ID, "morning run", " Morning Run "} {
		got, err := store.Find(ref)
		if err != nil || got.ID != h.ID {
			t.Errorf("Find(%q) = %v, %v", ref, got.ID, err)
		}
	}
	if _, err := store.Find("evening run"); !errors.IsNotFound(err) {
		t.Errorf("Find() error = %v, want NotFoundError", err)
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	store, _ := setupTestStore(t)
	h := mustCreate(t, store, "A", "Monday")

	habits := store.Habits()
	habits[0].Name = "mutated"
	habits[0].Frequency[0] = "Friday"

	got, _ := store.Get(h.ID)
	if got.Name != "A" || got.Frequency[0] != "Monday" {
		t.Error("caller mutation leaked into the store")
	}
}

func TestSubscribeReceivesEveryChange(t *testing.T) {
	store, _ := setupTestStore(t)

	var counts []int
	store.Subscribe(func(habits []models.Habit) { counts = append(counts, len(habits)) })

	h := mustCreate(t, store, "A", "Tuesday")
	mustCreate(t, store, "B", "Tuesday")
	if _, err := store.Complete(h.ID, tuesday); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(h.ID); err != nil {
		t.Fatal(err)
	}

	want := []int{0, 1, 2, 2, 1}
	if fmt.Sprint(counts) != fmt.Sprint(want) {
		t.Errorf("subscriber saw %v, want %v", counts, want)
	}
}

func TestConcurrentMutationsSerialize(t *testing.T) {
	provider := storage.NewMemoryStore()
	store := New(provider)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := store.Create(models.HabitDraft{Name: fmt.Sprintf("habit %d", i), Frequency: allDays})
			if err != nil {
				t.Errorf("Create() failed: %v", err)
				return
			}
			if _, err := store.Complete(h.ID, tuesday); err != nil {
				t.Errorf("Complete() failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	reloaded, err := New(provider).Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(reloaded) != n {
		t.Fatalf("persisted %d habits, want %d (lost update)", len(reloaded), n)
	}
	for _, h := range reloaded {
		if len(h.CompletedDates) != 1 {
			t.Errorf("habit %s has %d completions, want 1", h.Name, len(h.CompletedDates))
		}
	}
}
