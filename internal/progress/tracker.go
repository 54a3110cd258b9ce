package progress

import (
	"sync"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

// Tracker keeps the latest Snapshot. Register Update as a habit store
// subscriber to recompute after every change.
type Tracker struct {
	now func() time.Time

	mu       sync.RWMutex
	snapshot Snapshot
	habits   []models.Habit
}

func NewTracker(now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	t := &Tracker{now: now}
	t.snapshot = Compute(nil, now())
	return t
}

// Update recomputes from a fresh collection snapshot.
func (t *Tracker) Update(habits []models.Habit) {
	snap := Compute(habits, t.now())

	t.mu.Lock()
	defer t.mu.Unlock()
	t.habits = habits
	t.snapshot = snap
}

// Refresh recomputes from the last collection seen, e.g. after midnight.
func (t *Tracker) Refresh() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snapshot = Compute(t.habits, t.now())
	return t.snapshot
}

// Snapshot returns the most recently computed metrics.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshot
}
