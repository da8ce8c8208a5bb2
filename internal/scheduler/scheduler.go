package scheduler

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/planora/backend/domain"
	"github.com/planora/backend/internal/notify"
)

// DefaultLead is how far before a task's due time its reminder fires.
const DefaultLead = 5 * time.Minute

// ReminderTitle is the fixed headline of every reminder notification.
const ReminderTitle = "Upcoming Task Reminder"

// Reminders owns every pending reminder firing. It holds derived, disposable
// state only: the task snapshot stays the source of truth, and any trigger
// (mutation, permission change, user switch) rebuilds the firing set from it.
type Reminders struct {
	lead     time.Duration
	notifier notify.Notifier
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	pending map[string]map[string]*firing
	stopped bool
}

type firing struct {
	timer  *time.Timer
	fireAt time.Time
}

// New creates a reminder scheduler emitting into the given notifier.
func New(lead time.Duration, notifier notify.Notifier, logger *zap.Logger) *Reminders {
	if lead <= 0 {
		lead = DefaultLead
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reminders{
		lead:     lead,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		pending:  make(map[string]map[string]*firing),
	}
}

// Recompute is the single entry point: it cancels every pending firing for
// the user, then re-arms one firing per incomplete task whose reminder
// instant is still in the future. With permission not granted it stops after
// the cancellation, leaving the user quiescent. Tasks already inside the
// lead window (or past due) are skipped on purpose: reminders look forward
// only and are never backfilled.
func (r *Reminders) Recompute(userKey string, snapshot []domain.Task, granted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cancelLocked(userKey)
	if r.stopped || !granted || userKey == "" {
		return
	}

	now := r.now()
	for _, task := range snapshot {
		if task.Completed {
			continue
		}
		fireAt := task.DueDate.Add(-r.lead)
		if !fireAt.After(now) {
			continue
		}
		r.armLocked(userKey, task, fireAt)
	}
}

// Drop cancels everything scheduled for the user. Called on logout.
func (r *Reminders) Drop(userKey string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelLocked(userKey)
}

// Pending reports the scheduled firing instants for a user, sorted.
func (r *Reminders) Pending(userKey string) []time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	times := make([]time.Time, 0, len(r.pending[userKey]))
	for _, f := range r.pending[userKey] {
		times = append(times, f.fireAt)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	return times
}

// Stop cancels all pending firings for every user and refuses new ones.
func (r *Reminders) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	for userKey := range r.pending {
		r.cancelLocked(userKey)
	}
}

func (r *Reminders) armLocked(userKey string, task domain.Task, fireAt time.Time) {
	f := &firing{fireAt: fireAt}
	taskID := task.ID
	title := task.Title

	f.timer = time.AfterFunc(fireAt.Sub(r.now()), func() {
		// The firing deliberately does not re-read task state: staleness up
		// to the lead interval is accepted, matching the snapshot captured
		// at scheduling time.
		if !r.claim(userKey, taskID, f) {
			return
		}
		r.notifier.Notify(notify.Event{
			UserKey: userKey,
			TaskID:  taskID,
			Title:   ReminderTitle,
			Body:    fmt.Sprintf("Your task %q is due in %d minutes.", title, int(r.lead.Minutes())),
			FiredAt: time.Now().UTC(),
		})
	})

	if r.pending[userKey] == nil {
		r.pending[userKey] = make(map[string]*firing)
	}
	r.pending[userKey][taskID] = f
}

// claim removes the firing from the pending set if it is still the live one,
// so a timer that races a cancellation never emits.
func (r *Reminders) claim(userKey, taskID string, f *firing) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.pending[userKey][taskID]
	if !ok || current != f {
		return false
	}
	delete(r.pending[userKey], taskID)
	if len(r.pending[userKey]) == 0 {
		delete(r.pending, userKey)
	}
	return true
}

func (r *Reminders) cancelLocked(userKey string) {
	for taskID, f := range r.pending[userKey] {
		f.timer.Stop()
		delete(r.pending[userKey], taskID)
	}
	delete(r.pending, userKey)
}
