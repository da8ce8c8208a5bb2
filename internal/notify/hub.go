package notify

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Event is one reminder firing, addressed to a single user.
type Event struct {
	UserKey string    `json:"-"`
	TaskID  string    `json:"task_id"`
	Title   string    `json:"title"`
	Body    string    `json:"body"`
	FiredAt time.Time `json:"fired_at"`
}

// Notifier receives reminder firings from the scheduler.
type Notifier interface {
	Notify(event Event)
}

// Hub fans reminder events out to per-user subscribers (the SSE streams the
// browser listens on). Delivery is best-effort: a subscriber that does not
// keep up loses events rather than blocking the scheduler.
type Hub struct {
	mu      sync.Mutex
	subs    map[string]map[int]chan Event
	nextID  int
	buffer  int
	dropped uint64
	logger  *zap.Logger
}

// NewHub creates a hub with the given per-subscriber buffer size.
func NewHub(buffer int, logger *zap.Logger) *Hub {
	if buffer <= 0 {
		buffer = 8
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		subs:   make(map[string]map[int]chan Event),
		buffer: buffer,
		logger: logger,
	}
}

// Subscribe registers a listener for one user's events. The returned cancel
// function unregisters it and closes the channel.
func (h *Hub) Subscribe(userKey string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	ch := make(chan Event, h.buffer)

	if h.subs[userKey] == nil {
		h.subs[userKey] = make(map[int]chan Event)
	}
	h.subs[userKey][id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if listeners, ok := h.subs[userKey]; ok {
			if sub, ok := listeners[id]; ok {
				delete(listeners, id)
				close(sub)
			}
			if len(listeners) == 0 {
				delete(h.subs, userKey)
			}
		}
	}
	return ch, cancel
}

// Notify delivers the event to every subscriber of its user without blocking.
// The sends happen under the lock: they can never block, and a concurrent
// cancel must not close a channel between the lookup and the send.
func (h *Hub) Notify(event Event) {
	if event.FiredAt.IsZero() {
		event.FiredAt = time.Now().UTC()
	}

	h.mu.Lock()
	for _, ch := range h.subs[event.UserKey] {
		select {
		case ch <- event:
		default:
			atomic.AddUint64(&h.dropped, 1)
		}
	}
	h.mu.Unlock()

	h.logger.Info("reminder fired",
		zap.String("user", event.UserKey),
		zap.String("task_id", event.TaskID),
		zap.String("title", event.Title))
}

// Dropped reports how many events were discarded because a subscriber was slow.
func (h *Hub) Dropped() uint64 {
	return atomic.LoadUint64(&h.dropped)
}
