// Package notify is the client-side notification center: transient
// toasts that dismiss themselves after a per-kind delay or when the
// user closes them, whichever comes first.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Warning Kind = "warning"
	Info    Kind = "info"
)

// Default auto-dismiss delays. Errors linger longest.
var defaultDurations = map[Kind]time.Duration{
	Success: 5 * time.Second,
	Error:   7 * time.Second,
	Warning: 6 * time.Second,
	Info:    4 * time.Second,
}

type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type Center struct {
	mu        sync.Mutex
	items     []Notification
	timers    map[string]*time.Timer
	durations map[Kind]time.Duration
}

func NewCenter() *Center {
	durations := make(map[Kind]time.Duration, len(defaultDurations))
	for k, d := range defaultDurations {
		durations[k] = d
	}
	return &Center{
		timers:    make(map[string]*time.Timer),
		durations: durations,
	}
}

// SetDuration overrides the auto-dismiss delay for a kind. A zero or
// negative duration disables auto-dismiss for that kind.
func (c *Center) SetDuration(kind Kind, d time.Duration) {
	c.mu.Lock()
	c.durations[kind] = d
	c.mu.Unlock()
}

// Push adds a notification and schedules its dismissal.
func (c *Center) Push(kind Kind, message string) Notification {
	n := Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
	}
	c.mu.Lock()
	c.items = append(c.items, n)
	if d := c.durations[kind]; d > 0 {
		id := n.ID
		c.timers[id] = time.AfterFunc(d, func() { c.Remove(id) })
	}
	c.mu.Unlock()
	return n
}

// Remove dismisses a notification. Removing an id that is already gone
// is a no-op, so the user closing a toast and its timer firing never
// conflict.
func (c *Center) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// List returns the active notifications, oldest first.
func (c *Center) List() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notification(nil), c.items...)
}

// Close stops all pending dismissal timers and clears the center.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
	c.items = nil
}
