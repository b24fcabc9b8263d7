// Package notify implements the transient notification surface.
package notify

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen/quote-keeper/internal/platform/logging"
	"github.com/jsamuelsen/quote-keeper/internal/ports"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 5 * time.Second

// Center keeps the currently visible notifications.
//
// Each notification is inserted at the front and removed by its own timer
// after the TTL. There is no deduplication and no cap.
type Center struct {
	ttl time.Duration
	now func() time.Time

	mu     sync.Mutex
	active []ports.Notification
	timers map[string]*time.Timer
}

var (
	_ ports.Notifier         = (*Center)(nil)
	_ ports.NotificationFeed = (*Center)(nil)
)

// NewCenter creates a Center. A non-positive ttl falls back to DefaultTTL.
func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Center{
		ttl:    ttl,
		now:    time.Now,
		timers: make(map[string]*time.Timer),
	}
}

// Notify shows message for the configured TTL.
func (c *Center) Notify(ctx context.Context, message string) {
	created := c.now()
	n := ports.Notification{
		ID:        uuid.NewString(),
		Message:   message,
		CreatedAt: created,
		ExpiresAt: created.Add(c.ttl),
	}

	c.mu.Lock()
	c.active = slices.Insert(c.active, 0, n)
	c.timers[n.ID] = time.AfterFunc(c.ttl, func() { c.dismiss(n.ID) })
	c.mu.Unlock()

	logging.FromContext(ctx).InfoContext(ctx, "notification",
		slog.String("notification_id", n.ID),
		slog.String("message", message),
	)
}

// Active returns the visible notifications, newest first.
func (c *Center) Active() []ports.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.active)
}

// Close stops every pending timer and clears the list.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range c.timers {
		t.Stop()
	}

	c.timers = make(map[string]*time.Timer)
	c.active = nil
}

func (c *Center) dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.timers, id)
	c.active = slices.DeleteFunc(c.active, func(n ports.Notification) bool {
		return n.ID == id
	})
}
