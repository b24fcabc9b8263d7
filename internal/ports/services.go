// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrFetch, etc.)
//   - Keep interfaces small and focused
package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen/quote-keeper/internal/domain"
)

// Storage keys shared by the durable and session stores.
const (
	KeyQuotes       = "quotes"
	KeyLastCategory = "lastCategory"
	KeyLastQuote    = "lastQuote"
)

// KeyValueStore is a string-keyed blob store.
//
// Two implementations exist: a durable one (survives restarts) and a
// session one that lives only as long as the process.
type KeyValueStore interface {
	// Get returns the value stored under key.
	// Returns domain.ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value in one write.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// RemoteQuoteGateway is the contract for the remote quote source.
//
// Implementations translate the remote representation into domain.Quote
// and map transport failures to domain.FetchError / domain.SubmitError.
type RemoteQuoteGateway interface {
	// FetchAll retrieves every quote the remote source knows about.
	// On any failure it returns a nil slice and a *domain.FetchError.
	FetchAll(ctx context.Context) ([]domain.Quote, error)

	// Submit pushes one quote to the remote source. The response is ignored.
	// Returns a *domain.SubmitError on failure.
	Submit(ctx context.Context, quote domain.Quote) error
}

// Notification is a transient user-visible message.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Notifier publishes transient messages.
type Notifier interface {
	// Notify shows message for a fixed duration. Calls never block on
	// earlier notifications and are never deduplicated.
	Notify(ctx context.Context, message string)
}

// NotificationFeed exposes the notifications that are currently visible.
type NotificationFeed interface {
	// Active returns the visible notifications, newest first.
	Active() []Notification
}
