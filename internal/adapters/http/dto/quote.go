package dto

import (
	"time"

	"github.com/jsamuelsen/quote-keeper/internal/app"
	"github.com/jsamuelsen/quote-keeper/internal/domain"
	"github.com/jsamuelsen/quote-keeper/internal/ports"
)

// QuoteResponse is the wire shape of a quote.
type QuoteResponse struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// NewQuoteResponse converts a domain quote.
func NewQuoteResponse(q domain.Quote) QuoteResponse {
	return QuoteResponse{Text: q.Text, Category: q.Category}
}

// NewQuoteResponses converts a slice of domain quotes.
func NewQuoteResponses(quotes []domain.Quote) []QuoteResponse {
	out := make([]QuoteResponse, len(quotes))
	for i, q := range quotes {
		out[i] = NewQuoteResponse(q)
	}

	return out
}

// AddQuoteRequest is the body of POST /api/v1/quotes.
type AddQuoteRequest struct {
	Text     string `json:"text" validate:"notblank"`
	Category string `json:"category" validate:"notblank"`
}

// RandomQuoteRequest carries the optional category filter. Empty means the
// last selected category; "all" disables filtering.
type RandomQuoteRequest struct {
	Category string `form:"category" validate:"omitempty,max=200"`
}

// CategoriesResponse lists the distinct categories and the active filter.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
	Selected   string   `json:"selected"`
}

// ImportResponse reports how many quotes an import appended.
type ImportResponse struct {
	Imported int    `json:"imported"`
	Message  string `json:"message"`
}

// SyncResponse reports a completed reconciliation cycle.
type SyncResponse struct {
	CycleID        string `json:"cycleId"`
	Submitted      int    `json:"submitted"`
	SubmitFailures int    `json:"submitFailures"`
	Fetched        int    `json:"fetched"`
	Total          int    `json:"total"`
	DurationMS     int64  `json:"durationMs"`
	Message        string `json:"message"`
}

// NewSyncResponse converts a cycle result.
func NewSyncResponse(r app.SyncResult) SyncResponse {
	return SyncResponse{
		CycleID:        r.CycleID,
		Submitted:      r.Submitted,
		SubmitFailures: r.SubmitFailures,
		Fetched:        r.Fetched,
		Total:          r.Total,
		DurationMS:     r.Duration.Milliseconds(),
		Message:        app.SyncSucceededMessage,
	}
}

// SyncStatusResponse is the reconciler state plus its schedule.
type SyncStatusResponse struct {
	app.SyncStatus

	Enabled  bool   `json:"enabled"`
	Interval string `json:"interval"`
}

// NewSyncStatusResponse converts the reconciler status.
func NewSyncStatusResponse(s app.SyncStatus, enabled bool, interval time.Duration) SyncStatusResponse {
	return SyncStatusResponse{SyncStatus: s, Enabled: enabled, Interval: interval.String()}
}

// NotificationsResponse lists the visible notifications, newest first.
type NotificationsResponse struct {
	Notifications []ports.Notification `json:"notifications"`
}

// NewNotificationsResponse never returns a nil slice so the JSON is [].
func NewNotificationsResponse(active []ports.Notification) NotificationsResponse {
	if active == nil {
		active = []ports.Notification{}
	}

	return NotificationsResponse{Notifications: active}
}
