package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// DefaultLimit is the default number of items per page.
const DefaultLimit = 20

// MaxLimit is the maximum allowed items per page.
const MaxLimit = 100

// Cursor errors.
var (
	// ErrInvalidCursor is returned when cursor decoding fails.
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrNoCursor signals a first page request. It is not a failure.
	ErrNoCursor = errors.New("no cursor provided")
)

// PaginationRequest represents pagination parameters from the request.
type PaginationRequest struct {
	// Cursor is an opaque string from a previous response's NextCursor.
	Cursor string `form:"cursor"`

	// Limit is the maximum number of items to return (1-100, default 20).
	Limit int `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

// GetLimit returns the limit with defaults applied.
func (p *PaginationRequest) GetLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}

	return min(p.Limit, MaxLimit)
}

// Offset returns the position encoded in the cursor, 0 for the first page.
func (p *PaginationRequest) Offset() (int, error) {
	data, err := DecodeCursor(p.Cursor)
	if errors.Is(err, ErrNoCursor) {
		return 0, nil
	}

	if err != nil {
		return 0, err
	}

	return data.Offset, nil
}

// PaginatedResponse is a generic paginated response structure.
type PaginatedResponse[T any] struct {
	Items []T `json:"items"`

	// NextCursor is empty on the last page.
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
	Total      int    `json:"total"`
}

// NewPaginatedResponse builds the page that starts at offset. The store is
// positional, so the cursor records where the next page starts.
func NewPaginatedResponse[T any](items []T, offset, total int) *PaginatedResponse[T] {
	if items == nil {
		items = []T{}
	}

	next := offset + len(items)
	hasMore := len(items) > 0 && next < total

	resp := &PaginatedResponse[T]{
		Items:   items,
		HasMore: hasMore,
		Total:   total,
	}

	if hasMore {
		resp.NextCursor = EncodeCursor(&CursorData{Offset: next})
	}

	return resp
}

// CursorData contains the data encoded in a pagination cursor.
type CursorData struct {
	Offset int `json:"o"`
}

// EncodeCursor encodes cursor data to a base64 string.
func EncodeCursor(data *CursorData) string {
	if data == nil {
		return ""
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return ""
	}

	return base64.RawURLEncoding.EncodeToString(jsonBytes)
}

// DecodeCursor decodes a base64 cursor string to cursor data.
// Returns ErrNoCursor if the encoded string is empty.
func DecodeCursor(encoded string) (*CursorData, error) {
	if encoded == "" {
		return nil, ErrNoCursor
	}

	jsonBytes, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	var data CursorData

	err = json.Unmarshal(jsonBytes, &data)
	if err != nil || data.Offset < 0 {
		return nil, ErrInvalidCursor
	}

	return &data, nil
}
