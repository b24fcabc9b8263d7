// Package domain contains core business entities and rules.
package domain

import "strings"

const (
	// ServerCategory is assigned to every quote fetched from the remote source,
	// which has no category field of its own.
	ServerCategory = "Server"

	// AllCategories is the category filter sentinel meaning "no filter".
	AllCategories = "all"
)

// Quote is a piece of text filed under a category.
// Two quotes are the same quote when both Text and Category match exactly.
// This is a domain entity - it has no knowledge of external systems.
type Quote struct {
	// Text is the quotation itself.
	Text string

	// Category groups quotes for filtering.
	Category string
}

// NewQuote trims both fields and validates that neither is empty.
func NewQuote(text, category string) (Quote, error) {
	text = strings.TrimSpace(text)
	category = strings.TrimSpace(category)

	if text == "" {
		return Quote{}, NewValidationError("text", "must not be empty")
	}

	if category == "" {
		return Quote{}, NewValidationError("category", "must not be empty")
	}

	return Quote{Text: text, Category: category}, nil
}

// Equal reports whether q and other share the same (text, category) pair.
func (q Quote) Equal(other Quote) bool {
	return q.Text == other.Text && q.Category == other.Category
}

// DefaultQuotes returns the seed set used when nothing has been persisted yet.
func DefaultQuotes() []Quote {
	return []Quote{
		{Text: "The best way to get started is to quit talking and begin doing.", Category: "Motivation"},
		{Text: "Don't let yesterday take up too much of today.", Category: "Life"},
		{Text: "You learn more from failure than from success.", Category: "Education"},
	}
}
