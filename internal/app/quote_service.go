// Package app contains application services that orchestrate use cases.
package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/jsamuelsen/quote-keeper/internal/domain"
	"github.com/jsamuelsen/quote-keeper/internal/ports"
)

// Confirmation messages sent to the notifier.
const (
	QuoteAddedMessage     = "Quote added successfully!"
	QuotesImportedMessage = "Quotes imported successfully!"

	// NoQuotesMessage is the NotFound reason when a category filter matches nothing.
	NoQuotesMessage = "No quotes available for this category."
)

// QuoteService orchestrates the quote display and management use cases.
// It reads and mutates the QuoteStore and keeps the selected category
// (durable) and last viewed quote (session) up to date.
type QuoteService struct {
	store    *QuoteStore
	durable  ports.KeyValueStore
	session  ports.KeyValueStore
	notifier ports.Notifier
	pick     func(n int) int
	logger   *slog.Logger
}

// QuoteServiceConfig contains configuration for the quote service.
type QuoteServiceConfig struct {
	Store    *QuoteStore
	Durable  ports.KeyValueStore
	Session  ports.KeyValueStore
	Notifier ports.Notifier

	// Pick returns a uniform index in [0, n). Defaults to math/rand/v2.
	Pick   func(n int) int
	Logger *slog.Logger
}

// NewQuoteService creates a new quote service with the provided dependencies.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Store == nil || cfg.Durable == nil || cfg.Session == nil {
		panic("app: QuoteService requires Store, Durable and Session")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pick := cfg.Pick
	if pick == nil {
		pick = rand.IntN
	}

	return &QuoteService{
		store:    cfg.Store,
		durable:  cfg.Durable,
		session:  cfg.Session,
		notifier: cfg.Notifier,
		pick:     pick,
		logger:   logger,
	}
}

// ShowRandomQuote picks a random quote from category and records it as the
// last viewed quote. An empty category means the last selected one; any
// other value becomes the new selection.
func (s *QuoteService) ShowRandomQuote(ctx context.Context, category string) (domain.Quote, error) {
	if category == "" {
		category = s.SelectedCategory(ctx)
	} else {
		err := s.durable.Set(ctx, ports.KeyLastCategory, []byte(category))
		if err != nil {
			s.logger.WarnContext(ctx, "persisting selected category failed",
				slog.String("category", category),
				slog.Any("error", err),
			)
		}
	}

	candidates := domain.FilterByCategory(s.store.All(), category)
	if len(candidates) == 0 {
		return domain.Quote{}, domain.NewNotFoundErrorWithMessage("quote", category, NoQuotesMessage)
	}

	q := candidates[s.pick(len(candidates))]

	raw, err := json.Marshal(quoteRecord{Text: q.Text, Category: q.Category})
	if err == nil {
		err = s.session.Set(ctx, ports.KeyLastQuote, raw)
	}

	if err != nil {
		s.logger.WarnContext(ctx, "saving last viewed quote failed", slog.Any("error", err))
	}

	s.logger.DebugContext(ctx, "displayed quote",
		slog.String("category", q.Category),
		slog.Int("candidates", len(candidates)),
	)

	return q, nil
}

// Refresh re-renders the display against the current store contents.
// It is run after every successful sync.
func (s *QuoteService) Refresh(ctx context.Context) {
	_, err := s.ShowRandomQuote(ctx, "")
	if err != nil && !domain.IsNotFound(err) {
		s.logger.WarnContext(ctx, "refreshing display failed", slog.Any("error", err))
	}
}

// Categories returns the distinct categories in first-appearance order.
func (s *QuoteService) Categories() []string {
	return domain.Categories(s.store.All())
}

// SelectedCategory returns the persisted category filter, or
// domain.AllCategories when none was selected.
func (s *QuoteService) SelectedCategory(ctx context.Context) string {
	raw, err := s.durable.Get(ctx, ports.KeyLastCategory)
	if err != nil || len(raw) == 0 {
		return domain.AllCategories
	}

	return string(raw)
}

// LastViewed returns the quote most recently shown in this process.
func (s *QuoteService) LastViewed(ctx context.Context) (domain.Quote, error) {
	raw, err := s.session.Get(ctx, ports.KeyLastQuote)
	if err != nil {
		return domain.Quote{}, err
	}

	var rec quoteRecord

	err = json.Unmarshal(raw, &rec)
	if err != nil {
		return domain.Quote{}, domain.NewNotFoundError("quote", ports.KeyLastQuote)
	}

	return domain.Quote{Text: rec.Text, Category: rec.Category}, nil
}

// AddQuote validates and stores a new quote.
func (s *QuoteService) AddQuote(ctx context.Context, text, category string) (domain.Quote, error) {
	q, err := s.store.Add(ctx, text, category)
	if err != nil && !domain.IsPersistence(err) {
		return domain.Quote{}, err
	}

	if err != nil {
		s.logger.WarnContext(ctx, "quote added but not persisted", slog.Any("error", err))
	}

	s.logger.InfoContext(ctx, "quote added", slog.String("category", q.Category))
	s.notify(ctx, QuoteAddedMessage)

	return q, nil
}

// ListQuotes returns up to limit quotes starting at offset, and the total count.
func (s *QuoteService) ListQuotes(offset, limit int) ([]domain.Quote, int) {
	all := s.store.All()
	total := len(all)

	if offset < 0 {
		offset = 0
	}

	if offset >= total || limit <= 0 {
		return []domain.Quote{}, total
	}

	end := min(offset+limit, total)

	return all[offset:end], total
}

// Export returns the whole store as an indented JSON array of
// {text, category} objects.
func (s *QuoteService) Export(_ context.Context) ([]byte, error) {
	raw, err := json.MarshalIndent(toRecords(s.store.All()), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding quotes: %w", err)
	}

	return raw, nil
}

// Import appends every element of a JSON array read from r.
//
// Anything other than an array of objects is rejected with a
// *domain.FormatError and the store is left untouched. Elements are not
// validated; an object without text or category, or a null element, is
// stored with empty fields.
func (s *QuoteService) Import(ctx context.Context, r io.Reader) (int, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return 0, domain.NewFormatError("reading input", err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return 0, domain.NewFormatError("expected a JSON array", nil)
	}

	var elements []json.RawMessage

	err = json.Unmarshal(raw, &elements)
	if err != nil {
		return 0, domain.NewFormatError("malformed JSON", err)
	}

	quotes := make([]domain.Quote, 0, len(elements))

	for i, el := range elements {
		var rec quoteRecord

		el = bytes.TrimSpace(el)
		if bytes.Equal(el, []byte("null")) {
			quotes = append(quotes, domain.Quote{})

			continue
		}

		if len(el) == 0 || el[0] != '{' {
			return 0, domain.NewFormatError(fmt.Sprintf("element %d is not an object", i), nil)
		}

		err = json.Unmarshal(el, &rec)
		if err != nil {
			return 0, domain.NewFormatError(fmt.Sprintf("element %d", i), err)
		}

		quotes = append(quotes, domain.Quote{Text: rec.Text, Category: rec.Category})
	}

	err = s.store.Append(ctx, quotes...)
	if err != nil && !domain.IsPersistence(err) {
		return 0, err
	}

	if err != nil {
		s.logger.WarnContext(ctx, "imported quotes not persisted", slog.Any("error", err))
	}

	s.logger.InfoContext(ctx, "quotes imported", slog.Int("count", len(quotes)))
	s.notify(ctx, QuotesImportedMessage)

	return len(quotes), nil
}

func (s *QuoteService) notify(ctx context.Context, message string) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, message)
	}
}
