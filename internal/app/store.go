package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/jsamuelsen/quote-keeper/internal/domain"
	"github.com/jsamuelsen/quote-keeper/internal/ports"
)

// quoteRecord is the persisted and exported shape of a quote.
type quoteRecord struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

func toRecords(quotes []domain.Quote) []quoteRecord {
	records := make([]quoteRecord, len(quotes))
	for i, q := range quotes {
		records[i] = quoteRecord{Text: q.Text, Category: q.Category}
	}

	return records
}

func fromRecords(records []quoteRecord) []domain.Quote {
	quotes := make([]domain.Quote, len(records))
	for i, r := range records {
		quotes[i] = domain.Quote{Text: r.Text, Category: r.Category}
	}

	return quotes
}

// SizeObserver receives the number of quotes held after every mutation.
type SizeObserver interface {
	SetStoreSize(n int)
}

// QuoteStore is the authoritative ordered collection of quotes.
//
// Every mutation rewrites the whole sequence under the key "quotes" in the
// durable store. A failed write is reported as a *domain.PersistenceError but
// the in-memory mutation is kept.
type QuoteStore struct {
	mu       sync.RWMutex
	quotes   []domain.Quote
	durable  ports.KeyValueStore
	observer SizeObserver
	logger   *slog.Logger
}

// QuoteStoreConfig contains the dependencies of a QuoteStore.
type QuoteStoreConfig struct {
	Durable ports.KeyValueStore

	// Observer is optional.
	Observer SizeObserver
	Logger   *slog.Logger
}

// NewQuoteStore creates an empty store. Call Load to hydrate it.
func NewQuoteStore(cfg QuoteStoreConfig) *QuoteStore {
	if cfg.Durable == nil {
		panic("app: QuoteStore requires a durable KeyValueStore")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteStore{
		durable:  cfg.Durable,
		observer: cfg.Observer,
		logger:   logger,
	}
}

// Load hydrates the store from durable storage.
//
// A missing key, an unreadable value, or anything that is not a JSON array of
// quote objects yields the seed set. Load never fails.
func (s *QuoteStore) Load(ctx context.Context) {
	quotes := s.readPersisted(ctx)

	s.mu.Lock()
	s.quotes = quotes
	s.mu.Unlock()

	s.observe(len(quotes))
}

func (s *QuoteStore) readPersisted(ctx context.Context) []domain.Quote {
	raw, err := s.durable.Get(ctx, ports.KeyQuotes)
	if err != nil {
		if !domain.IsNotFound(err) {
			s.logger.WarnContext(ctx, "reading persisted quotes failed, using seed set",
				slog.Any("error", err),
			)
		}

		return domain.DefaultQuotes()
	}

	var records []quoteRecord

	err = json.Unmarshal(raw, &records)
	if err != nil || records == nil {
		s.logger.WarnContext(ctx, "persisted quotes are malformed, using seed set",
			slog.Any("error", err),
		)

		return domain.DefaultQuotes()
	}

	return fromRecords(records)
}

// Add validates and appends one quote. Both fields are trimmed first.
// The stored quote is returned even when persisting it fails.
func (s *QuoteStore) Add(ctx context.Context, text, category string) (domain.Quote, error) {
	q, err := domain.NewQuote(text, category)
	if err != nil {
		return domain.Quote{}, err
	}

	return q, s.Append(ctx, q)
}

// Append adds quotes to the end of the sequence without validating them.
func (s *QuoteStore) Append(ctx context.Context, quotes ...domain.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.quotes = append(s.quotes, quotes...)

	return s.persistLocked(ctx)
}

// ReplaceAll swaps the whole sequence in one step.
func (s *QuoteStore) ReplaceAll(ctx context.Context, quotes []domain.Quote) error {
	replacement := make([]domain.Quote, len(quotes))
	copy(replacement, quotes)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.quotes = replacement

	return s.persistLocked(ctx)
}

// Reconcile merges remote into the sequence as it is now, remote first, and
// persists the result. The merge holds the write lock, so quotes added while
// the remote was being contacted survive. It returns the merged length; the
// merge stands in memory even when persisting it fails.
func (s *QuoteStore) Reconcile(ctx context.Context, remote []domain.Quote) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.quotes = domain.Merge(remote, s.quotes)

	return len(s.quotes), s.persistLocked(ctx)
}

// All returns a copy of the current sequence.
func (s *QuoteStore) All() []domain.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Quote, len(s.quotes))
	copy(out, s.quotes)

	return out
}

// Len returns the number of quotes held.
func (s *QuoteStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.quotes)
}

// persistLocked must be called with s.mu held for writing.
func (s *QuoteStore) persistLocked(ctx context.Context) error {
	s.observe(len(s.quotes))

	raw, err := json.Marshal(toRecords(s.quotes))
	if err != nil {
		return domain.NewPersistenceError(ports.KeyQuotes, err)
	}

	err = s.durable.Set(ctx, ports.KeyQuotes, raw)
	if err != nil {
		s.logger.ErrorContext(ctx, "persisting quotes failed",
			slog.Int("count", len(s.quotes)),
			slog.Any("error", err),
		)

		return domain.NewPersistenceError(ports.KeyQuotes, err)
	}

	return nil
}

func (s *QuoteStore) observe(n int) {
	if s.observer != nil {
		s.observer.SetStoreSize(n)
	}
}
