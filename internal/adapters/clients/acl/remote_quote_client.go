package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/jsamuelsen/quote-keeper/internal/adapters/clients"
	"github.com/jsamuelsen/quote-keeper/internal/domain"
	"github.com/jsamuelsen/quote-keeper/internal/platform/logging"
)

// DefaultPath is the collection resource on the remote source.
const DefaultPath = "/posts"

// RemoteQuoteClientConfig contains configuration for the remote quote client.
type RemoteQuoteClientConfig struct {
	// Client is the HTTP client; its BaseURL points at the remote source.
	Client *clients.Client

	// Path is the collection resource. Defaults to DefaultPath.
	Path string

	// SubmitMaxAttempts bounds attempts per submission. Zero uses the
	// client's retry policy.
	SubmitMaxAttempts int

	// Limiter paces submissions. Nil means unlimited.
	Limiter *rate.Limiter

	Logger *slog.Logger
}

// RemoteQuoteClient implements ports.RemoteQuoteGateway against a
// JSONPlaceholder-style posts collection.
type RemoteQuoteClient struct {
	BaseAdapter

	client        *clients.Client
	path          string
	submitOptions []clients.RequestOption
	limiter       *rate.Limiter
	logger        *slog.Logger
}

// NewRemoteQuoteClient creates the gateway. Panics if Client is nil.
func NewRemoteQuoteClient(cfg RemoteQuoteClientConfig) *RemoteQuoteClient {
	if cfg.Client == nil {
		panic("RemoteQuoteClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}

	var submitOptions []clients.RequestOption
	if cfg.SubmitMaxAttempts > 0 {
		submitOptions = append(submitOptions, clients.WithMaxAttempts(cfg.SubmitMaxAttempts))
	}

	return &RemoteQuoteClient{
		BaseAdapter:   NewBaseAdapter(cfg.Client, cfg.Client.ServiceName()),
		client:        cfg.Client,
		path:          path,
		submitOptions: submitOptions,
		limiter:       cfg.Limiter,
		logger:        logger,
	}
}

// post is the remote representation. Only Title is used.
type post struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// submission is the body sent for every local quote.
type submission struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

func translatePost(p post) (domain.Quote, error) {
	return domain.Quote{Text: p.Title, Category: domain.ServerCategory}, nil
}

// FetchAll retrieves the remote collection and files every post's title
// under domain.ServerCategory. Any failure yields a *domain.FetchError.
func (c *RemoteQuoteClient) FetchAll(ctx context.Context) ([]domain.Quote, error) {
	logger := logging.FromContext(ctx)
	logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", c.path))

	body, err := c.Get(ctx, c.path, "fetch quotes")
	if err != nil {
		return nil, domain.NewFetchError(c.ServiceName(), err)
	}

	posts, err := DecodeResponse[[]post](body)
	if err != nil {
		return nil, domain.NewFetchError(c.ServiceName(), err)
	}

	quotes, err := TranslateSlice(posts, translatePost)
	if err != nil {
		return nil, domain.NewFetchError(c.ServiceName(), err)
	}

	logger.DebugContext(ctx, "fetched remote quotes", slog.Int("count", len(quotes)))

	return quotes, nil
}

// Submit posts one quote. The response body is discarded unread.
func (c *RemoteQuoteClient) Submit(ctx context.Context, q domain.Quote) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return domain.NewSubmitError(q, fmt.Errorf("waiting for submit slot: %w", err))
		}
	}

	payload, err := json.Marshal(submission{Text: q.Text, Category: q.Category})
	if err != nil {
		return domain.NewSubmitError(q, err)
	}

	body, err := c.Post(ctx, c.path, bytes.NewReader(payload), "submit quote", c.submitOptions...)
	if err != nil {
		return domain.NewSubmitError(q, err)
	}

	drain(body)

	logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "submitted quote",
		slog.String("category", q.Category),
	)

	return nil
}

// Name returns the health check name for this client.
func (c *RemoteQuoteClient) Name() string {
	return c.ServiceName()
}

// Check reports the remote source unhealthy while the circuit is open, and
// otherwise performs a single GET of the collection.
func (c *RemoteQuoteClient) Check(ctx context.Context) error {
	if snap := c.client.CircuitSnapshot(); snap.State == clients.StateOpen {
		return domain.NewUnavailableError(c.ServiceName(),
			"circuit breaker open until "+snap.RetryAt.Format(time.RFC3339))
	}

	body, err := c.Get(ctx, c.path, "health check", clients.WithMaxAttempts(1))
	if err != nil {
		return err
	}

	drain(body)

	return nil
}

// Critical reports that the service keeps working without the remote source.
func (c *RemoteQuoteClient) Critical() bool {
	return false
}
