package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen/quote-keeper/internal/domain"
	"github.com/jsamuelsen/quote-keeper/internal/platform/logging"
	"github.com/jsamuelsen/quote-keeper/internal/platform/metrics"
	"github.com/jsamuelsen/quote-keeper/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-keeper/internal/ports"
)

// Messages reported through the notifier at the end of a cycle.
const (
	SyncSucceededMessage = "Quotes synced with server successfully!"
	SyncFailedMessage    = "Server sync failed!"
)

// DefaultSyncInterval is the period between scheduled cycles.
const DefaultSyncInterval = 30 * time.Second

// SyncState is the reconciler state.
type SyncState string

const (
	SyncStateIdle    SyncState = "idle"
	SyncStateSyncing SyncState = "syncing"
)

// SyncResult describes one completed cycle.
type SyncResult struct {
	CycleID        string        `json:"cycleId"`
	Submitted      int           `json:"submitted"`
	SubmitFailures int           `json:"submitFailures"`
	Fetched        int           `json:"fetched"`
	Total          int           `json:"total"`
	Duration       time.Duration `json:"duration"`
}

// SyncStatus is a point-in-time view of the reconciler.
type SyncStatus struct {
	State      SyncState   `json:"state"`
	LastResult string      `json:"lastResult,omitempty"`
	LastRunAt  *time.Time  `json:"lastRunAt,omitempty"`
	LastError  string      `json:"lastError,omitempty"`
	LastCycle  *SyncResult `json:"lastCycle,omitempty"`
	Cycles     int         `json:"cycles"`
	Skipped    int         `json:"skipped"`
}

// SyncService reconciles the local store with the remote quote source.
//
// A cycle submits every local quote, fetches the remote set, merges with
// remote precedence and replaces the store. Cycles never overlap: a trigger
// that arrives while one is running is skipped with a *domain.ConflictError.
type SyncService struct {
	store      *QuoteStore
	gateway    ports.RemoteQuoteGateway
	notifier   ports.Notifier
	onSynced   func(ctx context.Context)
	interval   time.Duration
	submitWide int
	metrics    *metrics.Metrics
	executor   *Executor
	logger     *slog.Logger
	now        func() time.Time

	syncing atomic.Bool

	mu     sync.RWMutex
	status SyncStatus
}

// SyncServiceConfig contains the dependencies of a SyncService.
type SyncServiceConfig struct {
	Store    *QuoteStore
	Gateway  ports.RemoteQuoteGateway
	Notifier ports.Notifier

	// OnSynced runs after a successful cycle so dependents can refresh.
	OnSynced func(ctx context.Context)

	// Interval defaults to DefaultSyncInterval.
	Interval time.Duration

	// SubmitConcurrency bounds in-flight submissions. Zero means unbounded.
	SubmitConcurrency int

	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// NewSyncService creates a reconciler. Store, Gateway and Notifier are required.
func NewSyncService(cfg SyncServiceConfig) *SyncService {
	if cfg.Store == nil || cfg.Gateway == nil || cfg.Notifier == nil {
		panic("app: SyncService requires Store, Gateway and Notifier")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultSyncInterval
	}

	return &SyncService{
		store:      cfg.Store,
		gateway:    cfg.Gateway,
		notifier:   cfg.Notifier,
		onSynced:   cfg.OnSynced,
		interval:   interval,
		submitWide: cfg.SubmitConcurrency,
		metrics:    cfg.Metrics,
		executor:   NewExecutor(logger),
		logger:     logger,
		now:        time.Now,
		status:     SyncStatus{State: SyncStateIdle},
	}
}

// Run performs one cycle immediately and then one per interval until ctx
// is cancelled. Cycle errors are reported through the notifier and logs.
func (s *SyncService) Run(ctx context.Context) {
	s.logger.InfoContext(ctx, "sync loop started", slog.Duration("interval", s.interval))

	_, _ = s.Trigger(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "sync loop stopped")

			return
		case <-ticker.C:
			_, _ = s.Trigger(ctx)
		}
	}
}

// fetched is the output of the perform step.
type fetched struct {
	submitted      int
	remote         []domain.Quote
	submitFailures int
}

// Trigger runs one cycle now. It returns a *domain.ConflictError without
// doing anything if a cycle is already in flight.
func (s *SyncService) Trigger(ctx context.Context) (SyncResult, error) {
	cycleID := uuid.NewString()

	if _, ok := logging.Lookup(ctx); !ok {
		ctx = logging.WithContext(ctx, s.logger)
	}

	ctx = logging.WithCycleID(ctx, cycleID)
	start := s.now()

	acquired := false

	defer func() {
		if acquired {
			s.syncing.Store(false)
		}
	}()

	// Set by the archive step: the merge runs against the store's contents
	// at that point, not against the snapshot that was submitted.
	var total int

	op := Operation[string, fetched, fetched, SyncResult]{
		Name: telemetry.SyncCycleSpan,
		Validate: func(_ context.Context, _ string) error {
			if !s.syncing.CompareAndSwap(false, true) {
				return domain.NewConflictError("sync cycle", "already in progress")
			}

			acquired = true
			s.setState(SyncStateSyncing)

			return nil
		},
		Perform: func(ctx context.Context, _ string) (fetched, error) {
			local := s.store.All()
			failures := s.submitAll(ctx, local)

			remote, err := s.gateway.FetchAll(ctx)
			if err != nil {
				return fetched{}, err
			}

			return fetched{submitted: len(local), remote: remote, submitFailures: failures}, nil
		},
		Verify: func(_ context.Context, _ string, f fetched) (fetched, error) {
			return f, nil
		},
		Archive: func(ctx context.Context, _ string, f fetched) error {
			n, err := s.store.Reconcile(ctx, f.remote)
			total = n

			if domain.IsPersistence(err) {
				logging.FromContext(ctx).WarnContext(ctx, "merged quotes kept in memory only",
					slog.Any("error", err),
				)

				return nil
			}

			return err
		},
		Respond: func(ctx context.Context, id string, f fetched) (SyncResult, error) {
			if s.onSynced != nil {
				s.onSynced(ctx)
			}

			return SyncResult{
				CycleID:        id,
				Submitted:      f.submitted,
				SubmitFailures: f.submitFailures,
				Fetched:        len(f.remote),
				Total:          total,
			}, nil
		},
	}

	result, err := Execute(ctx, s.executor, op, cycleID)

	if step, _ := GetExecutionStep(err); step == StepValidate {
		s.recordSkip(ctx)

		return SyncResult{}, errors.Unwrap(err)
	}

	duration := s.now().Sub(start)

	if err != nil {
		s.recordFailure(ctx, err, duration)

		return SyncResult{}, err
	}

	result.Duration = duration
	s.recordSuccess(ctx, result)

	return result, nil
}

// Status reports the current reconciler state.
func (s *SyncService) Status() SyncStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.status
}

// Interval returns the scheduling period.
func (s *SyncService) Interval() time.Duration {
	return s.interval
}

func (s *SyncService) submitAll(ctx context.Context, local []domain.Quote) int {
	fns := make([]func(context.Context) (struct{}, error), len(local))
	for i, q := range local {
		fns[i] = func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.gateway.Submit(ctx, q)
		}
	}

	results := ParallelPartialLimit(ctx, s.submitWide, fns...)
	logger := logging.FromContext(ctx)

	for _, r := range results {
		if r.Err != nil {
			logger.WarnContext(ctx, "quote submission failed", slog.Any("error", r.Err))
		}
	}

	failures := CountErrors(results)
	s.metrics.AddSubmitFailures(failures)

	return failures
}

func (s *SyncService) setState(state SyncState) {
	s.mu.Lock()
	s.status.State = state
	s.mu.Unlock()
}

func (s *SyncService) recordSkip(ctx context.Context) {
	logging.FromContext(ctx).InfoContext(ctx, "sync cycle skipped, previous cycle still running")
	s.metrics.ObserveCycle(metrics.ResultSkipped, 0)

	s.mu.Lock()
	s.status.Skipped++
	s.mu.Unlock()
}

func (s *SyncService) recordFailure(ctx context.Context, err error, d time.Duration) {
	logging.FromContext(ctx).ErrorContext(ctx, "sync cycle failed",
		slog.Duration("duration", d),
		slog.Any("error", err),
	)
	s.metrics.ObserveCycle(metrics.ResultFailure, d)

	ranAt := s.now()

	s.mu.Lock()
	s.status = SyncStatus{
		State:      SyncStateIdle,
		LastResult: metrics.ResultFailure,
		LastRunAt:  &ranAt,
		LastError:  err.Error(),
		Cycles:     s.status.Cycles + 1,
		Skipped:    s.status.Skipped,
	}
	s.mu.Unlock()

	s.notifier.Notify(ctx, SyncFailedMessage)
}

func (s *SyncService) recordSuccess(ctx context.Context, result SyncResult) {
	s.metrics.ObserveCycle(metrics.ResultSuccess, result.Duration)

	ranAt := s.now()

	s.mu.Lock()
	s.status = SyncStatus{
		State:      SyncStateIdle,
		LastResult: metrics.ResultSuccess,
		LastRunAt:  &ranAt,
		LastCycle:  &result,
		Cycles:     s.status.Cycles + 1,
		Skipped:    s.status.Skipped,
	}
	s.mu.Unlock()

	s.notifier.Notify(ctx, SyncSucceededMessage)
}
