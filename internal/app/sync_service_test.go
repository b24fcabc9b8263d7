package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-keeper/internal/domain"
	"github.com/jsamuelsen/quote-keeper/internal/mocks"
	"github.com/jsamuelsen/quote-keeper/internal/platform/metrics"
)

type syncFixture struct {
	svc      *SyncService
	store    *QuoteStore
	gateway  *mocks.MockRemoteQuoteGateway
	notifier *mocks.MockNotifier
	synced   atomic.Int32
}

func newSyncFixture(t *testing.T, local ...domain.Quote) *syncFixture {
	t.Helper()

	store, _ := newTestStore(t, local...)
	f := &syncFixture{
		store:    store,
		gateway:  mocks.NewMockRemoteQuoteGateway(t),
		notifier: mocks.NewMockNotifier(t),
	}

	f.svc = NewSyncService(SyncServiceConfig{
		Store:    store,
		Gateway:  f.gateway,
		Notifier: f.notifier,
		OnSynced: func(context.Context) { f.synced.Add(1) },
		Logger:   discardLogger(),
	})

	return f
}

func TestNewSyncService_PanicsWithoutDependencies(t *testing.T) {
	store, _ := newTestStore(t)

	assert.Panics(t, func() {
		NewSyncService(SyncServiceConfig{Store: store})
	})
}

func TestNewSyncService_DefaultsInterval(t *testing.T) {
	f := newSyncFixture(t)

	assert.Equal(t, DefaultSyncInterval, f.svc.Interval())
	assert.Equal(t, SyncStateIdle, f.svc.Status().State)
}

func TestSyncService_Trigger_Success(t *testing.T) {
	local := []domain.Quote{
		{Text: "L1", Category: "Life"},
		{Text: "R1", Category: domain.ServerCategory},
	}
	remote := []domain.Quote{
		{Text: "R1", Category: domain.ServerCategory},
		{Text: "R2", Category: domain.ServerCategory},
	}

	f := newSyncFixture(t, local...)
	f.gateway.EXPECT().Submit(mock.Anything, local[0]).Return(nil).Once()
	f.gateway.EXPECT().Submit(mock.Anything, local[1]).Return(nil).Once()
	f.gateway.EXPECT().FetchAll(mock.Anything).Return(remote, nil).Once()
	f.notifier.EXPECT().Notify(mock.Anything, SyncSucceededMessage).Once()

	result, err := f.svc.Trigger(context.Background())

	require.NoError(t, err)
	assert.NotEmpty(t, result.CycleID)
	assert.Equal(t, 2, result.Submitted)
	assert.Equal(t, 0, result.SubmitFailures)
	assert.Equal(t, 2, result.Fetched)
	assert.Equal(t, 3, result.Total)

	assert.Equal(t, []domain.Quote{remote[0], remote[1], local[0]}, f.store.All())
	assert.Equal(t, int32(1), f.synced.Load())

	status := f.svc.Status()
	assert.Equal(t, SyncStateIdle, status.State)
	assert.Equal(t, metrics.ResultSuccess, status.LastResult)
	assert.Equal(t, 1, status.Cycles)
	require.NotNil(t, status.LastCycle)
	assert.Equal(t, result.CycleID, status.LastCycle.CycleID)
	require.NotNil(t, status.LastRunAt)
}

func TestSyncService_Trigger_SubmitFailuresDoNotAbort(t *testing.T) {
	local := []domain.Quote{{Text: "L1", Category: "Life"}, {Text: "L2", Category: "Work"}}

	f := newSyncFixture(t, local...)
	f.gateway.EXPECT().Submit(mock.Anything, local[0]).Return(domain.NewSubmitError(local[0], errors.New("500"))).Once()
	f.gateway.EXPECT().Submit(mock.Anything, local[1]).Return(nil).Once()
	f.gateway.EXPECT().FetchAll(mock.Anything).Return(nil, nil).Once()
	f.notifier.EXPECT().Notify(mock.Anything, SyncSucceededMessage).Once()

	result, err := f.svc.Trigger(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.SubmitFailures)
	assert.Equal(t, local, f.store.All())
}

func TestSyncService_Trigger_FetchFailureLeavesStoreUntouched(t *testing.T) {
	local := []domain.Quote{{Text: "L1", Category: "Life"}}

	f := newSyncFixture(t, local...)
	f.gateway.EXPECT().Submit(mock.Anything, mock.Anything).Return(nil)
	f.gateway.EXPECT().FetchAll(mock.Anything).
		Return(nil, domain.NewFetchError("remote", errors.New("connection refused"))).Once()
	f.notifier.EXPECT().Notify(mock.Anything, SyncFailedMessage).Once()

	_, err := f.svc.Trigger(context.Background())

	require.Error(t, err)
	assert.True(t, domain.IsFetch(err))

	step, ok := GetExecutionStep(err)
	require.True(t, ok)
	assert.Equal(t, StepPerform, step)

	assert.Equal(t, local, f.store.All())
	assert.Zero(t, f.synced.Load())

	status := f.svc.Status()
	assert.Equal(t, metrics.ResultFailure, status.LastResult)
	assert.Contains(t, status.LastError, "connection refused")
	assert.Nil(t, status.LastCycle)
	assert.Equal(t, 1, status.Cycles)
}

func TestSyncService_Trigger_EmptyStoreSubmitsNothing(t *testing.T) {
	f := newSyncFixture(t)
	require.NoError(t, f.store.ReplaceAll(context.Background(), nil))

	f.gateway.EXPECT().FetchAll(mock.Anything).
		Return([]domain.Quote{{Text: "R1", Category: domain.ServerCategory}}, nil).Once()
	f.notifier.EXPECT().Notify(mock.Anything, SyncSucceededMessage).Once()

	result, err := f.svc.Trigger(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, result.Submitted)
	assert.Equal(t, []domain.Quote{{Text: "R1", Category: domain.ServerCategory}}, f.store.All())
}

func TestSyncService_Trigger_SkipsWhileRunning(t *testing.T) {
	f := newSyncFixture(t, domain.Quote{Text: "L1", Category: "Life"})

	entered := make(chan struct{})
	release := make(chan struct{})

	f.gateway.EXPECT().Submit(mock.Anything, mock.Anything).Return(nil)
	f.gateway.EXPECT().FetchAll(mock.Anything).RunAndReturn(func(context.Context) ([]domain.Quote, error) {
		close(entered)
		<-release

		return nil, nil
	}).Once()
	f.notifier.EXPECT().Notify(mock.Anything, SyncSucceededMessage).Once()

	var wg sync.WaitGroup

	wg.Go(func() {
		_, err := f.svc.Trigger(context.Background())
		assert.NoError(t, err)
	})

	<-entered
	assert.Equal(t, SyncStateSyncing, f.svc.Status().State)

	_, err := f.svc.Trigger(context.Background())

	require.Error(t, err)
	assert.True(t, domain.IsConflict(err))
	assert.False(t, IsExecutionError(err))

	close(release)
	wg.Wait()

	status := f.svc.Status()
	assert.Equal(t, 1, status.Skipped)
	assert.Equal(t, 1, status.Cycles)
	assert.Equal(t, SyncStateIdle, status.State)
}

func TestSyncService_Trigger_KeepsQuotesAddedMidCycle(t *testing.T) {
	local := domain.Quote{Text: "Q1", Category: "C1"}
	remote := []domain.Quote{{Text: "R1", Category: domain.ServerCategory}}

	f := newSyncFixture(t, local)

	entered := make(chan struct{})
	release := make(chan struct{})

	f.gateway.EXPECT().Submit(mock.Anything, local).RunAndReturn(func(context.Context, domain.Quote) error {
		close(entered)
		<-release

		return nil
	}).Once()
	f.gateway.EXPECT().FetchAll(mock.Anything).Return(remote, nil).Once()
	f.notifier.EXPECT().Notify(mock.Anything, SyncSucceededMessage).Once()

	var (
		wg     sync.WaitGroup
		result SyncResult
		err    error
	)

	wg.Go(func() {
		result, err = f.svc.Trigger(context.Background())
	})

	<-entered

	added, addErr := f.store.Add(context.Background(), "NEW", "User")
	require.NoError(t, addErr)

	close(release)
	wg.Wait()

	require.NoError(t, err)
	assert.Equal(t, 1, result.Submitted)
	assert.Equal(t, 3, result.Total)

	want := []domain.Quote{remote[0], local, added}
	assert.Equal(t, want, f.store.All())

	// Reload from durable storage: the added quote was persisted too.
	reloaded := NewQuoteStore(QuoteStoreConfig{Durable: f.store.durable, Logger: discardLogger()})
	reloaded.Load(context.Background())
	assert.Equal(t, want, reloaded.All())
}

func TestSyncService_Trigger_PersistenceFailureStillSucceeds(t *testing.T) {
	durable := mocks.NewMockKeyValueStore(t)
	durable.EXPECT().Set(mock.Anything, mock.Anything, mock.Anything).Return(errors.New("quota exceeded"))

	store := NewQuoteStore(QuoteStoreConfig{Durable: durable, Logger: discardLogger()})
	_ = store.ReplaceAll(context.Background(), []domain.Quote{{Text: "L1", Category: "Life"}})

	gateway := mocks.NewMockRemoteQuoteGateway(t)
	gateway.EXPECT().Submit(mock.Anything, mock.Anything).Return(nil)
	gateway.EXPECT().FetchAll(mock.Anything).Return([]domain.Quote{{Text: "R1", Category: domain.ServerCategory}}, nil)

	notifier := mocks.NewMockNotifier(t)
	notifier.EXPECT().Notify(mock.Anything, SyncSucceededMessage).Once()

	svc := NewSyncService(SyncServiceConfig{Store: store, Gateway: gateway, Notifier: notifier, Logger: discardLogger()})

	_, err := svc.Trigger(context.Background())

	require.NoError(t, err)
	assert.Len(t, store.All(), 2)
}

func TestSyncService_Trigger_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	store, _ := newTestStore(t, domain.Quote{Text: "L1", Category: "Life"})
	gateway := mocks.NewMockRemoteQuoteGateway(t)
	gateway.EXPECT().Submit(mock.Anything, mock.Anything).Return(errors.New("rejected"))
	gateway.EXPECT().FetchAll(mock.Anything).Return(nil, nil)

	notifier := mocks.NewMockNotifier(t)
	notifier.EXPECT().Notify(mock.Anything, SyncSucceededMessage)

	svc := NewSyncService(SyncServiceConfig{
		Store: store, Gateway: gateway, Notifier: notifier, Metrics: m, Logger: discardLogger(),
	})

	_, err = svc.Trigger(context.Background())
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "quote_sync_cycles_total", "quote_sync_submit_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSyncService_Run(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.ReplaceAll(context.Background(), nil))

	var fetches atomic.Int32

	gateway := mocks.NewMockRemoteQuoteGateway(t)
	gateway.EXPECT().FetchAll(mock.Anything).RunAndReturn(func(context.Context) ([]domain.Quote, error) {
		fetches.Add(1)

		return nil, nil
	})

	notifier := mocks.NewMockNotifier(t)
	notifier.EXPECT().Notify(mock.Anything, SyncSucceededMessage)

	svc := NewSyncService(SyncServiceConfig{
		Store:    store,
		Gateway:  gateway,
		Notifier: notifier,
		Interval: 10 * time.Millisecond,
		Logger:   discardLogger(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		svc.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return fetches.Load() >= 3 }, time.Second, 5*time.Millisecond)

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
