package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockChecker implements HealthChecker for testing.
type mockChecker struct {
	name string
	err  error
}

func (m *mockChecker) Name() string {
	return m.name
}

func (m *mockChecker) Check(ctx context.Context) error {
	return m.err
}

// TestNewHealthRegistry verifies that a new registry is created with empty checkers.
func TestNewHealthRegistry(t *testing.T) {
	registry := NewHealthRegistry()

	require.NotNil(t, registry)
	assert.NotNil(t, registry.checkers)
	assert.Empty(t, registry.checkers)
}

// TestRegister_Success verifies that a checker can be registered successfully.
func TestRegister_Success(t *testing.T) {
	registry := NewHealthRegistry()
	checker := &mockChecker{name: "sqlite"}

	err := registry.Register(checker)

	require.NoError(t, err)
	assert.Len(t, registry.checkers, 1)
	assert.Equal(t, "sqlite", registry.checkers[0].Name())
}

// TestRegister_DuplicateName verifies that registering duplicate checker names returns an error.
func TestRegister_DuplicateName(t *testing.T) {
	registry := NewHealthRegistry()
	checker1 := &mockChecker{name: "sqlite"}
	checker2 := &mockChecker{name: "sqlite"}

	err := registry.Register(checker1)
	require.NoError(t, err)

	err = registry.Register(checker2)

	require.Error(t, err)
	require.ErrorIs(t, err, ErrDuplicateChecker)
	assert.Contains(t, err.Error(), "sqlite")
	assert.Len(t, registry.checkers, 1)
}

// TestCheckAll_NoCheckers verifies that an empty registry returns healthy status.
func TestCheckAll_NoCheckers(t *testing.T) {
	registry := NewHealthRegistry()
	ctx := context.Background()

	result := registry.CheckAll(ctx)

	require.NotNil(t, result)
	assert.Equal(t, HealthStatusHealthy, result.Status)
	assert.NotNil(t, result.Checks)
	assert.Empty(t, result.Checks)
	assert.False(t, result.Timestamp.IsZero())
}

// TestCheckAll_AllHealthy verifies that multiple healthy checkers result in healthy status.
func TestCheckAll_AllHealthy(t *testing.T) {
	registry := NewHealthRegistry()
	checker1 := &mockChecker{name: "sqlite", err: nil}
	checker2 := &mockChecker{name: "session-store", err: nil}
	checker3 := &mockChecker{name: "remote-quotes", err: nil}

	require.NoError(t, registry.Register(checker1))
	require.NoError(t, registry.Register(checker2))
	require.NoError(t, registry.Register(checker3))

	ctx := context.Background()
	result := registry.CheckAll(ctx)

	require.NotNil(t, result)
	assert.Equal(t, HealthStatusHealthy, result.Status)
	assert.Len(t, result.Checks, 3)

	// Verify all checks are healthy
	assert.Equal(t, HealthStatusHealthy, result.Checks["sqlite"].Status)
	assert.Equal(t, HealthStatusHealthy, result.Checks["session-store"].Status)
	assert.Equal(t, HealthStatusHealthy, result.Checks["remote-quotes"].Status)

	// Verify no error messages
	assert.Empty(t, result.Checks["sqlite"].Message)
	assert.Empty(t, result.Checks["session-store"].Message)
	assert.Empty(t, result.Checks["remote-quotes"].Message)
}

// TestCheckAll_OneUnhealthy verifies that one failing checker makes the overall result unhealthy.
func TestCheckAll_OneUnhealthy(t *testing.T) {
	registry := NewHealthRegistry()
	checker1 := &mockChecker{name: "sqlite", err: nil}
	checker2 := &mockChecker{name: "session-store", err: errors.New("connection timeout")}
	checker3 := &mockChecker{name: "remote-quotes", err: nil}

	require.NoError(t, registry.Register(checker1))
	require.NoError(t, registry.Register(checker2))
	require.NoError(t, registry.Register(checker3))

	ctx := context.Background()
	result := registry.CheckAll(ctx)

	require.NotNil(t, result)
	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Len(t, result.Checks, 3)

	// Verify individual statuses
	assert.Equal(t, HealthStatusHealthy, result.Checks["sqlite"].Status)
	assert.Equal(t, HealthStatusUnhealthy, result.Checks["session-store"].Status)
	assert.Equal(t, HealthStatusHealthy, result.Checks["remote-quotes"].Status)

	// Verify error message is captured
	assert.Empty(t, result.Checks["sqlite"].Message)
	assert.Equal(t, "connection timeout", result.Checks["session-store"].Message)
	assert.Empty(t, result.Checks["remote-quotes"].Message)
}

// contextAwareChecker implements HealthChecker that respects context cancellation.
type contextAwareChecker struct {
	name string
}

func (c *contextAwareChecker) Name() string {
	return c.name
}

func (c *contextAwareChecker) Check(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

// TestCheckAll_ContextCancelled verifies that the health check respects context cancellation.
func TestCheckAll_ContextCancelled(t *testing.T) {
	registry := NewHealthRegistry()
	checker := &contextAwareChecker{name: "slow-service"}

	require.NoError(t, registry.Register(checker))

	// Create a context that's already cancelled
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := registry.CheckAll(ctx)

	require.NotNil(t, result)
	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Len(t, result.Checks, 1)
	assert.Equal(t, HealthStatusUnhealthy, result.Checks["slow-service"].Status)
	assert.Contains(t, result.Checks["slow-service"].Message, "context canceled")
}

// optionalChecker is a non-critical HealthChecker.
type optionalChecker struct {
	mockChecker
}

func (o *optionalChecker) Critical() bool {
	return false
}

func TestIsCritical(t *testing.T) {
	assert.True(t, IsCritical(&mockChecker{name: "sqlite"}))
	assert.False(t, IsCritical(&optionalChecker{mockChecker{name: "remote-quotes"}}))
}

func TestCheckAll_NonCriticalFailureDegrades(t *testing.T) {
	tests := []struct {
		name           string
		sqliteErr      error
		remoteErr      error
		expectedStatus HealthStatus
	}{
		{name: "all healthy", expectedStatus: HealthStatusHealthy},
		{name: "remote down", remoteErr: errors.New("circuit breaker open"), expectedStatus: HealthStatusDegraded},
		{name: "sqlite down", sqliteErr: errors.New("database is locked"), expectedStatus: HealthStatusUnhealthy},
		{
			name:           "both down",
			sqliteErr:      errors.New("database is locked"),
			remoteErr:      errors.New("circuit breaker open"),
			expectedStatus: HealthStatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewHealthRegistry()
			require.NoError(t, registry.Register(&mockChecker{name: "sqlite", err: tt.sqliteErr}))
			require.NoError(t, registry.Register(&optionalChecker{mockChecker{name: "remote-quotes", err: tt.remoteErr}}))

			result := registry.CheckAll(context.Background())

			assert.Equal(t, tt.expectedStatus, result.Status)
			assert.True(t, result.Checks["sqlite"].Critical)
			assert.False(t, result.Checks["remote-quotes"].Critical)
		})
	}
}
