package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-keeper/internal/platform/logging"
)

// Multi-step operations run as Validate → Perform → Verify → Archive → Respond.
//
// Nothing is written before Archive, so a failure in the first three steps
// leaves state untouched. A sync cycle maps onto it as:
//   1. VALIDATE  - claim the cycle (skip if one is already in flight)
//   2. PERFORM   - submit local quotes, fetch remote quotes
//   3. VERIFY    - merge into the candidate sequence
//   4. ARCHIVE   - replace the store contents
//   5. RESPOND   - refresh dependents and report the outcome

// ExecutionStep represents a step of an operation.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
	StepRespond  ExecutionStep = "respond"
)

const tracerName = "github.com/jsamuelsen/quote-keeper/internal/app"

// ExecutionError wraps errors with the step where they occurred.
type ExecutionError struct {
	Step    ExecutionStep
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Step, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s failed: %s", e.Step, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

func newStepError(step ExecutionStep, message string, cause error) error {
	return &ExecutionError{Step: step, Message: message, Cause: cause}
}

// Executor runs operations step by step with logging and tracing.
type Executor struct {
	logger *slog.Logger
	tracer trace.Tracer
}

// NewExecutor creates a new executor with the given logger.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}
}

// Operation defines the functions for each step. Any step may be nil.
type Operation[I, P, V, O any] struct {
	// Name identifies this operation in logs and spans.
	Name string

	// Validate checks preconditions. An error aborts before any state changes.
	Validate func(ctx context.Context, input I) error

	// Perform does the remote or expensive work.
	Perform func(ctx context.Context, input I) (P, error)

	// Verify turns Perform's output into the state to be archived.
	Verify func(ctx context.Context, input I, performed P) (V, error)

	// Archive persists the verified state.
	Archive func(ctx context.Context, input I, verified V) error

	// Respond builds the caller's result after everything else succeeded.
	Respond func(ctx context.Context, input I, verified V) (O, error)
}

type executionContext[I, P, V, O any] struct {
	logger *slog.Logger
	op     Operation[I, P, V, O]
	input  I
}

func (e *executionContext[I, P, V, O]) runValidate(ctx context.Context) error {
	if e.op.Validate == nil {
		return nil
	}

	err := e.op.Validate(ctx, e.input)
	if err != nil {
		e.logger.DebugContext(ctx, "validation failed", slog.Any("error", err))

		return newStepError(StepValidate, "precondition not met", err)
	}

	return nil
}

func (e *executionContext[I, P, V, O]) runPerform(ctx context.Context) (P, error) {
	var zero P

	if e.op.Perform == nil {
		return zero, nil
	}

	e.logger.DebugContext(ctx, "performing operation")

	performed, err := e.op.Perform(ctx, e.input)
	if err != nil {
		e.logger.ErrorContext(ctx, "perform failed", slog.Any("error", err))

		return zero, newStepError(StepPerform, "operation failed", err)
	}

	return performed, nil
}

func (e *executionContext[I, P, V, O]) runVerify(ctx context.Context, performed P) (V, error) {
	var zero V

	if e.op.Verify == nil {
		return zero, nil
	}

	verified, err := e.op.Verify(ctx, e.input, performed)
	if err != nil {
		e.logger.ErrorContext(ctx, "verification failed", slog.Any("error", err))

		return zero, newStepError(StepVerify, "verification failed", err)
	}

	return verified, nil
}

func (e *executionContext[I, P, V, O]) runArchive(ctx context.Context, verified V) error {
	if e.op.Archive == nil {
		return nil
	}

	e.logger.DebugContext(ctx, "archiving state")

	err := e.op.Archive(ctx, e.input, verified)
	if err != nil {
		e.logger.ErrorContext(ctx, "archive failed", slog.Any("error", err))

		return newStepError(StepArchive, "state persistence failed", err)
	}

	return nil
}

func (e *executionContext[I, P, V, O]) runRespond(ctx context.Context, verified V) (O, error) {
	var zero O

	if e.op.Respond == nil {
		return zero, nil
	}

	result, err := e.op.Respond(ctx, e.input, verified)
	if err != nil {
		e.logger.WarnContext(ctx, "respond failed", slog.Any("error", err))

		return zero, newStepError(StepRespond, "response failed", err)
	}

	return result, nil
}

// Execute runs op against input, one step after another, stopping at the
// first failing step.
func Execute[I, P, V, O any](ctx context.Context, exec *Executor, op Operation[I, P, V, O], input I) (result O, err error) {
	ctx, span := exec.tracer.Start(ctx, op.Name)
	defer func() {
		if err != nil {
			step, _ := GetExecutionStep(err)
			span.SetAttributes(attribute.String("operation.failed_step", string(step)))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		span.End()
	}()

	logger := exec.logger
	if l, ok := logging.Lookup(ctx); ok {
		logger = l
	}

	logger = logger.With(slog.String("operation", op.Name))
	start := time.Now()

	ec := &executionContext[I, P, V, O]{
		logger: logger,
		op:     op,
		input:  input,
	}

	err = ec.runValidate(ctx)
	if err != nil {
		return result, err
	}

	performed, err := ec.runPerform(ctx)
	if err != nil {
		return result, err
	}

	verified, err := ec.runVerify(ctx, performed)
	if err != nil {
		return result, err
	}

	err = ec.runArchive(ctx, verified)
	if err != nil {
		return result, err
	}

	result, err = ec.runRespond(ctx, verified)
	if err != nil {
		return result, err
	}

	logger.InfoContext(ctx, "operation completed",
		slog.Duration("duration", time.Since(start)),
	)

	return result, nil
}

// IsExecutionError checks if an error occurred during execution.
func IsExecutionError(err error) bool {
	var execErr *ExecutionError

	return errors.As(err, &execErr)
}

// GetExecutionStep extracts the step from an execution error.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}
