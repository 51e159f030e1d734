package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/summitpoint/quotedesk/internal/platform/logging"
)

// Transactional operation runner: Validate, Perform, Verify, Archive, Respond.
//
// Multi-step operations that touch external collaborators (the renderer,
// the notifier, the remote store) run through these five steps so that
// quote state is only persisted after the produced artifacts have been
// verified. A failure at any step aborts before the archive step runs.

// ExecutionStep names the step at which a run failed.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
	StepRespond  ExecutionStep = "respond"
)

// ExecutionError tags a failure with the step it came from, so callers
// can tell a rejected input from a collaborator fault from a persistence
// failure.
type ExecutionError struct {
	Step    ExecutionStep
	Message string
	Cause   error
}

func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Step, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s failed: %s", e.Step, e.Message)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

func stepError(step ExecutionStep, message string, cause error) error {
	return &ExecutionError{Step: step, Message: message, Cause: cause}
}

// Executor carries the fallback logger for runs whose context has none.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor creates an executor. A nil logger falls back to slog.Default.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{logger: logger}
}

// Operation defines the step functions of one transactional run. Nil
// steps are skipped.
type Operation[I, P, V, O any] struct {
	// Name identifies this operation in log records.
	Name string

	// Validate checks inputs and preconditions before anything runs.
	Validate func(ctx context.Context, input I) error

	// Perform does the work: renders, dispatches, fetches.
	Perform func(ctx context.Context, input I) (P, error)

	// Verify confirms the performed work is actually usable. Perform's
	// return value is never trusted on its own.
	Verify func(ctx context.Context, input I, performed P) (V, error)

	// Archive persists the verified outcome. Runs only after Verify.
	Archive func(ctx context.Context, input I, verified V) error

	// Respond shapes the result handed back to the caller.
	Respond func(ctx context.Context, input I, verified V) (O, error)
}

// Execute runs op through the full five-step sequence.
func Execute[I, P, V, O any](ctx context.Context, exec *Executor, op Operation[I, P, V, O], input I) (O, error) {
	var zero O

	logger := exec.logger
	if ctxLogger, ok := logging.AttachedLogger(ctx); ok {
		logger = ctxLogger
	}

	logger = logger.With(slog.String("operation", op.Name))
	start := time.Now()

	if op.Validate != nil {
		if err := op.Validate(ctx, input); err != nil {
			logger.WarnContext(ctx, "validation failed", slog.Any("error", err))

			return zero, stepError(StepValidate, "input validation failed", err)
		}
	}

	var performed P
	if op.Perform != nil {
		var err error

		performed, err = op.Perform(ctx, input)
		if err != nil {
			logger.ErrorContext(ctx, "perform failed", slog.Any("error", err))

			return zero, stepError(StepPerform, "operation failed", err)
		}
	}

	var verified V
	if op.Verify != nil {
		var err error

		verified, err = op.Verify(ctx, input, performed)
		if err != nil {
			logger.ErrorContext(ctx, "verification failed", slog.Any("error", err))

			return zero, stepError(StepVerify, "verification failed", err)
		}
	}

	if op.Archive != nil {
		if err := op.Archive(ctx, input, verified); err != nil {
			logger.ErrorContext(ctx, "archive failed", slog.Any("error", err))

			return zero, stepError(StepArchive, "state persistence failed", err)
		}
	}

	var result O
	if op.Respond != nil {
		var err error

		result, err = op.Respond(ctx, input, verified)
		if err != nil {
			logger.WarnContext(ctx, "respond formatting failed", slog.Any("error", err))

			return zero, err
		}
	}

	logger.InfoContext(ctx, "operation completed",
		slog.Duration("duration", time.Since(start)),
	)

	return result, nil
}

// GetExecutionStep extracts the failing step from an execution error.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}
