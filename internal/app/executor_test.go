package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/summitpoint/quotedesk/internal/platform/logging"
)

func echoOperation(name string) Operation[string, string, string, string] {
	return Operation[string, string, string, string]{
		Name: name,
		Perform: func(_ context.Context, input string) (string, error) {
			return input, nil
		},
		Verify: func(_ context.Context, _ string, performed string) (string, error) {
			return performed, nil
		},
		Respond: func(_ context.Context, _ string, verified string) (string, error) {
			return verified, nil
		},
	}
}

func TestExecute_UsesExecutorLoggerWithoutContextLogger(t *testing.T) {
	var buf bytes.Buffer
	exec := NewExecutor(slog.New(slog.NewJSONHandler(&buf, nil)))

	out, err := Execute(context.Background(), exec, echoOperation("quote.finalize"), "Q-2041")

	require.NoError(t, err)
	assert.Equal(t, "Q-2041", out)
	assert.Contains(t, buf.String(), "quote.finalize")
	assert.Contains(t, buf.String(), "operation completed")
}

func TestExecute_PrefersContextLogger(t *testing.T) {
	var execBuf, ctxBuf bytes.Buffer
	exec := NewExecutor(slog.New(slog.NewJSONHandler(&execBuf, nil)))

	ctx := logging.WithContext(context.Background(),
		slog.New(slog.NewJSONHandler(&ctxBuf, nil)))

	_, err := Execute(ctx, exec, echoOperation("quote.finalize"), "Q-2041")

	require.NoError(t, err)
	assert.Contains(t, ctxBuf.String(), "quote.finalize")
	assert.Empty(t, execBuf.String())
}

func TestExecute_StepFailureTagsTheStep(t *testing.T) {
	exec := NewExecutor(slog.New(slog.NewTextHandler(io.Discard, nil)))

	op := echoOperation("quote.finalize")
	op.Verify = func(_ context.Context, _ string, _ string) (string, error) {
		return "", assert.AnError
	}

	_, err := Execute(context.Background(), exec, op, "Q-2041")
	require.Error(t, err)

	step, ok := GetExecutionStep(err)
	require.True(t, ok)
	assert.Equal(t, StepVerify, step)
	assert.ErrorIs(t, err, assert.AnError)
}
