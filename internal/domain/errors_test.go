package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrValidation,
		ErrConflict,
		ErrUnavailable,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b,
					"sentinels should be distinct: %v vs %v", a, b)
			}
		}
	}
}

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name        string
		entity      string
		number      string
		expectedMsg string
	}{
		{
			name:        "with entity and number",
			entity:      "quote",
			number:      "Q-100",
			expectedMsg: `quote "Q-100" not found`,
		},
		{
			name:        "with entity only",
			entity:      "line item",
			number:      "",
			expectedMsg: "line item not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewNotFoundError(tt.entity, tt.number)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrNotFound)

			var notFound *NotFoundError
			require.ErrorAs(t, err, &notFound)
			assert.Equal(t, tt.entity, notFound.Entity)
			assert.Equal(t, tt.number, notFound.Number)
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("customer.name", "required before the draft can be saved")

	assert.Equal(t, "validation failed for customer.name: required before the draft can be saved", err.Error())
	require.ErrorIs(t, err, ErrValidation)

	fieldless := NewValidationError("", "draft is empty")
	assert.Equal(t, "validation failed: draft is empty", fieldless.Error())
}

func TestConflictError(t *testing.T) {
	err := NewConflictError("quote", "number already allocated")

	assert.Equal(t, "quote conflict: number already allocated", err.Error())
	require.ErrorIs(t, err, ErrConflict)
}

func TestUnavailableError(t *testing.T) {
	err := NewUnavailableError("quote-store", "connection refused")

	assert.Equal(t, `service "quote-store" unavailable: connection refused`, err.Error())
	require.ErrorIs(t, err, ErrUnavailable)

	bare := NewUnavailableError("notifier", "")
	assert.Equal(t, `service "notifier" unavailable`, bare.Error())
}

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{name: "not found matches", err: NewNotFoundError("quote", "Q-1"), check: IsNotFound, want: true},
		{name: "validation matches", err: NewValidationError("status", "unknown"), check: IsValidation, want: true},
		{name: "conflict matches", err: NewConflictError("quote", "dup"), check: IsConflict, want: true},
		{name: "unavailable matches", err: NewUnavailableError("store", "down"), check: IsUnavailable, want: true},
		{name: "wrapped still matches", err: fmt.Errorf("saving: %w", NewUnavailableError("store", "down")), check: IsUnavailable, want: true},
		{name: "mismatch", err: NewNotFoundError("quote", "Q-1"), check: IsValidation, want: false},
		{name: "nil error", err: nil, check: IsNotFound, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.err))
		})
	}
}
