package graph

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	abstractions "github.com/microsoft/kiota-abstractions-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyMessagePatterns(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantLevel  slog.Level
	}{
		{"explicit 404", errors.New("request returned 404"), 404, slog.LevelError},
		{"not found text", errors.New("Resource 'xyz' Not Found"), 404, slog.LevelError},
		{"explicit 403", errors.New("got 403 from server"), 403, slog.LevelError},
		{"insufficient privileges", errors.New("Insufficient privileges to complete the operation"), 403, slog.LevelError},
		{"throttle text", errors.New("request was throttled, slow down"), 429, slog.LevelWarn},
		{"explicit 429", errors.New("429 too many requests"), 429, slog.LevelWarn},
		{"bad request", errors.New("Bad Request - invalid filter clause"), 400, slog.LevelError},
		{"unmapped", errors.New("connection reset by peer"), 0, slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Classify(tt.err, "user")
			assert.Equal(t, tt.wantStatus, d.HTTPStatus)
			assert.Equal(t, tt.wantLevel, d.Level)
			assert.NotEmpty(t, d.Reason)
			assert.Equal(t, tt.err.Error(), d.ErrorMessage)
		})
	}
}

func TestClassifyCollapses404And403(t *testing.T) {
	for _, err := range []error{
		errors.New("404: object does not exist"),
		errors.New("resource not found"),
		errors.New("403 forbidden"),
		errors.New("insufficient privileges"),
	} {
		d := Classify(err, "device")
		assert.Equal(t, "Operation failed. The device could not be processed.", d.Reason)
		assert.NotContains(t, d.Reason, "404")
		assert.NotContains(t, d.Reason, "not found")
		assert.NotContains(t, d.Reason, "403")
	}
}

func TestClassifyThrottledSuggestsBackoff(t *testing.T) {
	d := Classify(errors.New("throttling in effect"), "user")
	assert.Equal(t, slog.LevelWarn, d.Level)
	assert.Contains(t, d.Reason, "retry")
	assert.True(t, d.Retryable())
}

func TestClassifyApiErrorStatusCode(t *testing.T) {
	err := &abstractions.ApiError{Message: "denied", ResponseStatusCode: 403}
	d := Classify(err, "group")
	assert.Equal(t, 403, d.HTTPStatus)
	assert.Equal(t, "Operation failed. The group could not be processed.", d.Reason)
	assert.Equal(t, "denied", d.ErrorMessage)
}

func TestClassifyWrappedApiError(t *testing.T) {
	inner := &abstractions.ApiError{Message: "slow down", ResponseStatusCode: 429}
	d := Classify(fmt.Errorf("listing groups: %w", inner), "group")
	assert.Equal(t, 429, d.HTTPStatus)
	assert.Equal(t, slog.LevelWarn, d.Level)
}

func TestClassifyBadRequestKeepsOriginalText(t *testing.T) {
	d := Classify(errors.New("Bad Request: filter syntax"), "user")
	assert.Equal(t, 400, d.HTTPStatus)
	assert.Contains(t, d.Reason, "Bad Request: filter syntax")
}

func TestClassifyIsTotal(t *testing.T) {
	// Must never panic and always return a populated descriptor.
	for _, err := range []error{nil, errors.New(""), fmt.Errorf("wrapped: %w", errors.New("x"))} {
		require.NotPanics(t, func() {
			d := Classify(err, "")
			assert.NotEmpty(t, d.Reason)
			assert.Equal(t, slog.LevelError, d.Level)
		})
	}
}

func TestClassifyDefaultsResourceLabel(t *testing.T) {
	d := Classify(errors.New("404"), "")
	assert.Equal(t, "Operation failed. The resource could not be processed.", d.Reason)
}
