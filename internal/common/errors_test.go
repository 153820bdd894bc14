package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		err        error
		name       string
		wantCode   string
		wantStatus int
		retryable  bool
	}{
		{
			name:       "validation",
			err:        NewValidationError("merchant is required"),
			wantCode:   CodeValidation,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "authentication",
			err:        NewAuthenticationError("valid user ID is required"),
			wantCode:   CodeAuthentication,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not found",
			err:        NewNotFoundError("transaction"),
			wantCode:   CodeNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "conflict",
			err:        NewConflictError("already justified"),
			wantCode:   CodeConflict,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "database",
			err:        NewDatabaseError("insert failed", errors.New("disk full")),
			wantCode:   CodeDatabase,
			wantStatus: http.StatusInternalServerError,
			retryable:  true,
		},
		{
			name:       "external service",
			err:        NewExternalServiceError("openai", errors.New("503")),
			wantCode:   CodeExternalService,
			wantStatus: http.StatusBadGateway,
			retryable:  true,
		},
		{
			name:       "timeout",
			err:        NewTimeoutError("analysis timed out"),
			wantCode:   CodeTimeout,
			wantStatus: http.StatusRequestTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, ErrorCode(tt.err))
			assert.Equal(t, tt.wantStatus, HTTPStatus(tt.err))
			assert.Equal(t, tt.retryable, IsRetryable(tt.err))
		})
	}
}

func TestErrorUnwrapping(t *testing.T) {
	cause := errors.New("disk full")
	err := NewDatabaseError("insert failed", cause)

	assert.ErrorIs(t, err, ErrDatabase)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "insert failed")
	assert.Contains(t, err.Error(), "disk full")

	// Wrapping through fmt keeps the classification intact.
	wrapped := fmt.Errorf("processing: %w", err)
	assert.Equal(t, CodeDatabase, ErrorCode(wrapped))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(wrapped))
}

func TestUnknownErrorDefaults(t *testing.T) {
	err := errors.New("something odd")
	assert.Equal(t, CodeInternal, ErrorCode(err))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
	assert.False(t, IsRetryable(err))

	assert.Equal(t, "transaction not found", NewNotFoundError("transaction").Error())
}
