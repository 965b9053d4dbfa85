package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	original := NewForbidden("nope")
	converted := ToDomainError(original)
	assert.Equal(t, "FORBIDDEN", converted.Code)
	assert.Equal(t, http.StatusForbidden, converted.HTTPStatus)
}

func TestToDomainErrorWrappedDomainError(t *testing.T) {
	wrapped := fmt.Errorf("while saving: %w", NewConflict("duplicate", nil))
	converted := ToDomainError(wrapped)
	assert.Equal(t, "CONFLICT", converted.Code)
}

func TestToDomainErrorRowMisses(t *testing.T) {
	for _, err := range []error{pgx.ErrNoRows, redis.Nil} {
		converted := ToDomainError(err)
		require.NotNil(t, converted)
		assert.Equal(t, "NOT_FOUND", converted.Code)
		assert.Equal(t, http.StatusNotFound, converted.HTTPStatus)
	}
}

func TestToDomainErrorUnknownIsInternal(t *testing.T) {
	converted := ToDomainError(errors.New("disk on fire"))
	assert.Equal(t, "INTERNAL_ERROR", converted.Code)
	assert.Equal(t, http.StatusInternalServerError, converted.HTTPStatus)
}

func TestMapErrorNilStaysNil(t *testing.T) {
	assert.NoError(t, MapError(nil))
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewInternalError(cause)
	assert.True(t, errors.Is(err, cause))
}
