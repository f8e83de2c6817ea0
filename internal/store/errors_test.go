package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityErrorsWrapGenericErrors(t *testing.T) {
	assert.True(t, errors.Is(ErrCardNotFound, ErrNotFound))
	assert.True(t, IsNotFoundError(fmt.Errorf("lookup: %w", ErrCardNotFound)))
	assert.False(t, IsNotFoundError(ErrDuplicate))
	assert.True(t, IsDuplicateError(fmt.Errorf("insert: %w", ErrDuplicate)))
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStoreError("card", "list", "query failed", cause)

	assert.Equal(t, "list operation on card failed: query failed: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewStoreError("review", "create", "bad input", nil)
	assert.Equal(t, "create operation on review failed: bad input", bare.Error())
	assert.Nil(t, bare.Unwrap())
}
