package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// A nil DB puts the repository in disabled mode: every operation fails
// with ErrStorageDisabled instead of panicking so the server can run
// purely in-memory.
func TestDisabledRepository(t *testing.T) {
	r := NewGameRepository(nil)
	ctx := context.Background()

	assert.ErrorIs(t, r.Save(ctx, "slot", nil), ErrStorageDisabled)

	_, err := r.Load(ctx, "slot")
	assert.ErrorIs(t, err, ErrStorageDisabled)

	_, err = r.List(ctx)
	assert.ErrorIs(t, err, ErrStorageDisabled)

	assert.ErrorIs(t, r.Delete(ctx, "slot"), ErrStorageDisabled)
}
