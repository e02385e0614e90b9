package conversation

import (
	"testing"

	"ai-journaling-be/internal/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardRejectsConcurrentAcquire(t *testing.T) {
	guard := NewGuard()
	entryId := uuid.New()

	require.NoError(t, guard.Acquire(entryId))

	err := guard.Acquire(entryId)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeOperationInProgress, apperr.CodeOf(err))
}

func TestGuardReleaseAllowsReacquire(t *testing.T) {
	guard := NewGuard()
	entryId := uuid.New()

	require.NoError(t, guard.Acquire(entryId))
	guard.Release(entryId)
	assert.NoError(t, guard.Acquire(entryId))
}

func TestGuardIsPerEntry(t *testing.T) {
	guard := NewGuard()

	require.NoError(t, guard.Acquire(uuid.New()))
	assert.NoError(t, guard.Acquire(uuid.New()))
}
