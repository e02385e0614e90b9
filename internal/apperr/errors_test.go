package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	err := New(CodeEntryImmutable, "entry is finalized")
	assert.Equal(t, CodeEntryImmutable, CodeOf(err))

	wrapped := fmt.Errorf("submit failed: %w", err)
	assert.Equal(t, CodeEntryImmutable, CodeOf(wrapped))

	assert.Equal(t, Code(""), CodeOf(errors.New("plain")))
	assert.Equal(t, Code(""), CodeOf(nil))
}

func TestRetriable(t *testing.T) {
	assert.True(t, Retriable(New(CodeNetworkError, "timeout")))
	assert.False(t, Retriable(New(CodeAuthError, "bad key")))
	assert.False(t, Retriable(New(CodeQuotaExceeded, "quota")))
	assert.False(t, Retriable(errors.New("plain")))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(CodeEmbeddingUnavailable, "all attempts failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "EMBEDDING_UNAVAILABLE")
	assert.Contains(t, err.Error(), "connection reset")
}
