package conversation

import (
	"testing"

	"ai-journaling-be/internal/constant"

	"github.com/stretchr/testify/assert"
)

func TestFromEntryStatus(t *testing.T) {
	assert.Equal(t, StateFinalized, FromEntryStatus(constant.EntryStatusFinalized))
	assert.Equal(t, StateIdle, FromEntryStatus(constant.EntryStatusDraft))
	assert.Equal(t, StateIdle, FromEntryStatus(""))
}
