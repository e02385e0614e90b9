package conversation

import "ai-journaling-be/internal/constant"

// State describes where an entry sits in its lifecycle. Only draft and
// finalized are persisted; active and finishing exist for the duration of an
// operation, and cancelled entries are deleted rather than stored.
type State string

const (
	StateIdle      State = "idle"
	StateActive    State = "active"
	StateFinishing State = "finishing"
	StateFinalized State = "finalized"
	StateCancelled State = "cancelled"
)

// FromEntryStatus maps a persisted entry status to its resting state.
func FromEntryStatus(status string) State {
	if status == constant.EntryStatusFinalized {
		return StateFinalized
	}
	return StateIdle
}
