package watcher

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/lemony312/FreeRide/internal/hostcfg"
)

// State names the watcher's position in the rotation state machine.
type State string

const (
	StateIdle              State = "idle"
	StateMonitoring        State = "monitoring"
	StateRotationTriggered State = "rotation_triggered"
	StateRotationApplied   State = "rotation_applied"
)

// HistoryRecord is one persisted rotation event.
type HistoryRecord struct {
	Timestamp time.Time `json:"timestamp"`
	FromModel string    `json:"from_model"`
	ToModel   string    `json:"to_model"`
	Reason    string    `json:"reason"`
}

// RotationState is persisted separately from the host config and mutated
// only by the watcher. A crashed watcher resumes from this file alone.
type RotationState struct {
	State        State           `json:"state"`
	CurrentIndex int             `json:"current_index"`
	History      []HistoryRecord `json:"history,omitempty"`
	LastCheck    time.Time       `json:"last_check,omitempty"`
}

// NewState returns the entry/reset state.
func NewState() RotationState {
	return RotationState{State: StateIdle}
}

// LoadState reads persisted state. A missing file yields a fresh state. A
// corrupt file also yields a fresh state with the second return value set,
// so the caller can report the reset instead of crash-looping.
func LoadState(path string) (RotationState, bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewState(), false, nil
	}
	if err != nil {
		return NewState(), false, fmt.Errorf("read rotation state: %w", err)
	}

	var st RotationState
	if err := json.Unmarshal(data, &st); err != nil {
		return NewState(), true, nil
	}
	if st.State == "" {
		st.State = StateIdle
	}
	return st, false, nil
}

// SaveState persists state atomically (write-then-rename).
func SaveState(path string, st RotationState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode rotation state: %w", err)
	}
	return hostcfg.WriteFile(path, append(data, '\n'))
}
