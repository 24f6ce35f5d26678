// Package rpc defines the watcher daemon's Connect message types.
package rpc

import "time"

// StatusRequest asks for the watcher's persisted rotation state.
type StatusRequest struct{}

// HistoryRecord mirrors one persisted rotation event.
type HistoryRecord struct {
	Timestamp time.Time `json:"timestamp"`
	FromModel string    `json:"from_model"`
	ToModel   string    `json:"to_model"`
	Reason    string    `json:"reason"`
}

// StatusResponse is a pure read of the rotation state plus the active slate.
type StatusResponse struct {
	State        string          `json:"state"`
	CurrentIndex int             `json:"current_index"`
	LastCheck    time.Time       `json:"last_check,omitempty"`
	History      []HistoryRecord `json:"history,omitempty"`
	Primary      string          `json:"primary,omitempty"`
	Fallbacks    []string        `json:"fallbacks,omitempty"`
}

// RotateRequest forces an immediate rotation.
type RotateRequest struct {
	Reason string `json:"reason,omitempty"`
}

// RotateResponse reports the applied transition.
type RotateResponse struct {
	FromModel    string `json:"from_model"`
	ToModel      string `json:"to_model"`
	CurrentIndex int    `json:"current_index"`
}
