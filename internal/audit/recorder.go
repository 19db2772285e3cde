// Package audit records task mutations in the SQLite journal.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/fentz26/todo/internal/models"
	"github.com/fentz26/todo/internal/store"
)

// Outcomes recorded with each event.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "failed"
)

// Recorder writes journal events. A nil Recorder records nothing.
type Recorder struct {
	store *store.Store
}

// NewRecorder creates a new Recorder.
func NewRecorder(s *store.Store) *Recorder {
	return &Recorder{store: s}
}

// Record writes an event for a state-mutating action.
func (r *Recorder) Record(ctx context.Context, action string, inputs interface{}, outcome string, taskID int, details string) (*models.Event, error) {
	if r == nil {
		return nil, nil
	}
	return r.store.WriteEvent(ctx, action, hashInputs(inputs), outcome, taskID, details)
}

// hashInputs creates a SHA256 hash of the inputs for reproducibility.
func hashInputs(inputs interface{}) string {
	data, err := json.Marshal(inputs)
	if err != nil {
		return "hash_error"
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
