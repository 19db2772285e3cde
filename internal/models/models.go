// Package models defines the core domain types for todo.
package models

import "time"

// Priority bounds. 1 is the most urgent.
const (
	PriorityHighest = 1
	PriorityLowest  = 5
	PriorityDefault = 3
)

// ValidPriority reports whether p lies in [PriorityHighest, PriorityLowest].
func ValidPriority(p int) bool {
	return p >= PriorityHighest && p <= PriorityLowest
}

// Task is a single tracked item.
type Task struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Category    string `json:"category"`
	DueDate     int64  `json:"due_date"` // seconds since the Unix epoch
	Priority    int    `json:"priority"`
	Completed   bool   `json:"completed"`
}

// Due returns the due date as a time.Time in UTC.
func (t Task) Due() time.Time {
	return time.Unix(t.DueDate, 0).UTC()
}

// Status returns "Completed" or "Pending".
func (t Task) Status() string {
	if t.Completed {
		return "Completed"
	}
	return "Pending"
}

// DueIn returns the epoch timestamp days whole days after now.
func DueIn(now time.Time, days int) int64 {
	return now.Unix() + int64(days)*24*60*60
}

// Event is one journal record describing a state-mutating action.
type Event struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	InputsHash string    `json:"inputs_hash"`
	Outcome    string    `json:"outcome"`
	TaskID     int       `json:"task_id,omitempty"`
	Details    string    `json:"details,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
