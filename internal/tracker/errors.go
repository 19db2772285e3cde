package tracker

import "errors"

// Sentinel errors for tracker operations.
var (
	ErrTaskNotFound = errors.New("task not found")
	ErrSaveFailed   = errors.New("save failed")
	ErrNoJournal    = errors.New("no journal database configured")
)
