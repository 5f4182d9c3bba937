package queue

import "errors"

// Sentinel errors returned by queue operations.
var (
	// ErrNotAttached indicates no playback target is attached for the group.
	ErrNotAttached = errors.New("queue: no player attached for group")

	// ErrInvalidItem indicates an item is missing required fields.
	ErrInvalidItem = errors.New("queue: invalid item")
)
