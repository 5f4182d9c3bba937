package player

import "errors"

// Sentinel errors for directory operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotFound indicates the requested player is not registered.
	ErrNotFound = errors.New("player: not found")

	// ErrDuplicateID indicates a registration with an ID already in use.
	ErrDuplicateID = errors.New("player: duplicate id")

	// ErrInvalidPlayer indicates a player record failed validation.
	ErrInvalidPlayer = errors.New("player: invalid player")
)
