package group

import "errors"

// Sentinel errors for group coordination and persistence.
// Use errors.Is() to check for these errors in calling code.
//
// Resolver-level skips (unknown member IDs, hijacked members) are not
// errors at all; they are expected steady-state and handled silently.
// A failed optimistic sync assignment is likewise not surfaced; it
// self-heals on the next SyncMembers call.
var (
	// ErrCommandFailed indicates one member's command failed during a
	// join-all fan-out. The whole operation fails and sibling commands
	// are cancelled.
	ErrCommandFailed = errors.New("group: member command failed")

	// ErrMemberUnavailable indicates a resolved member is not currently
	// controllable. It is excluded from fan-out rather than failing it.
	ErrMemberUnavailable = errors.New("group: member unavailable")

	// ErrNotFound indicates the requested group does not exist.
	ErrNotFound = errors.New("group: not found")

	// ErrExists indicates a group with the same ID already exists.
	ErrExists = errors.New("group: already exists")

	// ErrInvalidGroup indicates a group definition failed validation.
	ErrInvalidGroup = errors.New("group: invalid group")
)
