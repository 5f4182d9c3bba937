package player

import (
	"slices"
	"time"
)

// Kind identifies whether a player is a physical endpoint or a virtual group.
type Kind string

// Player kinds.
const (
	KindSingle Kind = "single"
	KindGroup  Kind = "group"
)

// PlayState is the playback state reported by or derived for a player.
type PlayState string

// Playback states.
const (
	StateIdle    PlayState = "idle"
	StatePlaying PlayState = "playing"
	StatePaused  PlayState = "paused"
)

// Changed-field keys used in change notifications.
// Handlers compare against these rather than raw strings.
const (
	KeyName          = "name"
	KeyAvailable     = "available"
	KeyPowered       = "powered"
	KeyState         = "state"
	KeyActiveSource  = "active_source"
	KeyGroupChildren = "group_children"
	KeySyncedTo      = "synced_to"
	KeyCanSyncWith   = "can_sync_with"
	KeyCurrentItemID = "current_item_id"
	KeyCurrentURL    = "current_url"
	KeyElapsedTime   = "elapsed_time"
)

// Player represents one playback endpoint, physical or virtual.
//
// Each Player is owned by the provider that created it; groups reference
// members by ID only, never by owning pointer. The directory holds the
// single live instance per ID and callers mutate it in place, then call
// Registry.Update to diff and notify (see doc.go for the ownership model).
type Player struct {
	// ID is the stable identifier, unique across all providers.
	ID string `json:"id"`

	// Kind distinguishes physical endpoints from virtual groups.
	Kind Kind `json:"kind"`

	// Name is the human-readable label.
	Name string `json:"name"`

	// Provider identifies which provider instance owns this player.
	Provider string `json:"provider"`

	// Available reports whether the device is currently reachable.
	Available bool `json:"available"`

	// Powered is the power state. For groups this is maintained
	// optimistically by the power cascade.
	Powered bool `json:"powered"`

	// State is the playback state (idle, playing, paused).
	State PlayState `json:"state"`

	// ActiveSource is the ID of whatever entity currently owns playback
	// on this device. A value outside a group's allowed set means the
	// member has been hijacked by another controller.
	ActiveSource string `json:"active_source"`

	// GroupChildren is the ordered member list. Non-empty only for
	// KindGroup players.
	GroupChildren []string `json:"group_children,omitempty"`

	// SyncedTo is the sync leader this player currently follows,
	// or empty when not following anyone.
	SyncedTo string `json:"synced_to,omitempty"`

	// CanSyncWith lists candidate leaders this player could follow.
	CanSyncWith []string `json:"can_sync_with,omitempty"`

	// CurrentItemID identifies the queue item currently loaded.
	CurrentItemID string `json:"current_item_id,omitempty"`

	// CurrentURL is the stream URL currently loaded.
	CurrentURL string `json:"current_url,omitempty"`

	// ElapsedTime is the playback position within the current item,
	// valid as of ElapsedTimeUpdatedAt.
	ElapsedTime time.Duration `json:"elapsed_time"`

	// ElapsedTimeUpdatedAt is when ElapsedTime was last reported.
	ElapsedTimeUpdatedAt time.Time `json:"elapsed_time_updated_at"`
}

// Snapshot returns a value copy of the player with cloned slices.
// Used by the registry to diff state across updates.
func (p *Player) Snapshot() Player {
	snap := *p
	snap.GroupChildren = slices.Clone(p.GroupChildren)
	snap.CanSyncWith = slices.Clone(p.CanSyncWith)
	return snap
}

// ChangedKeys returns the names of fields that differ from prev.
// The result is in a stable order; an empty result means no change.
func (p *Player) ChangedKeys(prev Player) []string {
	var keys []string

	if p.Name != prev.Name {
		keys = append(keys, KeyName)
	}
	if p.Available != prev.Available {
		keys = append(keys, KeyAvailable)
	}
	if p.Powered != prev.Powered {
		keys = append(keys, KeyPowered)
	}
	if p.State != prev.State {
		keys = append(keys, KeyState)
	}
	if p.ActiveSource != prev.ActiveSource {
		keys = append(keys, KeyActiveSource)
	}
	if !slices.Equal(p.GroupChildren, prev.GroupChildren) {
		keys = append(keys, KeyGroupChildren)
	}
	if p.SyncedTo != prev.SyncedTo {
		keys = append(keys, KeySyncedTo)
	}
	if !slices.Equal(p.CanSyncWith, prev.CanSyncWith) {
		keys = append(keys, KeyCanSyncWith)
	}
	if p.CurrentItemID != prev.CurrentItemID {
		keys = append(keys, KeyCurrentItemID)
	}
	if p.CurrentURL != prev.CurrentURL {
		keys = append(keys, KeyCurrentURL)
	}
	if p.ElapsedTime != prev.ElapsedTime || !p.ElapsedTimeUpdatedAt.Equal(prev.ElapsedTimeUpdatedAt) {
		keys = append(keys, KeyElapsedTime)
	}

	return keys
}

// IsGroup reports whether the player is a virtual group.
func (p *Player) IsGroup() bool {
	return p.Kind == KindGroup
}
