// Package player provides the player directory for Aura Core.
//
// The directory (Registry) owns the single live instance of every Player,
// physical or virtual, keyed by stable ID. State flows through it in both
// directions: bridges report device state via the dispatch layer, and
// group coordination writes optimistic state before devices confirm.
//
// # Ownership model
//
// Players are held as live pointers with update-in-place semantics rather
// than copy-on-read. Command paths deliberately write shared fields
// (powered, synced_to) the moment a command is issued so that a second
// command arriving immediately afterward reads the intended state rather
// than the stale pre-command value. The cost is that readers may observe
// an effect the device has not yet confirmed; the authoritative state
// remains whatever the device's own provider last reported.
//
// Change notification is diff-based: Update compares the live player
// against the snapshot taken at the previous Update and delivers the set
// of changed field keys to subscribers. Group providers subscribe as
// scoped watchers; broadcast consumers (websocket hub, history recorder)
// subscribe as observers.
package player
