// Package group implements the group-coordination engine: the logic that
// makes a set of independently addressable playback devices behave as one
// virtual player.
//
// A Provider owns one GROUP-kind entry in the player directory and
// references its members by ID only. Five pieces cooperate around the
// member resolver, which is the leaf everything else consults:
//
//   - ActiveMembers resolves who currently counts as "in" the group,
//     handling unknown IDs, hijacked members, followers of foreign
//     leaders, and nested-group double counting.
//   - SyncMembers elects sync leaders greedily in configured order and
//     joins followers to them, sequentially, with optimistic SyncedTo
//     assignment.
//   - SetPower cascades power with direction-dependent member subsets
//     and a join-all-or-cancel fan-out.
//   - Stop/Play/Pause/PlayMedia fan transport commands out concurrently;
//     PlayMedia runs the load-bearing stop, power-on, sync, dispatch
//     sequence. Volume operations are deliberate no-ops at this layer.
//   - RecomputeAttributes derives one representative group state by
//     first-match priority over the configured order, and
//     OnMemberStateChanged reacts to member changes, scheduling detached
//     queue resumes and power-off cascades.
//
// Configured member order is the only priority ordering anywhere in the
// package. There is no mutual exclusion across an operation; shared
// fields are written optimistically before remote commands complete,
// which narrows but does not eliminate race windows between rapidly
// issued commands (see the player package for the ownership model).
//
// The package also holds the SQLite repository for persisted group
// definitions and the configuration-entry surface exposed to clients.
package group
