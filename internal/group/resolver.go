package group

import (
	"slices"

	"github.com/openaura/aura-core/internal/player"
)

// ActiveMembers resolves which configured members currently count as part
// of the group, in configured order.
//
// A member is included only when every filter passes:
//   - it resolves in the directory (unknown IDs are silently skipped;
//     a device not yet known is not an error)
//   - it is powered, when onlyPowered is set
//   - it is not following a sync leader, when skipSyncChildren is set
//   - its active source is its own ID, the group's ID or one of the
//     configured members; anything else means another controller has
//     hijacked the member and it must be excluded
//   - its sync leader, if any, is itself a configured member; followers
//     of foreign leaders outside this group are excluded
//
// A post-pass removes members that appear inside an included nested
// group's own children, so a nested group's members are never counted
// twice at the outer level.
//
// Pure function over current directory state: no side effects,
// deterministic given consistent inputs.
func (p *Provider) ActiveMembers(onlyPowered, skipSyncChildren bool) []*player.Player {
	allowedSources := make(map[string]struct{}, len(p.configuredMembers)+1)
	allowedSources[p.id] = struct{}{}
	for _, id := range p.configuredMembers {
		allowedSources[id] = struct{}{}
	}

	var resolved []*player.Player
	nestedChildren := make(map[string]struct{})

	for _, id := range p.configuredMembers {
		m, err := p.registry.Get(id)
		if err != nil {
			continue
		}
		if onlyPowered && !m.Powered {
			continue
		}
		if skipSyncChildren && m.SyncedTo != "" {
			continue
		}
		if hijacked(m, allowedSources) {
			continue
		}
		if m.SyncedTo != "" && !slices.Contains(p.configuredMembers, m.SyncedTo) {
			// Synced to a foreign leader outside this group.
			continue
		}

		resolved = append(resolved, m)

		if m.IsGroup() {
			for _, child := range m.GroupChildren {
				if child != m.ID {
					nestedChildren[child] = struct{}{}
				}
			}
		}
	}

	if len(nestedChildren) == 0 {
		return resolved
	}

	// Nested-group dedupe: drop members folded into an included group.
	active := resolved[:0]
	for _, m := range resolved {
		if _, folded := nestedChildren[m.ID]; folded {
			continue
		}
		active = append(active, m)
	}
	return active
}

// hijacked reports whether the member's active source points at a
// controller outside this group's allowed set. An empty active source
// means nothing owns playback yet and is not a hijack.
func hijacked(m *player.Player, allowedSources map[string]struct{}) bool {
	if m.ActiveSource == "" || m.ActiveSource == m.ID {
		return false
	}
	_, allowed := allowedSources[m.ActiveSource]
	return !allowed
}
