package group

import (
	"github.com/openaura/aura-core/internal/player"
)

// RecomputeAttributes derives the group's own state from its members.
// Pure mutation of the group player's fields; nothing is dispatched and
// nothing is published (callers decide when to publish).
//
// GroupChildren is set to the resolver output with no filters, in
// resolver order. The representative playback state is then the first
// member in that same order that is powered, not following a sync leader,
// and PLAYING or PAUSED; its item, URL, position and state are copied
// onto the group verbatim. First match wins: this is a priority rule
// keyed on configured order, not an aggregate or a "most active" merge.
// With no match the group is IDLE with cleared item and URL.
func (p *Provider) RecomputeAttributes() {
	members := p.ActiveMembers(false, false)

	children := make([]string, len(members))
	for i, m := range members {
		children[i] = m.ID
	}
	p.group.GroupChildren = children

	for _, m := range members {
		if m.SyncedTo != "" || !m.Powered {
			continue
		}
		if m.State != player.StatePlaying && m.State != player.StatePaused {
			continue
		}

		p.group.State = m.State
		p.group.CurrentItemID = m.CurrentItemID
		p.group.CurrentURL = m.CurrentURL
		p.group.ElapsedTime = m.ElapsedTime
		p.group.ElapsedTimeUpdatedAt = m.ElapsedTimeUpdatedAt
		return
	}

	p.group.State = player.StateIdle
	p.group.CurrentItemID = ""
	p.group.CurrentURL = ""
}
