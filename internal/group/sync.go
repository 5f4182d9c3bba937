package group

import (
	"context"
)

// SyncMembers partitions the active powered members into sync leaders and
// followers, returning the leader set.
//
// The election is a greedy single pass in configured order: a member that
// is already following someone is left alone; a member whose CanSyncWith
// set is empty cannot participate and stays standalone; otherwise the
// member joins the first already-chosen leader its CanSyncWith allows, or
// is itself promoted to leader when none matches. The result is
// order-dependent and not globally optimal; once a leader set is fixed
// for the call it is never re-balanced.
//
// Join commands are dispatched strictly sequentially because later
// members' eligibility may depend on earlier join results. Each follower's
// SyncedTo is written optimistically before its join command is issued, so
// commands fired immediately after this call see the intended topology. A
// failed join leaves that optimistic assignment in place: the next call
// treats the member as already synced and does not retry. This soft
// failure is logged, never surfaced.
func (p *Provider) SyncMembers(ctx context.Context) []string {
	var leaders []string
	chosen := make(map[string]struct{})

	for _, m := range p.ActiveMembers(true, false) {
		if m.SyncedTo != "" {
			continue
		}
		if len(m.CanSyncWith) == 0 {
			continue
		}

		leader := ""
		for _, candidate := range m.CanSyncWith {
			if _, ok := chosen[candidate]; ok {
				leader = candidate
				break
			}
		}

		if leader == "" {
			leaders = append(leaders, m.ID)
			chosen[m.ID] = struct{}{}
			continue
		}

		// Optimistic assignment before the join result is known.
		m.SyncedTo = leader
		if err := p.registry.Update(m.ID, true); err != nil {
			p.logger.Warn("publishing sync assignment failed",
				"group_id", p.id, "member_id", m.ID, "error", err)
		}

		if err := p.members.Sync(ctx, m.ID, leader); err != nil {
			// Stale optimistic assignment; self-heals on the next call.
			p.logger.Warn("sync join failed, optimistic assignment left in place",
				"group_id", p.id,
				"member_id", m.ID,
				"leader_id", leader,
				"error", err,
			)
		}
	}

	p.setLastSyncLeaders(leaders)

	p.logger.Debug("sync topology computed",
		"group_id", p.id,
		"leaders", leaders,
	)
	return leaders
}
