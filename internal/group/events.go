package group

import (
	"context"
	"slices"

	"github.com/openaura/aura-core/internal/player"
)

// OnMemberStateChanged reacts to an asynchronous state change of one
// member. Wired as the provider's directory watch handler by Setup.
//
// Power transitions trigger detached follow-up work; running it inline
// would deadlock, since a queue resume issues commands back into this
// group from within the notification path:
//   - a member powering on while the group is PLAYING schedules a resume
//     of the group's shared queue, so the newcomer joins the running
//     playback;
//   - the last powered member going away schedules a group power-off.
//
// Failures of that detached work are observed by the task runner, never
// propagated to the notifying call site.
//
// Regardless of the change, the group's derived attributes are recomputed
// and republished with forwarding suppressed, preventing update-storm
// feedback when this reactor itself runs from a forwarded update.
func (p *Provider) OnMemberStateChanged(memberID string, member *player.Player, changedKeys []string) {
	if p.group == nil {
		return
	}

	if slices.Contains(changedKeys, player.KeyPowered) {
		switch {
		case member.Powered && p.group.State == player.StatePlaying:
			p.logger.Debug("member powered on during playback, scheduling queue resume",
				"group_id", p.id, "member_id", memberID)

			if err := p.runner.Go("queue-resume:"+p.id, func(ctx context.Context) error {
				return p.queue.Resume(ctx, p.id)
			}); err != nil {
				p.logger.Warn("scheduling queue resume failed",
					"group_id", p.id, "error", err)
			}

		case !member.Powered && len(p.ActiveMembers(true, false)) == 0:
			p.logger.Debug("last powered member gone, scheduling group power-off",
				"group_id", p.id, "member_id", memberID)

			if err := p.runner.Go("group-power-off:"+p.id, func(ctx context.Context) error {
				return p.SetPower(ctx, false)
			}); err != nil {
				p.logger.Warn("scheduling group power-off failed",
					"group_id", p.id, "error", err)
			}
		}
	}

	p.RecomputeAttributes()
	if err := p.registry.Update(p.id, true); err != nil {
		p.logger.Warn("republishing group state failed",
			"group_id", p.id, "error", err)
	}
}
