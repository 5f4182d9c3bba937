package group

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/openaura/aura-core/internal/player"
)

// SetPower turns the whole group on or off by cascading a power command
// to the relevant member subset.
//
// Idempotent: a no-op when the group already has the target power state.
// Turning on is additionally gated by the per-player grouped-power-on
// option; when the policy disables it, members are left alone and only
// direct playback commands will wake them.
//
// The member subset differs by direction. Powering off targets only
// leaders and standalone members (onlyPowered=true, skipSyncChildren=true)
// because sync followers power down with their leader. Powering on targets
// every configured member (onlyPowered=false, skipSyncChildren=false),
// including ones already marked synced.
//
// Dispatch is a concurrent join-all fan-out: one member failure cancels
// the outstanding sibling commands and fails the call. Each member's
// Powered flag is written optimistically at dispatch time, not at
// completion, so an immediately following command reads the intended
// state. After the fan-out the group's own flag is set and published, and
// a power-on triggers sync orchestration.
func (p *Provider) SetPower(ctx context.Context, powered bool) error {
	if p.group.Powered == powered {
		return nil
	}
	if powered && !p.options.BoolOption(p.id, optGroupedPowerOn) {
		p.logger.Debug("grouped power-on disabled by policy", "group_id", p.id)
		return nil
	}

	var targets []*player.Player
	if powered {
		targets = p.ActiveMembers(false, false)
	} else {
		targets = p.ActiveMembers(true, true)
	}

	g, fanCtx := errgroup.WithContext(ctx)
	for _, m := range targets {
		m := m
		// Optimistic write at dispatch time.
		m.Powered = powered
		if err := p.registry.Update(m.ID, true); err != nil {
			p.logger.Warn("publishing optimistic power state failed",
				"group_id", p.id, "member_id", m.ID, "error", err)
		}

		g.Go(func() error {
			if err := p.members.Power(fanCtx, m.ID, powered); err != nil {
				return fmt.Errorf("%w: power %s: %w", ErrCommandFailed, m.ID, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	p.group.Powered = powered
	if err := p.registry.Update(p.id, false); err != nil {
		p.logger.Warn("publishing group power state failed",
			"group_id", p.id, "error", err)
	}

	p.logger.Info("group power cascade complete",
		"group_id", p.id,
		"powered", powered,
		"members", len(targets),
	)

	if powered {
		p.SyncMembers(ctx)
	}
	return nil
}
