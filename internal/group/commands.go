package group

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/openaura/aura-core/internal/player"
)

// Stop halts playback on every active, powered, non-follower member.
// Members already idle are skipped. Concurrent join-all fan-out: one
// failure cancels the siblings and fails the call.
func (p *Provider) Stop(ctx context.Context) error {
	g, fanCtx := errgroup.WithContext(ctx)
	for _, m := range p.ActiveMembers(true, true) {
		if m.State == player.StateIdle {
			continue
		}
		m := m
		g.Go(func() error {
			if err := p.members.Stop(fanCtx, m.ID); err != nil {
				return fmt.Errorf("%w: stop %s: %w", ErrCommandFailed, m.ID, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Play starts or resumes playback on every active, powered, non-follower
// member. Concurrent join-all fan-out.
func (p *Provider) Play(ctx context.Context) error {
	g, fanCtx := errgroup.WithContext(ctx)
	for _, m := range p.ActiveMembers(true, true) {
		m := m
		g.Go(func() error {
			if err := p.members.Play(fanCtx, m.ID); err != nil {
				return fmt.Errorf("%w: play %s: %w", ErrCommandFailed, m.ID, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Pause pauses playback on every active, powered, non-follower member.
// Concurrent join-all fan-out.
func (p *Provider) Pause(ctx context.Context) error {
	g, fanCtx := errgroup.WithContext(ctx)
	for _, m := range p.ActiveMembers(true, true) {
		m := m
		g.Go(func() error {
			if err := p.members.Pause(fanCtx, m.ID); err != nil {
				return fmt.Errorf("%w: pause %s: %w", ErrCommandFailed, m.ID, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// PlayMedia loads and plays the given item across the group.
//
// The step ordering is load-bearing: members must be stopped and powered
// before sync assignment, and synced before receiving new media, so that
// followers inherit the leader's timeline correctly.
//
//  1. Stop whatever is playing.
//  2. Power the group on (cascade, including the sync orchestration that
//     follows a power-on).
//  3. Re-run sync orchestration defensively, even if already on.
//  4. Fan the play-media command out concurrently to every active,
//     powered, non-follower member, routed through each member's own
//     provider.
func (p *Provider) PlayMedia(ctx context.Context, req PlayMediaRequest) error {
	if err := p.Stop(ctx); err != nil {
		return err
	}
	if err := p.SetPower(ctx, true); err != nil {
		return err
	}
	p.SyncMembers(ctx)

	g, fanCtx := errgroup.WithContext(ctx)
	for _, m := range p.ActiveMembers(true, true) {
		m := m
		g.Go(func() error {
			if err := p.members.PlayMedia(fanCtx, m.ID, req); err != nil {
				return fmt.Errorf("%w: play media %s: %w", ErrCommandFailed, m.ID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	p.logger.Info("play media dispatched",
		"group_id", p.id,
		"item_id", req.ItemID,
		"flow_mode", req.FlowMode,
	)
	return nil
}

// VolumeSet is a deliberate no-op: volume is not aggregated or cascaded
// at this layer. Per-member volume stays with each member's own provider
// or a higher layer.
func (p *Provider) VolumeSet(_ context.Context, _ int) error {
	return nil
}

// VolumeMute is a deliberate no-op, matching VolumeSet.
func (p *Provider) VolumeMute(_ context.Context, _ bool) error {
	return nil
}
