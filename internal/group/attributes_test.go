package group

import (
	"slices"
	"testing"
	"time"

	"github.com/openaura/aura-core/internal/player"
)

func TestRecomputeAttributesFirstMatchPriority(t *testing.T) {
	// Configured [a, b] with a PAUSED and b PLAYING. The group adopts
	// a's PAUSED state because a comes first, not b's "more active" one.
	a := single("a")
	a.State = player.StatePaused
	a.CurrentItemID = "item-a"
	a.CurrentURL = "http://stream/a"
	a.ElapsedTime = 90 * time.Second
	b := single("b")
	b.State = player.StatePlaying
	b.CurrentItemID = "item-b"

	env := newTestEnv(t, []string{"a", "b"}, a, b)

	env.provider.RecomputeAttributes()

	g := env.provider.GroupPlayer()
	if g.State != player.StatePaused {
		t.Errorf("group state = %v, want paused (first match wins)", g.State)
	}
	if g.CurrentItemID != "item-a" {
		t.Errorf("group item = %q, want item-a", g.CurrentItemID)
	}
	if g.CurrentURL != "http://stream/a" {
		t.Errorf("group url = %q, want http://stream/a", g.CurrentURL)
	}
	if g.ElapsedTime != 90*time.Second {
		t.Errorf("group elapsed = %v, want 90s", g.ElapsedTime)
	}
}

func TestRecomputeAttributesIdleFallback(t *testing.T) {
	a := single("a") // idle

	env := newTestEnv(t, []string{"a"}, a)

	// Pre-fill the group with stale playback fields and verify the idle
	// fallback clears them.
	g := env.provider.GroupPlayer()
	g.State = player.StatePlaying
	g.CurrentItemID = "stale-item"
	g.CurrentURL = "http://stream/stale"

	env.provider.RecomputeAttributes()

	if g.State != player.StateIdle {
		t.Errorf("group state = %v, want idle", g.State)
	}
	if g.CurrentItemID != "" {
		t.Errorf("group item = %q, want cleared", g.CurrentItemID)
	}
	if g.CurrentURL != "" {
		t.Errorf("group url = %q, want cleared", g.CurrentURL)
	}
}

func TestRecomputeAttributesSkipsSyncChildrenAndUnpowered(t *testing.T) {
	// a follows a leader and b is unpowered; neither may represent the
	// group even though both report PLAYING.
	a := single("a")
	a.State = player.StatePlaying
	a.SyncedTo = "c"
	a.CurrentItemID = "item-a"
	b := single("b")
	b.State = player.StatePlaying
	b.Powered = false
	b.CurrentItemID = "item-b"
	c := single("c")
	c.State = player.StatePlaying
	c.CurrentItemID = "item-c"

	env := newTestEnv(t, []string{"a", "b", "c"}, a, b, c)

	env.provider.RecomputeAttributes()

	g := env.provider.GroupPlayer()
	if g.CurrentItemID != "item-c" {
		t.Errorf("group item = %q, want item-c (a synced, b unpowered)", g.CurrentItemID)
	}
	if g.State != player.StatePlaying {
		t.Errorf("group state = %v, want playing", g.State)
	}
}

func TestRecomputeAttributesSetsChildren(t *testing.T) {
	a := single("a")
	b := single("b")
	b.ActiveSource = "foreign-controller" // hijacked, excluded

	env := newTestEnv(t, []string{"a", "b"}, a, b)

	env.provider.RecomputeAttributes()

	g := env.provider.GroupPlayer()
	if !slices.Equal(g.GroupChildren, []string{"a"}) {
		t.Errorf("group children = %v, want [a]", g.GroupChildren)
	}
}

func TestRecomputeAttributesNoDispatch(t *testing.T) {
	a := single("a")
	a.State = player.StatePlaying

	env := newTestEnv(t, []string{"a"}, a)
	env.client.reset()

	env.provider.RecomputeAttributes()

	if calls := env.client.callList(); len(calls) != 0 {
		t.Errorf("recompute dispatched %v, want none", calls)
	}
}
