package group

import (
	"slices"
	"testing"

	"github.com/openaura/aura-core/internal/player"
)

func TestOnMemberStateChangedLastMemberGonePowersGroupOff(t *testing.T) {
	a := single("a")
	env := newTestEnv(t, []string{"a"}, a)
	env.provider.GroupPlayer().Powered = true
	env.client.reset()

	// Sole member reports powered off through the directory.
	a.Powered = false
	if err := env.registry.Update("a", false); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	// The detached power-off ran inline and flipped the group flag.
	if env.provider.GroupPlayer().Powered {
		t.Error("group still powered after last member went away")
	}
	if env.provider.GroupPlayer().State != player.StateIdle {
		t.Errorf("group state = %v, want idle", env.provider.GroupPlayer().State)
	}
	if env.provider.GroupPlayer().CurrentItemID != "" {
		t.Errorf("group item = %q, want cleared", env.provider.GroupPlayer().CurrentItemID)
	}
}

func TestOnMemberStateChangedPowerOnDuringPlaybackResumesQueue(t *testing.T) {
	a := single("a")
	a.State = player.StatePlaying
	a.CurrentItemID = "item-1"
	b := single("b")
	b.Powered = false

	env := newTestEnv(t, []string{"a", "b"}, a, b)
	env.provider.GroupPlayer().Powered = true
	env.provider.RecomputeAttributes() // group adopts a's PLAYING state

	// b comes back while the group is playing.
	b.Powered = true
	if err := env.registry.Update("b", false); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if n := env.queue.resumeCount(); n != 1 {
		t.Errorf("queue resumes = %d, want 1", n)
	}
}

func TestOnMemberStateChangedPowerOnWhileIdleNoResume(t *testing.T) {
	a := single("a")
	b := single("b")
	b.Powered = false

	env := newTestEnv(t, []string{"a", "b"}, a, b)

	b.Powered = true
	if err := env.registry.Update("b", false); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if n := env.queue.resumeCount(); n != 0 {
		t.Errorf("queue resumes = %d, want 0 (group was idle)", n)
	}
}

func TestOnMemberStateChangedPowerOffWithSurvivorsNoCascade(t *testing.T) {
	a := single("a")
	b := single("b")

	env := newTestEnv(t, []string{"a", "b"}, a, b)
	env.provider.GroupPlayer().Powered = true
	env.client.reset()

	// a goes away but b remains powered; no group power-off.
	a.Powered = false
	if err := env.registry.Update("a", false); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if !env.provider.GroupPlayer().Powered {
		t.Error("group powered off despite a surviving powered member")
	}
	if n := env.client.countPrefix("power:"); n != 0 {
		t.Errorf("power dispatches = %d, want 0", n)
	}
}

func TestOnMemberStateChangedRepublishesDerivedState(t *testing.T) {
	a := single("a")
	env := newTestEnv(t, []string{"a"}, a)

	var observed []string
	env.registry.Observe(func(playerID string, _ *player.Player, changedKeys []string) {
		if playerID == testGroupID {
			observed = append(observed, changedKeys...)
		}
	})

	a.State = player.StatePlaying
	a.CurrentItemID = "item-1"
	if err := env.registry.Update("a", false); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	// The republish is forward-suppressed but observers still see it.
	if !slices.Contains(observed, player.KeyState) {
		t.Errorf("observed group keys = %v, want to include %q", observed, player.KeyState)
	}
	if env.provider.GroupPlayer().State != player.StatePlaying {
		t.Errorf("group state = %v, want playing", env.provider.GroupPlayer().State)
	}
}

func TestOnMemberStateChangedNonPowerKeyNoDetachedWork(t *testing.T) {
	a := single("a")
	env := newTestEnv(t, []string{"a"}, a)
	env.provider.GroupPlayer().Powered = true
	env.client.reset()

	a.Name = "renamed"
	if err := env.registry.Update("a", false); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if n := env.queue.resumeCount(); n != 0 {
		t.Errorf("queue resumes = %d, want 0", n)
	}
	if calls := env.client.callList(); len(calls) != 0 {
		t.Errorf("dispatches = %v, want none", calls)
	}
}
