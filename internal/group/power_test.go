package group

import (
	"context"
	"errors"
	"testing"
)

func TestSetPowerIdempotent(t *testing.T) {
	a := single("a")
	env := newTestEnv(t, []string{"a"}, a)

	// Group starts unpowered; power it on once.
	if err := env.provider.SetPower(context.Background(), true); err != nil {
		t.Fatalf("SetPower(true) error = %v", err)
	}
	env.client.reset()

	// Second power-on: zero dispatches, zero state mutation.
	if err := env.provider.SetPower(context.Background(), true); err != nil {
		t.Fatalf("SetPower(true) again error = %v", err)
	}
	if calls := env.client.callList(); len(calls) != 0 {
		t.Errorf("repeat SetPower dispatched %v, want none", calls)
	}
	if !env.provider.GroupPlayer().Powered {
		t.Error("group power flag flipped by idempotent call")
	}
}

func TestSetPowerOnTargetsAllConfiguredMembers(t *testing.T) {
	// Power-on includes unpowered members and ones already marked synced.
	a := single("a")
	b := single("b")
	b.Powered = false
	c := single("c")
	c.SyncedTo = "a"

	env := newTestEnv(t, []string{"a", "b", "c"}, a, b, c)
	env.client.reset()

	if err := env.provider.SetPower(context.Background(), true); err != nil {
		t.Fatalf("SetPower(true) error = %v", err)
	}

	for _, id := range []string{"a", "b", "c"} {
		if env.client.countPrefix("power:"+id+":true") != 1 {
			t.Errorf("member %s did not receive exactly one power-on", id)
		}
	}
	if !b.Powered {
		t.Error("optimistic powered flag not set on b")
	}
	if !env.provider.GroupPlayer().Powered {
		t.Error("group powered flag not set after cascade")
	}
}

func TestSetPowerOffSkipsSyncChildren(t *testing.T) {
	// Followers power down with their leader; only leaders and
	// standalone members get a command.
	a := single("a")
	b := single("b")
	b.SyncedTo = "a"
	c := single("c")

	env := newTestEnv(t, []string{"a", "b", "c"}, a, b, c)
	env.provider.GroupPlayer().Powered = true
	env.client.reset()

	if err := env.provider.SetPower(context.Background(), false); err != nil {
		t.Fatalf("SetPower(false) error = %v", err)
	}

	if env.client.countPrefix("power:b:") != 0 {
		t.Error("sync child b received a power command")
	}
	for _, id := range []string{"a", "c"} {
		if env.client.countPrefix("power:"+id+":false") != 1 {
			t.Errorf("member %s did not receive exactly one power-off", id)
		}
	}
}

func TestSetPowerOnGatedByPolicy(t *testing.T) {
	a := single("a")
	env := newTestEnv(t, []string{"a"}, a)
	env.options.bools[testGroupID+":"+optGroupedPowerOn] = false
	env.client.reset()

	if err := env.provider.SetPower(context.Background(), true); err != nil {
		t.Fatalf("SetPower(true) error = %v", err)
	}

	if calls := env.client.callList(); len(calls) != 0 {
		t.Errorf("policy-disabled power-on dispatched %v, want none", calls)
	}
	if env.provider.GroupPlayer().Powered {
		t.Error("group powered despite disabled grouped power-on policy")
	}
}

func TestSetPowerFanOutFailure(t *testing.T) {
	a := single("a")
	b := single("b")

	env := newTestEnv(t, []string{"a", "b"}, a, b)
	env.client.fail["power:b:true"] = errors.New("device unreachable")
	env.client.reset()

	err := env.provider.SetPower(context.Background(), true)
	if !errors.Is(err, ErrCommandFailed) {
		t.Fatalf("SetPower() error = %v, want ErrCommandFailed", err)
	}

	// The group's own flag must not be set when the cascade failed.
	if env.provider.GroupPlayer().Powered {
		t.Error("group powered flag set despite failed cascade")
	}
	// No sync orchestration after a failed power-on.
	if n := env.client.countPrefix("sync:"); n != 0 {
		t.Errorf("sync dispatches after failed cascade = %d, want 0", n)
	}
}

func TestSetPowerOnRunsSyncOrchestration(t *testing.T) {
	a := single("a")
	a.CanSyncWith = []string{"b"}
	b := single("b")
	b.CanSyncWith = []string{"a"}

	env := newTestEnv(t, []string{"a", "b"}, a, b)
	env.client.reset()

	if err := env.provider.SetPower(context.Background(), true); err != nil {
		t.Fatalf("SetPower(true) error = %v", err)
	}

	if n := env.client.countPrefix("sync:"); n != 1 {
		t.Errorf("sync dispatches = %d, want 1 (b joins a)", n)
	}
	if b.SyncedTo != "a" {
		t.Errorf("b.SyncedTo = %q, want a", b.SyncedTo)
	}
}

func TestSetPowerOffNoSync(t *testing.T) {
	a := single("a")
	a.CanSyncWith = []string{"b"}
	b := single("b")
	b.CanSyncWith = []string{"a"}

	env := newTestEnv(t, []string{"a", "b"}, a, b)
	env.provider.GroupPlayer().Powered = true
	env.client.reset()

	if err := env.provider.SetPower(context.Background(), false); err != nil {
		t.Fatalf("SetPower(false) error = %v", err)
	}
	if n := env.client.countPrefix("sync:"); n != 0 {
		t.Errorf("sync dispatches after power-off = %d, want 0", n)
	}
}
