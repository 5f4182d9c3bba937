package group

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestSyncMembersGreedyElection(t *testing.T) {
	// a can lead (first in order, no chosen leader yet -> promoted);
	// b and c can follow a.
	a := single("a")
	a.CanSyncWith = []string{"b", "c"}
	b := single("b")
	b.CanSyncWith = []string{"a"}
	c := single("c")
	c.CanSyncWith = []string{"a", "b"}

	env := newTestEnv(t, []string{"a", "b", "c"}, a, b, c)
	env.client.reset()

	leaders := env.provider.SyncMembers(context.Background())

	if !slices.Equal(leaders, []string{"a"}) {
		t.Errorf("leaders = %v, want [a]", leaders)
	}
	if b.SyncedTo != "a" || c.SyncedTo != "a" {
		t.Errorf("followers = b>%q c>%q, want both following a", b.SyncedTo, c.SyncedTo)
	}

	wantCalls := []string{"sync:b>a", "sync:c>a"}
	if got := env.client.callList(); !slices.Equal(got, wantCalls) {
		t.Errorf("join calls = %v, want %v (sequential, in order)", got, wantCalls)
	}
}

func TestSyncMembersDisjointIslands(t *testing.T) {
	// Two sync-capability islands: {a, b} and {c, d}. One leader each.
	a := single("a")
	a.CanSyncWith = []string{"b"}
	b := single("b")
	b.CanSyncWith = []string{"a"}
	c := single("c")
	c.CanSyncWith = []string{"d"}
	d := single("d")
	d.CanSyncWith = []string{"c"}

	env := newTestEnv(t, []string{"a", "b", "c", "d"}, a, b, c, d)

	leaders := env.provider.SyncMembers(context.Background())

	if !slices.Equal(leaders, []string{"a", "c"}) {
		t.Errorf("leaders = %v, want [a c]", leaders)
	}
	if b.SyncedTo != "a" {
		t.Errorf("b follows %q, want a", b.SyncedTo)
	}
	if d.SyncedTo != "c" {
		t.Errorf("d follows %q, want c", d.SyncedTo)
	}
}

func TestSyncMembersDeterministic(t *testing.T) {
	a := single("a")
	a.CanSyncWith = []string{"b", "c"}
	b := single("b")
	b.CanSyncWith = []string{"a", "c"}
	c := single("c")
	c.CanSyncWith = []string{"a", "b"}

	env := newTestEnv(t, []string{"a", "b", "c"}, a, b, c)

	var firstLeaders []string
	var firstCalls []string

	for i := 0; i < 3; i++ {
		// Reset to a clean no-follower state between runs.
		a.SyncedTo, b.SyncedTo, c.SyncedTo = "", "", ""
		env.client.reset()

		leaders := env.provider.SyncMembers(context.Background())
		calls := env.client.callList()

		if i == 0 {
			firstLeaders = leaders
			firstCalls = calls
			continue
		}
		if !slices.Equal(leaders, firstLeaders) {
			t.Errorf("run %d leaders = %v, want %v", i, leaders, firstLeaders)
		}
		if !slices.Equal(calls, firstCalls) {
			t.Errorf("run %d join calls = %v, want %v", i, calls, firstCalls)
		}
	}
}

func TestSyncMembersSkipsAlreadySynced(t *testing.T) {
	a := single("a")
	a.CanSyncWith = []string{"b"}
	b := single("b")
	b.CanSyncWith = []string{"a"}
	b.SyncedTo = "a" // already following

	env := newTestEnv(t, []string{"a", "b"}, a, b)
	env.client.reset()

	env.provider.SyncMembers(context.Background())

	if n := env.client.countPrefix("sync:"); n != 0 {
		t.Errorf("join dispatches = %d, want 0 (b already synced)", n)
	}
}

func TestSyncMembersSkipsIncapableMembers(t *testing.T) {
	a := single("a") // empty CanSyncWith: cannot participate
	b := single("b")
	b.CanSyncWith = []string{"c"}
	c := single("c")
	c.CanSyncWith = []string{"b"}

	env := newTestEnv(t, []string{"a", "b", "c"}, a, b, c)

	leaders := env.provider.SyncMembers(context.Background())

	if slices.Contains(leaders, "a") {
		t.Error("member with empty CanSyncWith was promoted to leader")
	}
	if !slices.Equal(leaders, []string{"b"}) {
		t.Errorf("leaders = %v, want [b]", leaders)
	}
}

func TestSyncMembersFailedJoinLeavesOptimisticAssignment(t *testing.T) {
	a := single("a")
	a.CanSyncWith = []string{"b"}
	b := single("b")
	b.CanSyncWith = []string{"a"}

	env := newTestEnv(t, []string{"a", "b"}, a, b)
	env.client.fail["sync:b>a"] = errors.New("device unreachable")
	env.client.reset()

	leaders := env.provider.SyncMembers(context.Background())

	// The failed join is not surfaced and the optimistic assignment stays.
	if !slices.Equal(leaders, []string{"a"}) {
		t.Errorf("leaders = %v, want [a]", leaders)
	}
	if b.SyncedTo != "a" {
		t.Errorf("b.SyncedTo = %q, want optimistic a", b.SyncedTo)
	}

	// The next call treats b as already synced: no retry.
	env.client.reset()
	env.provider.SyncMembers(context.Background())
	if n := env.client.countPrefix("sync:"); n != 0 {
		t.Errorf("retry dispatches = %d, want 0", n)
	}
}

func TestSyncMembersRecordsLastLeaders(t *testing.T) {
	a := single("a")
	a.CanSyncWith = []string{"b"}
	b := single("b")
	b.CanSyncWith = []string{"a"}

	env := newTestEnv(t, []string{"a", "b"}, a, b)
	env.provider.SyncMembers(context.Background())

	if got := env.provider.LastSyncLeaders(); !slices.Equal(got, []string{"a"}) {
		t.Errorf("LastSyncLeaders() = %v, want [a]", got)
	}
}
