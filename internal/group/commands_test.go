package group

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/openaura/aura-core/internal/player"
)

func TestStopSkipsIdleMembers(t *testing.T) {
	a := single("a")
	a.State = player.StatePlaying
	b := single("b") // idle

	env := newTestEnv(t, []string{"a", "b"}, a, b)
	env.client.reset()

	if err := env.provider.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	if env.client.countPrefix("stop:a") != 1 {
		t.Error("playing member a did not receive stop")
	}
	if env.client.countPrefix("stop:b") != 0 {
		t.Error("idle member b received stop")
	}
}

func TestPlayFansOutToActiveMembers(t *testing.T) {
	a := single("a")
	b := single("b")
	b.SyncedTo = "a" // follower inherits from leader, no direct command
	c := single("c")
	c.Powered = false

	env := newTestEnv(t, []string{"a", "b", "c"}, a, b, c)
	env.client.reset()

	if err := env.provider.Play(context.Background()); err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	if env.client.countPrefix("play:a") != 1 {
		t.Error("member a did not receive play")
	}
	if env.client.countPrefix("play:b") != 0 {
		t.Error("sync child b received play")
	}
	if env.client.countPrefix("play:c") != 0 {
		t.Error("unpowered member c received play")
	}
}

func TestPauseFanOutFailure(t *testing.T) {
	a := single("a")
	b := single("b")

	env := newTestEnv(t, []string{"a", "b"}, a, b)
	env.client.fail["pause:a"] = errors.New("device unreachable")
	env.client.reset()

	if err := env.provider.Pause(context.Background()); !errors.Is(err, ErrCommandFailed) {
		t.Errorf("Pause() error = %v, want ErrCommandFailed", err)
	}
}

func TestPlayMediaOrdering(t *testing.T) {
	// One playing, powered member; group unpowered. The dispatch order
	// must be stop, then power-on, then sync, then play-media.
	a := single("a")
	a.State = player.StatePlaying
	a.CanSyncWith = []string{"b"}
	b := single("b")
	b.CanSyncWith = []string{"a"}

	env := newTestEnv(t, []string{"a", "b"}, a, b)
	env.client.reset()

	req := PlayMediaRequest{
		ItemID:       "item-1",
		URL:          "http://stream/item-1",
		SeekPosition: 30 * time.Second,
		FlowMode:     true,
	}
	if err := env.provider.PlayMedia(context.Background(), req); err != nil {
		t.Fatalf("PlayMedia() error = %v", err)
	}

	calls := env.client.callList()

	indexOf := func(prefix string) int {
		for i, c := range calls {
			if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
				return i
			}
		}
		return -1
	}

	stopIdx := indexOf("stop:")
	powerIdx := indexOf("power:")
	syncIdx := indexOf("sync:")
	mediaIdx := indexOf("play_media:")

	if stopIdx == -1 || powerIdx == -1 || syncIdx == -1 || mediaIdx == -1 {
		t.Fatalf("missing phases in call list %v", calls)
	}
	if !(stopIdx < powerIdx && powerIdx < syncIdx && syncIdx < mediaIdx) {
		t.Errorf("call order = %v, want stop < power < sync < play_media", calls)
	}

	// Follower b is synced by then and must not receive media directly.
	if env.client.countPrefix("play_media:b") != 0 {
		t.Error("sync child b received play_media")
	}
}

func TestPlayMediaStopFailureAborts(t *testing.T) {
	a := single("a")
	a.State = player.StatePlaying

	env := newTestEnv(t, []string{"a"}, a)
	env.client.fail["stop:a"] = errors.New("device unreachable")
	env.client.reset()

	err := env.provider.PlayMedia(context.Background(), PlayMediaRequest{ItemID: "item-1"})
	if !errors.Is(err, ErrCommandFailed) {
		t.Fatalf("PlayMedia() error = %v, want ErrCommandFailed", err)
	}
	if n := env.client.countPrefix("play_media:"); n != 0 {
		t.Errorf("play_media dispatched %d times after failed stop, want 0", n)
	}
}

func TestVolumeOperationsAreNoOps(t *testing.T) {
	a := single("a")
	env := newTestEnv(t, []string{"a"}, a)
	env.client.reset()

	if err := env.provider.VolumeSet(context.Background(), 42); err != nil {
		t.Errorf("VolumeSet() error = %v, want nil", err)
	}
	if err := env.provider.VolumeMute(context.Background(), true); err != nil {
		t.Errorf("VolumeMute() error = %v, want nil", err)
	}
	if calls := env.client.callList(); len(calls) != 0 {
		t.Errorf("volume operations dispatched %v, want none", calls)
	}
}

func TestStopEmptyGroupSucceeds(t *testing.T) {
	env := newTestEnv(t, nil)

	if err := env.provider.Stop(context.Background()); err != nil {
		t.Errorf("Stop() on empty group error = %v, want nil", err)
	}

	got := memberIDs(env.provider.ActiveMembers(false, false))
	if !slices.Equal(got, []string{}) && got != nil {
		t.Errorf("ActiveMembers() = %v, want empty", got)
	}
}
