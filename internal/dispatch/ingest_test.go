package dispatch

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/openaura/aura-core/internal/player"
)

func newTestIngest(t *testing.T) (*StateIngest, *player.Registry, *fakeBus) {
	t.Helper()
	registry := player.NewRegistry()
	bus := newFakeBus()
	ingest := NewStateIngest(registry, bus, 1, nil)
	return ingest, registry, bus
}

func TestIngestRegistersUnknownPlayer(t *testing.T) {
	ingest, registry, _ := newTestIngest(t)

	payload := []byte(`{
		"name": "Kitchen Speaker",
		"provider": "squeeze_bridge",
		"available": true,
		"powered": true,
		"state": "playing",
		"can_sync_with": ["p2", "p3"]
	}`)
	if err := ingest.HandleStateReport("aura/state/player/p1", payload); err != nil {
		t.Fatalf("HandleStateReport() error = %v", err)
	}

	p, err := registry.Get("p1")
	if err != nil {
		t.Fatalf("player not registered: %v", err)
	}
	if p.Name != "Kitchen Speaker" || p.Provider != "squeeze_bridge" {
		t.Errorf("got %+v, want name and provider from payload", p)
	}
	if !p.Available || !p.Powered {
		t.Error("available/powered flags not applied")
	}
	if p.State != player.StatePlaying {
		t.Errorf("state = %v, want playing", p.State)
	}
	if !slices.Equal(p.CanSyncWith, []string{"p2", "p3"}) {
		t.Errorf("can_sync_with = %v, want [p2 p3]", p.CanSyncWith)
	}
	if p.Kind != player.KindSingle {
		t.Errorf("kind = %v, want single", p.Kind)
	}
}

func TestIngestDefaultsForBarePayload(t *testing.T) {
	ingest, registry, _ := newTestIngest(t)

	if err := ingest.HandleStateReport("aura/state/player/p1", []byte(`{}`)); err != nil {
		t.Fatalf("HandleStateReport() error = %v", err)
	}

	p, err := registry.Get("p1")
	if err != nil {
		t.Fatalf("player not registered: %v", err)
	}
	if p.Name != "p1" {
		t.Errorf("name = %q, want fallback to id", p.Name)
	}
	if p.Provider != defaultBridgeProvider {
		t.Errorf("provider = %q, want %q", p.Provider, defaultBridgeProvider)
	}
	if p.State != player.StateIdle {
		t.Errorf("state = %v, want idle", p.State)
	}
}

func TestIngestPartialUpdateLeavesOtherFields(t *testing.T) {
	ingest, registry, _ := newTestIngest(t)

	seed := &player.Player{
		ID:           "p1",
		Kind:         player.KindSingle,
		Name:         "Kitchen",
		Provider:     "squeeze_bridge",
		Available:    true,
		Powered:      true,
		State:        player.StatePlaying,
		ActiveSource: "p1",
		CurrentURL:   "http://stream/1",
	}
	if err := registry.Register(seed); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	// Bare elapsed-time sample.
	payload := []byte(`{"elapsed_seconds": 42.5}`)
	if err := ingest.HandleStateReport("aura/state/player/p1", payload); err != nil {
		t.Fatalf("HandleStateReport() error = %v", err)
	}

	if seed.ElapsedTime != 42500*time.Millisecond {
		t.Errorf("elapsed = %v, want 42.5s", seed.ElapsedTime)
	}
	if seed.ElapsedTimeUpdatedAt.IsZero() {
		t.Error("elapsed timestamp not set")
	}
	if !seed.Powered || seed.State != player.StatePlaying || seed.CurrentURL != "http://stream/1" {
		t.Error("partial update clobbered unrelated fields")
	}
}

func TestIngestClearsFieldsExplicitly(t *testing.T) {
	ingest, registry, _ := newTestIngest(t)

	seed := &player.Player{
		ID:           "p1",
		Kind:         player.KindSingle,
		Name:         "Kitchen",
		Provider:     "squeeze_bridge",
		SyncedTo:     "p2",
		ActiveSource: "other-controller",
	}
	if err := registry.Register(seed); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	// Explicit empty strings clear, unlike absent fields.
	payload := []byte(`{"synced_to": "", "active_source": ""}`)
	if err := ingest.HandleStateReport("aura/state/player/p1", payload); err != nil {
		t.Fatalf("HandleStateReport() error = %v", err)
	}

	if seed.SyncedTo != "" {
		t.Errorf("synced_to = %q, want cleared", seed.SyncedTo)
	}
	if seed.ActiveSource != "" {
		t.Errorf("active_source = %q, want cleared", seed.ActiveSource)
	}
}

func TestIngestForwardsToWatchers(t *testing.T) {
	ingest, registry, _ := newTestIngest(t)

	seed := &player.Player{ID: "p1", Kind: player.KindSingle, Name: "p1", Provider: "test"}
	if err := registry.Register(seed); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	var gotKeys []string
	registry.Watch("watcher", []string{"p1"}, func(_ string, _ *player.Player, changedKeys []string) {
		gotKeys = append(gotKeys, changedKeys...)
	})

	payload := []byte(`{"powered": true}`)
	if err := ingest.HandleStateReport("aura/state/player/p1", payload); err != nil {
		t.Fatalf("HandleStateReport() error = %v", err)
	}

	if !slices.Contains(gotKeys, player.KeyPowered) {
		t.Errorf("watcher keys = %v, want to include %q", gotKeys, player.KeyPowered)
	}
}

func TestIngestMalformedPayload(t *testing.T) {
	ingest, _, _ := newTestIngest(t)

	err := ingest.HandleStateReport("aura/state/player/p1", []byte(`{not json`))
	if !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("error = %v, want ErrMalformedPayload", err)
	}
}

func TestIngestMissingPlayerID(t *testing.T) {
	ingest, _, _ := newTestIngest(t)

	err := ingest.HandleStateReport("aura/state", []byte(`{}`))
	if !errors.Is(err, ErrUnknownPlayer) {
		t.Errorf("error = %v, want ErrUnknownPlayer", err)
	}
}

func TestIngestPayloadIDWinsOverTopic(t *testing.T) {
	ingest, registry, _ := newTestIngest(t)

	payload := []byte(`{"player_id": "payload-id"}`)
	if err := ingest.HandleStateReport("aura/state/player/topic-id", payload); err != nil {
		t.Fatalf("HandleStateReport() error = %v", err)
	}

	if _, err := registry.Get("payload-id"); err != nil {
		t.Error("payload id not used for registration")
	}
	if _, err := registry.Get("topic-id"); err == nil {
		t.Error("topic id registered despite payload id")
	}
}

func TestIngestStartSubscribes(t *testing.T) {
	ingest, _, bus := newTestIngest(t)

	if err := ingest.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, ok := bus.handlers["aura/state/player/+"]; !ok {
		t.Error("not subscribed to the all-players state pattern")
	}
}

func TestIngestUnknownStateStringIgnored(t *testing.T) {
	ingest, registry, _ := newTestIngest(t)

	seed := &player.Player{
		ID: "p1", Kind: player.KindSingle, Name: "p1", Provider: "test",
		State: player.StatePlaying,
	}
	if err := registry.Register(seed); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	payload := []byte(`{"state": "buffering"}`)
	if err := ingest.HandleStateReport("aura/state/player/p1", payload); err != nil {
		t.Fatalf("HandleStateReport() error = %v", err)
	}
	if seed.State != player.StatePlaying {
		t.Errorf("state = %v, want unchanged playing", seed.State)
	}
}
