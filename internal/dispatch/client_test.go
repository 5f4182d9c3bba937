package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/openaura/aura-core/internal/group"
	"github.com/openaura/aura-core/internal/infrastructure/mqtt"
)

type published struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// fakeBus records publishes and subscriptions in memory.
type fakeBus struct {
	mu         sync.Mutex
	published  []published
	publishErr error
	handlers   map[string]mqtt.MessageHandler
}

func newFakeBus() *fakeBus {
	return &fakeBus{handlers: make(map[string]mqtt.MessageHandler)}
}

func (b *fakeBus) Publish(topic string, payload []byte, qos byte, retained bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.publishErr != nil {
		return b.publishErr
	}
	b.published = append(b.published, published{topic, payload, qos, retained})
	return nil
}

func (b *fakeBus) Subscribe(topic string, _ byte, handler mqtt.MessageHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = handler
	return nil
}

func (b *fakeBus) last(t *testing.T) published {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.published) == 0 {
		t.Fatal("nothing published")
	}
	return b.published[len(b.published)-1]
}

func decodeCommand(t *testing.T, payload []byte) commandPayload {
	t.Helper()
	var cmd commandPayload
	if err := json.Unmarshal(payload, &cmd); err != nil {
		t.Fatalf("decoding command payload: %v", err)
	}
	return cmd
}

func TestMemberClientSimpleCommands(t *testing.T) {
	tests := []struct {
		name string
		call func(c *MemberClient) error
		want string
	}{
		{"stop", func(c *MemberClient) error { return c.Stop(context.Background(), "p1") }, cmdStop},
		{"play", func(c *MemberClient) error { return c.Play(context.Background(), "p1") }, cmdPlay},
		{"pause", func(c *MemberClient) error { return c.Pause(context.Background(), "p1") }, cmdPause},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := newFakeBus()
			client := NewMemberClient(bus, 1, nil)

			if err := tt.call(client); err != nil {
				t.Fatalf("%s error = %v", tt.name, err)
			}

			got := bus.last(t)
			if got.topic != "aura/command/player/p1" {
				t.Errorf("topic = %q, want aura/command/player/p1", got.topic)
			}
			if got.retained {
				t.Error("command published retained")
			}
			if cmd := decodeCommand(t, got.payload); cmd.Command != tt.want {
				t.Errorf("command = %q, want %q", cmd.Command, tt.want)
			}
		})
	}
}

func TestMemberClientPower(t *testing.T) {
	bus := newFakeBus()
	client := NewMemberClient(bus, 1, nil)

	if err := client.Power(context.Background(), "p1", true); err != nil {
		t.Fatalf("Power() error = %v", err)
	}

	cmd := decodeCommand(t, bus.last(t).payload)
	if cmd.Command != cmdPower {
		t.Errorf("command = %q, want %q", cmd.Command, cmdPower)
	}
	if cmd.Powered == nil || !*cmd.Powered {
		t.Error("powered flag missing or false")
	}
}

func TestMemberClientSync(t *testing.T) {
	bus := newFakeBus()
	client := NewMemberClient(bus, 1, nil)

	if err := client.Sync(context.Background(), "p2", "p1"); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	got := bus.last(t)
	if got.topic != "aura/command/player/p2" {
		t.Errorf("topic = %q, want follower's command topic", got.topic)
	}
	cmd := decodeCommand(t, got.payload)
	if cmd.LeaderID != "p1" {
		t.Errorf("leader_id = %q, want p1", cmd.LeaderID)
	}
}

func TestMemberClientPlayMedia(t *testing.T) {
	bus := newFakeBus()
	client := NewMemberClient(bus, 1, nil)

	req := group.PlayMediaRequest{
		ItemID:       "item-1",
		URL:          "http://stream/item-1",
		SeekPosition: 90 * time.Second,
		FadeIn:       500 * time.Millisecond,
		FlowMode:     true,
	}
	if err := client.PlayMedia(context.Background(), "p1", req); err != nil {
		t.Fatalf("PlayMedia() error = %v", err)
	}

	cmd := decodeCommand(t, bus.last(t).payload)
	if cmd.Media == nil {
		t.Fatal("media payload missing")
	}
	if cmd.Media.ItemID != "item-1" || cmd.Media.URL != "http://stream/item-1" {
		t.Errorf("media = %+v, want item-1 with its url", cmd.Media)
	}
	if cmd.Media.SeekSeconds != 90 {
		t.Errorf("seek_seconds = %v, want 90", cmd.Media.SeekSeconds)
	}
	if cmd.Media.FadeInMs != 500 {
		t.Errorf("fade_in_ms = %v, want 500", cmd.Media.FadeInMs)
	}
	if !cmd.Media.FlowMode {
		t.Error("flow_mode not set")
	}
}

func TestMemberClientPublishFailure(t *testing.T) {
	bus := newFakeBus()
	bus.publishErr = errors.New("broker gone")
	client := NewMemberClient(bus, 1, nil)

	if err := client.Stop(context.Background(), "p1"); !errors.Is(err, ErrDispatchFailed) {
		t.Errorf("Stop() error = %v, want ErrDispatchFailed", err)
	}
}

func TestMemberClientCancelledContext(t *testing.T) {
	bus := newFakeBus()
	client := NewMemberClient(bus, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := client.Stop(ctx, "p1"); !errors.Is(err, context.Canceled) {
		t.Errorf("Stop() error = %v, want context.Canceled", err)
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	if len(bus.published) != 0 {
		t.Error("cancelled command reached the bus")
	}
}
