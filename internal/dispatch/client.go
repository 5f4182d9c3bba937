package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/openaura/aura-core/internal/group"
	"github.com/openaura/aura-core/internal/infrastructure/mqtt"
)

// Bus is the slice of the MQTT client the dispatch layer uses.
type Bus interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Logger defines the logging interface used by the dispatch layer.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// MemberClient dispatches member commands over the MQTT bus.
//
// Each command is one JSON payload on the member's command topic; the
// provider bridge on the other side relays it to the physical device.
// Commands are fire-onto-the-bus: a returned nil means the broker took
// the message, not that the device acted on it. Acknowledgements, where
// a bridge sends them, arrive separately on the ack topic.
type MemberClient struct {
	bus    Bus
	topics mqtt.Topics
	qos    byte
	logger Logger
}

// NewMemberClient creates a member command client publishing at the
// given QoS.
func NewMemberClient(bus Bus, qos byte, logger Logger) *MemberClient {
	if logger == nil {
		logger = noopLogger{}
	}
	return &MemberClient{bus: bus, qos: qos, logger: logger}
}

// Stop instructs a member to stop playback.
func (c *MemberClient) Stop(ctx context.Context, playerID string) error {
	return c.send(ctx, playerID, commandPayload{Command: cmdStop})
}

// Play instructs a member to start or continue playback.
func (c *MemberClient) Play(ctx context.Context, playerID string) error {
	return c.send(ctx, playerID, commandPayload{Command: cmdPlay})
}

// Pause instructs a member to pause playback.
func (c *MemberClient) Pause(ctx context.Context, playerID string) error {
	return c.send(ctx, playerID, commandPayload{Command: cmdPause})
}

// Power instructs a member to power on or off.
func (c *MemberClient) Power(ctx context.Context, playerID string, powered bool) error {
	return c.send(ctx, playerID, commandPayload{Command: cmdPower, Powered: &powered})
}

// Sync instructs a member to join the given leader's synchronised
// playback.
func (c *MemberClient) Sync(ctx context.Context, playerID, leaderID string) error {
	return c.send(ctx, playerID, commandPayload{Command: cmdSync, LeaderID: leaderID})
}

// PlayMedia instructs a member to load and play the given item.
func (c *MemberClient) PlayMedia(ctx context.Context, playerID string, req group.PlayMediaRequest) error {
	return c.send(ctx, playerID, commandPayload{
		Command: cmdPlayMedia,
		Media: &mediaPayload{
			ItemID:      req.ItemID,
			URL:         req.URL,
			SeekSeconds: req.SeekPosition.Seconds(),
			FadeInMs:    req.FadeIn.Milliseconds(),
			FlowMode:    req.FlowMode,
		},
	})
}

// send marshals and publishes one command payload. The context is
// checked before handing the message to the bus; the publish itself is
// bounded by the bus's own timeout.
func (c *MemberClient) send(ctx context.Context, playerID string, payload commandPayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload.IssuedAt = time.Now().UTC()

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: marshalling %s: %w", ErrDispatchFailed, payload.Command, err)
	}

	topic := c.topics.PlayerCommand(playerID)
	if err := c.bus.Publish(topic, data, c.qos, false); err != nil {
		return fmt.Errorf("%w: %s to %s: %w", ErrDispatchFailed, payload.Command, playerID, err)
	}

	c.logger.Debug("command dispatched",
		"player_id", playerID,
		"command", payload.Command,
	)
	return nil
}
