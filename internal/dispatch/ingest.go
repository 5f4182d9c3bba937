package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openaura/aura-core/internal/infrastructure/mqtt"
	"github.com/openaura/aura-core/internal/player"
)

// defaultBridgeProvider labels directory entries created from state
// reports whose payload names no provider.
const defaultBridgeProvider = "mqtt_bridge"

// StateIngest feeds inbound player state reports into the directory.
//
// Reports arrive on aura/state/player/{id}. Unknown players are
// registered on first sight; known players are updated in place and the
// change is published with forwarding enabled, so group providers
// watching the member react to it.
type StateIngest struct {
	registry *player.Registry
	bus      Bus
	topics   mqtt.Topics
	qos      byte
	logger   Logger

	now func() time.Time
}

// NewStateIngest creates a state ingest bound to the given directory.
func NewStateIngest(registry *player.Registry, bus Bus, qos byte, logger Logger) *StateIngest {
	if logger == nil {
		logger = noopLogger{}
	}
	return &StateIngest{
		registry: registry,
		bus:      bus,
		qos:      qos,
		logger:   logger,
		now:      time.Now,
	}
}

// Start subscribes to the all-players state pattern. The subscription is
// restored automatically across reconnects by the bus.
func (s *StateIngest) Start() error {
	return s.bus.Subscribe(s.topics.AllPlayerStates(), s.qos, s.HandleStateReport)
}

// HandleStateReport processes one state report.
//
// The player ID comes from the payload when present, otherwise from the
// topic's last segment. Absent payload fields leave the directory entry
// untouched, so bridges may publish partial updates (a bare
// elapsed-time sample is common).
func (s *StateIngest) HandleStateReport(topic string, payload []byte) error {
	var report statePayload
	if err := json.Unmarshal(payload, &report); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	id := report.PlayerID
	if id == "" {
		id = playerIDFromTopic(topic)
	}
	if id == "" {
		return fmt.Errorf("%w: no player id in payload or topic %q", ErrUnknownPlayer, topic)
	}

	p, err := s.registry.Get(id)
	if errors.Is(err, player.ErrNotFound) {
		return s.registerNew(id, &report)
	}
	if err != nil {
		return fmt.Errorf("looking up player %s: %w", id, err)
	}

	s.apply(p, &report)
	if err := s.registry.Update(id, false); err != nil {
		return fmt.Errorf("publishing update for %s: %w", id, err)
	}
	return nil
}

// registerNew creates a directory entry from the first report of an
// unseen player.
func (s *StateIngest) registerNew(id string, report *statePayload) error {
	provider := report.Provider
	if provider == "" {
		provider = defaultBridgeProvider
	}
	name := report.Name
	if name == "" {
		name = id
	}

	p := &player.Player{
		ID:       id,
		Kind:     player.KindSingle,
		Name:     name,
		Provider: provider,
		State:    player.StateIdle,
	}
	if err := s.registry.Register(p); err != nil {
		return fmt.Errorf("registering player %s: %w", id, err)
	}

	s.logger.Info("player discovered",
		"player_id", id,
		"provider", provider,
	)

	// Apply after registration so the report's fields surface as a
	// change notification against the bare entry.
	s.apply(p, report)
	return s.registry.Update(id, false)
}

// apply copies the report's present fields onto the live player.
func (s *StateIngest) apply(p *player.Player, report *statePayload) {
	if report.Name != "" {
		p.Name = report.Name
	}
	if report.Available != nil {
		p.Available = *report.Available
	}
	if report.Powered != nil {
		p.Powered = *report.Powered
	}
	if state, ok := parsePlayState(report.State); ok {
		p.State = state
	}
	if report.ActiveSource != nil {
		p.ActiveSource = *report.ActiveSource
	}
	if report.SyncedTo != nil {
		p.SyncedTo = *report.SyncedTo
	}
	if report.CanSyncWith != nil {
		p.CanSyncWith = report.CanSyncWith
	}
	if report.CurrentItemID != nil {
		p.CurrentItemID = *report.CurrentItemID
	}
	if report.CurrentURL != nil {
		p.CurrentURL = *report.CurrentURL
	}
	if report.ElapsedSeconds != nil {
		p.ElapsedTime = time.Duration(*report.ElapsedSeconds * float64(time.Second))
		p.ElapsedTimeUpdatedAt = s.now().UTC()
	}
}

// parsePlayState maps a report's state string onto a known play state.
// Unknown strings are ignored rather than guessed at.
func parsePlayState(s string) (player.PlayState, bool) {
	switch player.PlayState(strings.ToLower(s)) {
	case player.StateIdle:
		return player.StateIdle, true
	case player.StatePlaying:
		return player.StatePlaying, true
	case player.StatePaused:
		return player.StatePaused, true
	default:
		return "", false
	}
}

// playerIDFromTopic extracts the player ID from a state topic of the
// form aura/state/player/{id}.
func playerIDFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) < 4 || parts[len(parts)-2] != "player" {
		return ""
	}
	return parts[len(parts)-1]
}
