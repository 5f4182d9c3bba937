package group

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/openaura/aura-core/internal/player"
)

// ProviderName identifies players owned by the group provider.
const ProviderName = "aura_group"

// Per-player option keys consulted through the OptionReader.
// Values match the keys served by the configuration layer.
const (
	optGroupedPowerOn = "grouped_power_on"
	optHideMembers    = "hide_members"
	optOutputChannels = "output_channels"
	optFlowMode       = "flow_mode"
)

// MemberClient dispatches commands to individual member players.
//
// Implementations route each command through the member's own provider
// (for Aura, the MQTT dispatch layer). Timeout and cancellation policy
// belongs to the implementation; the coordination logic passes contexts
// through unchanged.
type MemberClient interface {
	Stop(ctx context.Context, playerID string) error
	Play(ctx context.Context, playerID string) error
	Pause(ctx context.Context, playerID string) error
	Power(ctx context.Context, playerID string, powered bool) error
	Sync(ctx context.Context, playerID, leaderID string) error
	PlayMedia(ctx context.Context, playerID string, req PlayMediaRequest) error
}

// OptionReader reads named per-player configuration options.
type OptionReader interface {
	BoolOption(playerID, key string) bool
	StringOption(playerID, key string) string
}

// QueueResumer resumes the shared playback queue for a group.
type QueueResumer interface {
	Resume(ctx context.Context, groupID string) error
}

// TaskRunner runs a callable as a detached background unit whose result
// the caller discards.
type TaskRunner interface {
	Go(name string, fn func(ctx context.Context) error) error
}

// Logger defines the logging interface used by the Provider.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Deps are the injected collaborators a Provider needs.
type Deps struct {
	Registry *player.Registry
	Members  MemberClient
	Options  OptionReader
	Queue    QueueResumer
	Runner   TaskRunner
	Logger   Logger
}

// Provider coordinates one group of playback devices as a single virtual
// player.
//
// The provider owns exactly one GROUP-kind player in the directory and
// references its members by ID only. All coordination state lives on the
// live player instances; no lock is held across an operation. Correctness
// between rapidly issued commands relies on optimistic in-memory writes
// (powered, synced_to) applied before the corresponding remote command
// completes (see the player package's ownership model).
type Provider struct {
	id   string
	name string

	configuredMembers []string

	registry *player.Registry
	members  MemberClient
	options  OptionReader
	queue    QueueResumer
	runner   TaskRunner
	logger   Logger

	// group is the live directory instance, set by Setup.
	group *player.Player

	// lastSyncLeaders is diagnostic only: the leader set computed by the
	// most recent SyncMembers call.
	mu              sync.Mutex
	lastSyncLeaders []string
}

// NewProvider creates a provider for a persisted group definition.
// Call Setup before issuing commands.
func NewProvider(cfg Config, deps Deps) *Provider {
	logger := deps.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	return &Provider{
		id:                cfg.ID,
		name:              cfg.Name,
		configuredMembers: slices.Clone(cfg.Members),
		registry:          deps.Registry,
		members:           deps.Members,
		options:           deps.Options,
		queue:             deps.Queue,
		runner:            deps.Runner,
		logger:            logger,
	}
}

// ID returns the group's player ID.
func (p *Provider) ID() string {
	return p.id
}

// ConfiguredMembers returns the persisted ordered member list.
func (p *Provider) ConfiguredMembers() []string {
	return slices.Clone(p.configuredMembers)
}

// GroupPlayer returns the live group player instance, or nil before Setup.
func (p *Provider) GroupPlayer() *player.Player {
	return p.group
}

// Setup builds the group player from the persisted configuration,
// registers it in the directory and subscribes to member change
// notifications.
func (p *Provider) Setup() error {
	g := &player.Player{
		ID:           p.id,
		Kind:         player.KindGroup,
		Name:         p.name,
		Provider:     ProviderName,
		Available:    true,
		Powered:      false,
		State:        player.StateIdle,
		ActiveSource: p.id,
	}

	if err := p.registry.Register(g); err != nil {
		return fmt.Errorf("registering group player: %w", err)
	}
	p.group = g

	p.RecomputeAttributes()
	if err := p.registry.Update(p.id, true); err != nil {
		return fmt.Errorf("publishing initial state: %w", err)
	}

	p.registry.Watch(p.id, p.configuredMembers, p.OnMemberStateChanged)

	p.logger.Info("group provider started",
		"group_id", p.id,
		"name", p.name,
		"members", len(p.configuredMembers),
	)
	return nil
}

// Unload detaches the provider and removes the group player from the
// directory. No runtime state survives; the next Setup rebuilds from the
// persisted configuration.
func (p *Provider) Unload() {
	p.registry.Unwatch(p.id)
	p.registry.Deregister(p.id)
	p.group = nil

	p.logger.Info("group provider unloaded", "group_id", p.id)
}

// Poll refreshes the group's derived attributes and republishes them.
// The update is forward-suppressed: polls must not re-trigger watchers.
func (p *Provider) Poll() {
	if p.group == nil {
		return
	}
	p.RecomputeAttributes()
	if err := p.registry.Update(p.id, true); err != nil {
		p.logger.Warn("poll publish failed", "group_id", p.id, "error", err)
	}
}

// LastSyncLeaders returns the leader set computed by the most recent
// SyncMembers call. Diagnostic only.
func (p *Provider) LastSyncLeaders() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.lastSyncLeaders)
}

func (p *Provider) setLastSyncLeaders(leaders []string) {
	p.mu.Lock()
	p.lastSyncLeaders = slices.Clone(leaders)
	p.mu.Unlock()
}
