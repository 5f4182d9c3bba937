package group

import (
	"context"
	"fmt"
	"sync"
)

// Hooks are optional callbacks invoked as providers come and go.
// The wiring layer uses them to bind queue playback targets.
type Hooks struct {
	OnLoad   func(p *Provider)
	OnUnload func(groupID string)
}

// Manager owns the running group providers and keeps them aligned with
// the persisted group definitions.
//
// Definitions live in the Repository; the Manager materialises each
// enabled definition into a running Provider and tears it down again on
// update, disable or delete. A disabled group stays persisted but has
// no provider.
//
// Thread Safety: all methods are safe for concurrent use.
type Manager struct {
	repo   Repository
	deps   Deps
	hooks  Hooks
	logger Logger

	mu        sync.RWMutex
	providers map[string]*Provider
}

// NewManager creates a manager over the given definition store. The
// deps are shared by every provider it builds.
func NewManager(repo Repository, deps Deps, hooks Hooks) *Manager {
	logger := deps.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	return &Manager{
		repo:      repo,
		deps:      deps,
		hooks:     hooks,
		logger:    logger,
		providers: make(map[string]*Provider),
	}
}

// LoadAll materialises providers for every enabled persisted group.
// Called once at startup.
func (m *Manager) LoadAll(ctx context.Context) error {
	groups, err := m.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("listing groups: %w", err)
	}

	for i := range groups {
		if !groups[i].Enabled {
			continue
		}
		if err := m.load(groups[i]); err != nil {
			m.logger.Error("loading group provider failed",
				"group_id", groups[i].ID, "error", err)
		}
	}

	m.logger.Info("group providers loaded", "count", m.Count())
	return nil
}

// Provider returns the running provider for a group, if any.
func (m *Manager) Provider(groupID string) (*Provider, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.providers[groupID]
	return p, ok
}

// Providers returns all running providers.
func (m *Manager) Providers() []*Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Provider, 0, len(m.providers))
	for _, p := range m.providers {
		out = append(out, p)
	}
	return out
}

// Count returns the number of running providers.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.providers)
}

// Get returns a persisted group definition.
func (m *Manager) Get(ctx context.Context, groupID string) (*Config, error) {
	return m.repo.GetByID(ctx, groupID)
}

// List returns all persisted group definitions.
func (m *Manager) List(ctx context.Context) ([]Config, error) {
	return m.repo.List(ctx)
}

// Create persists a new group definition and, when enabled, starts its
// provider.
func (m *Manager) Create(ctx context.Context, cfg *Config) error {
	if err := m.repo.Create(ctx, cfg); err != nil {
		return err
	}
	if !cfg.Enabled {
		return nil
	}
	return m.load(*cfg)
}

// Update persists changed group settings and reloads the provider so
// the running state reflects them. Disabling a group unloads it.
func (m *Manager) Update(ctx context.Context, cfg *Config) error {
	if err := m.repo.Update(ctx, cfg); err != nil {
		return err
	}

	m.unload(cfg.ID)
	if !cfg.Enabled {
		return nil
	}
	return m.load(*cfg)
}

// SetMembers replaces a group's ordered member list and reloads the
// provider with the new resolution order.
func (m *Manager) SetMembers(ctx context.Context, groupID string, playerIDs []string) error {
	if err := m.repo.SetMembers(ctx, groupID, playerIDs); err != nil {
		return err
	}

	cfg, err := m.repo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}

	m.unload(groupID)
	if !cfg.Enabled {
		return nil
	}
	return m.load(*cfg)
}

// Delete unloads a group's provider and removes the persisted
// definition.
func (m *Manager) Delete(ctx context.Context, groupID string) error {
	m.unload(groupID)
	return m.repo.Delete(ctx, groupID)
}

// Shutdown unloads every running provider.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	providers := m.providers
	m.providers = make(map[string]*Provider)
	m.mu.Unlock()

	for id, p := range providers {
		p.Unload()
		if m.hooks.OnUnload != nil {
			m.hooks.OnUnload(id)
		}
	}
}

// load builds and starts a provider for the given definition.
func (m *Manager) load(cfg Config) error {
	p := NewProvider(cfg, m.deps)
	if err := p.Setup(); err != nil {
		return fmt.Errorf("setting up group %s: %w", cfg.ID, err)
	}

	m.mu.Lock()
	m.providers[cfg.ID] = p
	m.mu.Unlock()

	if m.hooks.OnLoad != nil {
		m.hooks.OnLoad(p)
	}
	return nil
}

// unload stops a group's provider if one is running.
func (m *Manager) unload(groupID string) {
	m.mu.Lock()
	p, ok := m.providers[groupID]
	delete(m.providers, groupID)
	m.mu.Unlock()

	if !ok {
		return
	}
	p.Unload()
	if m.hooks.OnUnload != nil {
		m.hooks.OnUnload(groupID)
	}
}
