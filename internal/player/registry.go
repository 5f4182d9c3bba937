package player

import (
	"fmt"
	"sync"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
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

// ChangeHandler is invoked after a player's state changed.
//
// The handler receives the live player pointer and the set of field keys
// that differ from the previous update. Handlers may read and mutate the
// player and call back into the registry; no registry lock is held while
// handlers run.
type ChangeHandler func(playerID string, p *Player, changedKeys []string)

// watcher is a scoped subscription owned by one subscriber (typically a
// group provider watching its configured members).
type watcher struct {
	ids     map[string]struct{} // nil means all players
	handler ChangeHandler
}

// Registry is the player directory: the single owner of all live Player
// instances, keyed by ID.
//
// Each player is held as a live pointer with update-in-place semantics:
// command paths write optimistic state (powered, syncedTo) directly to the
// pointer before the remote device confirms, then call Update to diff
// against the last published snapshot and notify subscribers. Readers may
// therefore observe a command's effect before the device acknowledges it.
//
// Two subscriber classes exist:
//   - Watchers (Watch/Unwatch) are scoped to specific player IDs and are
//     suppressed when Update is called with skipForward. Group providers
//     use these; suppression prevents update-storm feedback when a group
//     republishes its own aggregate from inside a change handler.
//   - Observers (Observe) receive every non-suppressed update for every
//     player. The API websocket hub and the history recorder use these.
//
// All public methods are thread-safe.
type Registry struct {
	mu        sync.RWMutex
	players   map[string]*Player
	snapshots map[string]Player
	watchers  map[string]watcher
	observers []ChangeHandler
	logger    Logger
}

// NewRegistry creates an empty player directory.
func NewRegistry() *Registry {
	return &Registry{
		players:   make(map[string]*Player),
		snapshots: make(map[string]Player),
		watchers:  make(map[string]watcher),
		logger:    noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// Register adds a player to the directory.
// The registry takes ownership of the pointer; the caller and the registry
// share the same live instance from here on.
func (r *Registry) Register(p *Player) error {
	if p == nil || p.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidPlayer)
	}
	if p.Kind != KindSingle && p.Kind != KindGroup {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidPlayer, p.Kind)
	}
	if p.State == "" {
		p.State = StateIdle
	}

	r.mu.Lock()
	if _, exists := r.players[p.ID]; exists {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
	}
	r.players[p.ID] = p
	r.snapshots[p.ID] = p.Snapshot()
	r.mu.Unlock()

	r.logger.Info("player registered", "player_id", p.ID, "kind", p.Kind, "provider", p.Provider)
	return nil
}

// Deregister removes a player from the directory.
// Removing an unknown ID is not an error.
func (r *Registry) Deregister(id string) {
	r.mu.Lock()
	_, existed := r.players[id]
	delete(r.players, id)
	delete(r.snapshots, id)
	r.mu.Unlock()

	if existed {
		r.logger.Info("player deregistered", "player_id", id)
	}
}

// Get returns the live player pointer for an ID.
// Returns ErrNotFound if the player is not registered.
func (r *Registry) Get(id string) (*Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.players[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, nil
}

// All returns the live pointers of every registered player.
// Order is unspecified.
func (r *Registry) All() []*Player {
	r.mu.RLock()
	defer r.mu.RUnlock()

	players := make([]*Player, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, p)
	}
	return players
}

// Count returns the number of registered players.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

// Watch registers a scoped change handler under a subscriber ID.
//
// The handler fires for updates to any player whose ID is in ids; a nil
// ids slice watches all players. Re-registering the same subscriber ID
// replaces the previous watch.
func (r *Registry) Watch(subscriberID string, ids []string, handler ChangeHandler) {
	var idSet map[string]struct{}
	if ids != nil {
		idSet = make(map[string]struct{}, len(ids))
		for _, id := range ids {
			idSet[id] = struct{}{}
		}
	}

	r.mu.Lock()
	r.watchers[subscriberID] = watcher{ids: idSet, handler: handler}
	r.mu.Unlock()
}

// Unwatch removes a subscriber's watch.
func (r *Registry) Unwatch(subscriberID string) {
	r.mu.Lock()
	delete(r.watchers, subscriberID)
	r.mu.Unlock()
}

// Observe registers an unscoped handler that receives every
// non-suppressed update. Observers cannot be removed individually;
// they live for the registry's lifetime.
func (r *Registry) Observe(handler ChangeHandler) {
	r.mu.Lock()
	r.observers = append(r.observers, handler)
	r.mu.Unlock()
}

// Update diffs the player against its last published snapshot and
// notifies subscribers of the changed fields.
//
// Callers mutate the live pointer first, then call Update. If nothing
// changed, no notification is sent. With skipForward set, watchers are
// suppressed but observers still fire; a group uses this when
// republishing its own aggregated state from inside a change handler.
//
// Handlers run on the calling goroutine with no registry lock held, so
// they may call back into the registry (including nested Updates).
func (r *Registry) Update(id string, skipForward bool) error {
	r.mu.Lock()
	p, ok := r.players[id]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	prev := r.snapshots[id]
	changed := p.ChangedKeys(prev)
	if len(changed) == 0 {
		r.mu.Unlock()
		return nil
	}
	r.snapshots[id] = p.Snapshot()

	// Collect handlers under the lock, invoke after releasing it.
	var handlers []ChangeHandler
	if !skipForward {
		for _, w := range r.watchers {
			if w.ids == nil {
				handlers = append(handlers, w.handler)
				continue
			}
			if _, watched := w.ids[id]; watched {
				handlers = append(handlers, w.handler)
			}
		}
	}
	handlers = append(handlers, r.observers...)
	r.mu.Unlock()

	r.logger.Debug("player updated",
		"player_id", id,
		"changed", changed,
		"skip_forward", skipForward,
	)

	for _, h := range handlers {
		h(id, p, changed)
	}
	return nil
}
