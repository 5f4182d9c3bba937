package queue

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

// resumeFadeIn is the fade applied when playback is resumed mid-item, so
// a device joining a running stream does not cut in at full level.
const resumeFadeIn = 500 * time.Millisecond

// Item is one entry in a group's playback queue.
type Item struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// PlayRequest carries a playback instruction for a group target.
type PlayRequest struct {
	ItemID       string
	URL          string
	SeekPosition time.Duration
	FadeIn       time.Duration
	FlowMode     bool
}

// MediaPlayer is the playback target a queue replays into. The group
// provider satisfies this through a thin adapter at wiring time.
type MediaPlayer interface {
	PlayMedia(ctx context.Context, req PlayRequest) error
}

// Logger defines the logging interface used by the Manager.
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

// groupQueue is the per-group queue state. index points at the current
// item; index == len(items) means the queue has played out.
type groupQueue struct {
	items    []Item
	index    int
	position time.Duration
}

// Manager holds the playback queues of all groups.
//
// Thread Safety: all methods are safe for concurrent use. The lock is
// never held across a PlayMedia dispatch.
type Manager struct {
	mu      sync.Mutex
	queues  map[string]*groupQueue
	players map[string]MediaPlayer
	logger  Logger
}

// NewManager creates an empty queue manager.
func NewManager(logger Logger) *Manager {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Manager{
		queues:  make(map[string]*groupQueue),
		players: make(map[string]MediaPlayer),
		logger:  logger,
	}
}

// Attach binds a playback target to a group. Resume calls for that group
// replay into it until Detach.
func (m *Manager) Attach(groupID string, target MediaPlayer) {
	m.mu.Lock()
	m.players[groupID] = target
	m.mu.Unlock()
}

// Detach removes a group's playback target. The queue itself survives so
// a reloaded group resumes where it left off.
func (m *Manager) Detach(groupID string) {
	m.mu.Lock()
	delete(m.players, groupID)
	m.mu.Unlock()
}

// Enqueue appends items to a group's queue. Items without an ID are
// rejected. When the queue had played out, the first appended item
// becomes current.
func (m *Manager) Enqueue(groupID string, items ...Item) error {
	for _, item := range items {
		if item.ID == "" {
			return fmt.Errorf("%w: missing id", ErrInvalidItem)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	q := m.queue(groupID)
	playedOut := q.index >= len(q.items)
	q.items = append(q.items, items...)
	if playedOut {
		q.position = 0
	}
	return nil
}

// Current returns the group's current queue item, if any.
func (m *Manager) Current(groupID string) (Item, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.queues[groupID]
	if !ok || q.index >= len(q.items) {
		return Item{}, false
	}
	return q.items[q.index], true
}

// Advance moves the group's queue to the next item and returns it.
// Returns false when the queue has played out.
func (m *Manager) Advance(groupID string) (Item, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.queues[groupID]
	if !ok || q.index >= len(q.items) {
		return Item{}, false
	}

	q.index++
	q.position = 0
	if q.index >= len(q.items) {
		return Item{}, false
	}
	return q.items[q.index], true
}

// Items returns a snapshot of the group's remaining items, current first.
func (m *Manager) Items(groupID string) []Item {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.queues[groupID]
	if !ok || q.index >= len(q.items) {
		return nil
	}
	return slices.Clone(q.items[q.index:])
}

// Clear drops a group's queue entirely.
func (m *Manager) Clear(groupID string) {
	m.mu.Lock()
	delete(m.queues, groupID)
	m.mu.Unlock()
}

// UpdatePosition records the last observed playback position of the
// group's current item. Resume seeks back to it.
func (m *Manager) UpdatePosition(groupID string, elapsed time.Duration) {
	if elapsed < 0 {
		elapsed = 0
	}

	m.mu.Lock()
	m.queue(groupID).position = elapsed
	m.mu.Unlock()
}

// Resume replays the group's current item into its attached playback
// target, seeking to the last observed position with a short fade-in.
//
// An empty or played-out queue is not an error; there is simply nothing
// to resume. A missing target returns ErrNotAttached.
func (m *Manager) Resume(ctx context.Context, groupID string) error {
	m.mu.Lock()
	q, ok := m.queues[groupID]
	if !ok || q.index >= len(q.items) {
		m.mu.Unlock()
		m.logger.Debug("resume with empty queue", "group_id", groupID)
		return nil
	}
	item := q.items[q.index]
	position := q.position
	target, attached := m.players[groupID]
	m.mu.Unlock()

	if !attached {
		return fmt.Errorf("%w: %s", ErrNotAttached, groupID)
	}

	m.logger.Info("resuming queue playback",
		"group_id", groupID,
		"item_id", item.ID,
		"seek", position,
	)

	return target.PlayMedia(ctx, PlayRequest{
		ItemID:       item.ID,
		URL:          item.URL,
		SeekPosition: position,
		FadeIn:       resumeFadeIn,
		FlowMode:     true,
	})
}

// queue returns the group's queue, creating it on first use.
// Callers must hold m.mu.
func (m *Manager) queue(groupID string) *groupQueue {
	q, ok := m.queues[groupID]
	if !ok {
		q = &groupQueue{}
		m.queues[groupID] = q
	}
	return q
}
