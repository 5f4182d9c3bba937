package history

import (
	"slices"

	"github.com/openaura/aura-core/internal/player"
)

// Writer is the slice of the time-series client the recorder writes to.
type Writer interface {
	WritePlaybackState(playerID, state, source string)
	WriteElapsed(playerID string, elapsedSeconds float64)
	WriteGroupEvent(groupID, event string, memberCount int)
}

// Recorder turns directory change notifications into time-series
// samples.
//
// It is attached as a registry observer, so it sees every published
// update including forward-suppressed ones. State transitions become
// playback_state points, elapsed-time reports become playback_position
// points, and group power flips become group_events points. Writes are
// non-blocking on the client side; the recorder never slows the
// notification path.
type Recorder struct {
	writer Writer
}

// NewRecorder creates a recorder over the given writer.
func NewRecorder(writer Writer) *Recorder {
	return &Recorder{writer: writer}
}

// OnPlayerChanged is the registry observer hook.
func (r *Recorder) OnPlayerChanged(playerID string, p *player.Player, changedKeys []string) {
	if r.writer == nil {
		return
	}

	if slices.Contains(changedKeys, player.KeyState) {
		r.writer.WritePlaybackState(playerID, string(p.State), p.ActiveSource)
	}
	if slices.Contains(changedKeys, player.KeyElapsedTime) {
		r.writer.WriteElapsed(playerID, p.ElapsedTime.Seconds())
	}
	if p.IsGroup() && slices.Contains(changedKeys, player.KeyPowered) {
		event := "power_off"
		if p.Powered {
			event = "power_on"
		}
		r.writer.WriteGroupEvent(playerID, event, len(p.GroupChildren))
	}
}
