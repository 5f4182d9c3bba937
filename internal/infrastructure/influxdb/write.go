package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WritePlaybackState records a playback state transition for a player.
//
// Called whenever a player's aggregated state changes (idle/playing/paused).
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - playerID: The player whose state changed (group or member)
//   - state: The new playback state
//   - source: The active source at the time of the change (may be empty)
//
// Example:
//
//	client.WritePlaybackState("ugp-a1b2", "playing", "kitchen-speaker")
func (c *Client) WritePlaybackState(playerID, state, source string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"playback_state",
		map[string]string{
			"player_id": playerID,
		},
		map[string]interface{}{
			"state":  state,
			"source": source,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteElapsed records the playback position of a player.
//
// Positions arrive with member state reports, so the sample rate follows
// the bridges' report cadence rather than a fixed interval.
//
// Parameters:
//   - playerID: The player the position belongs to
//   - elapsedSeconds: Position within the current item, in seconds
func (c *Client) WriteElapsed(playerID string, elapsedSeconds float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"playback_position",
		map[string]string{
			"player_id": playerID,
		},
		map[string]interface{}{
			"elapsed_seconds": elapsedSeconds,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteGroupEvent records a group lifecycle event.
//
// Used for power cascades, sync formation, and membership changes so the
// history view can explain why playback moved between devices.
//
// Parameters:
//   - groupID: The group the event belongs to
//   - event: Event name (e.g., "power_on", "power_off", "sync_formed")
//   - memberCount: Number of active members at the time of the event
func (c *Client) WriteGroupEvent(groupID, event string, memberCount int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"group_events",
		map[string]string{
			"group_id": groupID,
			"event":    event,
		},
		map[string]interface{}{
			"member_count": memberCount,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
