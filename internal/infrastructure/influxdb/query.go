package influxdb

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// HistoryPoint is a single sample returned by a history query.
type HistoryPoint struct {
	Time   time.Time      `json:"time"`
	Fields map[string]any `json:"fields"`
}

// PlaybackHistory returns the recorded playback samples for a player
// within the given time window, oldest first.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - playerID: The player to query history for
//   - measurement: Which series to read ("playback_state", "playback_position", "group_events")
//   - start, end: Time window (end must be after start)
//
// Returns:
//   - []HistoryPoint: Samples in chronological order (may be empty)
//   - error: nil on success, otherwise the query error
func (c *Client) PlaybackHistory(ctx context.Context, playerID, measurement string, start, end time.Time) ([]HistoryPoint, error) {
	if c == nil || !c.IsConnected() {
		return nil, ErrNotConnected
	}
	if strings.TrimSpace(playerID) == "" {
		return nil, fmt.Errorf("%w: player id is required", ErrQueryFailed)
	}
	if !isKnownMeasurement(measurement) {
		return nil, fmt.Errorf("%w: unknown measurement %q", ErrQueryFailed, measurement)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end must be after start", ErrQueryFailed)
	}

	// The tag key differs for group event series.
	tagKey := "player_id"
	if measurement == "group_events" {
		tagKey = "group_id"
	}

	flux := fmt.Sprintf(`from(bucket: %q)
  |> range(start: %s, stop: %s)
  |> filter(fn: (r) => r._measurement == %q)
  |> filter(fn: (r) => r.%s == %q)
  |> sort(columns: ["_time"])`,
		c.cfg.Bucket,
		start.UTC().Format(time.RFC3339),
		end.UTC().Format(time.RFC3339),
		measurement,
		tagKey,
		playerID,
	)

	result, err := c.queryAPI.Query(ctx, flux)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	defer result.Close()

	points := make(map[time.Time]map[string]any)
	var order []time.Time

	for result.Next() {
		record := result.Record()
		ts := record.Time()
		if _, seen := points[ts]; !seen {
			points[ts] = make(map[string]any)
			order = append(order, ts)
		}
		points[ts][record.Field()] = record.Value()
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	history := make([]HistoryPoint, 0, len(order))
	for _, ts := range order {
		history = append(history, HistoryPoint{Time: ts, Fields: points[ts]})
	}
	return history, nil
}

// isKnownMeasurement reports whether the measurement name is one Aura writes.
// Rejecting unknown names keeps user input out of the Flux query.
func isKnownMeasurement(measurement string) bool {
	switch measurement {
	case "playback_state", "playback_position", "group_events":
		return true
	}
	return false
}
