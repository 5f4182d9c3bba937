// Package influxdb provides playback history recording for Aura Core.
//
// This package manages:
//   - Connection to InfluxDB v2 with token authentication
//   - Non-blocking batched writes of playback samples
//   - Flux queries for per-player history windows
//   - Connection health monitoring
//
// Three measurements are written:
//   - playback_state: state transitions with the active source
//   - playback_position: elapsed-time samples as bridges report them
//   - group_events: power cascades, sync formation, membership changes
//
// History recording is optional. When disabled in config, Connect returns
// ErrDisabled and callers run without a history client.
package influxdb
