// Package history records playback activity to the time-series store.
//
// The recorder listens to the player directory's change notifications
// and writes state transitions, playback positions and group power
// events as InfluxDB points. The API's history endpoint reads the same
// measurements back.
package history
