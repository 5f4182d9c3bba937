// Package queue implements per-group playback queues.
//
// Each group owns one ordered queue of media items with a current-item
// cursor and a last observed playback position. The Resume operation is
// the piece the group coordination layer leans on: when a member device
// powers on while its group is playing, the reactor schedules a detached
// Resume, which replays the current item into the group with a seek back
// to the recorded position and a short fade-in.
package queue
