package dispatch

import "time"

// Command names carried on aura/command/player/{id}.
const (
	cmdStop      = "stop"
	cmdPlay      = "play"
	cmdPause     = "pause"
	cmdPower     = "power"
	cmdSync      = "sync"
	cmdPlayMedia = "play_media"
)

// commandPayload is the JSON envelope published to a member's command
// topic. Fields beyond Command are command-specific and omitted when
// unused.
type commandPayload struct {
	Command  string        `json:"command"`
	Powered  *bool         `json:"powered,omitempty"`
	LeaderID string        `json:"leader_id,omitempty"`
	Media    *mediaPayload `json:"media,omitempty"`
	IssuedAt time.Time     `json:"issued_at"`
}

// mediaPayload carries a play-media instruction. Durations travel as
// plain numbers so non-Go bridges decode them without Duration parsing.
type mediaPayload struct {
	ItemID      string  `json:"item_id"`
	URL         string  `json:"url,omitempty"`
	SeekSeconds float64 `json:"seek_seconds,omitempty"`
	FadeInMs    int64   `json:"fade_in_ms,omitempty"`
	FlowMode    bool    `json:"flow_mode"`
}

// statePayload is the JSON a provider bridge publishes on
// aura/state/player/{id}. Pointer fields distinguish "absent" from
// "set to zero value"; absent fields leave the directory entry unchanged.
type statePayload struct {
	PlayerID       string   `json:"player_id,omitempty"`
	Name           string   `json:"name,omitempty"`
	Provider       string   `json:"provider,omitempty"`
	Available      *bool    `json:"available,omitempty"`
	Powered        *bool    `json:"powered,omitempty"`
	State          string   `json:"state,omitempty"`
	ActiveSource   *string  `json:"active_source,omitempty"`
	SyncedTo       *string  `json:"synced_to,omitempty"`
	CanSyncWith    []string `json:"can_sync_with,omitempty"`
	CurrentItemID  *string  `json:"current_item_id,omitempty"`
	CurrentURL     *string  `json:"current_url,omitempty"`
	ElapsedSeconds *float64 `json:"elapsed_seconds,omitempty"`
}
