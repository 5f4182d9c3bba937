package group

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// idPrefix marks group player IDs so they are recognisable in logs and
// topic paths.
const idPrefix = "ugp-"

// Config is the persisted definition of a group: its identity and the
// ordered member list.
//
// Member order is significant: it is the only priority ordering used by
// the resolver, the sync orchestrator and the state aggregator. No
// separate priority field exists.
type Config struct {
	// ID is the group's player ID, stable across restarts.
	ID string `json:"id"`

	// Name is the human-readable group label.
	Name string `json:"name"`

	// Enabled controls whether a provider is started for this group.
	Enabled bool `json:"enabled"`

	// Members is the ordered list of member player IDs.
	Members []string `json:"members"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GenerateID returns a new unique group player ID.
func GenerateID() string {
	return idPrefix + uuid.NewString()[:8]
}

// PlayMediaRequest carries the parameters of a play-media command.
// The same request is fanned out verbatim to every target member.
type PlayMediaRequest struct {
	// ItemID identifies the queue item to play.
	ItemID string `json:"item_id"`

	// URL is the stream URL for the item.
	URL string `json:"url"`

	// SeekPosition is where playback starts within the item.
	SeekPosition time.Duration `json:"seek_position"`

	// FadeIn is the volume fade applied at playback start. Zero means
	// no fade.
	FadeIn time.Duration `json:"fade_in"`

	// FlowMode requests gapless flow-mode streaming.
	FlowMode bool `json:"flow_mode"`
}

// Validate checks a group definition before persistence.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrInvalidGroup
	}
	for _, m := range c.Members {
		if m == c.ID {
			return ErrInvalidGroup
		}
	}
	return nil
}
