package mqtt

import "fmt"

// Topic prefixes for the Aura MQTT bus.
//
// Player topics use the flat scheme: aura/{category}/player/{player_id}.
// This matches what the provider bridges publish and what the dispatch
// layer subscribes to.
const (
	// TopicPrefix is the base for all Aura topics.
	TopicPrefix = "aura"

	// TopicPrefixCore is the base for topics published by the core itself.
	TopicPrefixCore = "aura/core"

	// TopicPrefixSystem is the base for system lifecycle topics.
	TopicPrefixSystem = "aura/system"
)

// Topics provides builders for Aura MQTT topics.
// Using these helpers keeps topic naming consistent across the codebase.
//
//	topics := mqtt.Topics{}
//	cmdTopic := topics.PlayerCommand("kitchen-speaker")
//	// Returns: "aura/command/player/kitchen-speaker"
type Topics struct{}

// PlayerCommand returns the topic for commands to a member player.
// Provider bridges subscribe here and relay the command to the device.
//
// Example: aura/command/player/kitchen-speaker
func (Topics) PlayerCommand(playerID string) string {
	return fmt.Sprintf("%s/command/player/%s", TopicPrefix, playerID)
}

// PlayerState returns the topic on which a bridge reports a player's state.
//
// Example: aura/state/player/kitchen-speaker
func (Topics) PlayerState(playerID string) string {
	return fmt.Sprintf("%s/state/player/%s", TopicPrefix, playerID)
}

// PlayerAck returns the topic for command acknowledgements from a bridge.
//
// Example: aura/ack/player/kitchen-speaker
func (Topics) PlayerAck(playerID string) string {
	return fmt.Sprintf("%s/ack/player/%s", TopicPrefix, playerID)
}

// GroupState returns the canonical aggregated state topic for a group.
// This is the authoritative state the core publishes after aggregation.
//
// Example: aura/core/group/ugp-a1b2/state
func (Topics) GroupState(groupID string) string {
	return fmt.Sprintf("%s/group/%s/state", TopicPrefixCore, groupID)
}

// GroupEvent returns the topic for group lifecycle events.
//
// Example: aura/core/group/ugp-a1b2/event
func (Topics) GroupEvent(groupID string) string {
	return fmt.Sprintf("%s/group/%s/event", TopicPrefixCore, groupID)
}

// SystemStatus returns the system status topic.
// Online/offline payloads and the LWT are published here.
//
// Example: aura/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllPlayerStates returns a pattern matching state reports from all players.
//
// Pattern: aura/state/player/+
func (Topics) AllPlayerStates() string {
	return fmt.Sprintf("%s/state/player/+", TopicPrefix)
}

// AllPlayerAcks returns a pattern matching all command acknowledgements.
//
// Pattern: aura/ack/player/+
func (Topics) AllPlayerAcks() string {
	return fmt.Sprintf("%s/ack/player/+", TopicPrefix)
}

// AllGroupStates returns a pattern matching all aggregated group states.
//
// Pattern: aura/core/group/+/state
func (Topics) AllGroupStates() string {
	return fmt.Sprintf("%s/group/+/state", TopicPrefixCore)
}

// AllTopics returns a pattern matching all Aura topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: aura/#
func (Topics) AllTopics() string {
	return "aura/#"
}
