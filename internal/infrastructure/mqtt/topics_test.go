package mqtt

import "testing"

func TestTopicBuilders(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"player command", topics.PlayerCommand("kitchen-speaker"), "aura/command/player/kitchen-speaker"},
		{"player state", topics.PlayerState("kitchen-speaker"), "aura/state/player/kitchen-speaker"},
		{"player ack", topics.PlayerAck("kitchen-speaker"), "aura/ack/player/kitchen-speaker"},
		{"group state", topics.GroupState("ugp-a1b2"), "aura/core/group/ugp-a1b2/state"},
		{"group event", topics.GroupEvent("ugp-a1b2"), "aura/core/group/ugp-a1b2/event"},
		{"system status", topics.SystemStatus(), "aura/system/status"},
		{"all player states", topics.AllPlayerStates(), "aura/state/player/+"},
		{"all player acks", topics.AllPlayerAcks(), "aura/ack/player/+"},
		{"all group states", topics.AllGroupStates(), "aura/core/group/+/state"},
		{"all topics", topics.AllTopics(), "aura/#"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
