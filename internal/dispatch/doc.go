// Package dispatch bridges the player directory and the MQTT bus.
//
// Outbound, MemberClient turns member commands (stop, play, pause,
// power, sync, play-media) into JSON payloads on each member's command
// topic, where a provider bridge picks them up and drives the physical
// device. Inbound, StateIngest subscribes to the all-players state
// pattern and folds bridge reports into the directory, registering
// players on first sight and publishing updates with forwarding enabled
// so watching group providers react.
package dispatch
