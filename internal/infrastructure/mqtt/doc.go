// Package mqtt provides MQTT client connectivity for Aura Core.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// Aura uses MQTT as the message bus between the core and the provider
// bridges that talk to actual playback devices. The core publishes
// member commands to aura/command/player/{id} and ingests state reports
// from aura/state/player/+; aggregated group state goes out on
// aura/core/group/{id}/state as retained messages.
//
//	Aura Core ↔ MQTT Broker ↔ Provider Bridges ↔ Devices
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Subscribe to all player state reports
//	err = client.Subscribe(mqtt.Topics{}.AllPlayerStates(), 1,
//	    func(topic string, payload []byte) error {
//	        return ingest.HandleStateReport(topic, payload)
//	    })
//
//	// Publish a command to a member player
//	topic := mqtt.Topics{}.PlayerCommand("kitchen-speaker")
//	client.Publish(topic, []byte(`{"command":"stop"}`), 1, false)
package mqtt
