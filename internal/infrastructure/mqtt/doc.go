// Package mqtt provides MQTT client connectivity for the designer.
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
// The designer consumes entity state from Home Assistant's mqtt_statestream
// integration: retained messages published to
// {base_topic}/{domain}/{object_id}/{attribute}. The broker decouples the
// designer from Home Assistant itself; because statestream messages are
// retained, a restart on either side only costs freshness, never correctness.
//
//	Home Assistant → MQTT Broker → designer statestream consumer
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Performance Characteristics
//
//   - Connection: <1 second to local broker
//   - Reconnect: Exponential backoff 1s-60s with jitter
//   - Message throughput: Broker-limited (typically 10K+ msg/sec)
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	topics := mqtt.Topics{Prefix: cfg.HomeAssistant.StatestreamPrefix}
//	err = client.Subscribe(topics.AllEntityTopics(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
package mqtt
