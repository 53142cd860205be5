package statestream

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/esphome-dash/designer-core/internal/infrastructure/config"
	"github.com/esphome-dash/designer-core/internal/infrastructure/mqtt"
)

// Logger is the minimal logging interface the consumer needs.
// Compatible with logging.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// noopLogger discards all log output. Used when no logger is configured.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Broker is the subset of the MQTT client the consumer uses.
type Broker interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
}

// Consumer subscribes to the statestream topic tree and folds messages
// into a Store.
type Consumer struct {
	broker  Broker
	store   *Store
	topics  mqtt.Topics
	domains map[string]bool
	qos     byte
	logger  Logger

	subscribed []string
}

// NewConsumer creates a consumer feeding the given store.
//
// If cfg.Domains is non-empty, only those entity domains are subscribed;
// otherwise the whole statestream tree is consumed.
func NewConsumer(broker Broker, store *Store, cfg config.HomeAssistantConfig, qos int, logger Logger) *Consumer {
	if logger == nil {
		logger = noopLogger{}
	}

	domains := make(map[string]bool, len(cfg.Domains))
	for _, d := range cfg.Domains {
		if d != "" {
			domains[d] = true
		}
	}

	return &Consumer{
		broker:  broker,
		store:   store,
		topics:  mqtt.Topics{Prefix: cfg.StatestreamPrefix},
		domains: domains,
		qos:     byte(qos),
		logger:  logger,
	}
}

// Start subscribes to the statestream tree. Retained messages replay the
// full entity population immediately, so the store warms up without any
// further handshake.
func (c *Consumer) Start() error {
	patterns := []string{c.topics.AllEntityTopics()}
	if len(c.domains) > 0 {
		patterns = patterns[:0]
		for domain := range c.domains {
			patterns = append(patterns, c.topics.DomainTopics(domain))
		}
	}

	for _, pattern := range patterns {
		if err := c.broker.Subscribe(pattern, c.qos, c.handleMessage); err != nil {
			return fmt.Errorf("subscribing to %s: %w", pattern, err)
		}
		c.subscribed = append(c.subscribed, pattern)
	}

	c.logger.Debug("statestream consumer started", "patterns", len(patterns))
	return nil
}

// Stop removes the consumer's subscriptions. The store keeps its contents.
func (c *Consumer) Stop() error {
	var firstErr error
	for _, pattern := range c.subscribed {
		if err := c.broker.Unsubscribe(pattern); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("unsubscribing from %s: %w", pattern, err)
		}
	}
	c.subscribed = nil
	return firstErr
}

// handleMessage folds one statestream message into the store.
func (c *Consumer) handleMessage(topic string, payload []byte) error {
	domain, objectID, attribute, ok := c.topics.ParseEntityTopic(topic)
	if !ok {
		c.logger.Debug("ignoring non-statestream topic", "topic", topic)
		return nil
	}
	if len(c.domains) > 0 && !c.domains[domain] {
		return nil
	}

	entityID := domain + "." + objectID

	if mqtt.IsStateTopic(attribute) {
		c.store.SetState(entityID, decodeStatePayload(payload))
		return nil
	}

	c.store.SetAttribute(entityID, attribute, decodeAttributePayload(payload))
	return nil
}

// decodeStatePayload extracts the state string from a statestream payload.
// Home Assistant publishes the bare state value; some broker setups wrap
// it in JSON quotes, which are stripped.
func decodeStatePayload(payload []byte) string {
	s := strings.TrimSpace(string(payload))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		var unquoted string
		if err := json.Unmarshal([]byte(s), &unquoted); err == nil {
			return unquoted
		}
	}
	return s
}

// decodeAttributePayload decodes a JSON-encoded attribute value. Payloads
// that are not valid JSON are kept as raw strings; evaluation-time coercion
// deals with them like any other attribute value.
func decodeAttributePayload(payload []byte) any {
	var value any
	if err := json.Unmarshal(payload, &value); err != nil {
		return strings.TrimSpace(string(payload))
	}
	return value
}
