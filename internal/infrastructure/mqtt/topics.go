package mqtt

import (
	"fmt"
	"strings"
)

// Topic prefixes used by the designer.
//
// Entity state arrives via Home Assistant's mqtt_statestream integration,
// which publishes retained messages to {base_topic}/{domain}/{object_id}/{attribute}.
// The designer's own presence messages live under the system prefix.
const (
	// DefaultStatestreamPrefix is the conventional base_topic for the
	// statestream integration. Override via homeassistant.statestream_prefix.
	DefaultStatestreamPrefix = "homeassistant/statestream"

	// TopicPrefixSystem is the base for the designer's own status topics.
	TopicPrefixSystem = "designer/system"

	// stateAttribute is the statestream leaf carrying the entity state value.
	stateAttribute = "state"
)

// Topics provides builders for the MQTT topics the designer consumes and
// publishes. Using these helpers ensures consistent topic naming.
//
//	topics := mqtt.Topics{Prefix: cfg.HomeAssistant.StatestreamPrefix}
//	pattern := topics.AllEntityTopics()
//	// Returns: "homeassistant/statestream/#"
type Topics struct {
	// Prefix is the statestream base_topic. Empty means DefaultStatestreamPrefix.
	Prefix string
}

func (t Topics) base() string {
	if t.Prefix == "" {
		return DefaultStatestreamPrefix
	}
	return strings.TrimSuffix(t.Prefix, "/")
}

// EntityState returns the topic carrying an entity's state value.
//
// Example: homeassistant/statestream/light/kitchen/state
func (t Topics) EntityState(domain, objectID string) string {
	return fmt.Sprintf("%s/%s/%s/%s", t.base(), domain, objectID, stateAttribute)
}

// EntityAttribute returns the topic carrying one attribute of an entity.
//
// Example: homeassistant/statestream/light/kitchen/brightness
func (t Topics) EntityAttribute(domain, objectID, attribute string) string {
	return fmt.Sprintf("%s/%s/%s/%s", t.base(), domain, objectID, attribute)
}

// AllEntityTopics returns a pattern matching every statestream message.
//
// Pattern: homeassistant/statestream/#
func (t Topics) AllEntityTopics() string {
	return t.base() + "/#"
}

// DomainTopics returns a pattern matching all messages for one domain.
//
// Pattern: homeassistant/statestream/light/#
func (t Topics) DomainTopics(domain string) string {
	return fmt.Sprintf("%s/%s/#", t.base(), domain)
}

// SystemStatus returns the designer's own status topic, used for the
// online/offline presence payloads and the Last Will message.
//
// Example: designer/system/status
func (t Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}

// ParseEntityTopic splits a statestream topic into its entity parts.
//
// Given "homeassistant/statestream/light/kitchen/brightness" with the
// default prefix it returns ("light", "kitchen", "brightness", true).
// Topics outside the prefix, or without all three parts, return ok=false.
func (t Topics) ParseEntityTopic(topic string) (domain, objectID, attribute string, ok bool) {
	base := t.base() + "/"
	if !strings.HasPrefix(topic, base) {
		return "", "", "", false
	}

	parts := strings.Split(strings.TrimPrefix(topic, base), "/")
	if len(parts) != 3 {
		return "", "", "", false
	}
	for _, p := range parts {
		if p == "" {
			return "", "", "", false
		}
	}

	return parts[0], parts[1], parts[2], true
}

// IsStateTopic reports whether a statestream attribute leaf is the state value.
func IsStateTopic(attribute string) bool {
	return attribute == stateAttribute
}
