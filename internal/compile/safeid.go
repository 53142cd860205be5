package compile

import (
	"regexp"

	"github.com/esphome-dash/designer-core/internal/entity"
)

// maxIDLength is the ESPHome identifier length limit.
const maxIDLength = 63

var unsafeIDChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

// SafeID derives a firmware-safe identifier from an entity id: every
// character outside [A-Za-z0-9_] becomes '_', then the result is truncated
// to 63 characters. Deterministic, so repeated calls for the same entity
// always address the same declaration.
func SafeID(entityID string) string {
	id := unsafeIDChars.ReplaceAllString(entityID, "_")
	if len(id) > maxIDLength {
		id = id[:maxIDLength]
	}
	return id
}

// DeclKind selects which declaration section an entity belongs to.
type DeclKind string

// Declaration sections.
const (
	KindSensor       DeclKind = "sensor"
	KindTextSensor   DeclKind = "text_sensor"
	KindBinarySensor DeclKind = "binary_sensor"
)

// binaryDomains map onto ESPHome binary_sensor declarations.
var binaryDomains = map[string]bool{
	"binary_sensor": true,
	"switch":        true,
	"light":         true,
	"fan":           true,
	"input_boolean": true,
	"lock":          true,
	"cover":         true,
}

// textDomains map onto ESPHome text_sensor declarations.
var textDomains = map[string]bool{
	"input_text":     true,
	"text":           true,
	"weather":        true,
	"person":         true,
	"zone":           true,
	"device_tracker": true,
}

// KindForEntity classifies an entity id into exactly one declaration
// section. Domains that are neither binary-ish nor text-ish declare as
// numeric sensors.
func KindForEntity(entityID string) DeclKind {
	domain := entity.Domain(entityID)
	switch {
	case binaryDomains[domain]:
		return KindBinarySensor
	case textDomains[domain]:
		return KindTextSensor
	default:
		return KindSensor
	}
}
