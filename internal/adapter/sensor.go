package adapter

import (
	"github.com/esphome-dash/designer-core/internal/binding"
	"github.com/esphome-dash/designer-core/internal/entity"
	"github.com/esphome-dash/designer-core/internal/transform"
)

// deviceClassIcons maps common sensor device classes to preview icons.
var deviceClassIcons = map[string]string{
	"temperature": "mdi:thermometer",
	"humidity":    "mdi:water-percent",
	"pressure":    "mdi:gauge",
	"power":       "mdi:flash",
	"energy":      "mdi:lightning-bolt",
	"battery":     "mdi:battery",
	"illuminance": "mdi:brightness-5",
	"co2":         "mdi:molecule-co2",
	"motion":      "mdi:motion-sensor",
	"door":        "mdi:door",
	"window":      "mdi:window-closed",
	"moisture":    "mdi:water-alert",
}

// sensorAdapter covers read-only measurement entities: numeric sensors and
// binary sensors. Neither ever gets a write binding.
type sensorAdapter struct {
	base
}

func newSensorAdapter() *sensorAdapter {
	return &sensorAdapter{base{domain: "sensor", aliases: []string{"binary_sensor"}}}
}

func (a *sensorAdapter) ExtractCapabilities(s *entity.State) Capabilities {
	caps := baseCapabilities(s)
	if s == nil {
		return caps
	}

	_, numeric := entity.ToFloat(s.State)
	unit := attrString(s, "unit_of_measurement")

	caps["is_binary"] = s.Domain() == "binary_sensor"
	caps["is_numeric"] = numeric || unit != ""
	caps["unit"] = unit
	caps["device_class"] = attrString(s, "device_class")

	return caps
}

func (a *sensorAdapter) Parameters(caps Capabilities) []binding.ControlParameter {
	params := []binding.ControlParameter{
		entityParameter("sensor", "binary_sensor"),
		{ID: "label", Name: "Label", Type: binding.ParamString, DefaultValue: caps.FriendlyName()},
	}
	if caps.Flag("is_numeric") {
		one := 1.0
		zero := 0.0
		three := 3.0
		params = append(params, binding.ControlParameter{
			ID: "precision", Name: "Decimal places", Type: binding.ParamNumber,
			DefaultValue: 1, Min: &zero, Max: &three, Step: &one,
		})
	}
	return append(params, colorParameters()...)
}

func (a *sensorAdapter) DefaultReadBindings(caps Capabilities) []binding.ReadBinding {
	switch {
	case caps.Flag("is_binary"):
		return []binding.ReadBinding{
			{
				ID: "sensor_binary_value", EntityParam: EntityParamID,
				TargetProperty: "props.value",
				Transform:      "map", TransformConfig: onOffMap(),
				Availability: placeholderPolicy("--"),
			},
		}
	case caps.Flag("is_numeric"):
		return []binding.ReadBinding{
			{
				ID: "sensor_numeric_value", EntityParam: EntityParamID,
				TargetProperty: "props.value",
				Transform:      "round", TransformConfig: transform.Config{"precision": 1},
				Availability: placeholderPolicy("--"),
			},
		}
	default:
		return []binding.ReadBinding{
			{
				ID: "sensor_text_value", EntityParam: EntityParamID,
				TargetProperty: "props.value",
				Transform:      "stringify",
				Availability:   placeholderPolicy("--"),
			},
		}
	}
}

// DefaultWriteBindings always returns nil: sensors are a read-only domain.
func (a *sensorAdapter) DefaultWriteBindings(Capabilities) []binding.WriteBinding {
	return nil
}

func (a *sensorAdapter) StateDisplay(s *entity.State) StateDisplay {
	icon := "mdi:eye"
	if s != nil {
		if dc := attrString(s, "device_class"); dc != "" {
			if mapped, ok := deviceClassIcons[dc]; ok {
				icon = mapped
			}
		}
	}
	if s == nil || !s.Available() {
		return StateDisplay{Text: "--", Icon: icon, Color: "#9e9e9e"}
	}

	text := s.State
	if unit := attrString(s, "unit_of_measurement"); unit != "" {
		text += " " + unit
	}
	color := "#ffffff"
	if s.Domain() == "binary_sensor" && s.State == entity.StateOn {
		color = "#ffc107"
	}
	return StateDisplay{Text: text, Icon: icon, Color: color}
}

func (a *sensorAdapter) Services() []ServiceDescriptor {
	return nil
}
