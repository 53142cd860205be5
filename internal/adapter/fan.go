package adapter

import (
	"fmt"

	"github.com/esphome-dash/designer-core/internal/binding"
	"github.com/esphome-dash/designer-core/internal/entity"
)

// Fan supported_features bits (Home Assistant FanEntityFeature).
const (
	fanFeatureSetSpeed   = 1
	fanFeatureOscillate  = 2
	fanFeatureDirection  = 4
	fanFeaturePresetMode = 8
)

// fanSpeedDebounceMs is the debounce window for the percentage slider.
const fanSpeedDebounceMs = 300

type fanAdapter struct {
	base
}

func newFanAdapter() *fanAdapter {
	return &fanAdapter{base{domain: "fan"}}
}

func (a *fanAdapter) ExtractCapabilities(s *entity.State) Capabilities {
	caps := baseCapabilities(s)
	if s == nil {
		return caps
	}

	bits := supportedFeatures(s)
	presets := attrStrings(s, "preset_modes")

	caps["supports_speed"] = bits&fanFeatureSetSpeed != 0
	caps["supports_oscillate"] = bits&fanFeatureOscillate != 0
	caps["supports_direction"] = bits&fanFeatureDirection != 0
	caps["supports_preset_mode"] = bits&fanFeaturePresetMode != 0 && len(presets) > 0
	caps["preset_modes"] = presets
	caps["percentage"] = attrFloat(s, "percentage", 0)
	caps["is_on"] = s.State == entity.StateOn

	return caps
}

func (a *fanAdapter) Parameters(caps Capabilities) []binding.ControlParameter {
	params := []binding.ControlParameter{entityParameter("fan")}

	if caps.Flag("supports_speed") {
		params = append(params, binding.ControlParameter{
			ID: "show_speed", Name: "Show speed slider", Type: binding.ParamBoolean, DefaultValue: true,
		})
	}
	if caps.Flag("supports_oscillate") {
		params = append(params, binding.ControlParameter{
			ID: "show_oscillate", Name: "Show oscillate toggle", Type: binding.ParamBoolean, DefaultValue: false,
		})
	}
	if caps.Flag("supports_preset_mode") {
		params = append(params, binding.ControlParameter{
			ID: "show_presets", Name: "Show presets", Type: binding.ParamBoolean, DefaultValue: false,
		})
	}
	return append(params, colorParameters()...)
}

func (a *fanAdapter) DefaultReadBindings(caps Capabilities) []binding.ReadBinding {
	bindings := []binding.ReadBinding{
		{
			ID: "fan_is_on", EntityParam: EntityParamID,
			TargetProperty: "props.is_on",
			Transform:      "map", TransformConfig: onOffMap(),
			Availability: binding.AvailabilityPolicy{
				OnUnavailable: binding.BehaviorDisable,
				OnUnknown:     binding.BehaviorDisable,
			},
		},
	}
	if caps.Flag("supports_speed") {
		// The percentage attribute is already 0-100; unlike light
		// brightness it needs no percent transform.
		bindings = append(bindings, binding.ReadBinding{
			ID: "fan_percentage", EntityParam: EntityParamID,
			Attribute: "percentage", TargetProperty: "props.percentage",
			Availability: placeholderPolicy("--"),
		})
	}
	return bindings
}

func (a *fanAdapter) DefaultWriteBindings(caps Capabilities) []binding.WriteBinding {
	bindings := []binding.WriteBinding{
		{
			ID: "fan_toggle", Event: "on_click",
			Service: "fan.toggle", EntityParam: EntityParamID,
			Debounce: binding.NoDebounce(),
		},
	}
	if caps.Flag("supports_speed") {
		bindings = append(bindings, binding.WriteBinding{
			ID: "fan_set_percentage", Event: "on_change",
			Service: "fan.set_percentage", EntityParam: EntityParamID,
			DynamicPayload: map[string]string{"props.percentage": "percentage"},
			DebounceMs:     fanSpeedDebounceMs,
		})
	}
	if caps.Flag("supports_oscillate") {
		bindings = append(bindings, binding.WriteBinding{
			ID: "fan_oscillate", Event: "on_oscillate_toggle",
			Service: "fan.oscillate", EntityParam: EntityParamID,
			DynamicPayload: map[string]string{"props.oscillating": "oscillating"},
			Debounce:       binding.NoDebounce(),
		})
	}
	if caps.Flag("supports_direction") {
		bindings = append(bindings, binding.WriteBinding{
			ID: "fan_set_direction", Event: "on_direction_select",
			Service: "fan.set_direction", EntityParam: EntityParamID,
			DynamicPayload: map[string]string{"props.direction": "direction"},
			Debounce:       binding.NoDebounce(),
		})
	}
	if caps.Flag("supports_preset_mode") {
		bindings = append(bindings, binding.WriteBinding{
			ID: "fan_set_preset", Event: "on_preset_select",
			Service: "fan.set_preset_mode", EntityParam: EntityParamID,
			DynamicPayload: map[string]string{"props.preset_mode": "preset_mode"},
			Debounce:       binding.NoDebounce(),
		})
	}
	return bindings
}

func (a *fanAdapter) StateDisplay(s *entity.State) StateDisplay {
	if s == nil || !s.Available() {
		return StateDisplay{Text: "--", Icon: "mdi:fan-off", Color: "#9e9e9e"}
	}
	if s.State != entity.StateOn {
		return StateDisplay{Text: "Off", Icon: "mdi:fan-off", Color: "#9e9e9e"}
	}
	if pct := attrFloat(s, "percentage", -1); pct >= 0 {
		return StateDisplay{Text: fmt.Sprintf("%.0f%%", pct), Icon: "mdi:fan", Color: "#03a9f4"}
	}
	return StateDisplay{Text: "On", Icon: "mdi:fan", Color: "#03a9f4"}
}

func (a *fanAdapter) Services() []ServiceDescriptor {
	return []ServiceDescriptor{
		{Service: "fan.toggle", Name: "Toggle"},
		{
			Service: "fan.set_percentage", Name: "Set speed",
			Fields: []ServiceField{{Name: "percentage", Example: 66}},
		},
		{
			Service: "fan.oscillate", Name: "Oscillate",
			Fields: []ServiceField{{Name: "oscillating", Example: true}},
		},
		{
			Service: "fan.set_direction", Name: "Set direction",
			Fields: []ServiceField{{Name: "direction", Example: "forward"}},
		},
		{
			Service: "fan.set_preset_mode", Name: "Set preset",
			Fields: []ServiceField{{Name: "preset_mode", Example: "auto"}},
		},
	}
}
