package adapter

import (
	"fmt"

	"github.com/esphome-dash/designer-core/internal/binding"
	"github.com/esphome-dash/designer-core/internal/entity"
	"github.com/esphome-dash/designer-core/internal/transform"
)

// Climate supported_features bits (Home Assistant ClimateEntityFeature).
const (
	climateFeatureTargetTemperature      = 1
	climateFeatureTargetTemperatureRange = 2
	climateFeatureFanMode                = 8
	climateFeaturePresetMode             = 16
)

// Documented fallbacks when a climate entity omits its range attributes.
const (
	climateDefaultMinTemp  = 7.0
	climateDefaultMaxTemp  = 35.0
	climateDefaultTempStep = 0.5
)

// Debounce delays for temperature writes. Dedicated increment/decrement
// buttons get a longer window so a burst of taps coalesces into one call.
const (
	climateSetTempDebounceMs  = 2000
	climateStepTempDebounceMs = 5000
)

type climateAdapter struct {
	base
}

func newClimateAdapter() *climateAdapter {
	return &climateAdapter{base{domain: "climate"}}
}

func (a *climateAdapter) ExtractCapabilities(s *entity.State) Capabilities {
	caps := baseCapabilities(s)
	if s == nil {
		return caps
	}

	bits := supportedFeatures(s)
	hvacModes := attrStrings(s, "hvac_modes")
	fanModes := attrStrings(s, "fan_modes")
	presetModes := attrStrings(s, "preset_modes")

	caps["min_temp"] = attrFloat(s, "min_temp", climateDefaultMinTemp)
	caps["max_temp"] = attrFloat(s, "max_temp", climateDefaultMaxTemp)
	caps["target_temp_step"] = attrFloat(s, "target_temp_step", climateDefaultTempStep)
	caps["current_temperature"] = attrFloat(s, "current_temperature", 0)
	caps["target_temperature"] = attrFloat(s, "temperature", 0)
	caps["hvac_mode"] = s.State
	caps["hvac_action"] = attrString(s, "hvac_action")
	caps["hvac_modes"] = hvacModes
	caps["fan_modes"] = fanModes
	caps["preset_modes"] = presetModes
	caps["supports_target_temperature"] = bits&(climateFeatureTargetTemperature|climateFeatureTargetTemperatureRange) != 0
	caps["supports_fan_mode"] = bits&climateFeatureFanMode != 0 && len(fanModes) > 0
	caps["supports_preset_mode"] = bits&climateFeaturePresetMode != 0 && len(presetModes) > 0
	caps["multiple_hvac_modes"] = len(hvacModes) > 1

	return caps
}

func (a *climateAdapter) Parameters(caps Capabilities) []binding.ControlParameter {
	minTemp := caps.Float("min_temp", climateDefaultMinTemp)
	maxTemp := caps.Float("max_temp", climateDefaultMaxTemp)
	step := caps.Float("target_temp_step", climateDefaultTempStep)

	params := []binding.ControlParameter{
		entityParameter("climate"),
		{
			ID: "target_temp", Name: "Target temperature", Type: binding.ParamNumber,
			Min: &minTemp, Max: &maxTemp, Step: &step,
		},
	}
	if caps.Flag("multiple_hvac_modes") {
		params = append(params, binding.ControlParameter{
			ID: "show_mode_select", Name: "Show mode selector", Type: binding.ParamBoolean, DefaultValue: true,
		})
	}
	if caps.Flag("supports_fan_mode") {
		params = append(params, binding.ControlParameter{
			ID: "show_fan_mode", Name: "Show fan mode", Type: binding.ParamBoolean, DefaultValue: false,
		})
	}
	if caps.Flag("supports_preset_mode") {
		params = append(params, binding.ControlParameter{
			ID: "show_preset", Name: "Show presets", Type: binding.ParamBoolean, DefaultValue: false,
		})
	}
	return append(params, colorParameters()...)
}

func (a *climateAdapter) DefaultReadBindings(caps Capabilities) []binding.ReadBinding {
	rounded := transform.Config{"precision": 1}

	bindings := []binding.ReadBinding{
		{
			ID: "climate_current_temp", EntityParam: EntityParamID,
			Attribute: "current_temperature", TargetProperty: "props.current_temp",
			Transform: "round", TransformConfig: rounded,
			Availability: placeholderPolicy("--"),
		},
	}
	if caps.Flag("supports_target_temperature") {
		bindings = append(bindings, binding.ReadBinding{
			ID: "climate_target_temp", EntityParam: EntityParamID,
			Attribute: "temperature", TargetProperty: "props.target_temp",
			Transform: "round", TransformConfig: rounded,
			Availability: placeholderPolicy("--"),
		})
	}
	bindings = append(bindings,
		binding.ReadBinding{
			ID: "climate_hvac_mode", EntityParam: EntityParamID,
			TargetProperty: "props.hvac_mode",
			Availability:   placeholderPolicy("--"),
		},
		binding.ReadBinding{
			ID: "climate_hvac_action", EntityParam: EntityParamID,
			Attribute: "hvac_action", TargetProperty: "props.hvac_action",
			Availability: placeholderPolicy(""),
		},
	)
	return bindings
}

func (a *climateAdapter) DefaultWriteBindings(caps Capabilities) []binding.WriteBinding {
	var bindings []binding.WriteBinding
	if caps.Flag("supports_target_temperature") {
		bindings = append(bindings,
			binding.WriteBinding{
				ID: "climate_set_temp", Event: "on_change",
				Service: "climate.set_temperature", EntityParam: EntityParamID,
				DynamicPayload: map[string]string{"props.target_temp": "temperature"},
				DebounceMs:     climateSetTempDebounceMs,
			},
			binding.WriteBinding{
				ID: "climate_temp_up", Event: "on_increment",
				Service: "climate.set_temperature", EntityParam: EntityParamID,
				DynamicPayload: map[string]string{"props.target_temp": "temperature"},
				DebounceMs:     climateStepTempDebounceMs,
			},
			binding.WriteBinding{
				ID: "climate_temp_down", Event: "on_decrement",
				Service: "climate.set_temperature", EntityParam: EntityParamID,
				DynamicPayload: map[string]string{"props.target_temp": "temperature"},
				DebounceMs:     climateStepTempDebounceMs,
			},
		)
	}
	if caps.Flag("multiple_hvac_modes") {
		bindings = append(bindings, binding.WriteBinding{
			ID: "climate_set_mode", Event: "on_mode_select",
			Service: "climate.set_hvac_mode", EntityParam: EntityParamID,
			DynamicPayload: map[string]string{"props.hvac_mode": "hvac_mode"},
			Debounce:       binding.NoDebounce(),
		})
	}
	if caps.Flag("supports_fan_mode") {
		bindings = append(bindings, binding.WriteBinding{
			ID: "climate_set_fan_mode", Event: "on_fan_mode_select",
			Service: "climate.set_fan_mode", EntityParam: EntityParamID,
			DynamicPayload: map[string]string{"props.fan_mode": "fan_mode"},
			Debounce:       binding.NoDebounce(),
		})
	}
	if caps.Flag("supports_preset_mode") {
		bindings = append(bindings, binding.WriteBinding{
			ID: "climate_set_preset", Event: "on_preset_select",
			Service: "climate.set_preset_mode", EntityParam: EntityParamID,
			DynamicPayload: map[string]string{"props.preset_mode": "preset_mode"},
			Debounce:       binding.NoDebounce(),
		})
	}
	return bindings
}

func (a *climateAdapter) StateDisplay(s *entity.State) StateDisplay {
	if s == nil || !s.Available() {
		return StateDisplay{Text: "--", Icon: "mdi:thermostat", Color: "#9e9e9e"}
	}

	text := fmt.Sprintf("%.1f°", attrFloat(s, "current_temperature", 0))
	switch attrString(s, "hvac_action") {
	case "heating":
		return StateDisplay{Text: text, Icon: "mdi:fire", Color: "#ff5722"}
	case "cooling":
		return StateDisplay{Text: text, Icon: "mdi:snowflake", Color: "#03a9f4"}
	case "idle":
		return StateDisplay{Text: text, Icon: "mdi:thermostat", Color: "#8bc34a"}
	default:
		if s.State == "off" {
			return StateDisplay{Text: "Off", Icon: "mdi:thermostat", Color: "#9e9e9e"}
		}
		return StateDisplay{Text: text, Icon: "mdi:thermostat", Color: "#8bc34a"}
	}
}

func (a *climateAdapter) Services() []ServiceDescriptor {
	return []ServiceDescriptor{
		{
			Service: "climate.set_temperature", Name: "Set temperature",
			Fields: []ServiceField{{Name: "temperature", Example: 21.5}},
		},
		{
			Service: "climate.set_hvac_mode", Name: "Set HVAC mode",
			Fields: []ServiceField{{Name: "hvac_mode", Example: "heat"}},
		},
		{
			Service: "climate.set_fan_mode", Name: "Set fan mode",
			Fields: []ServiceField{{Name: "fan_mode", Example: "auto"}},
		},
		{
			Service: "climate.set_preset_mode", Name: "Set preset",
			Fields: []ServiceField{{Name: "preset_mode", Example: "eco"}},
		},
	}
}
