package adapter

import (
	"fmt"

	"github.com/esphome-dash/designer-core/internal/binding"
	"github.com/esphome-dash/designer-core/internal/entity"
	"github.com/esphome-dash/designer-core/internal/transform"
)

// lightWriteDebounceMs is the debounce window for slider-driven light
// writes (brightness, colour temperature, RGB).
const lightWriteDebounceMs = 300

// brightnessColorModes are the HA color modes that imply dimming support.
var brightnessColorModes = map[string]bool{
	"brightness": true,
	"color_temp": true,
	"hs":         true,
	"xy":         true,
	"rgb":        true,
	"rgbw":       true,
	"rgbww":      true,
}

// rgbColorModes are the HA color modes that imply full-colour support.
var rgbColorModes = map[string]bool{
	"hs":    true,
	"xy":    true,
	"rgb":   true,
	"rgbw":  true,
	"rgbww": true,
}

type lightAdapter struct {
	base
}

func newLightAdapter() *lightAdapter {
	return &lightAdapter{base{domain: "light"}}
}

func (a *lightAdapter) ExtractCapabilities(s *entity.State) Capabilities {
	caps := baseCapabilities(s)
	if s == nil {
		return caps
	}

	modes := attrStrings(s, "supported_color_modes")
	var brightness, colorTemp, rgb bool
	for _, mode := range modes {
		if brightnessColorModes[mode] {
			brightness = true
		}
		if rgbColorModes[mode] {
			rgb = true
		}
		if mode == "color_temp" {
			colorTemp = true
		}
	}
	effects := attrStrings(s, "effect_list")

	caps["supports_brightness"] = brightness
	caps["supports_color_temp"] = colorTemp
	caps["supports_rgb"] = rgb
	caps["supports_effects"] = len(effects) > 0
	caps["effect_list"] = effects
	caps["brightness"] = attrFloat(s, "brightness", 0)
	caps["is_on"] = s.State == entity.StateOn

	return caps
}

func (a *lightAdapter) Parameters(caps Capabilities) []binding.ControlParameter {
	params := []binding.ControlParameter{entityParameter("light")}

	if caps.Flag("supports_brightness") {
		params = append(params, binding.ControlParameter{
			ID: "show_slider", Name: "Show brightness slider", Type: binding.ParamBoolean, DefaultValue: true,
		})
	}
	if caps.Flag("supports_color_temp") {
		params = append(params, binding.ControlParameter{
			ID: "show_color_temp", Name: "Show colour temperature", Type: binding.ParamBoolean, DefaultValue: false,
		})
	}
	if caps.Flag("supports_effects") {
		params = append(params, binding.ControlParameter{
			ID: "show_effects", Name: "Show effects", Type: binding.ParamBoolean, DefaultValue: false,
		})
	}
	return append(params, colorParameters()...)
}

func (a *lightAdapter) DefaultReadBindings(caps Capabilities) []binding.ReadBinding {
	bindings := []binding.ReadBinding{
		{
			ID: "light_is_on", EntityParam: EntityParamID,
			TargetProperty: "props.is_on",
			Transform:      "map", TransformConfig: onOffMap(),
			Availability: binding.AvailabilityPolicy{
				OnUnavailable: binding.BehaviorDisable,
				OnUnknown:     binding.BehaviorDisable,
			},
		},
	}
	if caps.Flag("supports_brightness") {
		bindings = append(bindings, binding.ReadBinding{
			ID: "light_brightness", EntityParam: EntityParamID,
			Attribute: "brightness", TargetProperty: "props.brightness",
			Transform: "percent", TransformConfig: transform.Config{"max": 255},
			Availability: placeholderPolicy("--"),
		})
	}
	if caps.Flag("supports_color_temp") {
		bindings = append(bindings, binding.ReadBinding{
			ID: "light_color_temp", EntityParam: EntityParamID,
			Attribute: "color_temp", TargetProperty: "props.color_temp",
			Availability: placeholderPolicy("--"),
		})
	}
	return bindings
}

func (a *lightAdapter) DefaultWriteBindings(caps Capabilities) []binding.WriteBinding {
	bindings := []binding.WriteBinding{
		{
			ID: "light_toggle", Event: "on_click",
			Service: "light.toggle", EntityParam: EntityParamID,
			Debounce: binding.NoDebounce(),
		},
	}
	if caps.Flag("supports_brightness") {
		bindings = append(bindings, binding.WriteBinding{
			ID: "light_set_brightness", Event: "on_change",
			Service: "light.turn_on", EntityParam: EntityParamID,
			DynamicPayload: map[string]string{"props.brightness": "brightness_pct"},
			DebounceMs:     lightWriteDebounceMs,
		})
	}
	if caps.Flag("supports_color_temp") {
		bindings = append(bindings, binding.WriteBinding{
			ID: "light_set_color_temp", Event: "on_color_temp_change",
			Service: "light.turn_on", EntityParam: EntityParamID,
			DynamicPayload: map[string]string{"props.color_temp": "color_temp"},
			DebounceMs:     lightWriteDebounceMs,
		})
	}
	if caps.Flag("supports_rgb") {
		bindings = append(bindings, binding.WriteBinding{
			ID: "light_set_rgb", Event: "on_color_change",
			Service: "light.turn_on", EntityParam: EntityParamID,
			DynamicPayload: map[string]string{"props.rgb_color": "rgb_color"},
			DebounceMs:     lightWriteDebounceMs,
		})
	}
	if caps.Flag("supports_effects") {
		bindings = append(bindings, binding.WriteBinding{
			ID: "light_set_effect", Event: "on_effect_select",
			Service: "light.turn_on", EntityParam: EntityParamID,
			DynamicPayload: map[string]string{"props.effect": "effect"},
			Debounce:       binding.NoDebounce(),
		})
	}
	return bindings
}

func (a *lightAdapter) StateDisplay(s *entity.State) StateDisplay {
	if s == nil || !s.Available() {
		return StateDisplay{Text: "--", Icon: "mdi:lightbulb-off", Color: "#9e9e9e"}
	}
	if s.State != entity.StateOn {
		return StateDisplay{Text: "Off", Icon: "mdi:lightbulb-outline", Color: "#9e9e9e"}
	}

	if brightness := attrFloat(s, "brightness", 0); brightness > 0 {
		pct := int(brightness/255*100 + 0.5)
		return StateDisplay{Text: fmt.Sprintf("%d%%", pct), Icon: "mdi:lightbulb-on", Color: "#ffc107"}
	}
	return StateDisplay{Text: "On", Icon: "mdi:lightbulb-on", Color: "#ffc107"}
}

func (a *lightAdapter) Services() []ServiceDescriptor {
	return []ServiceDescriptor{
		{
			Service: "light.turn_on", Name: "Turn on",
			Fields: []ServiceField{
				{Name: "brightness_pct", Example: 75},
				{Name: "color_temp", Example: 300},
				{Name: "rgb_color", Example: []any{255, 160, 0}},
				{Name: "effect", Example: "rainbow"},
			},
		},
		{Service: "light.turn_off", Name: "Turn off"},
		{Service: "light.toggle", Name: "Toggle"},
	}
}
