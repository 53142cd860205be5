package adapter

import (
	"fmt"

	"github.com/esphome-dash/designer-core/internal/binding"
	"github.com/esphome-dash/designer-core/internal/entity"
)

// Cover supported_features bits (Home Assistant CoverEntityFeature).
const (
	coverFeatureOpen            = 1
	coverFeatureClose           = 2
	coverFeatureSetPosition     = 4
	coverFeatureStop            = 8
	coverFeatureSetTiltPosition = 128
)

// coverPositionDebounceMs is the debounce window for position/tilt sliders.
const coverPositionDebounceMs = 500

type coverAdapter struct {
	base
}

func newCoverAdapter() *coverAdapter {
	return &coverAdapter{base{domain: "cover"}}
}

func (a *coverAdapter) ExtractCapabilities(s *entity.State) Capabilities {
	caps := baseCapabilities(s)
	if s == nil {
		return caps
	}

	bits := supportedFeatures(s)
	caps["supports_open"] = bits&coverFeatureOpen != 0
	caps["supports_close"] = bits&coverFeatureClose != 0
	caps["supports_stop"] = bits&coverFeatureStop != 0
	caps["supports_position"] = bits&coverFeatureSetPosition != 0
	caps["supports_tilt"] = bits&coverFeatureSetTiltPosition != 0
	caps["position"] = attrFloat(s, "current_position", 0)
	caps["device_class"] = attrString(s, "device_class")

	return caps
}

func (a *coverAdapter) Parameters(caps Capabilities) []binding.ControlParameter {
	params := []binding.ControlParameter{entityParameter("cover")}

	if caps.Flag("supports_position") {
		params = append(params, binding.ControlParameter{
			ID: "show_position", Name: "Show position slider", Type: binding.ParamBoolean, DefaultValue: true,
		})
	}
	if caps.Flag("supports_tilt") {
		params = append(params, binding.ControlParameter{
			ID: "show_tilt", Name: "Show tilt slider", Type: binding.ParamBoolean, DefaultValue: false,
		})
	}
	return append(params, colorParameters()...)
}

func (a *coverAdapter) DefaultReadBindings(caps Capabilities) []binding.ReadBinding {
	bindings := []binding.ReadBinding{
		{
			ID: "cover_state", EntityParam: EntityParamID,
			TargetProperty: "props.state",
			Availability:   placeholderPolicy("--"),
		},
	}
	if caps.Flag("supports_position") {
		bindings = append(bindings, binding.ReadBinding{
			ID: "cover_position", EntityParam: EntityParamID,
			Attribute: "current_position", TargetProperty: "props.position",
			Availability: placeholderPolicy("--"),
		})
	}
	if caps.Flag("supports_tilt") {
		bindings = append(bindings, binding.ReadBinding{
			ID: "cover_tilt", EntityParam: EntityParamID,
			Attribute: "current_tilt_position", TargetProperty: "props.tilt",
			Availability: placeholderPolicy("--"),
		})
	}
	return bindings
}

func (a *coverAdapter) DefaultWriteBindings(caps Capabilities) []binding.WriteBinding {
	var bindings []binding.WriteBinding

	if caps.Flag("supports_position") {
		bindings = append(bindings, binding.WriteBinding{
			ID: "cover_set_position", Event: "on_change",
			Service: "cover.set_cover_position", EntityParam: EntityParamID,
			DynamicPayload: map[string]string{"props.position": "position"},
			DebounceMs:     coverPositionDebounceMs,
		})
	}
	if caps.Flag("supports_tilt") {
		bindings = append(bindings, binding.WriteBinding{
			ID: "cover_set_tilt", Event: "on_tilt_change",
			Service: "cover.set_cover_tilt_position", EntityParam: EntityParamID,
			DynamicPayload: map[string]string{"props.tilt": "tilt_position"},
			DebounceMs:     coverPositionDebounceMs,
		})
	}
	if caps.Flag("supports_open") {
		bindings = append(bindings, binding.WriteBinding{
			ID: "cover_open", Event: "on_open",
			Service: "cover.open_cover", EntityParam: EntityParamID,
			Debounce: binding.NoDebounce(),
		})
	}
	if caps.Flag("supports_close") {
		bindings = append(bindings, binding.WriteBinding{
			ID: "cover_close", Event: "on_close",
			Service: "cover.close_cover", EntityParam: EntityParamID,
			Debounce: binding.NoDebounce(),
		})
	}
	if caps.Flag("supports_stop") {
		bindings = append(bindings, binding.WriteBinding{
			ID: "cover_stop", Event: "on_stop",
			Service: "cover.stop_cover", EntityParam: EntityParamID,
			Debounce: binding.NoDebounce(),
		})
	}
	return bindings
}

func (a *coverAdapter) StateDisplay(s *entity.State) StateDisplay {
	if s == nil || !s.Available() {
		return StateDisplay{Text: "--", Icon: "mdi:window-shutter", Color: "#9e9e9e"}
	}

	switch s.State {
	case "open":
		if pos := attrFloat(s, "current_position", -1); pos >= 0 {
			return StateDisplay{Text: fmt.Sprintf("%.0f%%", pos), Icon: "mdi:window-shutter-open", Color: "#03a9f4"}
		}
		return StateDisplay{Text: "Open", Icon: "mdi:window-shutter-open", Color: "#03a9f4"}
	case "closed":
		return StateDisplay{Text: "Closed", Icon: "mdi:window-shutter", Color: "#9e9e9e"}
	case "opening", "closing":
		return StateDisplay{Text: s.State, Icon: "mdi:window-shutter-alert", Color: "#ff9800"}
	default:
		return StateDisplay{Text: s.State, Icon: "mdi:window-shutter", Color: "#9e9e9e"}
	}
}

func (a *coverAdapter) Services() []ServiceDescriptor {
	return []ServiceDescriptor{
		{Service: "cover.open_cover", Name: "Open"},
		{Service: "cover.close_cover", Name: "Close"},
		{Service: "cover.stop_cover", Name: "Stop"},
		{
			Service: "cover.set_cover_position", Name: "Set position",
			Fields: []ServiceField{{Name: "position", Example: 50}},
		},
		{
			Service: "cover.set_cover_tilt_position", Name: "Set tilt",
			Fields: []ServiceField{{Name: "tilt_position", Example: 45}},
		},
	}
}
