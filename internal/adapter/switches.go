package adapter

import (
	"github.com/esphome-dash/designer-core/internal/binding"
	"github.com/esphome-dash/designer-core/internal/entity"
)

// switchAdapter covers switch entities and input_boolean helpers; both share
// the same on/off surface and toggle service.
type switchAdapter struct {
	base
}

func newSwitchAdapter() *switchAdapter {
	return &switchAdapter{base{domain: "switch", aliases: []string{"input_boolean"}}}
}

func (a *switchAdapter) ExtractCapabilities(s *entity.State) Capabilities {
	caps := baseCapabilities(s)
	if s == nil {
		return caps
	}
	caps["is_on"] = s.State == entity.StateOn
	caps["device_class"] = attrString(s, "device_class")
	return caps
}

func (a *switchAdapter) Parameters(caps Capabilities) []binding.ControlParameter {
	params := []binding.ControlParameter{
		entityParameter(a.domain, "input_boolean"),
		{ID: "show_state_text", Name: "Show state text", Type: binding.ParamBoolean, DefaultValue: true},
	}
	return append(params, colorParameters()...)
}

func (a *switchAdapter) DefaultReadBindings(Capabilities) []binding.ReadBinding {
	return []binding.ReadBinding{
		{
			ID: "switch_is_on", EntityParam: EntityParamID,
			TargetProperty: "props.is_on",
			Transform:      "map", TransformConfig: onOffMap(),
			Availability: binding.AvailabilityPolicy{
				OnUnavailable: binding.BehaviorDisable,
				OnUnknown:     binding.BehaviorDisable,
			},
		},
		{
			ID: "switch_state_text", EntityParam: EntityParamID,
			TargetProperty: "props.state_text",
			Transform:      "bool_to_text",
			Availability:   placeholderPolicy("--"),
		},
	}
}

func (a *switchAdapter) DefaultWriteBindings(caps Capabilities) []binding.WriteBinding {
	domain := caps.Domain()
	if domain == "" {
		domain = a.domain
	}
	return []binding.WriteBinding{
		{
			ID: "switch_toggle", Event: "on_click",
			Service: domain + ".toggle", EntityParam: EntityParamID,
			Debounce: binding.NoDebounce(),
		},
	}
}

func (a *switchAdapter) StateDisplay(s *entity.State) StateDisplay {
	if s == nil || !s.Available() {
		return StateDisplay{Text: "--", Icon: "mdi:toggle-switch-off-outline", Color: "#9e9e9e"}
	}
	if s.State == entity.StateOn {
		return StateDisplay{Text: "On", Icon: "mdi:toggle-switch", Color: "#4caf50"}
	}
	return StateDisplay{Text: "Off", Icon: "mdi:toggle-switch-off-outline", Color: "#9e9e9e"}
}

func (a *switchAdapter) Services() []ServiceDescriptor {
	return []ServiceDescriptor{
		{Service: "switch.turn_on", Name: "Turn on"},
		{Service: "switch.turn_off", Name: "Turn off"},
		{Service: "switch.toggle", Name: "Toggle"},
	}
}
