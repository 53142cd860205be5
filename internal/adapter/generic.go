package adapter

import (
	"github.com/esphome-dash/designer-core/internal/binding"
	"github.com/esphome-dash/designer-core/internal/entity"
)

// toggleableDomains are domains whose generic treatment gets a toggle action.
var toggleableDomains = map[string]bool{
	"switch":        true,
	"light":         true,
	"fan":           true,
	"input_boolean": true,
}

// readOnlyDomains never receive write bindings from the generic fallback.
var readOnlyDomains = map[string]bool{
	"sensor":        true,
	"binary_sensor": true,
	"weather":       true,
	"sun":           true,
	"zone":          true,
}

// genericAdapter is the registry fallback for domains without a dedicated
// adapter. It handles every entity, extracts only the base capabilities plus
// a toggleable hint, and binds the raw state as display text.
type genericAdapter struct {
	base
}

func newGenericAdapter() *genericAdapter {
	return &genericAdapter{base{domain: ""}}
}

// Handles always reports true: the generic adapter is the end of the probe
// chain.
func (a *genericAdapter) Handles(s *entity.State) bool { return s != nil }

func (a *genericAdapter) ExtractCapabilities(s *entity.State) Capabilities {
	caps := baseCapabilities(s)
	if s == nil {
		return caps
	}
	caps["toggleable"] = toggleableDomains[s.Domain()]
	caps["read_only"] = readOnlyDomains[s.Domain()]
	return caps
}

func (a *genericAdapter) Parameters(caps Capabilities) []binding.ControlParameter {
	params := []binding.ControlParameter{entityParameter()}
	return append(params, colorParameters()...)
}

func (a *genericAdapter) DefaultReadBindings(caps Capabilities) []binding.ReadBinding {
	return []binding.ReadBinding{
		{
			ID: "generic_state", EntityParam: EntityParamID,
			TargetProperty: "props.state_text",
			Transform:      "stringify",
			Availability:   placeholderPolicy("--"),
		},
	}
}

func (a *genericAdapter) DefaultWriteBindings(caps Capabilities) []binding.WriteBinding {
	if !caps.Flag("toggleable") {
		return nil
	}
	return []binding.WriteBinding{
		{
			ID: "generic_toggle", Event: "on_click",
			Service: caps.Domain() + ".toggle", EntityParam: EntityParamID,
			Debounce: binding.NoDebounce(),
		},
	}
}

func (a *genericAdapter) StateDisplay(s *entity.State) StateDisplay {
	if s == nil || !s.Available() {
		return StateDisplay{Text: "--", Icon: "mdi:help-circle-outline", Color: "#9e9e9e"}
	}

	switch s.State {
	case entity.StateOn:
		return StateDisplay{Text: "On", Icon: "mdi:circle-slice-8", Color: "#4caf50"}
	case entity.StateOff:
		return StateDisplay{Text: "Off", Icon: "mdi:circle-outline", Color: "#9e9e9e"}
	default:
		return StateDisplay{Text: s.State, Icon: "mdi:circle-medium", Color: "#03a9f4"}
	}
}

func (a *genericAdapter) Services() []ServiceDescriptor {
	return []ServiceDescriptor{
		{Service: "homeassistant.toggle", Name: "Toggle"},
		{Service: "homeassistant.turn_on", Name: "Turn on"},
		{Service: "homeassistant.turn_off", Name: "Turn off"},
	}
}
