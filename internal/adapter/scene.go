package adapter

import (
	"github.com/esphome-dash/designer-core/internal/binding"
	"github.com/esphome-dash/designer-core/internal/entity"
)

// sceneAdapter covers both scene and script entities. Scenes are fire and
// forget; scripts additionally expose a running state and can be cancelled.
type sceneAdapter struct {
	base
}

func newSceneAdapter() *sceneAdapter {
	return &sceneAdapter{base{domain: "scene", aliases: []string{"script"}}}
}

func (a *sceneAdapter) ExtractCapabilities(s *entity.State) Capabilities {
	caps := baseCapabilities(s)
	if s == nil {
		return caps
	}

	isScript := s.Domain() == "script"
	caps["is_script"] = isScript
	if isScript {
		caps["is_running"] = s.State == entity.StateOn
	}

	return caps
}

func (a *sceneAdapter) Parameters(caps Capabilities) []binding.ControlParameter {
	params := []binding.ControlParameter{
		entityParameter("scene", "script"),
		{ID: "label", Name: "Label", Type: binding.ParamString, DefaultValue: ""},
		{ID: "icon", Name: "Icon", Type: binding.ParamIcon, DefaultValue: "mdi:palette"},
	}
	return append(params, colorParameters()...)
}

func (a *sceneAdapter) DefaultReadBindings(caps Capabilities) []binding.ReadBinding {
	if !caps.Flag("is_script") {
		// Scenes expose no meaningful state to bind.
		return nil
	}
	return []binding.ReadBinding{
		{
			ID: "script_is_running", EntityParam: EntityParamID,
			TargetProperty:  "props.running",
			Transform:       "map",
			TransformConfig: onOffMap(),
			Availability: binding.AvailabilityPolicy{
				OnUnavailable: binding.BehaviorDisable,
				OnUnknown:     binding.BehaviorDisable,
			},
		},
	}
}

func (a *sceneAdapter) DefaultWriteBindings(caps Capabilities) []binding.WriteBinding {
	if caps.Flag("is_script") {
		return []binding.WriteBinding{
			{
				ID: "script_run", Event: "on_click",
				Service: "script.turn_on", EntityParam: EntityParamID,
				Debounce: binding.NoDebounce(),
			},
			{
				ID: "script_cancel", Event: "on_cancel",
				Service: "script.turn_off", EntityParam: EntityParamID,
				Debounce: binding.NoDebounce(),
			},
		}
	}
	return []binding.WriteBinding{
		{
			ID: "scene_activate", Event: "on_click",
			Service: "scene.turn_on", EntityParam: EntityParamID,
			Debounce: binding.NoDebounce(),
		},
	}
}

func (a *sceneAdapter) StateDisplay(s *entity.State) StateDisplay {
	if s == nil || !s.Available() {
		return StateDisplay{Text: "--", Icon: "mdi:palette-outline", Color: "#9e9e9e"}
	}
	if s.Domain() == "script" {
		if s.State == entity.StateOn {
			return StateDisplay{Text: "Running", Icon: "mdi:script-text-play", Color: "#4caf50"}
		}
		return StateDisplay{Text: "Idle", Icon: "mdi:script-text", Color: "#9e9e9e"}
	}
	return StateDisplay{Text: s.FriendlyName(), Icon: "mdi:palette", Color: "#03a9f4"}
}

func (a *sceneAdapter) Services() []ServiceDescriptor {
	return []ServiceDescriptor{
		{Service: "scene.turn_on", Name: "Activate scene"},
		{Service: "script.turn_on", Name: "Run script"},
		{Service: "script.turn_off", Name: "Cancel script"},
	}
}
