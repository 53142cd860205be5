package control

import (
	"github.com/esphome-dash/designer-core/internal/binding"
)

// Builtins returns the code-registered control definitions. The slice is
// rebuilt on every call so callers can safely mutate their copy.
func Builtins() []*Definition {
	return []*Definition{
		lightControl(),
		thermostatControl(),
		toggleControl(),
		sensorReadout(),
		sceneButton(),
		coverControl(),
		mediaControl(),
	}
}

func entityParam(name string, domains ...string) binding.ControlParameter {
	p := binding.ControlParameter{
		ID:       "entity",
		Name:     name,
		Type:     binding.ParamEntity,
		Required: true,
	}
	if len(domains) > 0 {
		p.DomainConstraint = &binding.DomainConstraint{Domains: domains}
	}
	return p
}

func labelParam() binding.ControlParameter {
	return binding.ControlParameter{
		ID: "label", Name: "Label", Type: binding.ParamString, DefaultValue: "",
	}
}

// onOffRead builds the standard "on"/"off" to boolean state binding.
func onOffRead(id string) binding.ReadBinding {
	return binding.ReadBinding{
		ID: id, EntityParam: "entity", TargetProperty: "props.on",
		Transform:       "map",
		TransformConfig: map[string]any{"map": map[string]any{"on": true, "off": false}, "default": false},
	}
}

// placeholderAvailability renders the given text when the entity is away.
func placeholderAvailability(text string) binding.AvailabilityPolicy {
	return binding.AvailabilityPolicy{
		OnUnavailable:   binding.BehaviorShowPlaceholder,
		OnUnknown:       binding.BehaviorShowPlaceholder,
		PlaceholderText: text,
	}
}

func lightControl() *Definition {
	return &Definition{
		ID:       "builtin.light",
		Name:     "Light",
		Category: "lighting",
		Builtin:  true,
		Parameters: []binding.ControlParameter{
			entityParam("Light", "light"),
			labelParam(),
			{ID: "show_slider", Name: "Show brightness slider", Type: binding.ParamBoolean, DefaultValue: true},
		},
		DefaultSize: Size{Width: 200, Height: 120},
		Template: Template{
			Layout: LayoutVertical,
			Widgets: []TemplateWidget{
				{
					Type: "toggle_button",
					Props: map[string]any{
						"entity_id": "{{entity}}",
						"text":      "{{label || entity}}",
					},
					ReadBindings: []binding.ReadBinding{onOffRead("light_state")},
					WriteBindings: []binding.WriteBinding{{
						ID: "light_toggle", Event: "on_click",
						Service: "light.toggle", EntityParam: "entity",
						Debounce: binding.NoDebounce(),
					}},
				},
				{
					Type:      "slider",
					Condition: "show_slider",
					Props: map[string]any{
						"entity_id": "{{entity}}",
						"min":       0.0,
						"max":       100.0,
					},
					ReadBindings: []binding.ReadBinding{{
						ID: "light_brightness", EntityParam: "entity",
						Attribute: "brightness", TargetProperty: "props.value",
						Transform: "percent", TransformConfig: map[string]any{"max": 255},
					}},
					WriteBindings: []binding.WriteBinding{{
						ID: "light_set_brightness", Event: "on_change",
						Service: "light.turn_on", EntityParam: "entity",
						DynamicPayload: map[string]string{"props.value": "brightness_pct"},
						DebounceMs:     300,
					}},
				},
			},
		},
	}
}

func thermostatControl() *Definition {
	return &Definition{
		ID:       "builtin.thermostat",
		Name:     "Thermostat",
		Category: "climate",
		Builtin:  true,
		Parameters: []binding.ControlParameter{
			entityParam("Thermostat", "climate"),
			labelParam(),
			{ID: "show_mode", Name: "Show mode selector", Type: binding.ParamBoolean, DefaultValue: true},
		},
		DefaultSize: Size{Width: 220, Height: 180},
		Template: Template{
			Layout: LayoutVertical,
			Widgets: []TemplateWidget{
				{
					Type: "temperature_display",
					Props: map[string]any{
						"entity_id": "{{entity}}",
						"text":      "{{label || 'Thermostat'}}",
					},
					ReadBindings: []binding.ReadBinding{{
						ID: "climate_current", EntityParam: "entity",
						Attribute: "current_temperature", TargetProperty: "props.value",
						Transform: "round", TransformConfig: map[string]any{"precision": 1},
						Availability: placeholderAvailability("--"),
					}},
				},
				{
					Type: "temperature_stepper",
					Props: map[string]any{
						"entity_id": "{{entity}}",
					},
					ReadBindings: []binding.ReadBinding{{
						ID: "climate_target", EntityParam: "entity",
						Attribute: "temperature", TargetProperty: "props.value",
						Transform: "round", TransformConfig: map[string]any{"precision": 1},
						Availability: placeholderAvailability("--"),
					}},
					WriteBindings: []binding.WriteBinding{{
						ID: "climate_set_temperature", Event: "on_change",
						Service: "climate.set_temperature", EntityParam: "entity",
						DynamicPayload: map[string]string{"props.value": "temperature"},
						DebounceMs:     2000,
					}},
				},
				{
					Type:      "mode_select",
					Condition: "show_mode",
					Props: map[string]any{
						"entity_id": "{{entity}}",
					},
					ReadBindings: []binding.ReadBinding{{
						ID: "climate_mode", EntityParam: "entity",
						TargetProperty: "props.mode",
					}},
					WriteBindings: []binding.WriteBinding{{
						ID: "climate_set_mode", Event: "on_select",
						Service: "climate.set_hvac_mode", EntityParam: "entity",
						DynamicPayload: map[string]string{"props.mode": "hvac_mode"},
						Debounce:       binding.NoDebounce(),
					}},
				},
			},
		},
	}
}

func toggleControl() *Definition {
	return &Definition{
		ID:       "builtin.toggle",
		Name:     "Toggle",
		Category: "switches",
		Builtin:  true,
		Parameters: []binding.ControlParameter{
			entityParam("Entity", "switch", "input_boolean", "light", "fan"),
			labelParam(),
		},
		DefaultSize: Size{Width: 160, Height: 80},
		Template: Template{
			Layout: LayoutStack,
			Widgets: []TemplateWidget{
				{
					Type: "toggle_button",
					Props: map[string]any{
						"entity_id": "{{entity}}",
						"text":      "{{label || entity}}",
					},
					ReadBindings: []binding.ReadBinding{onOffRead("toggle_state")},
					WriteBindings: []binding.WriteBinding{{
						// homeassistant.toggle covers every toggleable domain
						// the entity parameter admits.
						ID: "toggle", Event: "on_click",
						Service: "homeassistant.toggle", EntityParam: "entity",
						Debounce: binding.NoDebounce(),
					}},
				},
			},
		},
	}
}

func sensorReadout() *Definition {
	return &Definition{
		ID:       "builtin.sensor",
		Name:     "Sensor readout",
		Category: "sensors",
		Builtin:  true,
		Parameters: []binding.ControlParameter{
			entityParam("Sensor", "sensor", "binary_sensor"),
			labelParam(),
			{ID: "unit", Name: "Unit", Type: binding.ParamString, DefaultValue: ""},
			{
				ID: "precision", Name: "Decimal places", Type: binding.ParamNumber,
				DefaultValue: 1, Min: fptr(0), Max: fptr(3), Step: fptr(1),
			},
		},
		DefaultSize: Size{Width: 160, Height: 90},
		Template: Template{
			Layout: LayoutVertical,
			Widgets: []TemplateWidget{
				{
					Type: "label",
					Props: map[string]any{
						"text": "{{label || entity}}",
					},
				},
				{
					Type: "value_display",
					Props: map[string]any{
						"entity_id": "{{entity}}",
						"unit":      "{{unit}}",
						"precision": "{{precision}}",
					},
					ReadBindings: []binding.ReadBinding{{
						ID: "sensor_value", EntityParam: "entity",
						TargetProperty: "props.value",
						Transform:      "round", TransformConfig: map[string]any{"precision": 1},
						Availability: placeholderAvailability("--"),
					}},
				},
			},
		},
	}
}

func sceneButton() *Definition {
	return &Definition{
		ID:       "builtin.scene",
		Name:     "Scene button",
		Category: "scenes",
		Builtin:  true,
		Parameters: []binding.ControlParameter{
			entityParam("Scene", "scene", "script"),
			labelParam(),
			{ID: "icon", Name: "Icon", Type: binding.ParamIcon, DefaultValue: "mdi:palette"},
		},
		DefaultSize: Size{Width: 120, Height: 120},
		Template: Template{
			Layout: LayoutStack,
			Widgets: []TemplateWidget{
				{
					Type: "button",
					Props: map[string]any{
						"entity_id": "{{entity}}",
						"text":      "{{label || entity}}",
						"icon":      "{{icon}}",
					},
					WriteBindings: []binding.WriteBinding{{
						// homeassistant.turn_on activates scenes and scripts
						// alike.
						ID: "scene_activate", Event: "on_click",
						Service: "homeassistant.turn_on", EntityParam: "entity",
						Debounce: binding.NoDebounce(),
					}},
				},
			},
		},
	}
}

func coverControl() *Definition {
	return &Definition{
		ID:       "builtin.cover",
		Name:     "Cover",
		Category: "covers",
		Builtin:  true,
		Parameters: []binding.ControlParameter{
			entityParam("Cover", "cover"),
			labelParam(),
			{ID: "show_position", Name: "Show position slider", Type: binding.ParamBoolean, DefaultValue: false},
		},
		DefaultSize: Size{Width: 200, Height: 140},
		Template: Template{
			Layout: LayoutVertical,
			Widgets: []TemplateWidget{
				{
					Type: "cover_buttons",
					Props: map[string]any{
						"entity_id": "{{entity}}",
						"text":      "{{label || entity}}",
					},
					ReadBindings: []binding.ReadBinding{{
						ID: "cover_state", EntityParam: "entity",
						TargetProperty: "props.state",
					}},
					WriteBindings: []binding.WriteBinding{
						{
							ID: "cover_open", Event: "on_open",
							Service: "cover.open_cover", EntityParam: "entity",
							Debounce: binding.NoDebounce(),
						},
						{
							ID: "cover_close", Event: "on_close",
							Service: "cover.close_cover", EntityParam: "entity",
							Debounce: binding.NoDebounce(),
						},
						{
							ID: "cover_stop", Event: "on_stop",
							Service: "cover.stop_cover", EntityParam: "entity",
							Debounce: binding.NoDebounce(),
						},
					},
				},
				{
					Type:      "slider",
					Condition: "show_position",
					Props: map[string]any{
						"entity_id": "{{entity}}",
						"min":       0.0,
						"max":       100.0,
					},
					ReadBindings: []binding.ReadBinding{{
						ID: "cover_position", EntityParam: "entity",
						Attribute: "current_position", TargetProperty: "props.value",
					}},
					WriteBindings: []binding.WriteBinding{{
						ID: "cover_set_position", Event: "on_change",
						Service: "cover.set_cover_position", EntityParam: "entity",
						DynamicPayload: map[string]string{"props.value": "position"},
						DebounceMs:     500,
					}},
				},
			},
		},
	}
}

func mediaControl() *Definition {
	return &Definition{
		ID:       "builtin.media",
		Name:     "Media player",
		Category: "media",
		Builtin:  true,
		Parameters: []binding.ControlParameter{
			entityParam("Player", "media_player"),
			labelParam(),
			{ID: "show_volume", Name: "Show volume slider", Type: binding.ParamBoolean, DefaultValue: true},
		},
		DefaultSize: Size{Width: 240, Height: 160},
		Template: Template{
			Layout: LayoutVertical,
			Widgets: []TemplateWidget{
				{
					Type: "media_transport",
					Props: map[string]any{
						"entity_id": "{{entity}}",
						"text":      "{{label || entity}}",
					},
					ReadBindings: []binding.ReadBinding{{
						ID: "media_state", EntityParam: "entity",
						TargetProperty: "props.state",
					}},
					WriteBindings: []binding.WriteBinding{{
						ID: "media_play_pause", Event: "on_play_pause",
						Service: "media_player.media_play_pause", EntityParam: "entity",
						Debounce: binding.NoDebounce(),
					}},
				},
				{
					Type:      "slider",
					Condition: "show_volume",
					Props: map[string]any{
						"entity_id": "{{entity}}",
						"min":       0.0,
						"max":       100.0,
					},
					ReadBindings: []binding.ReadBinding{{
						ID: "media_volume", EntityParam: "entity",
						Attribute: "volume_level", TargetProperty: "props.value",
						Transform: "percent", TransformConfig: map[string]any{"max": 1},
					}},
					WriteBindings: []binding.WriteBinding{{
						ID: "media_set_volume", Event: "on_change",
						Service: "media_player.volume_set", EntityParam: "entity",
						DynamicPayload: map[string]string{"props.value": "volume_level"},
						DebounceMs:     200,
					}},
				},
			},
		},
	}
}

func fptr(f float64) *float64 { return &f }
