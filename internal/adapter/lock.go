package adapter

import (
	"github.com/esphome-dash/designer-core/internal/binding"
	"github.com/esphome-dash/designer-core/internal/entity"
)

// Lock supported_features bits (Home Assistant LockEntityFeature).
const lockFeatureOpen = 1

type lockAdapter struct {
	base
}

func newLockAdapter() *lockAdapter {
	return &lockAdapter{base{domain: "lock"}}
}

func (a *lockAdapter) ExtractCapabilities(s *entity.State) Capabilities {
	caps := baseCapabilities(s)
	if s == nil {
		return caps
	}

	caps["supports_open"] = supportedFeatures(s)&lockFeatureOpen != 0
	caps["is_locked"] = s.State == "locked"

	return caps
}

func (a *lockAdapter) Parameters(caps Capabilities) []binding.ControlParameter {
	params := []binding.ControlParameter{entityParameter("lock")}
	return append(params, colorParameters()...)
}

func (a *lockAdapter) DefaultReadBindings(caps Capabilities) []binding.ReadBinding {
	return []binding.ReadBinding{
		{
			ID: "lock_is_locked", EntityParam: EntityParamID,
			TargetProperty: "props.locked",
			Transform:      "map",
			TransformConfig: map[string]any{
				"map":     map[string]any{"locked": true, "unlocked": false},
				"default": false,
			},
			Availability: binding.AvailabilityPolicy{
				OnUnavailable: binding.BehaviorDisable,
				OnUnknown:     binding.BehaviorDisable,
			},
		},
		{
			ID: "lock_state_text", EntityParam: EntityParamID,
			TargetProperty: "props.state_text",
			Transform:      "map",
			TransformConfig: map[string]any{
				"map": map[string]any{
					"locked":    "Locked",
					"unlocked":  "Unlocked",
					"locking":   "Locking...",
					"unlocking": "Unlocking...",
					"jammed":    "Jammed",
				},
				"default": "?",
			},
			Availability: placeholderPolicy("--"),
		},
	}
}

func (a *lockAdapter) DefaultWriteBindings(caps Capabilities) []binding.WriteBinding {
	// Unlock and open are security-sensitive, so both carry an advisory
	// confirmation prompt for the consuming UI.
	bindings := []binding.WriteBinding{
		{
			ID: "lock_lock", Event: "on_lock",
			Service: "lock.lock", EntityParam: EntityParamID,
			Debounce: binding.NoDebounce(),
		},
		{
			ID: "lock_unlock", Event: "on_unlock",
			Service: "lock.unlock", EntityParam: EntityParamID,
			ConfirmPrompt: "Unlock this lock?",
			Debounce:      binding.NoDebounce(),
		},
	}
	if caps.Flag("supports_open") {
		bindings = append(bindings, binding.WriteBinding{
			ID: "lock_open", Event: "on_open",
			Service: "lock.open", EntityParam: EntityParamID,
			ConfirmPrompt: "Open this lock?",
			Debounce:      binding.NoDebounce(),
		})
	}
	return bindings
}

func (a *lockAdapter) StateDisplay(s *entity.State) StateDisplay {
	if s == nil || !s.Available() {
		return StateDisplay{Text: "--", Icon: "mdi:lock-question", Color: "#9e9e9e"}
	}

	switch s.State {
	case "locked":
		return StateDisplay{Text: "Locked", Icon: "mdi:lock", Color: "#4caf50"}
	case "unlocked":
		return StateDisplay{Text: "Unlocked", Icon: "mdi:lock-open", Color: "#ff9800"}
	case "jammed":
		return StateDisplay{Text: "Jammed", Icon: "mdi:lock-alert", Color: "#f44336"}
	default:
		return StateDisplay{Text: s.State, Icon: "mdi:lock-clock", Color: "#9e9e9e"}
	}
}

func (a *lockAdapter) Services() []ServiceDescriptor {
	return []ServiceDescriptor{
		{Service: "lock.lock", Name: "Lock"},
		{Service: "lock.unlock", Name: "Unlock"},
		{Service: "lock.open", Name: "Open"},
	}
}
