package adapter

import (
	"github.com/esphome-dash/designer-core/internal/binding"
	"github.com/esphome-dash/designer-core/internal/entity"
	"github.com/esphome-dash/designer-core/internal/transform"
)

// Media player supported_features bits (Home Assistant
// MediaPlayerEntityFeature).
const (
	mediaFeaturePause         = 1
	mediaFeatureVolumeSet     = 4
	mediaFeatureVolumeMute    = 8
	mediaFeaturePreviousTrack = 16
	mediaFeatureNextTrack     = 32
	mediaFeatureSelectSource  = 2048
	mediaFeaturePlay          = 16384
)

// mediaVolumeDebounceMs is the debounce window for the volume slider.
const mediaVolumeDebounceMs = 200

type mediaPlayerAdapter struct {
	base
}

func newMediaPlayerAdapter() *mediaPlayerAdapter {
	return &mediaPlayerAdapter{base{domain: "media_player"}}
}

func (a *mediaPlayerAdapter) ExtractCapabilities(s *entity.State) Capabilities {
	caps := baseCapabilities(s)
	if s == nil {
		return caps
	}

	bits := supportedFeatures(s)
	sources := attrStrings(s, "source_list")

	caps["supports_volume"] = bits&mediaFeatureVolumeSet != 0
	caps["supports_mute"] = bits&mediaFeatureVolumeMute != 0
	caps["supports_play_pause"] = bits&(mediaFeaturePlay|mediaFeaturePause) != 0
	caps["supports_previous"] = bits&mediaFeaturePreviousTrack != 0
	caps["supports_next"] = bits&mediaFeatureNextTrack != 0
	caps["supports_source"] = bits&mediaFeatureSelectSource != 0 && len(sources) > 0
	caps["source_list"] = sources
	caps["volume_level"] = attrFloat(s, "volume_level", 0)
	caps["media_title"] = attrString(s, "media_title")

	return caps
}

func (a *mediaPlayerAdapter) Parameters(caps Capabilities) []binding.ControlParameter {
	params := []binding.ControlParameter{entityParameter("media_player")}

	if caps.Flag("supports_volume") {
		params = append(params, binding.ControlParameter{
			ID: "show_volume", Name: "Show volume slider", Type: binding.ParamBoolean, DefaultValue: true,
		})
	}
	if caps.Flag("supports_source") {
		params = append(params, binding.ControlParameter{
			ID: "show_source", Name: "Show source selector", Type: binding.ParamBoolean, DefaultValue: false,
		})
	}
	return append(params, colorParameters()...)
}

func (a *mediaPlayerAdapter) DefaultReadBindings(caps Capabilities) []binding.ReadBinding {
	bindings := []binding.ReadBinding{
		{
			ID: "media_state", EntityParam: EntityParamID,
			TargetProperty: "props.state",
			Availability:   placeholderPolicy("--"),
		},
	}
	if caps.Flag("supports_volume") {
		// volume_level is 0.0-1.0; percent with max 1 maps it to 0-100.
		bindings = append(bindings, binding.ReadBinding{
			ID: "media_volume", EntityParam: EntityParamID,
			Attribute: "volume_level", TargetProperty: "props.volume",
			Transform: "percent", TransformConfig: transform.Config{"max": 1},
			Availability: placeholderPolicy("--"),
		})
	}
	if caps.Flag("supports_play_pause") {
		bindings = append(bindings, binding.ReadBinding{
			ID: "media_title", EntityParam: EntityParamID,
			Attribute: "media_title", TargetProperty: "props.track",
			Transform: "stringify",
			Availability: binding.AvailabilityPolicy{
				OnUnavailable: binding.BehaviorShowPlaceholder,
				OnUnknown:     binding.BehaviorShowPlaceholder,
				PlaceholderText: "Nothing playing",
			},
		})
	}
	if caps.Flag("supports_source") {
		bindings = append(bindings, binding.ReadBinding{
			ID: "media_source", EntityParam: EntityParamID,
			Attribute: "source", TargetProperty: "props.source",
			Availability: placeholderPolicy(""),
		})
	}
	return bindings
}

func (a *mediaPlayerAdapter) DefaultWriteBindings(caps Capabilities) []binding.WriteBinding {
	var bindings []binding.WriteBinding

	if caps.Flag("supports_volume") {
		bindings = append(bindings, binding.WriteBinding{
			ID: "media_set_volume", Event: "on_change",
			Service: "media_player.volume_set", EntityParam: EntityParamID,
			DynamicPayload: map[string]string{"props.volume": "volume_level"},
			DebounceMs:     mediaVolumeDebounceMs,
		})
	}
	if caps.Flag("supports_play_pause") {
		bindings = append(bindings, binding.WriteBinding{
			ID: "media_play_pause", Event: "on_play_pause",
			Service: "media_player.media_play_pause", EntityParam: EntityParamID,
			Debounce: binding.NoDebounce(),
		})
	}
	if caps.Flag("supports_previous") {
		bindings = append(bindings, binding.WriteBinding{
			ID: "media_previous", Event: "on_previous",
			Service: "media_player.media_previous_track", EntityParam: EntityParamID,
			Debounce: binding.NoDebounce(),
		})
	}
	if caps.Flag("supports_next") {
		bindings = append(bindings, binding.WriteBinding{
			ID: "media_next", Event: "on_next",
			Service: "media_player.media_next_track", EntityParam: EntityParamID,
			Debounce: binding.NoDebounce(),
		})
	}
	if caps.Flag("supports_source") {
		bindings = append(bindings, binding.WriteBinding{
			ID: "media_select_source", Event: "on_source_select",
			Service: "media_player.select_source", EntityParam: EntityParamID,
			DynamicPayload: map[string]string{"props.source": "source"},
			Debounce:       binding.NoDebounce(),
		})
	}
	return bindings
}

func (a *mediaPlayerAdapter) StateDisplay(s *entity.State) StateDisplay {
	if s == nil || !s.Available() {
		return StateDisplay{Text: "--", Icon: "mdi:speaker-off", Color: "#9e9e9e"}
	}

	switch s.State {
	case "playing":
		text := attrString(s, "media_title")
		if text == "" {
			text = "Playing"
		}
		return StateDisplay{Text: text, Icon: "mdi:play-circle", Color: "#4caf50"}
	case "paused":
		return StateDisplay{Text: "Paused", Icon: "mdi:pause-circle", Color: "#ff9800"}
	case "idle":
		return StateDisplay{Text: "Idle", Icon: "mdi:speaker", Color: "#9e9e9e"}
	default:
		return StateDisplay{Text: s.State, Icon: "mdi:speaker", Color: "#9e9e9e"}
	}
}

func (a *mediaPlayerAdapter) Services() []ServiceDescriptor {
	return []ServiceDescriptor{
		{
			Service: "media_player.volume_set", Name: "Set volume",
			Fields: []ServiceField{{Name: "volume_level", Example: 0.4}},
		},
		{Service: "media_player.media_play_pause", Name: "Play/pause"},
		{Service: "media_player.media_previous_track", Name: "Previous track"},
		{Service: "media_player.media_next_track", Name: "Next track"},
		{
			Service: "media_player.select_source", Name: "Select source",
			Fields: []ServiceField{{Name: "source", Example: "Spotify"}},
		},
	}
}
