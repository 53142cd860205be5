package transform

import (
	"strings"
	"testing"
)

func TestIdentity(t *testing.T) {
	r := NewRegistry()
	if got := r.Apply("identity", "on", nil); got != "on" {
		t.Errorf("identity changed value: %v", got)
	}
	if got := r.ToTargetExpression("identity", "id(x).state", nil); got != "id(x).state" {
		t.Errorf("identity changed expression: %v", got)
	}
}

func TestUnknownTransformPassthrough(t *testing.T) {
	r := NewRegistry()
	if got := r.Apply("does_not_exist", 42.0, nil); got != 42.0 {
		t.Errorf("unknown transform changed value: %v", got)
	}
	if got := r.ToTargetExpression("does_not_exist", "id(x).state", nil); got != "id(x).state" {
		t.Errorf("unknown transform changed expression: %v", got)
	}
}

func TestRound(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		name  string
		value any
		cfg   Config
		want  any
	}{
		{"default precision", 21.46, nil, 21.0},
		{"precision 1", 21.46, Config{"precision": 1.0}, 21.5},
		{"precision 2", 3.14159, Config{"precision": 2.0}, 3.14},
		{"non-numeric unchanged", "heat", nil, "heat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Apply("round", tt.value, tt.cfg); got != tt.want {
				t.Errorf("round(%v, %v) = %v, want %v", tt.value, tt.cfg, got, tt.want)
			}
		})
	}
}

func TestPercentBoundaries(t *testing.T) {
	r := NewRegistry()
	cfg := Config{"max": 255.0}

	if got := r.Apply("percent", 255.0, cfg); got != 100.0 {
		t.Errorf("percent(255) = %v, want 100", got)
	}
	if got := r.Apply("percent", 0.0, cfg); got != 0.0 {
		t.Errorf("percent(0) = %v, want 0", got)
	}
	if got := r.Apply("percent", 128.0, cfg); got != 50.0 {
		t.Errorf("percent(128) = %v, want 50", got)
	}
	if got := r.Apply("percent", "not_a_number", cfg); got != 0.0 {
		t.Errorf("percent(non-numeric) = %v, want 0", got)
	}
}

func TestScale(t *testing.T) {
	r := NewRegistry()
	cfg := Config{"inMin": 0.0, "inMax": 255.0, "outMin": 0.0, "outMax": 100.0}

	if got := r.Apply("scale", 127.5, cfg); got != 50.0 {
		t.Errorf("scale(127.5) = %v, want 50", got)
	}
	if got := r.Apply("scale", "bad", cfg); got != 0.0 {
		t.Errorf("scale(non-numeric) = %v, want outMin", got)
	}
	// Degenerate input range falls back to outMin instead of dividing by zero.
	if got := r.Apply("scale", 5.0, Config{"inMin": 10.0, "inMax": 10.0, "outMin": 3.0}); got != 3.0 {
		t.Errorf("scale with empty input range = %v, want 3", got)
	}
}

func TestMapTransform(t *testing.T) {
	r := NewRegistry()
	cfg := Config{
		"map":     map[string]any{"on": true, "off": false},
		"default": "X",
	}

	if got := r.Apply("map", "on", cfg); got != true {
		t.Errorf("map(on) = %v, want true", got)
	}
	if got := r.Apply("map", "unmapped_value", cfg); got != "X" {
		t.Errorf("map miss with default = %v, want X", got)
	}

	noDefault := Config{"map": map[string]any{"on": true}}
	if got := r.Apply("map", "off", noDefault); got != "off" {
		t.Errorf("map miss without default = %v, want original value", got)
	}

	// Numeric values stringify before lookup.
	numeric := Config{"map": map[string]any{"1": "one"}}
	if got := r.Apply("map", 1.0, numeric); got != "one" {
		t.Errorf("map(1.0) = %v, want one", got)
	}
}

func TestMapExpressionChain(t *testing.T) {
	r := NewRegistry()
	cfg := Config{
		"map":     map[string]any{"heat": "Heating", "off": "Off"},
		"default": "?",
	}

	expr := r.ToTargetExpression("map", "id(mode).state", cfg)

	// First key (sorted) outermost, last key innermost, default deepest.
	want := `(id(mode).state) == "heat" ? "Heating" : ((id(mode).state) == "off" ? "Off" : ("?"))`
	if expr != want {
		t.Errorf("map expression:\n got %s\nwant %s", expr, want)
	}
}

func TestBoolToText(t *testing.T) {
	r := NewRegistry()
	cfg := Config{"trueText": "Open", "falseText": "Closed"}

	trueInputs := []any{true, "on", "true", "ON", "True"}
	for _, v := range trueInputs {
		if got := r.Apply("bool_to_text", v, cfg); got != "Open" {
			t.Errorf("bool_to_text(%v) = %v, want Open", v, got)
		}
	}

	falseInputs := []any{false, "off", "unavailable", 1.0, nil}
	for _, v := range falseInputs {
		if got := r.Apply("bool_to_text", v, cfg); got != "Closed" {
			t.Errorf("bool_to_text(%v) = %v, want Closed", v, got)
		}
	}

	if got := r.Apply("bool_to_text", true, nil); got != "On" {
		t.Errorf("bool_to_text default trueText = %v, want On", got)
	}
}

func TestFormat(t *testing.T) {
	r := NewRegistry()
	cfg := Config{"precision": 1.0, "unit": "°C"}

	if got := r.Apply("format", 21.46, cfg); got != "21.5°C" {
		t.Errorf("format(21.46) = %v, want 21.5°C", got)
	}
	if got := r.Apply("format", "unavailable", cfg); got != "--°C" {
		t.Errorf("format(non-numeric) = %v, want --°C", got)
	}
	if got := r.Apply("format", 5.0, Config{"precision": 0.0, "prefix": "~"}); got != "~5" {
		t.Errorf("format with prefix = %v, want ~5", got)
	}

	expr := r.ToTargetExpression("format", "id(t).state", cfg)
	if expr != `str_sprintf("%.1f°C", id(t).state)` {
		t.Errorf("format expression = %s", expr)
	}
}

func TestClamp(t *testing.T) {
	r := NewRegistry()
	cfg := Config{"min": 10.0, "max": 20.0}

	if got := r.Apply("clamp", 25.0, cfg); got != 20.0 {
		t.Errorf("clamp(25) = %v, want 20", got)
	}
	if got := r.Apply("clamp", 5.0, cfg); got != 10.0 {
		t.Errorf("clamp(5) = %v, want 10", got)
	}
	if got := r.Apply("clamp", 15.0, cfg); got != 15.0 {
		t.Errorf("clamp(15) = %v, want 15", got)
	}
	if got := r.Apply("clamp", "bad", cfg); got != 10.0 {
		t.Errorf("clamp(non-numeric) = %v, want min", got)
	}
}

func TestThreshold(t *testing.T) {
	r := NewRegistry()

	if got := r.Apply("threshold", 60.0, Config{"threshold": 50.0}); got != true {
		t.Errorf("threshold above = %v, want true", got)
	}
	if got := r.Apply("threshold", 40.0, Config{"threshold": 50.0}); got != false {
		t.Errorf("threshold below = %v, want false", got)
	}
	if got := r.Apply("threshold", 40.0, Config{"threshold": 50.0, "above": false}); got != true {
		t.Errorf("threshold inverted = %v, want true", got)
	}
	if got := r.Apply("threshold", "bad", nil); got != false {
		t.Errorf("threshold(non-numeric) = %v, want false", got)
	}
}

func TestInvert(t *testing.T) {
	r := NewRegistry()
	if got := r.Apply("invert", 30.0, Config{"max": 100.0}); got != 70.0 {
		t.Errorf("invert(30) = %v, want 70", got)
	}
	if got := r.Apply("invert", "bad", Config{"max": 100.0}); got != 100.0 {
		t.Errorf("invert(non-numeric) = %v, want max", got)
	}
}

func TestStringify(t *testing.T) {
	r := NewRegistry()
	if got := r.Apply("stringify", 21.5, nil); got != "21.5" {
		t.Errorf("stringify(21.5) = %v", got)
	}
	if got := r.Apply("stringify", true, nil); got != "true" {
		t.Errorf("stringify(true) = %v", got)
	}
}

func TestTemperatureConversions(t *testing.T) {
	r := NewRegistry()

	if got := r.Apply("celsius_to_fahrenheit", 100.0, nil); got != 212.0 {
		t.Errorf("c_to_f(100) = %v, want 212", got)
	}
	if got := r.Apply("fahrenheit_to_celsius", 32.0, nil); got != 0.0 {
		t.Errorf("f_to_c(32) = %v, want 0", got)
	}
	// Non-numeric input passes through unchanged.
	if got := r.Apply("celsius_to_fahrenheit", "unknown", nil); got != "unknown" {
		t.Errorf("c_to_f(non-numeric) = %v, want passthrough", got)
	}
}

func TestLambda(t *testing.T) {
	r := NewRegistry()
	cfg := Config{"lambda": "x * 2 + max(x, 10)"}

	// Evaluation cannot execute arbitrary expressions; value passes through.
	if got := r.Apply("lambda", 21.0, cfg); got != 21.0 {
		t.Errorf("lambda apply = %v, want passthrough", got)
	}

	expr := r.ToTargetExpression("lambda", "id(s).state", cfg)
	want := "(id(s).state) * 2 + max((id(s).state), 10)"
	if expr != want {
		t.Errorf("lambda expression:\n got %s\nwant %s", expr, want)
	}

	// Whole-word substitution only: "max" contains x but must not match.
	expr = r.ToTargetExpression("lambda", "v", Config{"lambda": "xmax + x"})
	if expr != "xmax + (v)" {
		t.Errorf("lambda whole-word substitution = %s", expr)
	}
}

func TestStateToColor(t *testing.T) {
	r := NewRegistry()
	cfg := Config{
		"colors":  map[string]any{"Heat": "#ff6600", "cool": "#0066ff"},
		"default": "#888888",
	}

	// Case-insensitive lookup.
	if got := r.Apply("state_to_color", "heat", cfg); got != "#ff6600" {
		t.Errorf("state_to_color(heat) = %v", got)
	}
	if got := r.Apply("state_to_color", "COOL", cfg); got != "#0066ff" {
		t.Errorf("state_to_color(COOL) = %v", got)
	}
	if got := r.Apply("state_to_color", "dry", cfg); got != "#888888" {
		t.Errorf("state_to_color miss = %v, want default", got)
	}

	// Compile form is an opaque marker for the declaration compiler.
	if got := r.ToTargetExpression("state_to_color", "id(x).state", cfg); got != MarkerStateToColor {
		t.Errorf("state_to_color expression = %v, want marker", got)
	}
	if got := r.ToTargetExpression("state_to_icon", "id(x).state", nil); got != MarkerStateToIcon {
		t.Errorf("state_to_icon expression = %v, want marker", got)
	}
}

func TestRegistryOverride(t *testing.T) {
	r := NewRegistry()
	r.Register(&Transform{
		Name:  "identity",
		Apply: func(any, Config) any { return "overridden" },
	})

	if got := r.Apply("identity", "x", nil); got != "overridden" {
		t.Errorf("last-registered transform should win, got %v", got)
	}
}

func TestRegistryNames(t *testing.T) {
	r := NewRegistry()
	names := r.Names()

	wantPresent := []string{
		"identity", "round", "percent", "scale", "map", "bool_to_text",
		"format", "clamp", "threshold", "invert", "stringify",
		"celsius_to_fahrenheit", "fahrenheit_to_celsius", "lambda",
		"state_to_color", "state_to_icon",
	}
	for _, name := range wantPresent {
		if !r.Has(name) {
			t.Errorf("built-in transform %q not registered", name)
		}
	}

	for i := 1; i < len(names); i++ {
		if names[i] < names[i-1] {
			t.Errorf("Names() not sorted: %v", names)
			break
		}
	}
}

func TestExpressionForms(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		transform string
		cfg       Config
		contains  string
	}{
		{"round", nil, "roundf"},
		{"percent", Config{"max": 255.0}, "/ 255.0 * 100.0"},
		{"clamp", Config{"min": 0.0, "max": 100.0}, "clamp"},
		{"threshold", Config{"threshold": 50.0}, "> 50.0"},
		{"invert", Config{"max": 100.0}, "100.0 - "},
		{"stringify", nil, "to_string"},
		{"celsius_to_fahrenheit", nil, "* 9.0 / 5.0 + 32.0"},
	}

	for _, tt := range tests {
		expr := r.ToTargetExpression(tt.transform, "id(v).state", tt.cfg)
		if !strings.Contains(expr, tt.contains) {
			t.Errorf("%s expression %q does not contain %q", tt.transform, expr, tt.contains)
		}
	}
}
