package transform

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/esphome-dash/designer-core/internal/entity"
)

// Opaque expression markers for transforms whose compiled form is not an
// expression. The declaration compiler post-processes these instead of
// embedding them in a lambda.
const (
	MarkerStateToColor = "__state_to_color__"
	MarkerStateToIcon  = "__state_to_icon__"
)

// wholeWordX matches the free variable of the lambda transform.
var wholeWordX = regexp.MustCompile(`\bx\b`)

// registerBuiltins installs the built-in transform set into a registry.
//
//nolint:funlen // one registration call per built-in transform
func registerBuiltins(r *Registry) {
	r.Register(&Transform{
		Name:        "identity",
		Description: "Pass the value through unchanged",
		Apply:       func(value any, _ Config) any { return value },
		ToTargetExpression: func(inputExpr string, _ Config) string { return inputExpr },
	})

	r.Register(&Transform{
		Name:        "round",
		Description: "Round a numeric value to a precision (default 0 decimals)",
		Apply: func(value any, cfg Config) any {
			f, ok := entity.ToFloat(value)
			if !ok {
				return value
			}
			return roundTo(f, cfg.Int("precision", 0))
		},
		ToTargetExpression: func(inputExpr string, cfg Config) string {
			precision := cfg.Int("precision", 0)
			if precision <= 0 {
				return fmt.Sprintf("roundf(%s)", inputExpr)
			}
			factor := math.Pow(10, float64(precision))
			return fmt.Sprintf("(roundf((%s) * %s) / %s)", inputExpr, cppFloat(factor), cppFloat(factor))
		},
	})

	r.Register(&Transform{
		Name:        "percent",
		Description: "Convert a raw value to a 0-100 percentage (default max 255)",
		Apply: func(value any, cfg Config) any {
			f, ok := entity.ToFloat(value)
			if !ok {
				return 0.0
			}
			max := cfg.Float("max", 255)
			if max == 0 {
				return 0.0
			}
			return math.Round(f / max * 100)
		},
		ToTargetExpression: func(inputExpr string, cfg Config) string {
			max := cfg.Float("max", 255)
			return fmt.Sprintf("roundf((%s) / %s * 100.0)", inputExpr, cppFloat(max))
		},
	})

	r.Register(&Transform{
		Name:        "scale",
		Description: "Linearly map a value from one range to another",
		Apply: func(value any, cfg Config) any {
			inMin := cfg.Float("inMin", 0)
			inMax := cfg.Float("inMax", 100)
			outMin := cfg.Float("outMin", 0)
			outMax := cfg.Float("outMax", 100)
			f, ok := entity.ToFloat(value)
			if !ok || inMax == inMin {
				return outMin
			}
			return (f-inMin)/(inMax-inMin)*(outMax-outMin) + outMin
		},
		ToTargetExpression: func(inputExpr string, cfg Config) string {
			inMin := cppFloat(cfg.Float("inMin", 0))
			inMax := cppFloat(cfg.Float("inMax", 100))
			outMin := cppFloat(cfg.Float("outMin", 0))
			outMax := cppFloat(cfg.Float("outMax", 100))
			return fmt.Sprintf("(((%s) - %s) / (%s - %s) * (%s - %s) + %s)",
				inputExpr, inMin, inMax, inMin, outMax, outMin, outMin)
		},
	})

	r.Register(&Transform{
		Name:        "map",
		Description: "Look up the stringified value in an exact-match table",
		Apply: func(value any, cfg Config) any {
			m := cfg.Map("map")
			key := entity.Stringify(value)
			if v, ok := m[key]; ok {
				return v
			}
			if cfg.Has("default") {
				return cfg["default"]
			}
			return value
		},
		ToTargetExpression: func(inputExpr string, cfg Config) string {
			m := cfg.Map("map")
			if len(m) == 0 {
				return inputExpr
			}

			// Innermost branch is the default (or the raw input when no
			// default is configured). Building from the last key inward
			// preserves the chain shape generated firmware already depends
			// on: first key outermost, last key innermost.
			expr := inputExpr
			if cfg.Has("default") {
				expr = cppLiteral(cfg["default"])
			}
			keys := sortedKeys(m)
			for i := len(keys) - 1; i >= 0; i-- {
				expr = fmt.Sprintf("(%s) == %s ? %s : (%s)",
					inputExpr, cppString(keys[i]), cppLiteral(m[keys[i]]), expr)
			}
			return expr
		},
	})

	r.Register(&Transform{
		Name:        "bool_to_text",
		Description: "Render a boolean-ish value as configurable text",
		Apply: func(value any, cfg Config) any {
			if isTruthyState(value) {
				return cfg.String("trueText", "On")
			}
			return cfg.String("falseText", "Off")
		},
		ToTargetExpression: func(inputExpr string, cfg Config) string {
			return fmt.Sprintf("(%s) ? %s : %s",
				inputExpr,
				cppString(cfg.String("trueText", "On")),
				cppString(cfg.String("falseText", "Off")))
		},
	})

	r.Register(&Transform{
		Name:        "format",
		Description: "Format a number with precision, unit and prefix",
		Apply: func(value any, cfg Config) any {
			precision := cfg.Int("precision", 1)
			unit := cfg.String("unit", "")
			prefix := cfg.String("prefix", "")
			f, ok := entity.ToFloat(value)
			if !ok {
				return prefix + "--" + unit
			}
			return prefix + strconv.FormatFloat(roundTo(f, precision), 'f', precision, 64) + unit
		},
		ToTargetExpression: func(inputExpr string, cfg Config) string {
			precision := cfg.Int("precision", 1)
			unit := cppEscape(cfg.String("unit", ""))
			prefix := cppEscape(cfg.String("prefix", ""))
			return fmt.Sprintf("str_sprintf(\"%s%%.%df%s\", %s)", prefix, precision, unit, inputExpr)
		},
	})

	r.Register(&Transform{
		Name:        "clamp",
		Description: "Clamp a value into a min/max range",
		Apply: func(value any, cfg Config) any {
			min := cfg.Float("min", 0)
			max := cfg.Float("max", 100)
			f, ok := entity.ToFloat(value)
			if !ok {
				return min
			}
			return math.Min(math.Max(f, min), max)
		},
		ToTargetExpression: func(inputExpr string, cfg Config) string {
			return fmt.Sprintf("clamp((%s), %s, %s)",
				inputExpr, cppFloat(cfg.Float("min", 0)), cppFloat(cfg.Float("max", 100)))
		},
	})

	r.Register(&Transform{
		Name:        "threshold",
		Description: "Compare a value against a threshold, producing a boolean",
		Apply: func(value any, cfg Config) any {
			f, ok := entity.ToFloat(value)
			if !ok {
				return false
			}
			threshold := cfg.Float("threshold", 50)
			if cfg.Bool("above", true) {
				return f > threshold
			}
			return f < threshold
		},
		ToTargetExpression: func(inputExpr string, cfg Config) string {
			op := ">"
			if !cfg.Bool("above", true) {
				op = "<"
			}
			return fmt.Sprintf("(%s) %s %s", inputExpr, op, cppFloat(cfg.Float("threshold", 50)))
		},
	})

	r.Register(&Transform{
		Name:        "invert",
		Description: "Invert a value within a 0..max range",
		Apply: func(value any, cfg Config) any {
			max := cfg.Float("max", 100)
			f, ok := entity.ToFloat(value)
			if !ok {
				return max
			}
			return max - f
		},
		ToTargetExpression: func(inputExpr string, cfg Config) string {
			return fmt.Sprintf("(%s - (%s))", cppFloat(cfg.Float("max", 100)), inputExpr)
		},
	})

	r.Register(&Transform{
		Name:        "stringify",
		Description: "Convert any value to its string form",
		Apply: func(value any, _ Config) any {
			return entity.Stringify(value)
		},
		ToTargetExpression: func(inputExpr string, _ Config) string {
			return fmt.Sprintf("to_string(%s)", inputExpr)
		},
	})

	r.Register(&Transform{
		Name:        "celsius_to_fahrenheit",
		Description: "Convert °C to °F",
		Apply: func(value any, _ Config) any {
			f, ok := entity.ToFloat(value)
			if !ok {
				return value
			}
			return f*9/5 + 32
		},
		ToTargetExpression: func(inputExpr string, _ Config) string {
			return fmt.Sprintf("((%s) * 9.0 / 5.0 + 32.0)", inputExpr)
		},
	})

	r.Register(&Transform{
		Name:        "fahrenheit_to_celsius",
		Description: "Convert °F to °C",
		Apply: func(value any, _ Config) any {
			f, ok := entity.ToFloat(value)
			if !ok {
				return value
			}
			return (f - 32) * 5 / 9
		},
		ToTargetExpression: func(inputExpr string, _ Config) string {
			return fmt.Sprintf("(((%s) - 32.0) * 5.0 / 9.0)", inputExpr)
		},
	})

	r.Register(&Transform{
		Name:        "lambda",
		Description: "Custom expression with free variable x (compile-time only)",
		Apply: func(value any, _ Config) any {
			// Arbitrary expressions cannot be executed safely at preview
			// time; the value passes through and the expression only takes
			// effect in generated firmware.
			return value
		},
		ToTargetExpression: func(inputExpr string, cfg Config) string {
			body := cfg.String("lambda", "")
			if body == "" {
				return inputExpr
			}
			return wholeWordX.ReplaceAllString(body, "("+inputExpr+")")
		},
	})

	r.Register(&Transform{
		Name:        "state_to_color",
		Description: "Map a state string to a colour, case-insensitively",
		Apply: func(value any, cfg Config) any {
			return lookupFold(cfg.Map("colors"), value, cfg)
		},
		ToTargetExpression: func(string, Config) string {
			return MarkerStateToColor
		},
	})

	r.Register(&Transform{
		Name:        "state_to_icon",
		Description: "Map a state string to an icon, case-insensitively",
		Apply: func(value any, cfg Config) any {
			return lookupFold(cfg.Map("icons"), value, cfg)
		},
		ToTargetExpression: func(string, Config) string {
			return MarkerStateToIcon
		},
	})
}

// lookupFold performs a case-insensitive string-keyed lookup with the same
// miss semantics as the map transform.
func lookupFold(m map[string]any, value any, cfg Config) any {
	key := entity.Stringify(value)
	for _, k := range sortedKeys(m) {
		if strings.EqualFold(k, key) {
			return m[k]
		}
	}
	if cfg.Has("default") {
		return cfg["default"]
	}
	return value
}

// isTruthyState implements bool_to_text's input contract: boolean true and
// the strings "on"/"true" (case-insensitive) are true, everything else false.
func isTruthyState(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		lower := strings.ToLower(v)
		return lower == "on" || lower == "true"
	default:
		return false
	}
}

// roundTo rounds to a number of decimal places.
func roundTo(f float64, precision int) float64 {
	if precision <= 0 {
		return math.Round(f)
	}
	factor := math.Pow(10, float64(precision))
	return math.Round(f*factor) / factor
}

// cppFloat renders a float as a C++ literal with an explicit decimal point,
// so generated arithmetic stays in floating point.
func cppFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// cppString renders a Go string as a quoted C++ string literal.
func cppString(s string) string {
	return `"` + cppEscape(s) + `"`
}

// cppEscape escapes backslashes and double quotes for embedding in a C++
// string literal.
func cppEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// cppLiteral renders an arbitrary config value as a C++ literal.
func cppLiteral(v any) string {
	switch val := v.(type) {
	case string:
		return cppString(val)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return `""`
	default:
		if f, ok := entity.ToFloat(v); ok {
			return cppFloat(f)
		}
		return cppString(entity.Stringify(v))
	}
}
