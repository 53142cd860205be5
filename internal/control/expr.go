package control

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/esphome-dash/designer-core/internal/entity"
)

// Template placeholder syntax: {{ expr }} where expr is a parameter name,
// a `cond ? a : b` ternary or a `param || fallback` chain.
var placeholderRe = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

// node is one parsed expression. Evaluation never fails; unknown
// parameters resolve to nil and flow through the usual truthiness rules.
type node interface {
	eval(params map[string]any) any
}

type literalNode struct{ value any }

func (n literalNode) eval(map[string]any) any { return n.value }

type paramNode struct{ name string }

func (n paramNode) eval(params map[string]any) any { return params[n.name] }

type ternaryNode struct{ cond, then, els node }

func (n ternaryNode) eval(params map[string]any) any {
	if entity.Truthy(n.cond.eval(params)) {
		return n.then.eval(params)
	}
	return n.els.eval(params)
}

type fallbackNode struct{ primary, fallback node }

func (n fallbackNode) eval(params map[string]any) any {
	if v := n.primary.eval(params); entity.Truthy(v) {
		return v
	}
	return n.fallback.eval(params)
}

// exprCache holds parsed expressions keyed by their source text, so each
// template string is parsed once regardless of how often it renders.
var exprCache sync.Map

func parseExpr(src string) node {
	if cached, ok := exprCache.Load(src); ok {
		return cached.(node)
	}
	n := parseTernary(strings.TrimSpace(src))
	exprCache.Store(src, n)
	return n
}

// parseTernary splits on the first top-level '?' and its matching ':'.
// Both branches are full template values, so ternaries nest to the right.
func parseTernary(src string) node {
	q := indexOutsideQuotes(src, '?')
	if q < 0 {
		return parseFallback(src)
	}
	rest := src[q+1:]
	c := indexOutsideQuotes(rest, ':')
	if c < 0 {
		// Malformed ternary; treat the whole thing as a lookup so a typo
		// degrades instead of exploding.
		return parseOperand(src)
	}
	return ternaryNode{
		cond: parseFallback(strings.TrimSpace(src[:q])),
		then: parseTernary(strings.TrimSpace(rest[:c])),
		els:  parseTernary(strings.TrimSpace(rest[c+1:])),
	}
}

func parseFallback(src string) node {
	if i := strings.Index(src, "||"); i >= 0 && indexOutsideQuotes(src, '|') == i {
		return fallbackNode{
			primary:  parseOperand(strings.TrimSpace(src[:i])),
			fallback: parseTernary(strings.TrimSpace(src[i+2:])),
		}
	}
	return parseOperand(src)
}

// parseOperand handles the leaves: quoted strings, numbers, booleans and
// parameter references.
func parseOperand(src string) node {
	src = strings.TrimSpace(src)
	if len(src) >= 2 {
		if (src[0] == '\'' && src[len(src)-1] == '\'') ||
			(src[0] == '"' && src[len(src)-1] == '"') {
			return literalNode{value: src[1 : len(src)-1]}
		}
	}
	switch src {
	case "true":
		return literalNode{value: true}
	case "false":
		return literalNode{value: false}
	case "":
		return literalNode{value: nil}
	}
	if f, err := strconv.ParseFloat(src, 64); err == nil {
		return literalNode{value: f}
	}
	return paramNode{name: src}
}

// indexOutsideQuotes returns the first index of c not inside a single- or
// double-quoted run, -1 when absent.
func indexOutsideQuotes(s string, c byte) int {
	var quote byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
		case ch == c:
			return i
		}
	}
	return -1
}

// resolveTemplateValue resolves one template value against bound
// parameters. A string that is exactly one placeholder returns the raw
// typed result; strings with surrounding text interpolate each placeholder
// via Stringify; everything else passes through unchanged.
func resolveTemplateValue(v any, params map[string]any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}

	if m := placeholderRe.FindStringSubmatch(s); m != nil && m[0] == s {
		return parseExpr(m[1]).eval(params)
	}

	if !strings.Contains(s, "{{") {
		return s
	}
	return placeholderRe.ReplaceAllStringFunc(s, func(match string) string {
		inner := placeholderRe.FindStringSubmatch(match)[1]
		return entity.Stringify(parseExpr(inner).eval(params))
	})
}

// resolveProps deep-resolves a template property map.
func resolveProps(props map[string]any, params map[string]any) map[string]any {
	if props == nil {
		return nil
	}
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = resolveAny(v, params)
	}
	return out
}

func resolveAny(v any, params map[string]any) any {
	switch val := v.(type) {
	case string:
		return resolveTemplateValue(val, params)
	case map[string]any:
		return resolveProps(val, params)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = resolveAny(item, params)
		}
		return out
	default:
		return v
	}
}

// evalCondition reports whether a template widget survives its condition.
// An empty condition always passes.
func evalCondition(condition string, params map[string]any) bool {
	if condition == "" {
		return true
	}
	return entity.Truthy(resolveTemplateValue("{{"+condition+"}}", params))
}
