// Package export assembles the ESPHome YAML snippet for a layout and
// parses pasted snippets back into layouts.
//
// The generated snippet is additive: the user pastes it below an existing
// base ESPHome config. It contains the deduplicated homeassistant sensor
// sections produced by the compiler, script blocks for widget events, and
// designer marker comments that carry the layout itself. Import reads the
// markers back, so a generate/import round trip reproduces the layout
// without parsing display lambdas.
package export
