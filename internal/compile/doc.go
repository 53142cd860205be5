// Package compile turns a layout's resolved bindings into the pieces of an
// ESPHome configuration snippet: deduplicated Home Assistant sensor
// declarations, per-binding display lambdas, per-entity widget refresh
// sets, and per-event action lists for write bindings.
//
// A Compiler is a per-run value. Construct one, feed it every widget of
// the document in page order, then read the Output. Nothing is shared
// between runs; concurrent exports each get their own Compiler.
//
// Declarations are deduplicated by derived safe id: the first widget that
// references an entity wins the declaration's position in the output, and
// later references add only refresh associations. Classification into the
// sensor, text_sensor and binary_sensor sections is by entity domain.
package compile
