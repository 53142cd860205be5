// Package preview pushes live binding results to connected editors.
//
// The engine watches the statestream store; whenever an entity changes it
// re-evaluates the read bindings of every widget bound to that entity and
// publishes the resulting property values. The editor canvas applies those
// values to its widgets, so the designer shows real entity state while a
// layout is being built.
//
// Evaluation here is the runtime counterpart of snippet compilation: the
// same bindings that compile into ESPHome lambdas are resolved in-process
// against live state. Both paths share the transform registry, so what the
// preview shows is what the display will render.
package preview
