// Package binding defines the read/write binding model that connects Home
// Assistant entities to dashboard widgets, and the runtime that resolves
// bindings against a live entity snapshot.
//
// A ReadBinding maps an entity's state (or one attribute) onto a widget
// property, through a named value transform and an availability policy. A
// WriteBinding maps a widget event onto a Home Assistant service call, with
// optional debouncing and static/dynamic payload fields.
//
// The Resolver is a pure computation over (snapshot, bindings, parameter
// values): evaluating the same binding twice against an unchanged snapshot
// returns identical results. Missing entities and unavailable states are not
// errors; they degrade to the policy-controlled placeholder/hidden results
// so one broken binding cannot take down a whole layout.
package binding
