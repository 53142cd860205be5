// Package adapter normalises the wildly different entity shapes of Home
// Assistant domains into one capability/parameter/binding surface.
//
// Each Adapter handles one primary domain (plus optional aliases) and knows
// how to:
//
//   - extract a capability set from a raw entity snapshot,
//   - derive the control parameters a widget bound to that entity exposes,
//   - supply default read/write bindings, feature-gated on capabilities,
//   - summarise live state as text/icon/colour for the canvas preview,
//   - list its service catalogue for editor dropdowns.
//
// The Registry resolves an entity to its adapter by exact domain lookup,
// then a linear probe of Handles(), then the catch-all generic adapter. All
// extraction is pure: adapters never mutate the snapshot, never perform I/O
// and never fail; missing attributes fall back to documented defaults.
//
// # Usage
//
//	reg := adapter.NewRegistry()
//	a := reg.ForEntity(state)
//	caps := a.ExtractCapabilities(state)
//	reads := a.DefaultReadBindings(caps)
package adapter
