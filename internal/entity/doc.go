// Package entity defines the Home Assistant entity state model consumed by
// the designer core.
//
// A State is a point-in-time view of one entity: its id, its string state
// token, and its attribute map. A Snapshot is a read-only lookup of many
// states keyed by entity id. The core never fetches state itself; snapshots
// are materialised externally (see internal/statestream) and handed in per
// evaluation.
//
// The package also carries the value-coercion helpers shared by transforms
// and domain adapters. Home Assistant state payloads arrive as strings or
// JSON-decoded values, so numeric and boolean coercion is deliberately
// permissive.
package entity
