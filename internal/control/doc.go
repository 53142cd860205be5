// Package control implements the control layer of the designer: reusable
// control definitions (a parameter schema plus a widget template), placed
// instances, and the factory that expands an instance into concrete
// widgets.
//
// Expansion resolves `{{param}}` placeholders in template values against
// the instance's bound parameters. A value that is exactly one placeholder
// resolves to the raw typed parameter value; anything else interpolates
// textually. Placeholder expressions support direct parameter lookup,
// `cond ? a : b` ternaries and `param || fallback`; they are parsed once
// per template string into a small AST, not re-scanned per render.
//
// Built-in definitions are registered in code and immutable. User-defined
// controls live in a SQLite-backed Registry with an in-memory cache,
// loaded at startup.
package control
