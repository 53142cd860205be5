// Package project holds the persisted dashboard document model: projects,
// pages, widgets and control instances, plus the SQLite repository that
// stores them.
//
// A Project is the unit of persistence. Pages own Widgets (free-standing
// or produced by control expansion) and ControlInstances (references to a
// control definition plus bound parameter values). Documents carry a
// schema version; loading a document from a future version, or one older
// than the minimum this build can migrate, is a hard error rather than a
// silent upgrade.
//
// The model is plain data. Binding evaluation, compilation and control
// expansion live in their own packages and treat these types as inputs.
package project
