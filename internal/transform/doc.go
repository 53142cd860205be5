// Package transform provides the registry of named value transforms used by
// read bindings.
//
// Every transform is a pure function with two total forms:
//
//   - Apply evaluates the transform immediately against a live value. The
//     editor uses this for on-canvas preview.
//   - ToTargetExpression compiles the transform into an ESPHome lambda
//     expression fragment wrapping an input expression. The declaration
//     compiler uses this at export time.
//
// Unknown transform names never fail: Apply passes the value through and
// logs a warning, ToTargetExpression returns the input expression unchanged.
// A single misconfigured binding must not abort evaluating the rest of a
// layout.
//
// # Usage
//
//	reg := transform.NewRegistry()
//	reg.SetLogger(log)
//
//	pct := reg.Apply("percent", 128.0, transform.Config{"max": 255.0})
//	expr := reg.ToTargetExpression("percent", "id(br).state", transform.Config{"max": 255.0})
package transform
