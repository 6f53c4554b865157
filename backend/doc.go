// Package backend selects the graphics system an XR session renders with.
//
// Graphics systems register a factory under a name from an init function.
// Importing a backend package is enough to make it available:
//
//	import _ "github.com/gogpu/xr/backend/software"
//
// # Backend Selection
//
// Use Default to get the best available system, or Get to request one by
// name:
//
//	name, gs, err := backend.Default()
//
//	gs, err := backend.Get(backend.NameSoftware)
//
// The result is passed to xr.Setup as its GraphicsSystem.
package backend
