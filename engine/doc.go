// Package engine is the color engine behind colorman: an in-memory
// configuration of roles, color spaces, displays, views and looks, and the
// compiled CPUProcessor handles that move pixels between them.
//
// Every color space is defined relative to a scene-linear reference through
// lists of Ops (matrices, transfer functions, tone curves). A processor is the
// concatenation of the source's ToReference ops and the destination's
// FromReference ops; display processors additionally fold in exposure, looks
// and a display exponent. Compiled processors are cached per Config.
//
// Builtin returns a ready-to-use configuration; Fallback returns the minimal
// one used when a configuration provides no displays or views.
package engine
