// Package curvemap implements RGB curve mappings used as a pre-display
// grading step: a combined curve plus one curve per color channel, with
// black and white point levels.
//
// A CurveMapping is edited in place and carries a version counter. Callers
// that cache results derived from a mapping record the pointer and the
// Version; Changed must be called after every edit so cached results are
// recognized as stale.
//
// Before it is applied to pixels a mapping is copied and premultiplied: the
// combined curve is folded into the channel curves so one lookup per channel
// evaluates both.
package curvemap
