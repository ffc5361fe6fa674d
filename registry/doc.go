// Package registry holds the color spaces, displays, views and looks of a
// loaded color configuration.
//
// Every entity has a stable 1-based index. Index 0 and the empty string are
// the "not found" results of the index and name lookups; unknown names are
// never an error. Color spaces are kept sorted by name, case-insensitively,
// and their indices follow that order. Displays, views and looks are indexed
// in load order. Views are shared: a view name used by several displays is
// registered once.
//
// Each color space and display lazily creates its conversion processors on
// first use. Creation is guarded by one mutex per Registry; the returned
// processors are immutable and may be used concurrently.
package registry
