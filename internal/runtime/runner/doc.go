// Package runner assembles and drives the runtime: platform selection,
// service construction, engine binding, and the main-parts lifecycle.
package runner
