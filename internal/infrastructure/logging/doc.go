// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: colored console output for humans
//
// Example Usage:
//
//	log := logging.NewDefault()
//	log.Info("runtime starting", zap.String("platform", "desktop"))
//	log.Error("bridge unreachable", zap.Error(err))
package logging
