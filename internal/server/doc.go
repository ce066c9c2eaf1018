// Package server exposes the inspection HTTP API: application management,
// storage partition listing, the policy decision log, frame bridge
// administration, and Prometheus metrics. The server is an operator
// surface; the engine never calls into it.
package server
