// Package ws streams policy decisions to WebSocket subscribers.
//
// Each connection receives the JSON-encoded decision log as it happens:
// cookie access, certificate errors, window opens, and notification
// permission checks. Slow consumers are disconnected rather than allowed
// to back up the policy path.
package ws
