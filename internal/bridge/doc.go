// Package bridge connects the runtime to the embedder shell's contents
// client: the UI-side object that prompts the user about certificate errors,
// presents notifications, and opens URLs externally.
//
// The shell is a separate process exposing a small HTTP API on localhost.
// The Client wraps resty over retryablehttp with a
// circuit breaker and a rate limiter so a wedged shell degrades policy
// answers to their deny defaults instead of stalling the engine.
//
// A Registry associates bridges with render frames, mirroring the engine's
// frame-scoped lookup (FromRenderFrameID).
package bridge
