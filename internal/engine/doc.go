// Package engine defines the embedding contract between the host content
// engine and the runtime's browser client.
//
// The host engine owns the heavy machinery (process model, rendering,
// networking). The runtime participates by binding a single BrowserClient,
// which the engine then calls back into at fixed extension points: request
// context creation, cookie access checks, certificate error handling, window
// creation policy, storage partition configuration, and notifications.
//
// This package contains:
//   - BrowserClient: the callback surface the runtime implements
//   - Engine: explicit ownership of the one bound client
//   - The value types exchanged at the extension points
//
// All callbacks execute synchronously on the goroutine that invokes them;
// the engine's own threading contract applies, not the client's.
package engine
