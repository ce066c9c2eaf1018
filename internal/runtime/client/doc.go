// Package client implements the browser client delegate bound to the engine
// contract. It is a thin dispatcher: the platform capability set, the
// application service, and the browsing context own the actual policy and
// state, and the delegate routes each engine callback to them and records
// the outcome.
package client
