package engine

import (
	"errors"
	"sync"
)

var (
	// ErrClientBound is returned when a second client is bound.
	ErrClientBound = errors.New("engine: a browser client is already bound")
	// ErrNoClient is returned when unbinding with no client bound.
	ErrNoClient = errors.New("engine: no browser client bound")
	// ErrWrongClient is returned when unbinding a client that is not the
	// bound one.
	ErrWrongClient = errors.New("engine: client is not the bound client")
)

// Engine holds the one browser client the host engine dispatches to. It
// replaces the process-global registration the embedding contract
// historically relied on with explicit ownership: whoever constructs the
// engine decides who gets to answer its callbacks.
type Engine struct {
	mu     sync.RWMutex
	client BrowserClient
}

// New creates an engine with no client bound.
func New() *Engine {
	return &Engine{}
}

// Bind registers the client. At most one client may be bound at a time.
func (e *Engine) Bind(client BrowserClient) error {
	if client == nil {
		return errors.New("engine: nil client")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client != nil {
		return ErrClientBound
	}
	e.client = client
	return nil
}

// Unbind clears the bound client. The caller must pass the client it bound.
func (e *Engine) Unbind(client BrowserClient) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client == nil {
		return ErrNoClient
	}
	if e.client != client {
		return ErrWrongClient
	}
	e.client = nil
	return nil
}

// Client returns the bound client, or nil when none is bound.
func (e *Engine) Client() BrowserClient {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.client
}
