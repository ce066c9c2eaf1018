package bridge

import (
	"sync"

	"github.com/Harry110/crosswalk/internal/engine"
)

// Registry maps render frames to their contents-client bridge.
type Registry struct {
	mu      sync.RWMutex
	byFrame map[engine.GlobalFrameID]*Client // Protected by mu
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byFrame: make(map[engine.GlobalFrameID]*Client)}
}

// Attach binds a bridge to a frame, replacing any previous binding.
func (r *Registry) Attach(id engine.GlobalFrameID, c *Client) {
	r.mu.Lock()
	r.byFrame[id] = c
	r.mu.Unlock()
}

// Detach removes a frame's binding.
func (r *Registry) Detach(id engine.GlobalFrameID) {
	r.mu.Lock()
	delete(r.byFrame, id)
	r.mu.Unlock()
}

// FromRenderFrameID returns the bridge bound to a frame.
func (r *Registry) FromRenderFrameID(process engine.ProcessID, frame engine.FrameID) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byFrame[engine.GlobalFrameID{Process: process, Frame: frame}]
	return c, ok
}
