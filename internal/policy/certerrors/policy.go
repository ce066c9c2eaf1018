// Package certerrors holds the certificate-error decision flow. The browser
// client answers the engine synchronously, either keeping the request alive
// or cancelling it, while the final allow/deny verdict may arrive later
// through the callback the engine supplied. A Handler (usually the contents-client
// bridge) owns that asynchronous continuation; the Policy caches verdicts so
// a host's accepted certificate is not prompted for twice.
package certerrors

import (
	"sync"

	"github.com/Harry110/crosswalk/internal/engine"
)

// Handler answers a certificate error. It must set the returned cancel flag
// synchronously; when cancel is false the callback carries the verdict later.
type Handler interface {
	AllowCertificateError(req *engine.CertificateErrorRequest, callback func(allow bool)) (cancel bool)
}

// Policy caches user verdicts on overridable certificate errors, keyed by
// host and certificate fingerprint.
type Policy struct {
	mu      sync.RWMutex
	allowed map[decisionKey]struct{} // Protected by mu
}

type decisionKey struct {
	host        string
	fingerprint string
}

// NewPolicy creates an empty decision cache.
func NewPolicy() *Policy {
	return &Policy{allowed: make(map[decisionKey]struct{})}
}

// Remember records that the user accepted the certificate for the host.
func (p *Policy) Remember(host, fingerprint string) {
	p.mu.Lock()
	p.allowed[decisionKey{host, fingerprint}] = struct{}{}
	p.mu.Unlock()
}

// Forget drops a remembered verdict.
func (p *Policy) Forget(host, fingerprint string) {
	p.mu.Lock()
	delete(p.allowed, decisionKey{host, fingerprint})
	p.mu.Unlock()
}

// Allowed reports whether the certificate was previously accepted for the
// host. Non-overridable and strictly enforced errors are never allowed from
// cache.
func (p *Policy) Allowed(req *engine.CertificateErrorRequest) bool {
	if req == nil || req.RequestURL == nil {
		return false
	}
	if !req.Overridable || req.StrictEnforcement {
		return false
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	_, ok := p.allowed[decisionKey{req.RequestURL.Hostname(), req.SSL.Fingerprint}]
	return ok
}
