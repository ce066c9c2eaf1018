// Package notifications implements desktop-notification permissioning and
// presentation hygiene. The platform capability set fixes the default
// answer (Android-style sets allow, desktop sets deny); per-origin
// overrides sit on top. Notification text is sanitized before it reaches
// the embedder shell.
package notifications

import (
	"html"
	"net/url"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/Harry110/crosswalk/internal/engine"
)

// Policy answers notification permission checks.
type Policy struct {
	mu        sync.RWMutex
	def       engine.NotificationPermission
	overrides map[string]engine.NotificationPermission // Protected by mu, keyed by origin host
}

// NewPolicy creates a policy with the given platform default.
func NewPolicy(def engine.NotificationPermission) *Policy {
	return &Policy{
		def:       def,
		overrides: make(map[string]engine.NotificationPermission),
	}
}

// CheckPermission answers a permission query for a source origin.
func (p *Policy) CheckPermission(source *url.URL, process engine.ProcessID) engine.NotificationPermission {
	if source == nil {
		return engine.PermissionDenied
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if perm, ok := p.overrides[strings.ToLower(source.Hostname())]; ok {
		return perm
	}
	return p.def
}

// SetOriginPermission overrides the default for one origin host.
func (p *Policy) SetOriginPermission(host string, perm engine.NotificationPermission) {
	p.mu.Lock()
	p.overrides[strings.ToLower(host)] = perm
	p.mu.Unlock()
}

// ClearOriginPermission removes an override.
func (p *Policy) ClearOriginPermission(host string) {
	p.mu.Lock()
	delete(p.overrides, strings.ToLower(host))
	p.mu.Unlock()
}

// Sanitizer strips markup from notification text before presentation.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer creates a strict sanitizer that allows no markup at all.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Clean returns the params with title and body reduced to plain text.
func (s *Sanitizer) Clean(params engine.NotificationParams) engine.NotificationParams {
	params.Title = s.cleanText(params.Title)
	params.Body = s.cleanText(params.Body)
	return params
}

func (s *Sanitizer) cleanText(in string) string {
	// bluemonday HTML-escapes what survives; unescape to plain text since
	// notifications render text, not markup.
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(in)))
}
