// Package cookies implements the cookie access policy consulted by the
// browser client. Platforms without a policy object permit all cookie
// access; the Android-style AccessPolicy adds a global accept switch,
// per-origin blocks, and optional third-party restrictions.
package cookies

import (
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/Harry110/crosswalk/internal/engine"
)

// Policy decides cookie access for documents.
type Policy interface {
	AllowGetCookie(u, firstParty *url.URL, cookies []engine.Cookie, process engine.ProcessID, frame engine.FrameID) bool
	AllowSetCookie(u, firstParty *url.URL, cookieLine string, process engine.ProcessID, frame engine.FrameID, opts *engine.CookieOptions) bool
}

// AccessPolicy is a mutable cookie access policy. Cookies are accepted by
// default; the embedder can flip the global switch, block individual
// origins, or restrict third-party access.
type AccessPolicy struct {
	mu              sync.RWMutex
	acceptCookies   bool                // Protected by mu
	allowThirdParty bool                // Protected by mu
	blockedOrigins  map[string]struct{} // Protected by mu
}

// NewAccessPolicy creates a policy accepting all cookies.
func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{
		acceptCookies:   true,
		allowThirdParty: true,
		blockedOrigins:  make(map[string]struct{}),
	}
}

// SetAcceptCookies flips the global accept switch.
func (p *AccessPolicy) SetAcceptCookies(accept bool) {
	p.mu.Lock()
	p.acceptCookies = accept
	p.mu.Unlock()
}

// AcceptCookies reports the global accept switch.
func (p *AccessPolicy) AcceptCookies() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.acceptCookies
}

// SetAllowThirdParty controls whether cross-site cookie access is permitted.
func (p *AccessPolicy) SetAllowThirdParty(allow bool) {
	p.mu.Lock()
	p.allowThirdParty = allow
	p.mu.Unlock()
}

// AllowThirdParty reports whether cross-site cookie access is permitted.
func (p *AccessPolicy) AllowThirdParty() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.allowThirdParty
}

// BlockedOrigins returns a sorted copy of the blocked origin hosts.
func (p *AccessPolicy) BlockedOrigins() []string {
	p.mu.RLock()
	out := make([]string, 0, len(p.blockedOrigins))
	for host := range p.blockedOrigins {
		out = append(out, host)
	}
	p.mu.RUnlock()
	sort.Strings(out)
	return out
}

// BlockOrigin denies all cookie access for an origin host.
func (p *AccessPolicy) BlockOrigin(host string) {
	p.mu.Lock()
	p.blockedOrigins[strings.ToLower(host)] = struct{}{}
	p.mu.Unlock()
}

// UnblockOrigin lifts a block.
func (p *AccessPolicy) UnblockOrigin(host string) {
	p.mu.Lock()
	delete(p.blockedOrigins, strings.ToLower(host))
	p.mu.Unlock()
}

// AllowGetCookie decides whether a document may read its cookies.
func (p *AccessPolicy) AllowGetCookie(u, firstParty *url.URL, cookies []engine.Cookie, process engine.ProcessID, frame engine.FrameID) bool {
	return p.allow(u, firstParty)
}

// AllowSetCookie decides whether a document may write a cookie. When
// third-party access is restricted the options are tightened to
// first-party-only before the write is permitted.
func (p *AccessPolicy) AllowSetCookie(u, firstParty *url.URL, cookieLine string, process engine.ProcessID, frame engine.FrameID, opts *engine.CookieOptions) bool {
	if !p.allow(u, firstParty) {
		return false
	}

	p.mu.RLock()
	restrictThirdParty := !p.allowThirdParty
	p.mu.RUnlock()

	if restrictThirdParty && opts != nil {
		opts.FirstPartyOnly = true
	}
	return true
}

func (p *AccessPolicy) allow(u, firstParty *url.URL) bool {
	if u == nil {
		return false
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.acceptCookies {
		return false
	}
	if _, blocked := p.blockedOrigins[strings.ToLower(u.Hostname())]; blocked {
		return false
	}
	if !p.allowThirdParty && firstParty != nil && !sameSite(u, firstParty) {
		return false
	}
	return true
}

// sameSite is a registrable-domain-free approximation: hosts match when one
// is a dot-suffix of the other.
func sameSite(a, b *url.URL) bool {
	ha, hb := strings.ToLower(a.Hostname()), strings.ToLower(b.Hostname())
	if ha == hb {
		return true
	}
	return strings.HasSuffix(ha, "."+hb) || strings.HasSuffix(hb, "."+ha)
}
