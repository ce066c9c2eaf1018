package cookies

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Harry110/crosswalk/internal/engine"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return u
}

func TestAcceptsByDefault(t *testing.T) {
	p := NewAccessPolicy()
	u := mustParse(t, "https://example.com/page")

	assert.True(t, p.AllowGetCookie(u, u, nil, 1, 1))
	assert.True(t, p.AllowSetCookie(u, u, "a=1", 1, 1, &engine.CookieOptions{}))
}

func TestGlobalSwitch(t *testing.T) {
	p := NewAccessPolicy()
	u := mustParse(t, "https://example.com/")

	p.SetAcceptCookies(false)
	assert.False(t, p.AllowGetCookie(u, u, nil, 1, 1))
	assert.False(t, p.AllowSetCookie(u, u, "a=1", 1, 1, nil))
	assert.False(t, p.AcceptCookies())

	p.SetAcceptCookies(true)
	assert.True(t, p.AllowGetCookie(u, u, nil, 1, 1))
}

func TestBlockedOrigin(t *testing.T) {
	p := NewAccessPolicy()
	tracker := mustParse(t, "https://Tracker.example.net/pixel")
	site := mustParse(t, "https://news.example.com/")

	p.BlockOrigin("tracker.example.net")
	assert.False(t, p.AllowGetCookie(tracker, site, nil, 1, 1))
	assert.True(t, p.AllowGetCookie(site, site, nil, 1, 1))

	p.UnblockOrigin("tracker.example.net")
	assert.True(t, p.AllowGetCookie(tracker, site, nil, 1, 1))
}

func TestThirdPartyRestriction(t *testing.T) {
	p := NewAccessPolicy()
	p.SetAllowThirdParty(false)

	site := mustParse(t, "https://shop.example.com/cart")
	sub := mustParse(t, "https://cdn.shop.example.com/asset")
	other := mustParse(t, "https://ads.example.net/track")

	assert.True(t, p.AllowGetCookie(sub, site, nil, 1, 1))
	assert.False(t, p.AllowGetCookie(other, site, nil, 1, 1))

	// First-party writes are tightened, not rejected.
	opts := &engine.CookieOptions{}
	assert.True(t, p.AllowSetCookie(site, site, "a=1", 1, 1, opts))
	assert.True(t, opts.FirstPartyOnly)
}
