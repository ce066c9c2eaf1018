package platform

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Harry110/crosswalk/internal/bridge"
	"github.com/Harry110/crosswalk/internal/engine"
	"github.com/Harry110/crosswalk/internal/infrastructure/logging"
	"github.com/Harry110/crosswalk/internal/policy/cookies"
	"github.com/Harry110/crosswalk/internal/policy/notifications"
)

// Opener opens a URL outside the runtime.
type Opener interface {
	OpenExternal(ctx context.Context, u *url.URL) error
}

// Platform is one capability set. Accessors returning nil mean the
// capability is absent and the browser client applies its permissive (or
// deny, for certificate errors without a bridge) default.
type Platform interface {
	Name() string

	// CreateMainParts returns the platform's startup/shutdown coordinator.
	CreateMainParts(params engine.MainParams) engine.MainParts

	// CookiePolicy returns the cookie access policy, or nil when cookie
	// access is unconditionally permitted.
	CookiePolicy() cookies.Policy

	// NotificationPolicy returns the notification permission policy.
	NotificationPolicy() *notifications.Policy

	// Bridges returns the per-frame contents-client bridge registry, or nil
	// when the platform answers certificate errors without an embedder.
	Bridges() *bridge.Registry

	// ExternalOpener returns the opener used as the window-open denial
	// fallback, or nil when the platform has none.
	ExternalOpener() Opener

	// IsolatesApplications reports whether application-scheme sites get
	// their own storage partition. The embedder shell owns isolation on
	// platforms where this is false.
	IsolatesApplications() bool
}

// Deps carries the shared collaborators a capability set may capture.
type Deps struct {
	Log     *logging.Logger
	Bridges *bridge.Registry
	Opener  Opener
}

// New selects a capability set by name. Unknown names are an error: the
// platform is fixed at startup, silently defaulting would mask a
// misconfigured deployment.
func New(name string, deps Deps) (Platform, error) {
	if deps.Log == nil {
		deps.Log = logging.NewNop()
	}

	switch name {
	case "android":
		return newAndroid(deps), nil
	case "desktop":
		return newDesktop(deps), nil
	case "tizen":
		return newTizen(deps), nil
	default:
		return nil, fmt.Errorf("unknown platform %q (want android, desktop, or tizen)", name)
	}
}
