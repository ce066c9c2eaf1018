package platform

import (
	"github.com/Harry110/crosswalk/internal/bridge"
	"github.com/Harry110/crosswalk/internal/engine"
	"github.com/Harry110/crosswalk/internal/infrastructure/logging"
	"github.com/Harry110/crosswalk/internal/policy/cookies"
	"github.com/Harry110/crosswalk/internal/policy/notifications"
)

// tizenPlatform behaves like desktop but can hand denied window-open
// targets to the system browser through an external opener.
type tizenPlatform struct {
	log           *logging.Logger
	notifications *notifications.Policy
	opener        Opener
}

func newTizen(deps Deps) *tizenPlatform {
	return &tizenPlatform{
		log:           deps.Log,
		notifications: notifications.NewPolicy(engine.PermissionDenied),
		opener:        deps.Opener,
	}
}

func (p *tizenPlatform) Name() string { return "tizen" }

func (p *tizenPlatform) CreateMainParts(params engine.MainParams) engine.MainParts {
	return newMainParts(p.Name(), params, p.log)
}

func (p *tizenPlatform) CookiePolicy() cookies.Policy { return nil }

func (p *tizenPlatform) NotificationPolicy() *notifications.Policy { return p.notifications }

func (p *tizenPlatform) Bridges() *bridge.Registry { return nil }

func (p *tizenPlatform) ExternalOpener() Opener { return p.opener }

func (p *tizenPlatform) IsolatesApplications() bool { return true }
