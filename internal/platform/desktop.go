package platform

import (
	"github.com/Harry110/crosswalk/internal/bridge"
	"github.com/Harry110/crosswalk/internal/engine"
	"github.com/Harry110/crosswalk/internal/infrastructure/logging"
	"github.com/Harry110/crosswalk/internal/policy/cookies"
	"github.com/Harry110/crosswalk/internal/policy/notifications"
)

// desktopPlatform is the capability set for desktop targets: no cookie
// policy (all access permitted), no contents-client bridge (certificate
// errors implicitly permitted), notifications denied.
type desktopPlatform struct {
	log           *logging.Logger
	notifications *notifications.Policy
}

func newDesktop(deps Deps) *desktopPlatform {
	return &desktopPlatform{
		log:           deps.Log,
		notifications: notifications.NewPolicy(engine.PermissionDenied),
	}
}

func (p *desktopPlatform) Name() string { return "desktop" }

func (p *desktopPlatform) CreateMainParts(params engine.MainParams) engine.MainParts {
	return newMainParts(p.Name(), params, p.log)
}

func (p *desktopPlatform) CookiePolicy() cookies.Policy { return nil }

func (p *desktopPlatform) NotificationPolicy() *notifications.Policy { return p.notifications }

func (p *desktopPlatform) Bridges() *bridge.Registry { return nil }

func (p *desktopPlatform) ExternalOpener() Opener { return nil }

func (p *desktopPlatform) IsolatesApplications() bool { return true }
