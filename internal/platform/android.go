package platform

import (
	"github.com/Harry110/crosswalk/internal/bridge"
	"github.com/Harry110/crosswalk/internal/engine"
	"github.com/Harry110/crosswalk/internal/infrastructure/logging"
	"github.com/Harry110/crosswalk/internal/policy/cookies"
	"github.com/Harry110/crosswalk/internal/policy/notifications"
)

// androidPlatform is the capability set for embedded Android-style targets:
// the embedder shell owns user-facing decisions, so certificate errors and
// notifications go through the contents-client bridge, and cookie access is
// governed by a mutable access policy.
type androidPlatform struct {
	log           *logging.Logger
	cookiePolicy  *cookies.AccessPolicy
	notifications *notifications.Policy
	bridges       *bridge.Registry
}

func newAndroid(deps Deps) *androidPlatform {
	bridges := deps.Bridges
	if bridges == nil {
		bridges = bridge.NewRegistry()
	}
	return &androidPlatform{
		log:           deps.Log,
		cookiePolicy:  cookies.NewAccessPolicy(),
		notifications: notifications.NewPolicy(engine.PermissionAllowed),
		bridges:       bridges,
	}
}

func (p *androidPlatform) Name() string { return "android" }

func (p *androidPlatform) CreateMainParts(params engine.MainParams) engine.MainParts {
	return newMainParts(p.Name(), params, p.log)
}

func (p *androidPlatform) CookiePolicy() cookies.Policy { return p.cookiePolicy }

func (p *androidPlatform) NotificationPolicy() *notifications.Policy { return p.notifications }

func (p *androidPlatform) Bridges() *bridge.Registry { return p.bridges }

func (p *androidPlatform) ExternalOpener() Opener { return nil }

func (p *androidPlatform) IsolatesApplications() bool { return false }

// AccessPolicy exposes the concrete cookie policy for runtime mutation via
// the inspection API.
func (p *androidPlatform) AccessPolicy() *cookies.AccessPolicy { return p.cookiePolicy }
