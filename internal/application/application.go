package application

import (
	"net/url"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Harry110/crosswalk/internal/engine"
)

// Application is a running instance of an installed application, bound to
// the render process hosting its pages.
type Application struct {
	InstanceID      string           `json:"instance_id"`
	AppID           string           `json:"app_id"`
	Manifest        Manifest         `json:"manifest"`
	Root            string           `json:"root"`
	RenderProcessID engine.ProcessID `json:"render_process_id"`
	LaunchedAt      time.Time        `json:"launched_at"`
}

// CanRequestURL reports whether the application's URL allow-policy admits
// the target. Same-application URLs are always allowed; everything else must
// match one of the manifest's allowed_urls patterns.
func (a *Application) CanRequestURL(u *url.URL) bool {
	if u == nil {
		return false
	}
	if u.Scheme == Scheme && u.Host == a.AppID {
		return true
	}

	target := u.String()
	for _, pattern := range a.Manifest.AllowedURLs {
		if pattern == "*" {
			return true
		}
		if ok, err := doublestar.Match(pattern, target); err == nil && ok {
			return true
		}
		// A bare origin pattern admits every path under it.
		if !strings.HasSuffix(pattern, "/**") {
			if ok, err := doublestar.Match(pattern+"/**", target); err == nil && ok {
				return true
			}
		}
	}
	return false
}
