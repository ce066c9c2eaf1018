package client

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Harry110/crosswalk/internal/application"
	"github.com/Harry110/crosswalk/internal/browsing"
	"github.com/Harry110/crosswalk/internal/engine"
	"github.com/Harry110/crosswalk/internal/events"
	"github.com/Harry110/crosswalk/internal/infrastructure/logging"
	"github.com/Harry110/crosswalk/internal/infrastructure/monitoring"
	"github.com/Harry110/crosswalk/internal/platform"
	"github.com/Harry110/crosswalk/internal/policy/notifications"
)

// Switches forwarded from the browser process command line onto child
// processes.
var forwardedSwitches = []string{
	"data-path",
	"disable-pinch",
	"allow-external-extensions-for-remote-sources",
}

// openExternalTimeout bounds the background hand-off of a denied window
// target to the external opener.
const openExternalTimeout = 5 * time.Second

var _ engine.BrowserClient = (*Client)(nil)

// Client answers the host engine's extension points. Policy questions are
// routed to the platform capability set, the application service, and the
// browsing context; every decision is recorded for inspection.
type Client struct {
	platform  platform.Platform
	apps      *application.Service
	browsing  *browsing.Context
	sanitizer *notifications.Sanitizer
	events    *events.Recorder
	metrics   *monitoring.Metrics
	log       *logging.Logger

	mu     sync.Mutex
	parts  engine.MainParts // Protected by mu
	params engine.MainParams
}

// New creates a browser client backed by the given collaborators.
func New(p platform.Platform, apps *application.Service, browser *browsing.Context, log *logging.Logger) *Client {
	if log == nil {
		log = logging.NewNop()
	}
	return &Client{
		platform:  p,
		apps:      apps,
		browsing:  browser,
		sanitizer: notifications.NewSanitizer(),
		log:       log.Named("client"),
	}
}

// WithEvents adds a decision recorder.
func (c *Client) WithEvents(r *events.Recorder) *Client {
	c.events = r
	return c
}

// WithMetrics adds metrics tracking.
func (c *Client) WithMetrics(m *monitoring.Metrics) *Client {
	c.metrics = m
	return c
}

// CreateMainParts returns the platform's startup coordinator. The engine
// contract is one call per process; repeat calls return the same parts.
func (c *Client) CreateMainParts(params engine.MainParams) engine.MainParts {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.parts != nil {
		c.log.Warn("main parts requested more than once")
		return c.parts
	}
	c.params = params
	c.parts = c.platform.CreateMainParts(params)
	return c.parts
}

// CreateRequestContext returns the default partition's request context.
func (c *Client) CreateRequestContext(handlers engine.ProtocolHandlerMap) engine.RequestContext {
	return c.browsing.CreateRequestContext(handlers)
}

// CreateRequestContextForStoragePartition returns the request context for a
// non-default partition.
func (c *Client) CreateRequestContextForStoragePartition(partitionPath string, inMemory bool, handlers engine.ProtocolHandlerMap) engine.RequestContext {
	return c.browsing.CreateRequestContextForStoragePartition(partitionPath, inMemory, handlers)
}

// AppendExtraCommandLineSwitches copies the forwarded switches from the
// browser process command line onto a child process.
func (c *Client) AppendExtraCommandLineSwitches(cmd *engine.CommandLine, childID engine.ProcessID) {
	c.mu.Lock()
	browser := c.params.CommandLine
	c.mu.Unlock()

	if browser == nil || cmd == nil {
		return
	}
	for _, name := range forwardedSwitches {
		if !browser.HasSwitch(name) {
			continue
		}
		if v := browser.SwitchValue(name); v != "" {
			cmd.AppendSwitchValue(name, v)
		} else {
			cmd.AppendSwitch(name)
		}
	}
	c.log.Debug("forwarded command line switches",
		zap.Int("child_id", int(childID)),
		zap.Strings("switches", cmd.Switches()))
}

// RenderProcessWillLaunch notifies the application service so it can track
// which render process hosts which application.
func (c *Client) RenderProcessWillLaunch(host *engine.RenderProcessHost) {
	c.apps.OnRenderProcessWillLaunch(host)
}

// AllowGetCookie defers to the platform cookie policy. Platforms without one
// permit all cookie reads.
func (c *Client) AllowGetCookie(u, firstParty *url.URL, cookies []engine.Cookie, process engine.ProcessID, frame engine.FrameID) bool {
	pol := c.platform.CookiePolicy()
	allowed := pol == nil || pol.AllowGetCookie(u, firstParty, cookies, process, frame)
	c.record("allow_get_cookie", outcome(allowed), u, process)
	return allowed
}

// AllowSetCookie defers to the platform cookie policy. Platforms without one
// permit all cookie writes.
func (c *Client) AllowSetCookie(u, firstParty *url.URL, cookieLine string, process engine.ProcessID, frame engine.FrameID, opts *engine.CookieOptions) bool {
	pol := c.platform.CookiePolicy()
	allowed := pol == nil || pol.AllowSetCookie(u, firstParty, cookieLine, process, frame, opts)
	c.record("allow_set_cookie", outcome(allowed), u, process)
	return allowed
}

// AllowCertificateError answers a TLS validation failure. Platforms without
// a bridge registry accept the error; otherwise the frame's contents-client
// bridge decides, and a frame with no bridge denies the request.
func (c *Client) AllowCertificateError(req *engine.CertificateErrorRequest, callback func(allow bool)) engine.CertificateRequestResult {
	bridges := c.platform.Bridges()
	if bridges == nil {
		c.record("allow_certificate_error", "allow", req.RequestURL, req.Process)
		go callback(true)
		return engine.ResultContinue
	}

	br, ok := bridges.FromRenderFrameID(req.Process, req.Frame)
	if !ok {
		c.log.Warn("certificate error from frame with no bridge",
			zap.Int("render_process_id", int(req.Process)),
			zap.Int("render_frame_id", int(req.Frame)))
		c.record("allow_certificate_error", "deny", req.RequestURL, req.Process)
		return engine.ResultDeny
	}

	if cancel := br.AllowCertificateError(req, callback); cancel {
		c.record("allow_certificate_error", "deny", req.RequestURL, req.Process)
		return engine.ResultDeny
	}
	c.record("allow_certificate_error", "pending", req.RequestURL, req.Process)
	return engine.ResultContinue
}

// CheckNotificationPermission defers to the platform notification policy.
// Platforms without one deny.
func (c *Client) CheckNotificationPermission(sourceURL *url.URL, process engine.ProcessID) engine.NotificationPermission {
	pol := c.platform.NotificationPolicy()
	perm := engine.PermissionDenied
	if pol != nil {
		perm = pol.CheckPermission(sourceURL, process)
	}
	c.record("check_notification_permission", permissionOutcome(perm), sourceURL, process)
	return perm
}

// ShowNotification sanitizes the notification text and presents it through
// the frame's contents-client bridge.
func (c *Client) ShowNotification(params engine.NotificationParams, process engine.ProcessID, frame engine.FrameID) (func(), error) {
	if c.CheckNotificationPermission(params.Origin, process) != engine.PermissionAllowed {
		return nil, fmt.Errorf("notifications denied for origin %v", params.Origin)
	}
	bridges := c.platform.Bridges()
	if bridges == nil {
		return nil, fmt.Errorf("platform %s has no notification presenter", c.platform.Name())
	}
	br, ok := bridges.FromRenderFrameID(process, frame)
	if !ok {
		return nil, fmt.Errorf("no bridge for render frame %d/%d", process, frame)
	}
	return br.ShowNotification(c.sanitizer.Clean(params))
}

// CanCreateWindow decides whether a page may open a new window. Pages with
// no associated application may always open windows; pages inside an
// application are held to the application's URL policy, and a denied target
// is handed to the external opener when the platform has one.
func (c *Client) CanCreateWindow(req *engine.WindowOpenRequest) engine.WindowOpenDecision {
	app, ok := c.apps.GetByRenderProcessID(req.RenderProcessID)
	if !ok {
		c.record("can_create_window", "allow", req.TargetURL, req.RenderProcessID)
		return engine.WindowOpenDecision{Allow: true}
	}

	if app.CanRequestURL(req.TargetURL) {
		c.record("can_create_window", "allow", req.TargetURL, req.RenderProcessID)
		return engine.WindowOpenDecision{Allow: true}
	}

	c.log.Info("window open denied by application URL policy",
		zap.String("app_id", app.AppID),
		zap.Stringer("target", req.TargetURL))
	if c.metrics != nil {
		c.metrics.WindowOpenDenied.Inc()
	}
	c.record("can_create_window", "deny", req.TargetURL, req.RenderProcessID)

	if opener := c.platform.ExternalOpener(); opener != nil && req.TargetURL != nil {
		target := *req.TargetURL
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), openExternalTimeout)
			defer cancel()
			if err := opener.OpenExternal(ctx, &target); err != nil {
				c.log.Warn("external open failed",
					zap.Stringer("target", &target),
					zap.Error(err))
			}
		}()
	}
	return engine.WindowOpenDecision{Allow: false}
}

// StoragePartitionConfigForSite isolates application sites in a partition
// keyed by the application host, on platforms that isolate applications.
// Partitions are always on disk.
func (c *Client) StoragePartitionConfigForSite(site *url.URL, canBeDefault bool) engine.PartitionConfig {
	if !c.platform.IsolatesApplications() {
		return engine.PartitionConfig{}
	}
	if site == nil || site.Scheme != application.Scheme {
		return engine.PartitionConfig{}
	}
	return engine.PartitionConfig{Domain: site.Host}
}

func (c *Client) record(callback, result string, u *url.URL, process engine.ProcessID) {
	c.metrics.RecordDecision(callback, result)
	if c.events == nil {
		return
	}
	d := events.Decision{
		Callback: callback,
		Outcome:  result,
		Process:  int(process),
		Time:     time.Now(),
	}
	if u != nil {
		d.URL = u.String()
	}
	c.events.Record(d)
}

func outcome(allowed bool) string {
	if allowed {
		return "allow"
	}
	return "deny"
}

func permissionOutcome(p engine.NotificationPermission) string {
	if p == engine.PermissionAllowed {
		return "allow"
	}
	return "deny"
}
