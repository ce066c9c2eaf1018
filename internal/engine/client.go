package engine

import "net/url"

// BrowserClient is the callback surface the host engine invokes at its
// extension points. Implementations answer policy questions and hand out
// auxiliary objects on demand; they never block on the engine.
type BrowserClient interface {
	// CreateMainParts returns the startup/shutdown coordinator for this
	// process. The engine calls it exactly once per process.
	CreateMainParts(params MainParams) MainParts

	// CreateRequestContext returns the request context for the default
	// storage partition of the browsing context.
	CreateRequestContext(handlers ProtocolHandlerMap) RequestContext

	// CreateRequestContextForStoragePartition returns the request context
	// backing a non-default storage partition.
	CreateRequestContextForStoragePartition(partitionPath string, inMemory bool, handlers ProtocolHandlerMap) RequestContext

	// AppendExtraCommandLineSwitches lets the client forward switches from
	// the browser process command line onto a child process.
	AppendExtraCommandLineSwitches(cmd *CommandLine, childID ProcessID)

	// RenderProcessWillLaunch runs just before a render process starts.
	RenderProcessWillLaunch(host *RenderProcessHost)

	// AllowGetCookie decides whether a document may read its cookies.
	AllowGetCookie(u, firstParty *url.URL, cookies []Cookie, process ProcessID, frame FrameID) bool

	// AllowSetCookie decides whether a document may write a cookie. The
	// client may tighten opts before returning.
	AllowSetCookie(u, firstParty *url.URL, cookieLine string, process ProcessID, frame FrameID, opts *CookieOptions) bool

	// AllowCertificateError answers a certificate validation failure. The
	// returned result is decided synchronously; when the result is
	// ResultContinue the callback is invoked later with the final verdict.
	AllowCertificateError(req *CertificateErrorRequest, callback func(allow bool)) CertificateRequestResult

	// CheckNotificationPermission answers a notification permission query.
	CheckNotificationPermission(sourceURL *url.URL, process ProcessID) NotificationPermission

	// ShowNotification presents a notification and returns a cancel func
	// that withdraws it.
	ShowNotification(params NotificationParams, process ProcessID, frame FrameID) (cancel func(), err error)

	// CanCreateWindow decides whether a page may open a new window.
	CanCreateWindow(req *WindowOpenRequest) WindowOpenDecision

	// StoragePartitionConfigForSite selects the storage partition for a
	// site URL. The zero config selects the default partition.
	StoragePartitionConfigForSite(site *url.URL, canBeDefault bool) PartitionConfig
}
