package engine

import (
	"io"
	"net/url"
	"sort"
	"time"
)

// ProcessID identifies a render process within the host engine.
type ProcessID int

// FrameID identifies a frame within a render process.
type FrameID int

// GlobalFrameID uniquely identifies a frame across the whole engine.
type GlobalFrameID struct {
	Process ProcessID
	Frame   FrameID
}

// ResourceType classifies the resource a request is loading.
type ResourceType int

const (
	ResourceMainFrame ResourceType = iota
	ResourceSubFrame
	ResourceSubresource
)

// Cookie is a cookie as presented at the AllowGetCookie extension point.
type Cookie struct {
	Name   string
	Value  string
	Domain string
	Path   string
	Secure bool
}

// CookieOptions is the in/out options block for AllowSetCookie. The client
// may tighten the options before the engine commits the cookie.
type CookieOptions struct {
	FirstPartyOnly bool
	HTTPOnly       bool
}

// SSLInfo carries the certificate metadata attached to a failed TLS
// connection.
type SSLInfo struct {
	Subject     string
	Issuer      string
	Fingerprint string
	NotBefore   time.Time
	NotAfter    time.Time
}

// CertError identifies the kind of certificate validation failure.
type CertError int

const (
	CertErrCommonNameInvalid CertError = iota + 1
	CertErrDateInvalid
	CertErrAuthorityInvalid
	CertErrRevoked
	CertErrInvalid
)

// String returns the wire name of the error kind.
func (e CertError) String() string {
	switch e {
	case CertErrCommonNameInvalid:
		return "common_name_invalid"
	case CertErrDateInvalid:
		return "date_invalid"
	case CertErrAuthorityInvalid:
		return "authority_invalid"
	case CertErrRevoked:
		return "revoked"
	case CertErrInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// CertificateRequestResult is the synchronous answer to a certificate error:
// whether the engine should keep the request alive while the embedder
// decides, cancel it quietly, or deny it outright.
type CertificateRequestResult int

const (
	ResultContinue CertificateRequestResult = iota
	ResultCancel
	ResultDeny
)

// CertificateErrorRequest bundles the inputs to AllowCertificateError.
type CertificateErrorRequest struct {
	Process           ProcessID
	Frame             FrameID
	Error             CertError
	SSL               SSLInfo
	RequestURL        *url.URL
	Resource          ResourceType
	Overridable       bool
	StrictEnforcement bool
}

// WindowContainerType mirrors the engine's window container classification.
type WindowContainerType int

const (
	ContainerNormal WindowContainerType = iota
	ContainerBackground
)

// WindowOpenDisposition describes where the new window should land.
type WindowOpenDisposition int

const (
	DispositionNewForegroundTab WindowOpenDisposition = iota
	DispositionNewBackgroundTab
	DispositionNewPopup
	DispositionNewWindow
)

// WindowFeatures carries the feature string the opener supplied.
type WindowFeatures struct {
	X, Y          int
	Width, Height int
	Resizable     bool
}

// Referrer is the referrer attached to a window-open request.
type Referrer struct {
	URL    *url.URL
	Policy string
}

// WindowOpenRequest bundles the inputs to CanCreateWindow.
type WindowOpenRequest struct {
	OpenerURL         *url.URL
	OpenerTopLevelURL *url.URL
	SourceOrigin      *url.URL
	ContainerType     WindowContainerType
	TargetURL         *url.URL
	Referrer          Referrer
	Disposition       WindowOpenDisposition
	Features          WindowFeatures
	UserGesture       bool
	OpenerSuppressed  bool
	RenderProcessID   ProcessID
	IsGuest           bool
	OpenerID          int
}

// WindowOpenDecision is the client's answer to a window-open request.
type WindowOpenDecision struct {
	Allow bool
	// SuppressJavaScript revokes script access to the opened window.
	SuppressJavaScript bool
}

// NotificationPermission is the answer to a notification permission check.
type NotificationPermission int

const (
	PermissionDenied NotificationPermission = iota
	PermissionAllowed
)

// NotificationParams describes a notification the page asked to show.
type NotificationParams struct {
	Origin  *url.URL
	Title   string
	Body    string
	IconURL string
	Tag     string
}

// PartitionConfig selects the storage partition backing a site. The zero
// value is the default partition.
type PartitionConfig struct {
	Domain   string
	Name     string
	InMemory bool
}

// IsDefault reports whether the config selects the default partition.
func (p PartitionConfig) IsDefault() bool {
	return p.Domain == "" && p.Name == "" && !p.InMemory
}

// CommandLine is a minimal model of a child process command line: a program
// plus a set of switches, some carrying values.
type CommandLine struct {
	program  string
	switches map[string]string
}

// NewCommandLine creates a command line for the given program.
func NewCommandLine(program string) *CommandLine {
	return &CommandLine{
		program:  program,
		switches: make(map[string]string),
	}
}

// Program returns the program the command line launches.
func (c *CommandLine) Program() string { return c.program }

// HasSwitch reports whether the switch is present.
func (c *CommandLine) HasSwitch(name string) bool {
	_, ok := c.switches[name]
	return ok
}

// AppendSwitch adds a bare switch.
func (c *CommandLine) AppendSwitch(name string) {
	c.switches[name] = ""
}

// AppendSwitchValue adds a switch carrying a value.
func (c *CommandLine) AppendSwitchValue(name, value string) {
	c.switches[name] = value
}

// SwitchValue returns the value attached to a switch, if any.
func (c *CommandLine) SwitchValue(name string) string {
	return c.switches[name]
}

// Switches returns the switch names in sorted order.
func (c *CommandLine) Switches() []string {
	names := make([]string, 0, len(c.switches))
	for name := range c.switches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MainParams carries process startup parameters into CreateMainParts.
type MainParams struct {
	CommandLine *CommandLine
	UserDataDir string
}

// MainParts is the per-process startup/shutdown coordinator the client
// returns from CreateMainParts. Stages run in declaration order; the engine
// calls PostMainMessageLoopRun exactly once during teardown.
type MainParts interface {
	PreMainMessageLoopStart() error
	PreMainMessageLoopRun() error
	PostMainMessageLoopRun() error
}

// ProtocolHandler resolves requests for a custom URL scheme.
type ProtocolHandler interface {
	Scheme() string
	Resolve(u *url.URL) (io.ReadCloser, error)
}

// ProtocolHandlerMap registers protocol handlers by scheme.
type ProtocolHandlerMap map[string]ProtocolHandler

// RequestContext is the engine-facing view of a per-partition request
// context. The browsing context owns the concrete implementation.
type RequestContext interface {
	PartitionPath() string
	InMemory() bool
}

// RenderProcessHost is the engine's handle for a render process about to
// launch, passed to RenderProcessWillLaunch.
type RenderProcessHost struct {
	ID            ProcessID
	PartitionPath string
	IsGuest       bool
}
