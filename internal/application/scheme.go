package application

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// SchemeHandler serves app:// URLs from the install root of the addressed
// application. The URL host is the app id; the path is resolved inside the
// application's package directory and never escapes it.
type SchemeHandler struct {
	svc *Service
}

// NewSchemeHandler creates the protocol handler for the application scheme.
func NewSchemeHandler(svc *Service) *SchemeHandler {
	return &SchemeHandler{svc: svc}
}

// Scheme returns the reserved application scheme.
func (h *SchemeHandler) Scheme() string { return Scheme }

// Resolve opens the packaged file addressed by an app:// URL.
func (h *SchemeHandler) Resolve(u *url.URL) (io.ReadCloser, error) {
	if u.Scheme != Scheme {
		return nil, fmt.Errorf("scheme handler: unexpected scheme %q", u.Scheme)
	}
	ins, ok := h.svc.GetInstalled(u.Host)
	if !ok {
		return nil, fmt.Errorf("scheme handler: application %s is not installed", u.Host)
	}

	rel := strings.TrimPrefix(u.Path, "/")
	if rel == "" {
		rel = ins.Manifest.StartURL
	}
	clean := filepath.Clean("/" + rel)
	full := filepath.Join(ins.Root, clean)
	if !strings.HasPrefix(full, filepath.Clean(ins.Root)+string(filepath.Separator)) {
		return nil, fmt.Errorf("scheme handler: path %q escapes package root", u.Path)
	}
	return os.Open(full)
}
