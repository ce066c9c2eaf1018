package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harry110/crosswalk/internal/engine"
	"github.com/Harry110/crosswalk/internal/infrastructure/logging"
)

func newShell(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		Endpoint: srv.URL,
		Timeout:  2 * time.Second,
		RetryMax: 0,
	}, logging.NewNop())
}

func certRequest(t *testing.T, raw string, overridable bool) *engine.CertificateErrorRequest {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return &engine.CertificateErrorRequest{
		Process:     3,
		Frame:       1,
		Error:       engine.CertErrAuthorityInvalid,
		SSL:         engine.SSLInfo{Fingerprint: "aa:bb", Subject: "CN=self"},
		RequestURL:  u,
		Overridable: overridable,
	}
}

func TestCertificateErrorAllowed(t *testing.T) {
	var prompts atomic.Int32
	c := newShell(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/certificate-error", r.URL.Path)
		prompts.Add(1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"allow": true})
	}))

	verdicts := make(chan bool, 1)
	cancel := c.AllowCertificateError(certRequest(t, "https://self-signed.example.com/", true), func(allow bool) {
		verdicts <- allow
	})

	assert.False(t, cancel)
	select {
	case allow := <-verdicts:
		assert.True(t, allow)
	case <-time.After(2 * time.Second):
		t.Fatal("verdict callback never ran")
	}

	// The accepted certificate is cached; a second error for the same host
	// and fingerprint resolves without another prompt.
	cancel = c.AllowCertificateError(certRequest(t, "https://self-signed.example.com/", true), func(allow bool) {
		verdicts <- allow
	})
	assert.False(t, cancel)
	assert.True(t, <-verdicts)
	assert.Equal(t, int32(1), prompts.Load())
}

func TestCertificateErrorShellUnreachable(t *testing.T) {
	c := newShell(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	cancel := c.AllowCertificateError(certRequest(t, "https://broken.example.com/", true), func(bool) {
		t.Error("callback must not run when the request is cancelled")
	})
	assert.True(t, cancel)
}

func TestCertificateErrorVerdictParsedWithoutContentType(t *testing.T) {
	// Shells that omit the Content-Type header still get their verdict
	// decoded instead of a silent deny.
	c := newShell(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"allow": true}`))
	}))

	verdicts := make(chan bool, 1)
	cancel := c.AllowCertificateError(certRequest(t, "https://bare.example.com/", true), func(allow bool) {
		verdicts <- allow
	})

	assert.False(t, cancel)
	select {
	case allow := <-verdicts:
		assert.True(t, allow)
	case <-time.After(2 * time.Second):
		t.Fatal("verdict callback never ran")
	}
}

func TestCertificateErrorUnparsableVerdictCancels(t *testing.T) {
	c := newShell(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))

	cancel := c.AllowCertificateError(certRequest(t, "https://garbled.example.com/", true), func(bool) {
		t.Error("callback must not run when the verdict cannot be parsed")
	})
	assert.True(t, cancel)
}

func TestCertificateErrorNonOverridable(t *testing.T) {
	c := newShell(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("non-overridable errors must not prompt")
	}))

	cancel := c.AllowCertificateError(certRequest(t, "https://revoked.example.com/", false), func(bool) {})
	assert.True(t, cancel)
}

func TestShowNotification(t *testing.T) {
	var deleted atomic.Bool
	c := newShell(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/notifications":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"id": "n-42"})
		case r.Method == http.MethodDelete && r.URL.Path == "/notifications/n-42":
			deleted.Store(true)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	origin, _ := url.Parse("https://mail.example.com")
	cancel, err := c.ShowNotification(engine.NotificationParams{
		Origin: origin,
		Title:  "New mail",
		Body:   "hello",
	})
	require.NoError(t, err)

	cancel()
	assert.True(t, deleted.Load())
}

func TestShowNotificationRejectsMissingID(t *testing.T) {
	c := newShell(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{}`))
	}))

	origin, _ := url.Parse("https://mail.example.com")
	_, err := c.ShowNotification(engine.NotificationParams{Origin: origin, Title: "New mail"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no notification id")
}

func TestOpenExternal(t *testing.T) {
	var opened atomic.Bool
	c := newShell(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/open-external", r.URL.Path)
		opened.Store(true)
	}))

	u, _ := url.Parse("https://outside.example.net/")
	require.NoError(t, c.OpenExternal(context.Background(), u))
	assert.True(t, opened.Load())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	c := newShell(t, http.NotFoundHandler())

	id := engine.GlobalFrameID{Process: 3, Frame: 7}
	_, ok := r.FromRenderFrameID(3, 7)
	assert.False(t, ok)

	r.Attach(id, c)
	got, ok := r.FromRenderFrameID(3, 7)
	require.True(t, ok)
	assert.Same(t, c, got)

	r.Detach(id)
	_, ok = r.FromRenderFrameID(3, 7)
	assert.False(t, ok)
}
