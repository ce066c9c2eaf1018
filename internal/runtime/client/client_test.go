package client

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harry110/crosswalk/internal/application"
	"github.com/Harry110/crosswalk/internal/bridge"
	"github.com/Harry110/crosswalk/internal/browsing"
	"github.com/Harry110/crosswalk/internal/engine"
	"github.com/Harry110/crosswalk/internal/events"
	"github.com/Harry110/crosswalk/internal/infrastructure/logging"
	"github.com/Harry110/crosswalk/internal/platform"
	"github.com/Harry110/crosswalk/internal/policy/cookies"
	"github.com/Harry110/crosswalk/internal/policy/notifications"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func newTestClient(t *testing.T, platformName string) (*Client, *application.Service) {
	t.Helper()
	log := logging.NewNop()
	p, err := platform.New(platformName, platform.Deps{Log: log})
	require.NoError(t, err)
	apps := application.NewService(log)
	browser := browsing.NewContext(t.TempDir(), log)
	return New(p, apps, browser, log), apps
}

func installAndLaunch(t *testing.T, apps *application.Service, process engine.ProcessID, allowed []string) string {
	t.Helper()
	appID, err := apps.Install("", application.Manifest{
		Name:        "notes",
		StartURL:    "index.html",
		AllowedURLs: allowed,
	}, t.TempDir())
	require.NoError(t, err)
	_, err = apps.Launch(appID, process)
	require.NoError(t, err)
	return appID
}

func TestCanCreateWindowWithoutApplication(t *testing.T) {
	c, _ := newTestClient(t, "desktop")

	dec := c.CanCreateWindow(&engine.WindowOpenRequest{
		TargetURL:       mustURL(t, "https://anywhere.example/page"),
		RenderProcessID: 12,
	})
	assert.True(t, dec.Allow)
	assert.False(t, dec.SuppressJavaScript)
}

func TestCanCreateWindowFollowsApplicationPolicy(t *testing.T) {
	c, apps := newTestClient(t, "desktop")
	installAndLaunch(t, apps, 7, []string{"https://example.com/**"})

	allowed := c.CanCreateWindow(&engine.WindowOpenRequest{
		TargetURL:       mustURL(t, "https://example.com/docs/help"),
		RenderProcessID: 7,
	})
	assert.True(t, allowed.Allow)

	denied := c.CanCreateWindow(&engine.WindowOpenRequest{
		TargetURL:       mustURL(t, "https://evil.example/"),
		RenderProcessID: 7,
	})
	assert.False(t, denied.Allow)
}

type recordingOpener struct {
	mu     sync.Mutex
	opened []string
	done   chan struct{}
}

func (o *recordingOpener) OpenExternal(ctx context.Context, u *url.URL) error {
	o.mu.Lock()
	o.opened = append(o.opened, u.String())
	o.mu.Unlock()
	close(o.done)
	return nil
}

type openerPlatform struct {
	platform.Platform
	opener platform.Opener
}

func (p *openerPlatform) ExternalOpener() platform.Opener { return p.opener }

func TestCanCreateWindowDeniedTargetGoesExternal(t *testing.T) {
	log := logging.NewNop()
	base, err := platform.New("desktop", platform.Deps{Log: log})
	require.NoError(t, err)
	opener := &recordingOpener{done: make(chan struct{})}

	apps := application.NewService(log)
	browser := browsing.NewContext(t.TempDir(), log)
	c := New(&openerPlatform{Platform: base, opener: opener}, apps, browser, log)
	installAndLaunch(t, apps, 3, []string{"https://example.com/**"})

	dec := c.CanCreateWindow(&engine.WindowOpenRequest{
		TargetURL:       mustURL(t, "https://elsewhere.example/x"),
		RenderProcessID: 3,
	})
	assert.False(t, dec.Allow)

	select {
	case <-opener.done:
	case <-time.After(2 * time.Second):
		t.Fatal("external opener was not invoked")
	}
	opener.mu.Lock()
	defer opener.mu.Unlock()
	assert.Equal(t, []string{"https://elsewhere.example/x"}, opener.opened)
}

func TestStoragePartitionConfigForSite(t *testing.T) {
	c, _ := newTestClient(t, "desktop")

	cfg := c.StoragePartitionConfigForSite(mustURL(t, "app://notes.example/index.html"), true)
	assert.Equal(t, "notes.example", cfg.Domain)
	assert.False(t, cfg.InMemory)
	assert.False(t, cfg.IsDefault())

	web := c.StoragePartitionConfigForSite(mustURL(t, "https://notes.example/"), true)
	assert.True(t, web.IsDefault())

	assert.True(t, c.StoragePartitionConfigForSite(nil, true).IsDefault())
}

func TestStoragePartitionDefaultWithoutIsolation(t *testing.T) {
	c, _ := newTestClient(t, "android")

	cfg := c.StoragePartitionConfigForSite(mustURL(t, "app://notes.example/index.html"), true)
	assert.True(t, cfg.IsDefault())
}

func TestCookieAccessPermissiveWithoutPolicy(t *testing.T) {
	c, _ := newTestClient(t, "desktop")
	u := mustURL(t, "https://example.com/")

	assert.True(t, c.AllowGetCookie(u, u, nil, 1, 1))

	opts := &engine.CookieOptions{}
	assert.True(t, c.AllowSetCookie(u, u, "a=b", 1, 1, opts))
}

func TestCookieAccessFollowsPlatformPolicy(t *testing.T) {
	log := logging.NewNop()
	p, err := platform.New("android", platform.Deps{Log: log})
	require.NoError(t, err)

	type withAccessPolicy interface {
		AccessPolicy() *cookies.AccessPolicy
	}
	p.(withAccessPolicy).AccessPolicy().SetAcceptCookies(false)

	c := New(p, application.NewService(log), browsing.NewContext(t.TempDir(), log), log)
	u := mustURL(t, "https://example.com/")
	assert.False(t, c.AllowGetCookie(u, u, nil, 1, 1))
	assert.False(t, c.AllowSetCookie(u, u, "a=b", 1, 1, &engine.CookieOptions{}))
}

func TestAllowCertificateErrorWithoutBridgeRegistry(t *testing.T) {
	c, _ := newTestClient(t, "desktop")

	verdict := make(chan bool, 1)
	res := c.AllowCertificateError(&engine.CertificateErrorRequest{
		RequestURL: mustURL(t, "https://self-signed.example/"),
		Error:      engine.CertErrAuthorityInvalid,
	}, func(allow bool) { verdict <- allow })

	assert.Equal(t, engine.ResultContinue, res)
	select {
	case allow := <-verdict:
		assert.True(t, allow)
	case <-time.After(2 * time.Second):
		t.Fatal("verdict callback was not invoked")
	}
}

func TestAllowCertificateErrorUnknownFrameDenies(t *testing.T) {
	log := logging.NewNop()
	p, err := platform.New("android", platform.Deps{Log: log, Bridges: bridge.NewRegistry()})
	require.NoError(t, err)
	c := New(p, application.NewService(log), browsing.NewContext(t.TempDir(), log), log)

	called := make(chan bool, 1)
	res := c.AllowCertificateError(&engine.CertificateErrorRequest{
		Process:    4,
		Frame:      9,
		RequestURL: mustURL(t, "https://expired.example/"),
		Error:      engine.CertErrDateInvalid,
	}, func(allow bool) { called <- allow })

	assert.Equal(t, engine.ResultDeny, res)
	select {
	case <-called:
		t.Fatal("callback must not run when the request is denied")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCheckNotificationPermissionPerPlatform(t *testing.T) {
	desktop, _ := newTestClient(t, "desktop")
	android, _ := newTestClient(t, "android")
	origin := mustURL(t, "https://news.example/")

	assert.Equal(t, engine.PermissionDenied, desktop.CheckNotificationPermission(origin, 1))
	assert.Equal(t, engine.PermissionAllowed, android.CheckNotificationPermission(origin, 1))

	assert.Equal(t, engine.PermissionDenied, desktop.CheckNotificationPermission(nil, 1))
}

func TestShowNotificationDeniedPlatform(t *testing.T) {
	c, _ := newTestClient(t, "desktop")

	cancel, err := c.ShowNotification(engine.NotificationParams{
		Origin: mustURL(t, "https://news.example/"),
		Title:  "hello",
	}, 1, 1)
	assert.Error(t, err)
	assert.Nil(t, cancel)
}

func TestCreateMainPartsReturnsSameParts(t *testing.T) {
	c, _ := newTestClient(t, "desktop")
	params := engine.MainParams{CommandLine: engine.NewCommandLine("xwalk"), UserDataDir: t.TempDir()}

	first := c.CreateMainParts(params)
	second := c.CreateMainParts(params)
	require.NotNil(t, first)
	assert.Same(t, first, second)
}

func TestAppendExtraCommandLineSwitches(t *testing.T) {
	c, _ := newTestClient(t, "desktop")

	browser := engine.NewCommandLine("xwalk")
	browser.AppendSwitchValue("data-path", "/srv/xwalk")
	browser.AppendSwitch("disable-pinch")
	browser.AppendSwitch("unrelated")
	c.CreateMainParts(engine.MainParams{CommandLine: browser})

	child := engine.NewCommandLine("xwalk-renderer")
	c.AppendExtraCommandLineSwitches(child, 5)

	assert.Equal(t, "/srv/xwalk", child.SwitchValue("data-path"))
	assert.True(t, child.HasSwitch("disable-pinch"))
	assert.False(t, child.HasSwitch("unrelated"))
}

func TestDecisionsAreRecorded(t *testing.T) {
	log := logging.NewNop()
	p, err := platform.New("desktop", platform.Deps{Log: log})
	require.NoError(t, err)
	rec := events.NewRecorder(16)
	c := New(p, application.NewService(log), browsing.NewContext(t.TempDir(), log), log).WithEvents(rec)

	u := mustURL(t, "https://example.com/")
	c.AllowGetCookie(u, u, nil, 2, 1)
	c.CanCreateWindow(&engine.WindowOpenRequest{TargetURL: u, RenderProcessID: 2})

	recent := rec.Recent(10)
	require.Len(t, recent, 2)
	assert.Equal(t, "can_create_window", recent[0].Callback)
	assert.Equal(t, "allow_get_cookie", recent[1].Callback)
	assert.Equal(t, "https://example.com/", recent[0].URL)
}

func TestShowNotificationSanitizesBeforePresenting(t *testing.T) {
	s := notifications.NewSanitizer()
	clean := s.Clean(engine.NotificationParams{Title: "<b>hi</b>", Body: "a <script>x</script> b"})
	assert.Equal(t, "hi", clean.Title)
	assert.NotContains(t, clean.Body, "<script>")
}
