package engine

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopClient struct{}

func (nopClient) CreateMainParts(MainParams) MainParts { return nil }
func (nopClient) CreateRequestContext(ProtocolHandlerMap) RequestContext {
	return nil
}
func (nopClient) CreateRequestContextForStoragePartition(string, bool, ProtocolHandlerMap) RequestContext {
	return nil
}
func (nopClient) AppendExtraCommandLineSwitches(*CommandLine, ProcessID) {}
func (nopClient) RenderProcessWillLaunch(*RenderProcessHost)             {}
func (nopClient) AllowGetCookie(*url.URL, *url.URL, []Cookie, ProcessID, FrameID) bool {
	return true
}
func (nopClient) AllowSetCookie(*url.URL, *url.URL, string, ProcessID, FrameID, *CookieOptions) bool {
	return true
}
func (nopClient) AllowCertificateError(*CertificateErrorRequest, func(bool)) CertificateRequestResult {
	return ResultContinue
}
func (nopClient) CheckNotificationPermission(*url.URL, ProcessID) NotificationPermission {
	return PermissionDenied
}
func (nopClient) ShowNotification(NotificationParams, ProcessID, FrameID) (func(), error) {
	return func() {}, nil
}
func (nopClient) CanCreateWindow(*WindowOpenRequest) WindowOpenDecision {
	return WindowOpenDecision{Allow: true}
}
func (nopClient) StoragePartitionConfigForSite(*url.URL, bool) PartitionConfig {
	return PartitionConfig{}
}

func TestBindExactlyOnce(t *testing.T) {
	e := New()
	first := &struct{ nopClient }{}
	second := &struct{ nopClient }{}

	require.NoError(t, e.Bind(first))
	assert.ErrorIs(t, e.Bind(second), ErrClientBound)
	assert.Equal(t, BrowserClient(first), e.Client())
}

func TestUnbindRequiresBoundClient(t *testing.T) {
	e := New()
	c := &struct{ nopClient }{}

	assert.ErrorIs(t, e.Unbind(c), ErrNoClient)

	require.NoError(t, e.Bind(c))
	other := &struct{ nopClient }{}
	assert.ErrorIs(t, e.Unbind(other), ErrWrongClient)

	require.NoError(t, e.Unbind(c))
	assert.Nil(t, e.Client())

	// Rebinding after unbind is allowed.
	require.NoError(t, e.Bind(c))
}

func TestBindNilClient(t *testing.T) {
	e := New()
	assert.Error(t, e.Bind(nil))
}

func TestCommandLineSwitches(t *testing.T) {
	cmd := NewCommandLine("renderer")
	assert.False(t, cmd.HasSwitch("disable-extension-process"))

	cmd.AppendSwitch("disable-extension-process")
	cmd.AppendSwitchValue("user-data-dir", "/tmp/xwalk")

	assert.True(t, cmd.HasSwitch("disable-extension-process"))
	assert.Equal(t, "/tmp/xwalk", cmd.SwitchValue("user-data-dir"))
	assert.Equal(t, []string{"disable-extension-process", "user-data-dir"}, cmd.Switches())
	assert.Equal(t, "renderer", cmd.Program())
}

func TestPartitionConfigIsDefault(t *testing.T) {
	assert.True(t, PartitionConfig{}.IsDefault())
	assert.False(t, PartitionConfig{Domain: "example"}.IsDefault())
	assert.False(t, PartitionConfig{InMemory: true}.IsDefault())
}
