package application

import (
	"io"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harry110/crosswalk/internal/infrastructure/logging"
)

func TestSchemeHandlerResolve(t *testing.T) {
	svc := NewService(logging.NewNop())
	root := t.TempDir()
	writeFile(t, root, "index.html", "<html>home</html>")
	_, err := svc.Install("notes", Manifest{Name: "Notes", StartURL: "index.html"}, root)
	require.NoError(t, err)

	h := NewSchemeHandler(svc)
	assert.Equal(t, "app", h.Scheme())

	u, _ := url.Parse("app://notes/index.html")
	rc, err := h.Resolve(u)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "<html>home</html>", string(data))
}

func TestSchemeHandlerEmptyPathServesStartURL(t *testing.T) {
	svc := NewService(logging.NewNop())
	root := t.TempDir()
	writeFile(t, root, "index.html", "start")
	_, err := svc.Install("notes", Manifest{Name: "Notes", StartURL: "index.html"}, root)
	require.NoError(t, err)

	u, _ := url.Parse("app://notes")
	rc, err := NewSchemeHandler(svc).Resolve(u)
	require.NoError(t, err)
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "start", string(data))
}

func TestSchemeHandlerBlocksTraversal(t *testing.T) {
	svc := NewService(logging.NewNop())
	_, err := svc.Install("notes", Manifest{Name: "Notes", StartURL: "index.html"}, t.TempDir())
	require.NoError(t, err)

	u, _ := url.Parse("app://notes/../../etc/passwd")
	_, err = NewSchemeHandler(svc).Resolve(u)
	assert.Error(t, err)
}

func TestSchemeHandlerUnknownApplication(t *testing.T) {
	svc := NewService(logging.NewNop())
	u, _ := url.Parse("app://ghost/index.html")
	_, err := NewSchemeHandler(svc).Resolve(u)
	assert.Error(t, err)
}
