package runner

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harry110/crosswalk/internal/infrastructure/config"
	"github.com/Harry110/crosswalk/internal/infrastructure/logging"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	base := t.TempDir()
	cfg.Runtime.UserDataDir = filepath.Join(base, "data")
	cfg.Runtime.AppsDir = filepath.Join(base, "apps")
	return cfg
}

func TestRunnerLifecycle(t *testing.T) {
	r, err := New(testConfig(t), logging.NewNop(), nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, r.Start(ctx))
	assert.Equal(t, "desktop", r.Platform().Name())
	assert.Empty(t, r.Applications().ListInstalled())
	require.NoError(t, r.Shutdown(ctx))
}

func TestRunnerRejectsUnknownPlatform(t *testing.T) {
	cfg := testConfig(t)
	cfg.Runtime.Platform = "webos"

	_, err := New(cfg, logging.NewNop(), nil)
	assert.Error(t, err)
}

func TestRunnerBindsClientExactlyOnce(t *testing.T) {
	r, err := New(testConfig(t), logging.NewNop(), nil)
	require.NoError(t, err)

	// The engine already holds the runner's client.
	assert.NotNil(t, r.Client())
	assert.Error(t, r.engine.Bind(r.client))
}
