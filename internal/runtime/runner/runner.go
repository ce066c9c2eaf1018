package runner

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Harry110/crosswalk/internal/application"
	"github.com/Harry110/crosswalk/internal/bridge"
	"github.com/Harry110/crosswalk/internal/browsing"
	"github.com/Harry110/crosswalk/internal/engine"
	"github.com/Harry110/crosswalk/internal/events"
	"github.com/Harry110/crosswalk/internal/infrastructure/config"
	"github.com/Harry110/crosswalk/internal/infrastructure/logging"
	"github.com/Harry110/crosswalk/internal/infrastructure/monitoring"
	"github.com/Harry110/crosswalk/internal/platform"
	"github.com/Harry110/crosswalk/internal/runtime/client"
)

// decisionHistory is how many recent policy decisions the recorder keeps for
// the inspection API.
const decisionHistory = 512

// Runner owns the runtime object graph: it builds the platform capability
// set, the application and browsing services, and the browser client, binds
// the client to the engine, and drives the main-parts lifecycle.
type Runner struct {
	cfg     *config.Config
	log     *logging.Logger
	metrics *monitoring.Metrics

	engine    *engine.Engine
	platform  platform.Platform
	client    *client.Client
	apps      *application.Service
	installer *application.Installer
	browsing  *browsing.Context
	bridges   *bridge.Registry
	shell     *bridge.Client
	events    *events.Recorder

	parts engine.MainParts
}

// New builds the runtime from configuration and binds the browser client to
// a fresh engine.
func New(cfg *config.Config, log *logging.Logger, m *monitoring.Metrics) (*Runner, error) {
	shell := bridge.NewClient(bridge.Config{
		Endpoint: cfg.Bridge.Endpoint,
		Timeout:  cfg.Bridge.Timeout,
		RetryMax: cfg.Bridge.RetryMax,
	}, log.Named("bridge")).WithMetrics(m)
	bridges := bridge.NewRegistry()

	plat, err := platform.New(cfg.Runtime.Platform, platform.Deps{
		Log:     log.Named("platform"),
		Bridges: bridges,
		Opener:  shell,
	})
	if err != nil {
		return nil, err
	}

	apps := application.NewService(log.Named("application")).WithMetrics(m)
	installer := application.NewInstaller(cfg.Runtime.AppsDir, apps, log.Named("installer"))
	browser := browsing.NewContext(cfg.Runtime.UserDataDir, log.Named("browsing")).WithMetrics(m)
	recorder := events.NewRecorder(decisionHistory)

	cl := client.New(plat, apps, browser, log).
		WithEvents(recorder).
		WithMetrics(m)

	eng := engine.New()
	if err := eng.Bind(cl); err != nil {
		return nil, fmt.Errorf("bind browser client: %w", err)
	}

	return &Runner{
		cfg:       cfg,
		log:       log.Named("runner"),
		metrics:   m,
		engine:    eng,
		platform:  plat,
		client:    cl,
		apps:      apps,
		installer: installer,
		browsing:  browser,
		bridges:   bridges,
		shell:     shell,
		events:    recorder,
	}, nil
}

// Start runs the pre-loop stages of the main parts, registers the app
// scheme handler on the default partition, and discovers installed
// applications.
func (r *Runner) Start(ctx context.Context) error {
	if err := os.MkdirAll(r.cfg.Runtime.AppsDir, 0o755); err != nil {
		return fmt.Errorf("create apps dir: %w", err)
	}
	if err := os.MkdirAll(r.cfg.Runtime.UserDataDir, 0o755); err != nil {
		return fmt.Errorf("create user data dir: %w", err)
	}

	cmd := engine.NewCommandLine("xwalkd")
	cmd.AppendSwitchValue("data-path", r.cfg.Runtime.UserDataDir)

	r.parts = r.engine.Client().CreateMainParts(engine.MainParams{
		CommandLine: cmd,
		UserDataDir: r.cfg.Runtime.UserDataDir,
	})
	if err := r.parts.PreMainMessageLoopStart(); err != nil {
		return fmt.Errorf("pre main message loop start: %w", err)
	}
	if err := r.parts.PreMainMessageLoopRun(); err != nil {
		return fmt.Errorf("pre main message loop run: %w", err)
	}

	handlers := engine.ProtocolHandlerMap{
		application.Scheme: application.NewSchemeHandler(r.apps),
	}
	r.engine.Client().CreateRequestContext(handlers)

	n, err := r.installer.Discover(ctx)
	if err != nil {
		return fmt.Errorf("discover applications: %w", err)
	}
	r.log.Info("runtime started",
		zap.String("platform", r.platform.Name()),
		zap.Int("applications", n))
	return nil
}

// Shutdown winds down the main parts and releases the engine binding.
func (r *Runner) Shutdown(ctx context.Context) error {
	if r.parts != nil {
		if err := r.parts.PostMainMessageLoopRun(); err != nil {
			r.log.Warn("main parts teardown failed", zap.Error(err))
		}
	}
	if err := r.engine.Unbind(r.client); err != nil {
		return err
	}
	r.log.Info("runtime stopped")
	return nil
}

// Platform returns the active capability set.
func (r *Runner) Platform() platform.Platform { return r.platform }

// Applications returns the application service.
func (r *Runner) Applications() *application.Service { return r.apps }

// Installer returns the package installer.
func (r *Runner) Installer() *application.Installer { return r.installer }

// Browsing returns the browsing context.
func (r *Runner) Browsing() *browsing.Context { return r.browsing }

// Bridges returns the frame bridge registry.
func (r *Runner) Bridges() *bridge.Registry { return r.bridges }

// Shell returns the contents-client bridge HTTP client.
func (r *Runner) Shell() *bridge.Client { return r.shell }

// Events returns the decision recorder.
func (r *Runner) Events() *events.Recorder { return r.events }

// Client returns the bound browser client.
func (r *Runner) Client() engine.BrowserClient { return r.client }
