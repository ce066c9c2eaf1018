package application

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Harry110/crosswalk/internal/engine"
	"github.com/Harry110/crosswalk/internal/infrastructure/logging"
	"github.com/Harry110/crosswalk/internal/infrastructure/monitoring"
	"go.uber.org/zap"
)

// Installed is an installed application at rest.
type Installed struct {
	AppID    string   `json:"app_id"`
	Manifest Manifest `json:"manifest"`
	Root     string   `json:"root"`
}

// Service tracks installed applications and running instances.
type Service struct {
	mu        sync.RWMutex
	installed map[string]*Installed          // Protected by mu
	running   map[string]*Application        // Protected by mu, keyed by instance id
	byProcess map[engine.ProcessID]string    // Protected by mu, process -> instance id
	log       *logging.Logger
	metrics   *monitoring.Metrics
}

// NewService creates an application service.
func NewService(log *logging.Logger) *Service {
	return &Service{
		installed: make(map[string]*Installed),
		running:   make(map[string]*Application),
		byProcess: make(map[engine.ProcessID]string),
		log:       log,
	}
}

// WithMetrics adds metrics tracking to the service.
func (s *Service) WithMetrics(m *monitoring.Metrics) *Service {
	s.metrics = m
	return s
}

// Install registers an installed application rooted at root. The app id is
// derived from the manifest name when not supplied.
func (s *Service) Install(appID string, m Manifest, root string) (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}
	if appID == "" {
		appID = uuid.NewSHA1(uuid.NameSpaceURL, []byte(Scheme+"://"+m.Name)).String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.installed[appID]; exists {
		return "", fmt.Errorf("application %s is already installed", appID)
	}
	s.installed[appID] = &Installed{AppID: appID, Manifest: m, Root: root}

	if s.metrics != nil {
		s.metrics.ApplicationsInstalled.Inc()
	}
	s.log.Info("application installed",
		zap.String("app_id", appID),
		zap.String("name", m.Name),
		zap.String("version", m.Version))
	return appID, nil
}

// Uninstall removes an installed application. Running instances are
// terminated first.
func (s *Service) Uninstall(appID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.installed[appID]; !ok {
		return fmt.Errorf("application %s is not installed", appID)
	}
	for id, app := range s.running {
		if app.AppID == appID {
			delete(s.byProcess, app.RenderProcessID)
			delete(s.running, id)
			if s.metrics != nil {
				s.metrics.ApplicationsRunning.Dec()
			}
		}
	}
	delete(s.installed, appID)

	if s.metrics != nil {
		s.metrics.ApplicationsInstalled.Dec()
	}
	s.log.Info("application uninstalled", zap.String("app_id", appID))
	return nil
}

// GetInstalled returns an installed application by id.
func (s *Service) GetInstalled(appID string) (*Installed, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ins, ok := s.installed[appID]
	if !ok {
		return nil, false
	}
	cp := *ins
	return &cp, true
}

// ListInstalled returns all installed applications.
func (s *Service) ListInstalled() []*Installed {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Installed, 0, len(s.installed))
	for _, ins := range s.installed {
		cp := *ins
		out = append(out, &cp)
	}
	return out
}

// Launch starts an instance of an installed application bound to the given
// render process.
func (s *Service) Launch(appID string, process engine.ProcessID) (*Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ins, ok := s.installed[appID]
	if !ok {
		return nil, fmt.Errorf("application %s is not installed", appID)
	}
	if existing, bound := s.byProcess[process]; bound {
		return nil, fmt.Errorf("render process %d already hosts instance %s", process, existing)
	}

	app := &Application{
		InstanceID:      uuid.New().String(),
		AppID:           ins.AppID,
		Manifest:        ins.Manifest,
		Root:            ins.Root,
		RenderProcessID: process,
		LaunchedAt:      time.Now(),
	}
	s.running[app.InstanceID] = app
	s.byProcess[process] = app.InstanceID

	if s.metrics != nil {
		s.metrics.ApplicationsRunning.Inc()
	}
	s.log.Info("application launched",
		zap.String("app_id", app.AppID),
		zap.String("instance_id", app.InstanceID),
		zap.Int("render_process_id", int(process)))

	cp := *app
	return &cp, nil
}

// Terminate stops a running instance.
func (s *Service) Terminate(instanceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.running[instanceID]
	if !ok {
		return fmt.Errorf("instance %s is not running", instanceID)
	}
	delete(s.byProcess, app.RenderProcessID)
	delete(s.running, instanceID)

	if s.metrics != nil {
		s.metrics.ApplicationsRunning.Dec()
	}
	s.log.Info("application terminated", zap.String("instance_id", instanceID))
	return nil
}

// GetByRenderProcessID resolves the running application hosted by a render
// process. This is the lookup behind the window-creation policy: processes
// with no associated application are unconstrained.
func (s *Service) GetByRenderProcessID(process engine.ProcessID) (*Application, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byProcess[process]
	if !ok {
		return nil, false
	}
	app := s.running[id]
	cp := *app
	return &cp, true
}

// ListRunning returns all running instances.
func (s *Service) ListRunning() []*Application {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Application, 0, len(s.running))
	for _, app := range s.running {
		cp := *app
		out = append(out, &cp)
	}
	return out
}

// OnRenderProcessWillLaunch is the hook the browser client forwards from the
// engine just before a render process starts.
func (s *Service) OnRenderProcessWillLaunch(host *engine.RenderProcessHost) {
	s.log.Debug("render process will launch",
		zap.Int("render_process_id", int(host.ID)),
		zap.String("partition", host.PartitionPath),
		zap.Bool("guest", host.IsGuest))
}
