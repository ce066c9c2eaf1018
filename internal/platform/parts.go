package platform

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Harry110/crosswalk/internal/engine"
	"github.com/Harry110/crosswalk/internal/infrastructure/logging"
)

// mainParts is the startup/shutdown coordinator shared by all capability
// sets. Stages must run in order; running a stage twice or out of order is a
// programming error and reported as such.
type mainParts struct {
	platform string
	params   engine.MainParams
	log      *logging.Logger

	mu    sync.Mutex
	stage int // Protected by mu: 0 created, 1 started, 2 running, 3 stopped
}

func newMainParts(platform string, params engine.MainParams, log *logging.Logger) *mainParts {
	return &mainParts{
		platform: platform,
		params:   params,
		log:      log,
	}
}

func (p *mainParts) PreMainMessageLoopStart() error {
	if err := p.advance(0, 1); err != nil {
		return err
	}
	p.log.Info("main parts starting",
		zap.String("platform", p.platform),
		zap.String("user_data_dir", p.params.UserDataDir))
	return nil
}

func (p *mainParts) PreMainMessageLoopRun() error {
	if err := p.advance(1, 2); err != nil {
		return err
	}
	p.log.Info("main message loop entering", zap.String("platform", p.platform))
	return nil
}

func (p *mainParts) PostMainMessageLoopRun() error {
	if err := p.advance(2, 3); err != nil {
		return err
	}
	p.log.Info("main message loop exited", zap.String("platform", p.platform))
	return nil
}

func (p *mainParts) advance(from, to int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stage != from {
		return fmt.Errorf("main parts stage %d run out of order (at %d)", to, p.stage)
	}
	p.stage = to
	return nil
}
