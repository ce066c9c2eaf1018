package browsing

import (
	"net/http"
	"net/http/cookiejar"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Harry110/crosswalk/internal/engine"
	"github.com/Harry110/crosswalk/internal/infrastructure/logging"
	"github.com/Harry110/crosswalk/internal/infrastructure/monitoring"
)

// Context is a browsing context: it owns the request contexts for the
// default storage partition and every non-default partition created for it.
type Context struct {
	mu         sync.RWMutex
	userData   string
	def        *RequestContext            // Protected by mu
	partitions map[string]*RequestContext // Protected by mu, keyed by partition path
	log        *logging.Logger
	metrics    *monitoring.Metrics
}

// NewContext creates a browsing context rooted at the user data directory.
func NewContext(userDataDir string, log *logging.Logger) *Context {
	return &Context{
		userData:   userDataDir,
		partitions: make(map[string]*RequestContext),
		log:        log,
	}
}

// WithMetrics adds metrics tracking to the context.
func (c *Context) WithMetrics(m *monitoring.Metrics) *Context {
	c.metrics = m
	return c
}

// CreateRequestContext returns the request context of the default partition,
// creating it on first use.
func (c *Context) CreateRequestContext(handlers engine.ProtocolHandlerMap) *RequestContext {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.def == nil {
		c.def = newRequestContext(c.userData, false, handlers)
		c.log.Debug("default request context created", zap.String("path", c.userData))
	}
	return c.def
}

// CreateRequestContextForStoragePartition returns the request context
// backing the partition at partitionPath, creating it on first use. Repeat
// calls for the same partition return the cached context.
func (c *Context) CreateRequestContextForStoragePartition(partitionPath string, inMemory bool, handlers engine.ProtocolHandlerMap) *RequestContext {
	full := filepath.Join(c.userData, partitionPath)

	c.mu.Lock()
	defer c.mu.Unlock()

	if rc, ok := c.partitions[full]; ok {
		return rc
	}
	rc := newRequestContext(full, inMemory, handlers)
	c.partitions[full] = rc

	if c.metrics != nil {
		c.metrics.PartitionsActive.Set(float64(len(c.partitions)))
	}
	c.log.Debug("partition request context created",
		zap.String("path", full),
		zap.Bool("in_memory", inMemory))
	return rc
}

// Partitions returns the paths of all live non-default partitions.
func (c *Context) Partitions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.partitions))
	for path := range c.partitions {
		out = append(out, path)
	}
	return out
}

// RequestContext is the per-partition network state: its on-disk path,
// cookie jar, and registered protocol handlers.
type RequestContext struct {
	path     string
	inMemory bool
	handlers engine.ProtocolHandlerMap
	jar      http.CookieJar
}

func newRequestContext(path string, inMemory bool, handlers engine.ProtocolHandlerMap) *RequestContext {
	// cookiejar.New only errors on bad options; nil options cannot fail.
	jar, _ := cookiejar.New(nil)
	return &RequestContext{
		path:     path,
		inMemory: inMemory,
		handlers: handlers,
		jar:      jar,
	}
}

// PartitionPath returns the partition's on-disk path.
func (rc *RequestContext) PartitionPath() string { return rc.path }

// InMemory reports whether the partition is memory-backed.
func (rc *RequestContext) InMemory() bool { return rc.inMemory }

// CookieJar returns the partition's cookie jar.
func (rc *RequestContext) CookieJar() http.CookieJar { return rc.jar }

// Handler returns the protocol handler registered for a scheme.
func (rc *RequestContext) Handler(scheme string) (engine.ProtocolHandler, bool) {
	h, ok := rc.handlers[scheme]
	return h, ok
}
