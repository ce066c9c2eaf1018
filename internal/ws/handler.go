package ws

import (
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Harry110/crosswalk/internal/events"
	"github.com/Harry110/crosswalk/internal/infrastructure/logging"
	"github.com/Harry110/crosswalk/internal/infrastructure/monitoring"
)

const writeTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The inspection server binds to loopback.
		return true
	},
}

// Handler upgrades inspection clients and streams decisions to them.
type Handler struct {
	recorder *events.Recorder
	log      *logging.Logger
	metrics  *monitoring.Metrics
}

// NewHandler creates a decision stream handler.
func NewHandler(recorder *events.Recorder, log *logging.Logger) *Handler {
	return &Handler{recorder: recorder, log: log.Named("ws")}
}

// WithMetrics adds connection gauge tracking.
func (h *Handler) WithMetrics(m *monitoring.Metrics) *Handler {
	h.metrics = m
	return h
}

// HandleConnection upgrades the request and forwards decisions until the
// client goes away or falls behind.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.WSConnections.Inc()
		defer h.metrics.WSConnections.Dec()
	}

	decisions, cancel := h.recorder.Subscribe()
	defer cancel()

	// Drain client frames so pings and close frames are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case d, ok := <-decisions:
			if !ok {
				return
			}
			payload, err := sonic.Marshal(d)
			if err != nil {
				h.log.Error("decision marshal failed", zap.Error(err))
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}
