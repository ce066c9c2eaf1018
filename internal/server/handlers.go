package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Harry110/crosswalk/internal/application"
	"github.com/Harry110/crosswalk/internal/engine"
	"github.com/Harry110/crosswalk/internal/infrastructure/logging"
	"github.com/Harry110/crosswalk/internal/infrastructure/monitoring"
	"github.com/Harry110/crosswalk/internal/policy/cookies"
	"github.com/Harry110/crosswalk/internal/runtime/runner"
)

type handlers struct {
	rt      *runner.Runner
	metrics *monitoring.Metrics
	log     *logging.Logger
}

func newHandlers(rt *runner.Runner, m *monitoring.Metrics, log *logging.Logger) *handlers {
	return &handlers{rt: rt, metrics: m, log: log.Named("api")}
}

func (h *handlers) root(c *gin.Context) {
	resp := gin.H{
		"service":  "crosswalk-runtime",
		"platform": h.rt.Platform().Name(),
	}
	if h.metrics != nil {
		resp["uptime_seconds"] = int64(h.metrics.Uptime().Seconds())
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"platform":     h.rt.Platform().Name(),
		"applications": len(h.rt.Applications().ListInstalled()),
	})
}

type installedView struct {
	AppID   string `json:"app_id"`
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Root    string `json:"root,omitempty"`
}

func (h *handlers) listApplications(c *gin.Context) {
	installed := h.rt.Applications().ListInstalled()
	out := make([]installedView, 0, len(installed))
	for _, ins := range installed {
		out = append(out, installedView{
			AppID:   ins.AppID,
			Name:    ins.Manifest.Name,
			Version: ins.Manifest.Version,
			Root:    ins.Root,
		})
	}
	c.JSON(http.StatusOK, gin.H{"applications": out})
}

type installRequest struct {
	Path string `json:"path" binding:"required"`
}

func (h *handlers) installApplication(c *gin.Context) {
	var req installRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	appID, err := h.rt.Installer().InstallPackage(c.Request.Context(), req.Path)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"app_id": appID})
}

type launchRequest struct {
	RenderProcessID *int `json:"render_process_id" binding:"required"`
}

func (h *handlers) launchApplication(c *gin.Context) {
	var req launchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	app, err := h.rt.Applications().Launch(c.Param("id"), engine.ProcessID(*req.RenderProcessID))
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, runningView(app))
}

func (h *handlers) uninstallApplication(c *gin.Context) {
	if err := h.rt.Applications().Uninstall(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) terminateInstance(c *gin.Context) {
	if err := h.rt.Applications().Terminate(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

type instanceView struct {
	InstanceID      string `json:"instance_id"`
	AppID           string `json:"app_id"`
	RenderProcessID int    `json:"render_process_id"`
	LaunchedAt      string `json:"launched_at"`
}

func runningView(app *application.Application) instanceView {
	return instanceView{
		InstanceID:      app.InstanceID,
		AppID:           app.AppID,
		RenderProcessID: int(app.RenderProcessID),
		LaunchedAt:      app.LaunchedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *handlers) listRunning(c *gin.Context) {
	running := h.rt.Applications().ListRunning()
	out := make([]instanceView, 0, len(running))
	for _, app := range running {
		out = append(out, runningView(app))
	}
	c.JSON(http.StatusOK, gin.H{"instances": out})
}

type cookiePolicyUpdate struct {
	AcceptCookies   *bool  `json:"accept_cookies"`
	AllowThirdParty *bool  `json:"allow_third_party"`
	BlockOrigin     string `json:"block_origin"`
	UnblockOrigin   string `json:"unblock_origin"`
}

func (h *handlers) accessPolicy(c *gin.Context) (*cookies.AccessPolicy, bool) {
	p, ok := h.rt.Platform().(interface{ AccessPolicy() *cookies.AccessPolicy })
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "platform has no mutable cookie policy"})
		return nil, false
	}
	return p.AccessPolicy(), true
}

func cookiePolicyView(p *cookies.AccessPolicy) gin.H {
	return gin.H{
		"accept_cookies":    p.AcceptCookies(),
		"allow_third_party": p.AllowThirdParty(),
		"blocked_origins":   p.BlockedOrigins(),
	}
}

func (h *handlers) getCookiePolicy(c *gin.Context) {
	p, ok := h.accessPolicy(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, cookiePolicyView(p))
}

func (h *handlers) updateCookiePolicy(c *gin.Context) {
	p, ok := h.accessPolicy(c)
	if !ok {
		return
	}
	var req cookiePolicyUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.AcceptCookies != nil {
		p.SetAcceptCookies(*req.AcceptCookies)
	}
	if req.AllowThirdParty != nil {
		p.SetAllowThirdParty(*req.AllowThirdParty)
	}
	if req.BlockOrigin != "" {
		p.BlockOrigin(req.BlockOrigin)
	}
	if req.UnblockOrigin != "" {
		p.UnblockOrigin(req.UnblockOrigin)
	}
	c.JSON(http.StatusOK, cookiePolicyView(p))
}

func (h *handlers) listPartitions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"partitions": h.rt.Browsing().Partitions()})
}

func (h *handlers) listDecisions(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	c.JSON(http.StatusOK, gin.H{"decisions": h.rt.Events().Recent(limit)})
}

type bridgeRequest struct {
	Process *int `json:"render_process_id" binding:"required"`
	Frame   *int `json:"render_frame_id" binding:"required"`
}

func (h *handlers) attachBridge(c *gin.Context) {
	var req bridgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := engine.GlobalFrameID{
		Process: engine.ProcessID(*req.Process),
		Frame:   engine.FrameID(*req.Frame),
	}
	h.rt.Bridges().Attach(id, h.rt.Shell())
	c.Status(http.StatusNoContent)
}

func (h *handlers) detachBridge(c *gin.Context) {
	process, err := strconv.Atoi(c.Param("process"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "process must be an integer"})
		return
	}
	frame, err := strconv.Atoi(c.Param("frame"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "frame must be an integer"})
		return
	}
	h.rt.Bridges().Detach(engine.GlobalFrameID{
		Process: engine.ProcessID(process),
		Frame:   engine.FrameID(frame),
	})
	c.Status(http.StatusNoContent)
}
