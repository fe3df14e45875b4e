package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kasuganosora/lunchbox/game/lunchbox"
	"github.com/kasuganosora/lunchbox/scheduler"
)

// AdminHandler reports process-level state.
type AdminHandler struct {
	manager *lunchbox.Manager
	host    Serializer
	sched   *scheduler.Scheduler
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(m *lunchbox.Manager, host Serializer, sched *scheduler.Scheduler) *AdminHandler {
	return &AdminHandler{manager: m, host: host, sched: sched}
}

// Health is the unauthenticated liveness probe.
// GET /health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Metrics returns container and scheduler counts.
// GET /api/admin/metrics
func (h *AdminHandler) Metrics(c *gin.Context) {
	var live, held int
	h.host.Do(func() {
		for _, ct := range h.manager.Containers() {
			live++
			if ct.Holder() != nil {
				held++
			}
		}
	})
	c.JSON(http.StatusOK, gin.H{
		"lunchbox_types":  len(h.manager.Codes()),
		"live_containers": live,
		"held_containers": held,
		"scheduler_tasks": h.sched.ListTickers(),
	})
}
