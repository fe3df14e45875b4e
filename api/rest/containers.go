package rest

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kasuganosora/lunchbox/game/lunchbox"
	"github.com/kasuganosora/lunchbox/game/notify"
	"github.com/kasuganosora/lunchbox/model"
	"go.uber.org/zap"
)

const (
	defaultLimit = 20
	maxLimit     = 200
)

// Serializer runs fn with exclusive access to host and lunchbox state.
type Serializer interface {
	Do(fn func())
}

// History reads the consumption journal.
type History interface {
	Recent(ctx context.Context, containerID string, limit int) ([]model.ConsumptionLog, error)
}

// RecentEvents reads the recent auto-eat ring.
type RecentEvents interface {
	Recent(ctx context.Context, n int) ([]notify.Event, error)
}

// ContainerHandler serves read-only views of live lunchboxes.
// Routes should be protected by the admin key middleware.
type ContainerHandler struct {
	manager *lunchbox.Manager
	host    Serializer
	history History
	recent  RecentEvents
	logger  *zap.Logger
}

// NewContainerHandler creates a ContainerHandler. history and recent may be nil.
func NewContainerHandler(m *lunchbox.Manager, host Serializer, history History, recent RecentEvents, logger *zap.Logger) *ContainerHandler {
	return &ContainerHandler{manager: m, host: host, history: history, recent: recent, logger: logger}
}

type lunchboxType struct {
	Code        string  `json:"code"`
	Multiplier  float64 `json:"multiplier"`
	SlotKind    string  `json:"slot_kind"`
	Slots       int     `json:"slots"`
	Description string  `json:"description"`
}

// Types lists the configured lunchbox types.
// GET /api/lunchboxes
func (h *ContainerHandler) Types(c *gin.Context) {
	behaviors := h.manager.Behaviors()
	out := make([]lunchboxType, 0, len(behaviors))
	for _, b := range behaviors {
		out = append(out, lunchboxType{
			Code:        b.Code(),
			Multiplier:  b.SpoilMultiplier(),
			SlotKind:    b.SlotKind().String(),
			Slots:       b.SlotCount(),
			Description: b.HeldItemInfo(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"lunchboxes": out, "count": len(out)})
}

// List returns a snapshot of every live container.
// GET /api/containers
func (h *ContainerHandler) List(c *gin.Context) {
	var snaps []lunchbox.ContainerSnapshot
	h.host.Do(func() {
		containers := h.manager.Containers()
		snaps = make([]lunchbox.ContainerSnapshot, 0, len(containers))
		for _, ct := range containers {
			snaps = append(snaps, ct.Snapshot())
		}
	})
	c.JSON(http.StatusOK, gin.H{"containers": snaps, "count": len(snaps)})
}

// Detail returns one container.
// GET /api/containers/:id
func (h *ContainerHandler) Detail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var (
		snap  lunchbox.ContainerSnapshot
		found bool
	)
	h.host.Do(func() {
		var ct *lunchbox.Container
		if ct, found = h.manager.Lookup(id); found {
			snap = ct.Snapshot()
		}
	})
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "container not found"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// History returns the newest journal rows of a container.
// GET /api/containers/:id/history?limit=N
func (h *ContainerHandler) History(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if h.history == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "journal disabled"})
		return
	}
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	rows, err := h.history.Recent(c.Request.Context(), id.String(), limit)
	if err != nil {
		h.logger.Error("load history", zap.String("container", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": rows, "count": len(rows)})
}

// RecentEvents returns the newest auto-eat events across all containers.
// GET /api/events/recent?limit=N
func (h *ContainerHandler) RecentEvents(c *gin.Context) {
	if h.recent == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "recent events disabled"})
		return
	}
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	events, err := h.recent.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("load recent events", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if events == nil {
		events = []notify.Event{}
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func parseLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return defaultLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return 0, false
	}
	return min(n, maxLimit), true
}
