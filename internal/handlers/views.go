package handlers

import (
	"errors"
	"net/http"

	"intentguard/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK        = "ok"
	statusRefreshed = "refreshed"

	errUnknownView     = "unknown view"
	errRefreshView     = "failed to refresh view"
	errInvalidBodyPref = "invalid body: "
)

// viewInfo is the wire form of a view spec.
type viewInfo struct {
	Kind            service.ViewKind `json:"kind"`
	IntervalMs      int64            `json:"interval_ms"`
	AlertStatus     string           `json:"alert_status,omitempty"`
	AlertLimit      int              `json:"alert_limit,omitempty"`
	HistoryCapacity int              `json:"history_capacity,omitempty"`
}

// DroneToggleRequest flips the local drone indicator of a view.
type DroneToggleRequest struct {
	Active *bool `json:"active" binding:"required" example:"true"`
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// viewKind resolves the :kind path param or writes a 404.
func (h *Handler) viewKind(c *gin.Context) (service.ViewKind, bool) {
	kind, err := service.ParseViewKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errUnknownView})
		return "", false
	}
	return kind, true
}

// writeViewError maps monitor errors for a view that passed ParseViewKind.
func (h *Handler) writeViewError(c *gin.Context, kind service.ViewKind, err error) {
	if errors.Is(err, service.ErrUnknownView) {
		c.JSON(http.StatusNotFound, gin.H{"error": errUnknownView})
		return
	}
	h.logAndJSONError(c, http.StatusInternalServerError, "failed to read view", "view_read_failed", err, "view", kind)
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      List views
// @Tags         views
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, views"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/views [get]
// @Security     BearerAuth
func (h *Handler) listViews(c *gin.Context) {
	specs := h.services.Specs()
	out := make([]viewInfo, 0, len(specs))
	for _, s := range specs {
		out = append(out, viewInfo{
			Kind:            s.Kind,
			IntervalMs:      s.Interval.Milliseconds(),
			AlertStatus:     string(s.AlertFilter.Status),
			AlertLimit:      s.AlertFilter.Limit,
			HistoryCapacity: s.HistoryCapacity,
		})
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "views": out})
}

// @Summary      Get view snapshot
// @Description  Latest merged state of a view: sensors, alerts, fleet, tracks or stats depending on the view.
// @Tags         views
// @Produce      json
// @Param        kind  path      string  true  "View"  Enums(dashboard,digital_twin,summary)
// @Success      200   {object}  service.ViewSnapshot
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/views/{kind} [get]
// @Security     BearerAuth
func (h *Handler) getView(c *gin.Context) {
	kind, ok := h.viewKind(c)
	if !ok {
		return
	}
	snap, err := h.services.Snapshot(kind)
	if err != nil {
		h.writeViewError(c, kind, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Get sensor history
// @Description  Rolling window of the most recent sensor points, oldest first.
// @Tags         views
// @Produce      json
// @Param        kind  path      string  true  "View"  Enums(dashboard,digital_twin,summary)
// @Success      200   {object}  map[string]interface{}  "count, points"
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/views/{kind}/history [get]
// @Security     BearerAuth
func (h *Handler) getHistory(c *gin.Context) {
	kind, ok := h.viewKind(c)
	if !ok {
		return
	}
	points, err := h.services.Monitor.History(kind)
	if err != nil {
		h.writeViewError(c, kind, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(points), "points": points})
}

// @Summary      Get view alerts
// @Tags         views
// @Produce      json
// @Param        kind  path      string  true  "View"  Enums(dashboard,digital_twin,summary)
// @Success      200   {object}  map[string]interface{}  "count, critical, alerts"
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/views/{kind}/alerts [get]
// @Security     BearerAuth
func (h *Handler) getAlerts(c *gin.Context) {
	kind, ok := h.viewKind(c)
	if !ok {
		return
	}
	feed, err := h.services.AlertFeed(kind)
	if err != nil {
		h.writeViewError(c, kind, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    feed.Count(),
		"critical": feed.Critical(),
		"filter":   feed.Filter,
		"alerts":   feed.Alerts,
	})
}

// @Summary      Refresh view
// @Description  Polls every feed of the view once. On failure the previous state is kept.
// @Tags         views
// @Produce      json
// @Param        kind  path      string  true  "View"  Enums(dashboard,digital_twin,summary)
// @Success      200   {object}  map[string]interface{}  "status, view"
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/views/{kind}/refresh [post]
// @Security     BearerAuth
func (h *Handler) refreshView(c *gin.Context) {
	kind, ok := h.viewKind(c)
	if !ok {
		return
	}
	if err := h.services.Refresh(c.Request.Context(), kind); err != nil {
		if errors.Is(err, service.ErrUnknownView) {
			c.JSON(http.StatusNotFound, gin.H{"error": errUnknownView})
			return
		}
		h.logAndJSONError(c, http.StatusBadGateway, errRefreshView, "view_refresh_failed", err, "view", kind)
		return
	}
	resp := gin.H{"status": statusRefreshed}
	if snap, err := h.services.Snapshot(kind); err == nil {
		resp["view"] = snap
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Toggle drone indicator
// @Description  Local-only flag; no backend call is made.
// @Tags         views
// @Accept       json
// @Produce      json
// @Param        kind  path      string              true  "View"  Enums(dashboard,digital_twin,summary)
// @Param        body  body      DroneToggleRequest  true  "Drone flag"
// @Success      200   {object}  models.DroneState
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/views/{kind}/drone [put]
// @Security     BearerAuth
func (h *Handler) setDrone(c *gin.Context) {
	kind, ok := h.viewKind(c)
	if !ok {
		return
	}
	var req DroneToggleRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	st, err := h.services.SetDroneActive(kind, *req.Active)
	if err != nil {
		h.writeViewError(c, kind, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
