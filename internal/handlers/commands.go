package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"intentguard/internal/backend"
	"intentguard/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusHalted = "halted"

	errAnalyze       = "failed to analyze sensor data"
	errHaltTrain     = "failed to halt train"
	errDispatchDrone = "failed to dispatch drone"
	errLoadCommands  = "failed to load commands"
	errInvalidLimit  = "invalid 'limit'; use a positive integer"
)

// DispatchDroneRequest is the drone dispatch payload.
type DispatchDroneRequest struct {
	Location string `json:"location" binding:"required" example:"KM 12.4"`
	AlertID  string `json:"alert_id,omitempty" example:"ALT-001"`
}

// writeCommandError maps command/analysis errors onto HTTP codes.
func (h *Handler) writeCommandError(c *gin.Context, userMsg, logKey string, err error, kv ...interface{}) {
	var se *backend.StatusError
	switch {
	case errors.Is(err, service.ErrClassifyInFlight), errors.Is(err, service.ErrNoSnapshot):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCommand):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &se) && se.Code == http.StatusNotFound:
		h.logAndJSONError(c, http.StatusNotFound, userMsg+": not found", logKey, err, kv...)
	default:
		// everything else is an upstream failure
		h.logAndJSONError(c, http.StatusBadGateway, userMsg, logKey, err, kv...)
	}
}

// parseLimit reads ?limit=; missing means 0 (service default).
func parseLimit(c *gin.Context) (int, bool) {
	qs := c.Query("limit")
	if qs == "" {
		return 0, true
	}
	n, err := strconv.Atoi(qs)
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidLimit})
		return 0, false
	}
	return n, true
}

// @Summary      Analyze intent
// @Description  Classifies the latest dashboard sensor snapshot. 409 while a previous analysis is pending or before the first poll.
// @Tags         commands
// @Produce      json
// @Success      200  {object}  models.IntentResult
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/analyze [post]
// @Security     BearerAuth
func (h *Handler) analyze(c *gin.Context) {
	res, err := h.services.Analyze(c.Request.Context())
	if err != nil {
		h.writeCommandError(c, errAnalyze, "analyze_failed", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Halt train
// @Tags         commands
// @Produce      json
// @Param        id   path      string  true  "Train ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/trains/{id}/halt [post]
// @Security     BearerAuth
func (h *Handler) haltTrain(c *gin.Context) {
	id := c.Param("id")
	if err := h.services.HaltTrain(c.Request.Context(), id); err != nil {
		h.writeCommandError(c, errHaltTrain, "halt_train_failed", err, "train_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusHalted, "train_id": id})
}

// @Summary      Dispatch drone
// @Tags         commands
// @Accept       json
// @Produce      json
// @Param        body  body      DispatchDroneRequest  true  "Dispatch payload"
// @Success      200   {object}  models.DroneDispatch
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/drones/dispatch [post]
// @Security     BearerAuth
func (h *Handler) dispatchDrone(c *gin.Context) {
	var req DispatchDroneRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	res, err := h.services.DispatchDrone(c.Request.Context(), req.Location, req.AlertID)
	if err != nil {
		h.writeCommandError(c, errDispatchDrone, "drone_dispatch_failed", err, "location", req.Location)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Command history
// @Tags         commands
// @Produce      json
// @Param        limit  query     int  false  "Max records (default 50)"
// @Success      200    {object}  map[string]interface{}  "count, commands"
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/commands [get]
// @Security     BearerAuth
func (h *Handler) listCommands(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	recs, err := h.services.Commands.History(c.Request.Context(), limit)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadCommands, "commands_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(recs), "commands": recs})
}
