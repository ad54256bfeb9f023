package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"intentguard/internal/models"
	"intentguard/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid  = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid    = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errLevelInvalid = "invalid 'level'; use success, info, warning or error"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"

	defaultRecent = 20
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List notifications
// @Description  Filter the notification log by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD') and level. A date-only 'to' is end-of-day inclusive.
// @Tags         notifications
// @Produce      json
// @Param        from   query   string  false  "Start of range"  example(2025-08-01)
// @Param        to     query   string  false  "End of range. Date-only treated as end of day."  example(2025-08-31)
// @Param        level  query   string  false  "Level"  Enums(success,info,warning,error)
// @Success      200    {object}  map[string]interface{}  "count, notifications"
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/notifications [get]
// @Security     BearerAuth
func (h *Handler) listNotifications(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		from  time.Time
		to    time.Time
		level = strings.ToLower(strings.TrimSpace(c.Query("level")))
		err   error
	)
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be <= 'to'"})
		return
	}
	if level != "" && !models.NotificationLevel(level).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": errLevelInvalid})
		return
	}

	items, err := h.services.List(ctx, service.NotificationFilter{
		From:  from,
		To:    to,
		Level: level,
	})
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load notifications", "notifications_list_failed", err,
			"from", from, "to", to, "level", level)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":         len(items),
		"notifications": items,
	})
}

// @Summary      Recent notifications
// @Description  In-memory feed, newest first.
// @Tags         notifications
// @Produce      json
// @Param        limit  query     int  false  "Max items (default 20)"
// @Success      200    {object}  map[string]interface{}  "count, notifications"
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /api/v1/notifications/recent [get]
// @Security     BearerAuth
func (h *Handler) recentNotifications(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	if limit == 0 {
		limit = defaultRecent
	}
	items := h.services.Recent(limit)
	c.JSON(http.StatusOK, gin.H{"count": len(items), "notifications": items})
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
