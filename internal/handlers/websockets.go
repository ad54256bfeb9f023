package handlers

import (
	"net/http"
	"strconv"
	"time"

	"intentguard/internal/models"
	"intentguard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000 // 10s in ms

	wsTypeView         = "view"
	wsTypeNotification = "notification"
)

type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origins once the dashboard host is fixed
}

// wsStream holds per-connection cursor state.
type wsStream struct {
	conn     *websocket.Conn
	kind     service.ViewKind
	lastNote string
}

// @Summary      Live view stream
// @Description  WebSocket. Pushes {"type":"view"} snapshots every interval and {"type":"notification"} for each new notification.
// @Tags         views
// @Param        view         query  string  false  "View (default dashboard)"  Enums(dashboard,digital_twin,summary)
// @Param        interval     query  string  false  "Push interval, e.g. 2s (max 10s)"
// @Param        interval_ms  query  int     false  "Push interval in ms (max 10000)"
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	kind := service.ViewDashboard
	if v := c.Query("view"); v != "" {
		k, err := service.ParseViewKind(v)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": errUnknownView})
			return
		}
		kind = k
	}
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	st := &wsStream{conn: conn, kind: kind}
	// notifications issued before connect are not replayed
	if recent := h.services.Recent(1); len(recent) > 0 {
		st.lastNote = recent[0].ID
	}

	if err := h.sendView(st); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "view", kind, "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if err := h.sendNotifications(st); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "view", kind, "err", err)
				}
				return
			}
			if err := h.sendView(st); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "view", kind, "err", err)
				}
				return
			}
		}
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	interval := defaultInterval

	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return interval
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

func (h *Handler) sendView(st *wsStream) error {
	snap, err := h.services.Snapshot(st.kind)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_snapshot_failed", "view", st.kind, "err", err)
		}
		return err
	}
	_ = st.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return st.conn.WriteJSON(wsEnvelope{Type: wsTypeView, Data: snap})
}

// sendNotifications writes notifications newer than the cursor, oldest first.
func (h *Handler) sendNotifications(st *wsStream) error {
	recent := h.services.Recent(defaultRecent)
	fresh := make([]models.Notification, 0, len(recent))
	for _, n := range recent {
		if n.ID == st.lastNote {
			break
		}
		fresh = append(fresh, n)
	}
	for i := len(fresh) - 1; i >= 0; i-- {
		_ = st.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := st.conn.WriteJSON(wsEnvelope{Type: wsTypeNotification, Data: fresh[i]}); err != nil {
			return err
		}
		st.lastNote = fresh[i].ID
	}
	return nil
}
