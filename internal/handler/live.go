package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"herald/inbox"
	"herald/internal/httputil"
	"herald/internal/store"
)

const liveWriteWait = 10 * time.Second

// LiveHandler upgrades /api/inbox/live to a websocket and pushes
// unread-count changes as they happen.
type LiveHandler struct {
	store    *store.FeedStore
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewLiveHandler creates a new live stream handler. Origins are not
// restricted on the upgrade; the bearer-token middleware in front of
// this route is what gates access.
func NewLiveHandler(store *store.FeedStore, logger *slog.Logger) *LiveHandler {
	return &LiveHandler{
		store:  store,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Stream handles GET /api/inbox/live
func (h *LiveHandler) Stream(w http.ResponseWriter, r *http.Request) {
	memberID := httputil.GetMemberID(r)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the handshake error.
		h.logger.Warn("websocket upgrade failed", "member_id", memberID, "error", err)
		return
	}
	defer conn.Close()

	h.logger.Debug("live stream established",
		"member_id", memberID,
		"remote", r.RemoteAddr,
	)

	counts, stop := h.store.Subscribe(memberID)
	defer stop()

	// The read side only exists so close and ping control frames get
	// processed; inbound data frames are discarded.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Push the current count first so subscribers can render the bell
	// without a separate fetch.
	count, err := h.store.UnreadCount(r.Context(), memberID)
	if err != nil {
		return
	}
	if err := h.writeEvent(conn, inbox.Event{Type: inbox.EventUnreadChanged, Count: count}); err != nil {
		return
	}

	for {
		select {
		case <-done:
			h.logger.Debug("live stream closed by peer", "member_id", memberID)
			return
		case <-r.Context().Done():
			deadline := time.Now().Add(liveWriteWait)
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), deadline)
			return
		case count, ok := <-counts:
			if !ok {
				return
			}
			if err := h.writeEvent(conn, inbox.Event{Type: inbox.EventUnreadChanged, Count: count}); err != nil {
				h.logger.Debug("live stream write failed", "member_id", memberID, "error", err)
				return
			}
		}
	}
}

func (h *LiveHandler) writeEvent(conn *websocket.Conn, event inbox.Event) error {
	_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
	return conn.WriteJSON(event)
}
