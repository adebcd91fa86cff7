package httpx

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dreamsdoc/dreamsdoc-web/internal/service"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = streamPongWait * 9 / 10
)

// StreamHandlers pushes feed snapshots over a websocket.
type StreamHandlers struct {
	Views *service.FeedViews
	// AllowedOrigins lists extra origins allowed to connect; same-origin is always allowed.
	AllowedOrigins []string
	Logger         *slog.Logger
}

type streamEvent struct {
	Event    string                `json:"event"`
	Snapshot *service.FeedSnapshot `json:"snapshot,omitempty"`
}

func (h *StreamHandlers) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false
			}
			if u.Host == r.Host {
				return true
			}
			for _, o := range h.AllowedOrigins {
				if o == origin {
					return true
				}
			}
			return false
		},
	}
}

// Feed streams the view named by ?view= (for example /explore or
// /hashtag/lucid). The current snapshot is sent first, then every update.
func (h *StreamHandlers) Feed(w http.ResponseWriter, r *http.Request) {
	viewPath := r.URL.Query().Get("view")
	if viewPath == "" {
		viewPath = "/explore"
	}
	c, err := ContextForPath(viewPath, r.URL.Query().Get("q"))
	if err != nil {
		RenderError(ErrorOpts{W: w, R: r, Err: err, Logger: h.Logger})
		return
	}
	view, err := h.Views.Mount(r.Context(), c)
	if err != nil {
		RenderError(ErrorOpts{W: w, R: r, Err: err, Logger: h.Logger})
		return
	}

	conn, err := h.upgrader().Upgrade(w, r, nil)
	if err != nil {
		h.Logger.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates, unsubscribe := view.Subscribe()
	defer unsubscribe()

	// The read pump only handles control frames and notices the close.
	closed := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	first := view.Snapshot()
	if err := writeEvent(conn, streamEvent{Event: "snapshot", Snapshot: &first}); err != nil {
		return
	}

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-closed:
			return
		case snap, ok := <-updates:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "view closed"),
					time.Now().Add(streamWriteWait))
				return
			}
			if err := writeEvent(conn, streamEvent{Event: "snapshot", Snapshot: &snap}); err != nil {
				h.Logger.DebugContext(r.Context(), "websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		}
	}
}

func writeEvent(conn *websocket.Conn, ev streamEvent) error {
	if err := conn.SetWriteDeadline(time.Now().Add(streamWriteWait)); err != nil {
		return err
	}
	return conn.WriteJSON(ev)
}
