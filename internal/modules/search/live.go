package search

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = livePongWait * 9 / 10
	liveMaxMessage = 4096
	liveSendBuffer = 16
)

// liveInput is one keystroke event from the browser.
type liveInput struct {
	Query      string `json:"query"`
	DocumentID string `json:"document_id"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     checkSameOrigin,
}

// live upgrades to a websocket and runs one Dispatcher for the connection.
func (h *Handler) live(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan Result, liveSendBuffer)
	documentID := c.Query("document_id")

	d := NewDispatcher(ctx, h.debounce, func(ctx context.Context, q, docID string) ([]Match, error) {
		matches, _, err := h.svc.Search(ctx, q, docID)
		if err != nil {
			h.logger.Warn("live search failed", zap.String("document_id", docID), zap.Error(err))
			return nil, errSearchFailed
		}
		return matches, nil
	}, func(r Result) { offerLatest(out, r) })

	done := make(chan struct{})
	go h.writeLoop(conn, out, done)

	conn.SetReadLimit(liveMaxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(livePongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	for {
		var in liveInput
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("live search closed", zap.Error(err))
			}
			break
		}
		if in.DocumentID != "" {
			documentID = in.DocumentID
		}
		d.Input(in.Query, documentID)
	}

	d.Close()
	close(done)
	_ = conn.Close()
}

// offerLatest queues r, evicting the oldest queued result when the reader
// has fallen behind. Only one goroutine may send on out.
func offerLatest(out chan Result, r Result) {
	for {
		select {
		case out <- r:
			return
		default:
		}
		select {
		case <-out:
		default:
		}
	}
}

func (h *Handler) writeLoop(conn *websocket.Conn, out <-chan Result, done <-chan struct{}) {
	ticker := time.NewTicker(livePingPeriod)
	defer ticker.Stop()
	for {
		select {
		case r := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := conn.WriteJSON(r); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(liveWriteWait))
			return
		}
	}
}

func checkSameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || sameHost(origin, r.Host)
}
