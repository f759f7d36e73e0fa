package v1

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/agentbounty/bountyboard/internal/domain"
	"github.com/agentbounty/bountyboard/internal/realtime"
)

// ListActivity lists the newest activity feed entries.
// GET /v1/activity?limit=
func (h *Handler) ListActivity(c echo.Context) error {
	ctx := c.Request().Context()

	limit, err := queryLimit(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, domain.ErrorCodeInvalidRequest, err.Error())
	}

	events, err := h.service.ListActivity(ctx, limit)
	if err != nil {
		return serviceError(c, err)
	}
	if events == nil {
		events = []domain.ActivityEvent{}
	}
	return c.JSON(http.StatusOK, domain.ListActivityResponse{Events: events})
}

// StreamActivity upgrades to a websocket and pushes one message per activity
// feed insert until the client disconnects.
// GET /v1/activity/stream
func (h *Handler) StreamActivity(c echo.Context) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("Failed to upgrade WebSocket: %v", err)
		return nil
	}

	send := make(chan domain.StreamMessage, h.config.FeedBufferSize)
	send <- domain.StreamMessage{Type: domain.StreamTypeHello, Ts: time.Now().UnixMilli()}

	sub := h.service.SubscribeActivity(func(change domain.Change) {
		msg := domain.StreamMessage{
			Type:     domain.StreamTypeActivityInserted,
			Ts:       change.At.UnixMilli(),
			RecordID: change.RecordID,
		}
		select {
		case send <- msg:
		default:
			// Clients refetch the whole feed on any notification.
			log.Printf("WARN: activity stream send buffer full, dropping %s", change.RecordID)
		}
	})

	go h.writePump(ws, sub, send)
	go h.readPump(ws, sub)
	return nil
}

// readPump drains client frames to process pongs and close frames. It
// releases the subscription when the connection ends.
func (h *Handler) readPump(ws *websocket.Conn, sub *realtime.Subscription) {
	defer func() {
		sub.Unsubscribe()
		ws.Close()
	}()

	ws.SetReadLimit(512)
	ws.SetReadDeadline(time.Now().Add(h.config.ReadTimeout))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(h.config.ReadTimeout))
		return nil
	})

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
	}
}

// writePump writes queued messages and keepalive pings.
func (h *Handler) writePump(ws *websocket.Conn, sub *realtime.Subscription, send <-chan domain.StreamMessage) {
	ticker := time.NewTicker(h.config.PingInterval)
	defer func() {
		ticker.Stop()
		sub.Unsubscribe()
		ws.Close()
	}()

	for {
		select {
		case msg := <-send:
			ws.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if err := ws.WriteJSON(msg); err != nil {
				log.Printf("Failed to write message: %v", err)
				return
			}

		case <-ticker.C:
			ws.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-sub.Done():
			ws.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			ws.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
