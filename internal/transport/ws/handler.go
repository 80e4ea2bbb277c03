package ws

import (
	"adaptivequiz/internal/model"
	"adaptivequiz/internal/transport/rest/middleware"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var readOnlyFeed = json.RawMessage(`{"error":"session feed is read-only, use the REST endpoints"}`)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// SessionSource loads the current state of a session
type SessionSource interface {
	Get(ctx context.Context, id string) (*model.Session, error)
}

// Handler handles WebSocket connections
type Handler struct {
	hub      *Hub
	sessions SessionSource
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, sessions SessionSource) *Handler {
	return &Handler{
		hub:      hub,
		sessions: sessions,
	}
}

// SessionWS handles GET /v1/ws/sessions/{id}. The token is checked by middleware.
func (h *Handler) SessionWS(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetSessionID(r.Context())
	if id == "" {
		id = mux.Vars(r)["id"]
	}

	conn := &Connection{
		SessionID: id,
		Send:      make(chan []byte, 256),
		Hub:       h.hub,
	}

	// Subscribe before reading the state, so no transition is missed in between
	h.hub.Register(conn)

	sess, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		h.hub.Unregister(conn)
		http.Error(w, `{"error":"session not found","kind":"not_found"}`, http.StatusNotFound)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.Unregister(conn)
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	payload, _ := json.Marshal(sess)
	h.hub.SendTo(conn, &Message{Type: MsgSessionState, Payload: payload})

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
		// The feed is one-way; answers go through the REST endpoints
		h.hub.SendTo(conn, &Message{Type: MsgError, Payload: readOnlyFeed})
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
