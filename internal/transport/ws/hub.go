package ws

import (
	"encoding/json"
	"log"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgSessionState MessageType = "session_state"
	MsgSessionError MessageType = "session_error"
	MsgError        MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans session updates out to every connection watching that session.
// All maps are owned by the run goroutine.
type Hub struct {
	conns map[string]map[*Connection]struct{} // sessionID -> connections

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	direct     chan *directMessage
	disconnect chan string
	count      chan countRequest
}

// Connection represents a WebSocket connection
type Connection struct {
	SessionID string
	Send      chan []byte
	Hub       *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	SessionID string
	Message   *Message
}

type directMessage struct {
	conn *Connection
	data []byte
}

type countRequest struct {
	sessionID string
	reply     chan int
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		direct:     make(chan *directMessage),
		disconnect: make(chan string),
		count:      make(chan countRequest),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			if h.conns[conn.SessionID] == nil {
				h.conns[conn.SessionID] = make(map[*Connection]struct{})
			}
			h.conns[conn.SessionID][conn] = struct{}{}
			log.Printf("Subscriber connected to session %s", conn.SessionID)

		case conn := <-h.unregister:
			if subs, ok := h.conns[conn.SessionID]; ok {
				if _, ok := subs[conn]; ok {
					delete(subs, conn)
					close(conn.Send)
					if len(subs) == 0 {
						delete(h.conns, conn.SessionID)
					}
					log.Printf("Subscriber disconnected from session %s", conn.SessionID)
				}
			}

		case sessionID := <-h.disconnect:
			for conn := range h.conns[sessionID] {
				close(conn.Send)
			}
			delete(h.conns, sessionID)

		case d := <-h.direct:
			// Connections already closed by a disconnect are skipped
			if _, ok := h.conns[d.conn.SessionID][d.conn]; ok {
				select {
				case d.conn.Send <- d.data:
				default:
				}
			}

		case req := <-h.count:
			req.reply <- len(h.conns[req.sessionID])

		case msg := <-h.broadcast:
			data, _ := json.Marshal(msg.Message)
			for conn := range h.conns[msg.SessionID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// SendTo delivers a message to one registered connection
func (h *Hub) SendTo(conn *Connection, msg *Message) {
	data, _ := json.Marshal(msg)
	h.direct <- &directMessage{conn: conn, data: data}
}

// Subscribers returns the number of connections watching a session
func (h *Hub) Subscribers(sessionID string) int {
	reply := make(chan int)
	h.count <- countRequest{sessionID: sessionID, reply: reply}
	return <-reply
}

// BroadcastToSession sends a message to every subscriber of a session (implements service.Broadcaster)
func (h *Hub) BroadcastToSession(sessionID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		SessionID: sessionID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// DisconnectSession closes every connection of a session (implements service.Broadcaster)
func (h *Hub) DisconnectSession(sessionID string) {
	h.disconnect <- sessionID
}
