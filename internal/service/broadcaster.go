package service

// Message types pushed to session subscribers
const (
	MsgSessionState = "session_state"
	MsgSessionError = "session_error"
)

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToSession(sessionID string, msgType string, payload interface{})
	DisconnectSession(sessionID string)
}
