// Package hub fans messages out to websocket viewers. The preview
// server runs two hubs: one for status JSON, one for PNG face frames.
// Viewers that stop draining are dropped rather than allowed to stall
// the broadcast.
package hub

import "github.com/gofiber/websocket/v2"

// MessageType indicates the websocket message format.
type MessageType int

const (
	// JSONMessage is a JSON-encoded message.
	JSONMessage MessageType = iota
	// BinaryMessage is raw binary data, such as a PNG frame.
	BinaryMessage
)

// Message is one payload to broadcast to every attached viewer.
type Message struct {
	Type MessageType
	Data []byte
}

// frame maps the message type onto the websocket frame type.
func (m Message) frame() int {
	if m.Type == BinaryMessage {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

// NewJSONMessage wraps pre-encoded JSON bytes.
func NewJSONMessage(data []byte) Message {
	return Message{Type: JSONMessage, Data: data}
}

// NewBinaryMessage wraps raw bytes.
func NewBinaryMessage(data []byte) Message {
	return Message{Type: BinaryMessage, Data: data}
}
