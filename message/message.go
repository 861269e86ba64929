package message

import "time"

// Hash identifies one message within the store. Opaque, equality
// comparable; also serves as the store pagination cursor.
type Hash string

func (h Hash) String() string {
	return string(h)
}

// Message is the unit payload relayed, pushed and stored by the engine.
// Payload and Meta marshal as base64 per the engine's JSON document
// format.
type Message struct {
	Payload      []byte       `json:"payload"`
	ContentTopic ContentTopic `json:"contentTopic"`
	Version      uint32       `json:"version,omitempty"`
	Timestamp    int64        `json:"timestamp,omitempty"` // unix nanoseconds
	Meta         []byte       `json:"meta,omitempty"`
	Ephemeral    bool         `json:"ephemeral,omitempty"`
}

// New builds a message stamped with the current time.
func New(payload []byte, contentTopic ContentTopic) *Message {
	return &Message{
		Payload:      payload,
		ContentTopic: contentTopic,
		Timestamp:    time.Now().UnixNano(),
	}
}
