package websocket

import (
	"encoding/json"
)

// Service handles the messages addressed to its name on one connection.
type Service interface {
	HandleTextMessage(id string, action string, data json.RawMessage)
	Name() string
	Cleanup(err error)
	Register(conn JSONWriter)
}

type ServiceMessage struct {
	Service string          `json:"service"`
	Id      string          `json:"id,omitempty"`
	Action  string          `json:"action,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}
