package utils

import (
	"encoding/json"

	ws "termquest/websocket"
)

// WebsocketWriter sends everything written to it as the data of one service
// message.
type WebsocketWriter struct {
	Service     string
	Id          string
	Action      string
	Conn        ws.JSONWriter
	Transformer func([]byte) []byte
}

func (w *WebsocketWriter) Write(p []byte) (n int, err error) {
	var transformed []byte
	if w.Transformer != nil {
		transformed = w.Transformer(p)
	} else {
		transformed = p
	}

	err = w.Conn.WriteJSON(&ws.ServiceMessage{
		Service: w.Service,
		Id:      w.Id,
		Action:  w.Action,
		Data:    transformed,
	})

	if err != nil {
		return 0, err
	}

	return len(p), nil
}

// WriteReply marshals v as the data of a service message.
func WriteReply(conn ws.JSONWriter, service, id, action string, v any) error {
	var data json.RawMessage
	if v != nil {
		var err error
		if data, err = json.Marshal(v); err != nil {
			return err
		}
	}
	return conn.WriteJSON(&ws.ServiceMessage{
		Service: service,
		Id:      id,
		Action:  action,
		Data:    data,
	})
}

// WriteError reports a failed action to the client.
func WriteError(conn ws.JSONWriter, service, id, action string, err error) error {
	return conn.WriteJSON(&ws.ServiceMessage{
		Service: service,
		Id:      id,
		Action:  action,
		Error:   err.Error(),
	})
}
