package websocket

import (
	"net/http"
	"sync"

	ws "github.com/gorilla/websocket"

	"termquest/logging"
)

// JSONWriter is the write side of a connection as seen by services.
type JSONWriter interface {
	WriteJSON(v any) error
}

type Conn struct {
	*ws.Conn
	*sync.Mutex
}

var (
	upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
)

// WriteJSON is safe for concurrent use by several services.
func (c *Conn) WriteJSON(v any) error {
	c.Lock()
	err := c.Conn.WriteJSON(v)
	c.Unlock()

	if err != nil {
		logging.S().Errorf("Websocket::WriteJson error: %v", err)
	}
	return err
}

// NewConn upgrades an HTTP request to a websocket connection.
func NewConn(w http.ResponseWriter, r *http.Request) (*Conn, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.S().Errorf("Websocket upgrade error: %v", err)
		return nil, err
	}

	return &Conn{
		Conn:  conn,
		Mutex: new(sync.Mutex),
	}, nil
}
