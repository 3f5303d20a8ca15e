package heartbeat

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"termquest/logging"
	"termquest/utils"
	ws "termquest/websocket"
)

const actionPing = "ping"

type pongData struct {
	ServerTime int64 `json:"serverTime"`
}

// HeartbeatService answers pings with the server clock. It is registered as
// passive, so pings alone never keep an idle connection open.
type HeartbeatService struct {
	conn ws.JSONWriter
	now  func() time.Time

	*zap.SugaredLogger
}

func NewService() ws.Service {
	return &HeartbeatService{
		now:           time.Now,
		SugaredLogger: logging.Named("heartbeat"),
	}
}

func (s *HeartbeatService) Name() string {
	return "heartbeat"
}

func (s *HeartbeatService) Register(conn ws.JSONWriter) {
	s.conn = conn
}

func (s *HeartbeatService) HandleTextMessage(id, action string, data json.RawMessage) {
	if action != actionPing {
		s.Debugf("(id: %s) ignoring heartbeat action %q", id, action)
		return
	}
	pong := pongData{ServerTime: s.now().UnixMilli()}
	if err := utils.WriteReply(s.conn, s.Name(), id, actionPing, pong); err != nil {
		s.Warnf("(id: %s) error answering ping: %v", id, err)
	}
}

func (s *HeartbeatService) Cleanup(err error) {}
