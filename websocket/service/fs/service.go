package fs

import (
	"encoding/json"

	"go.uber.org/zap"

	"termquest/utils"
	ws "termquest/websocket"
)

const (
	actionList = "list"
	actionRoot = "get_root"
)

type rootData struct {
	Terminal string `json:"terminal"`
}

type listData struct {
	// req
	Terminal   string `json:"terminal"`
	ShowHidden bool   `json:"showHidden,omitempty"`
	// res
	Entries []*FileSystemEntry `json:"entries"`
}

// FSService answers explorer requests. The message id is the path being
// listed, so replies can be matched without extra bookkeeping.
type FSService struct {
	conn ws.JSONWriter

	FS FileSystem
	*zap.SugaredLogger
}

func (s *FSService) Register(conn ws.JSONWriter) {
	s.conn = conn
}

func (s *FSService) Name() string {
	return "fs"
}

func (s *FSService) HandleTextMessage(id, action string, data json.RawMessage) {
	switch action {
	case actionList:
		s.handleList(id, data)
	case actionRoot:
		s.handleGetRoot(id, data)
	default:
		s.Warnf("(id: %s) unknown fs action %q", id, action)
	}
}

func (s *FSService) Cleanup(err error) {}

func (s *FSService) handleList(id string, data json.RawMessage) {
	var d listData
	if err := json.Unmarshal(data, &d); err != nil {
		s.Errorf("error unmarshalling fs list payload: %v", err)
		return
	}

	entries, err := s.FS.List(d.Terminal, id, d.ShowHidden)
	if err != nil {
		s.handleError(id, actionList, err)
		return
	}

	d.Entries = entries
	if err := utils.WriteReply(s.conn, s.Name(), id, actionList, d); err != nil {
		s.Errorf("error writing list response: %v", err)
	}
}

func (s *FSService) handleGetRoot(id string, data json.RawMessage) {
	var d rootData
	if err := json.Unmarshal(data, &d); err != nil {
		s.Errorf("error unmarshalling fs root payload: %v", err)
		return
	}

	root, err := s.FS.GetRoot(d.Terminal)
	if err != nil {
		s.handleError(id, actionRoot, err)
		return
	}

	if err := utils.WriteReply(s.conn, s.Name(), id, actionRoot, root); err != nil {
		s.Errorf("error writing root response: %v", err)
	}
}

func (s *FSService) handleError(id, action string, err error) {
	s.Warn(err)
	utils.WriteError(s.conn, s.Name(), id, action, err)
}
