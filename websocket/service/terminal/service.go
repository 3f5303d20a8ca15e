package terminal

import (
	"bytes"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"termquest/logging"
	term "termquest/terminal"
	"termquest/utils"
	ws "termquest/websocket"
)

const (
	actionStart     = "start"
	actionCommand   = "command"
	actionComplete  = "complete"
	actionHistory   = "history"
	actionRelocate  = "relocate"
	actionTerminate = "terminate"
)

type commandData string
type completeData string
type startData struct {
	Variant string `json:"variant"`
}
type relocateData struct {
	Name string `json:"name"`
}
type historyData struct {
	History []string `json:"history"`
}

// TerminalProvider creates and disposes of the terminals behind message ids.
type TerminalProvider interface {
	Create(variant term.Variant) (*term.Terminal, error)
	Remove(id string) bool
}

type session struct {
	*term.Terminal
	output *utils.WebsocketWriter
}

type TerminalService struct {
	conn      ws.JSONWriter
	terminals map[string]*session

	TerminalProvider

	*zap.SugaredLogger
	*sync.RWMutex
}

func NewService(provider TerminalProvider) ws.Service {
	return &TerminalService{
		terminals:        make(map[string]*session),
		TerminalProvider: provider,
		SugaredLogger:    logging.Named("terminal-service"),
		RWMutex:          &sync.RWMutex{},
	}
}

func (s *TerminalService) Name() string {
	return "terminal"
}

func (s *TerminalService) Register(conn ws.JSONWriter) {
	s.conn = conn
}

func (s *TerminalService) HandleTextMessage(id string, action string, data json.RawMessage) {
	s.RLock()
	sess, exists := s.terminals[id]
	s.RUnlock()

	if action != actionStart && !exists {
		s.Warnf("(id: %s) received %s before terminal started", id, action)
		s.reportError(id, action, term.ErrNotFound)
		return
	} else if action == actionStart && exists {
		s.Warnf("(id: %s) received start message after terminal started", id)
		return
	}

	switch action {
	case actionStart:
		var start startData
		if len(data) > 0 {
			if err := json.Unmarshal(data, &start); err != nil {
				s.Errorf("(id: %s) error unmarshalling start payload: %v", id, err)
				return
			}
		}
		state, err := s.startTerminal(id, start.Variant)
		if err != nil {
			s.Errorf("(id: %s) error starting terminal: %v", id, err)
			s.reportError(id, action, err)
			return
		}
		s.reply(id, actionStart, state)
	case actionCommand:
		var command commandData
		if err := json.Unmarshal(data, &command); err != nil {
			s.Errorf("(id: %s) error unmarshalling command payload: %v", id, err)
			return
		}
		res := sess.Execute(string(command))
		if err := json.NewEncoder(sess.output).Encode(res); err != nil {
			s.Errorf("(id: %s) error writing command result: %v", id, err)
		}
	case actionComplete:
		var input completeData
		if err := json.Unmarshal(data, &input); err != nil {
			s.Errorf("(id: %s) error unmarshalling complete payload: %v", id, err)
			return
		}
		s.reply(id, actionComplete, sess.Complete(string(input)))
	case actionHistory:
		s.reply(id, actionHistory, historyData{History: sess.History()})
	case actionRelocate:
		var relocate relocateData
		if err := json.Unmarshal(data, &relocate); err != nil {
			s.Errorf("(id: %s) error unmarshalling relocate payload: %v", id, err)
			return
		}
		if err := sess.SetSubLocation(relocate.Name); err != nil {
			s.reportError(id, action, err)
			return
		}
		s.reply(id, actionRelocate, sess.State())
	case actionTerminate:
		s.Lock()
		delete(s.terminals, id)
		s.Unlock()
		s.Remove(sess.ID)
		s.reply(id, actionTerminate, nil)
	default:
		s.Warnf("(id: %s) unknown action %q", id, action)
	}
}

func (s *TerminalService) Cleanup(err error) {
	s.Lock()
	defer s.Unlock()
	for _, sess := range s.terminals {
		s.Remove(sess.ID)
	}
	s.terminals = nil
}

func (s *TerminalService) startTerminal(id, name string) (term.State, error) {
	variant, err := term.ParseVariant(name)
	if err != nil {
		return term.State{}, err
	}
	t, err := s.Create(variant)
	if err != nil {
		return term.State{}, err
	}

	// command results stream back on the command action
	writer := &utils.WebsocketWriter{
		Service: s.Name(),
		Id:      id,
		Action:  actionCommand,
		Conn:    s.conn,
		Transformer: func(p []byte) []byte {
			return bytes.TrimRight(p, "\n")
		},
	}

	s.Lock()
	s.terminals[id] = &session{Terminal: t, output: writer}
	s.Unlock()

	return t.State(), nil
}

func (s *TerminalService) reply(id, action string, v any) {
	if err := utils.WriteReply(s.conn, s.Name(), id, action, v); err != nil {
		s.Errorf("(id: %s) error writing %s reply: %v", id, action, err)
	}
}

func (s *TerminalService) reportError(id, action string, err error) {
	if werr := utils.WriteError(s.conn, s.Name(), id, action, err); werr != nil {
		s.Errorf("(id: %s) error writing %s error: %v", id, action, werr)
	}
}
