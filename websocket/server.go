package websocket

import (
	"encoding/json"
	"net/http"
	"slices"
	"sync/atomic"
	"time"

	ws "github.com/gorilla/websocket"
	"go.uber.org/zap"

	"termquest/logging"
	"termquest/metrics"
)

type Server struct {
	*Conn
	// services are registered before Start and read-only afterwards
	services map[string]Service

	lastActiveTime atomic.Int64
	activeServices []string
	done           chan struct{}

	*zap.SugaredLogger
}

func NewServer(w http.ResponseWriter, r *http.Request) (*Server, error) {
	conn, err := NewConn(w, r)
	if err != nil {
		return nil, err
	}
	return newServer(conn), nil
}

func newServer(conn *Conn) *Server {
	server := &Server{
		Conn:          conn,
		services:      make(map[string]Service),
		done:          make(chan struct{}),
		SugaredLogger: logging.Named("websocket"),
	}
	server.touch()
	return server
}

func (s *Server) touch() {
	s.lastActiveTime.Store(time.Now().UnixNano())
}

func (s *Server) idle() time.Duration {
	return time.Since(time.Unix(0, s.lastActiveTime.Load()))
}

func (s *Server) checkTimeout() {
	ticker := time.NewTicker(time.Second * 10)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			if s.idle() > connectionTimeout {
				s.Infof("closing connection idle for %s", s.idle().Round(time.Second))
				s.Close()
				return
			}
		}
	}
}

// Register adds a service whose traffic keeps the connection alive.
func (s *Server) Register(service Service) {
	s.RegisterPassive(service)
	s.activeServices = append(s.activeServices, service.Name())
}

// RegisterPassive adds a service whose traffic does not count as activity.
func (s *Server) RegisterPassive(service Service) {
	if _, exists := s.services[service.Name()]; exists {
		s.Warnf("service %s already registered", service.Name())
		return
	}

	service.Register(s.Conn)
	s.services[service.Name()] = service
}

// Start reads and dispatches messages until the connection fails, then
// cleans every service up.
func (s *Server) Start() {
	metrics.ConnectionOpened()
	defer metrics.ConnectionClosed()
	go s.checkTimeout()

	var err error
	for {
		var msgType int
		var data []byte
		msgType, data, err = s.ReadMessage()
		if err != nil {
			break
		}
		if msgType != ws.TextMessage {
			s.Debugf("ignoring non-text message of %d bytes", len(data))
			continue
		}
		s.dispatch(data)
	}

	close(s.done)
	for _, svc := range s.services {
		svc.Cleanup(err)
	}
	s.Close()
}

func (s *Server) dispatch(data []byte) {
	var msg ServiceMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.Warnf("error unmarshalling message: %v", err)
		return
	}

	if slices.Contains(s.activeServices, msg.Service) {
		s.touch()
	}
	if svc, exists := s.services[msg.Service]; exists {
		svc.HandleTextMessage(msg.Id, msg.Action, msg.Data)
	} else {
		s.Debugf("message for unknown service %q", msg.Service)
	}
}
