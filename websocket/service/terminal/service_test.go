package terminal

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"termquest/content"
	"termquest/interpreter"
	"termquest/suggest"
	term "termquest/terminal"
	ws "termquest/websocket"
)

type testWSConn struct {
	messages []*ws.ServiceMessage
	mutex    sync.Mutex
}

func (c *testWSConn) WriteJSON(v any) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.messages = append(c.messages, v.(*ws.ServiceMessage))
	return nil
}

func (c *testWSConn) last(t *testing.T) *ws.ServiceMessage {
	t.Helper()
	c.mutex.Lock()
	defer c.mutex.Unlock()
	require.NotEmpty(t, c.messages)
	return c.messages[len(c.messages)-1]
}

func newTestService(t *testing.T) (*TerminalService, *testWSConn, *term.Manager) {
	t.Helper()
	c, err := content.Default()
	require.NoError(t, err)
	manager := term.NewManager(c, term.Options{TTL: time.Minute, Logger: zap.NewNop()})

	service := NewService(manager).(*TerminalService)
	conn := &testWSConn{}
	service.Register(conn)
	return service, conn, manager
}

func send(s *TerminalService, id, action string, payload any) {
	var data json.RawMessage
	if payload != nil {
		data, _ = json.Marshal(payload)
	}
	s.HandleTextMessage(id, action, data)
}

func TestTerminalService_Name(t *testing.T) {
	service := &TerminalService{}
	assert.Equal(t, "terminal", service.Name())
}

func TestTerminalService_Start(t *testing.T) {
	service, conn, manager := newTestService(t)

	send(service, "t1", actionStart, startData{Variant: "quest"})

	msg := conn.last(t)
	assert.Equal(t, "terminal", msg.Service)
	assert.Equal(t, actionStart, msg.Action)
	assert.Empty(t, msg.Error)

	var state term.State
	require.NoError(t, json.Unmarshal(msg.Data, &state))
	assert.Equal(t, term.VariantQuest, state.Variant)
	assert.Equal(t, "/village", state.Path)
	assert.Equal(t, 1, manager.Len())

	// a second start on the same id is ignored
	send(service, "t1", actionStart, startData{})
	assert.Equal(t, 1, manager.Len())
}

func TestTerminalService_StartUnknownVariant(t *testing.T) {
	service, conn, manager := newTestService(t)

	send(service, "t1", actionStart, startData{Variant: "arcade"})
	assert.Contains(t, conn.last(t).Error, "unknown terminal variant")
	assert.Zero(t, manager.Len())
}

func TestTerminalService_Command(t *testing.T) {
	service, conn, _ := newTestService(t)
	send(service, "t1", actionStart, nil)

	send(service, "t1", actionCommand, "cd Documents")
	send(service, "t1", actionCommand, "pwd")

	msg := conn.last(t)
	assert.Equal(t, actionCommand, msg.Action)
	var res interpreter.Result
	require.NoError(t, json.Unmarshal(msg.Data, &res))
	assert.True(t, res.Valid)
	assert.Equal(t, []string{"/home/user/Documents"}, res.Output)

	send(service, "t1", actionCommand, "cat /home")
	require.NoError(t, json.Unmarshal(conn.last(t).Data, &res))
	assert.False(t, res.Valid)
	assert.Equal(t, "cat: /home: Is a directory", res.Error)
}

func TestTerminalService_CompleteAndHistory(t *testing.T) {
	service, conn, _ := newTestService(t)
	send(service, "t1", actionStart, nil)

	send(service, "t1", actionComplete, "cd Do")
	var completion suggest.Completion
	require.NoError(t, json.Unmarshal(conn.last(t).Data, &completion))
	assert.Equal(t, []string{"Documents", "Downloads"}, completion.Candidates)

	send(service, "t1", actionCommand, "ls")
	send(service, "t1", actionHistory, nil)
	var history historyData
	require.NoError(t, json.Unmarshal(conn.last(t).Data, &history))
	assert.Equal(t, []string{"ls"}, history.History)
}

func TestTerminalService_Relocate(t *testing.T) {
	service, conn, _ := newTestService(t)
	send(service, "q", actionStart, startData{Variant: "quest"})

	send(service, "q", actionRelocate, relocateData{Name: "puits"})
	var state term.State
	require.NoError(t, json.Unmarshal(conn.last(t).Data, &state))
	assert.Equal(t, "puits", state.SubLocation)

	send(service, "q", actionRelocate, relocateData{Name: "donjon"})
	assert.NotEmpty(t, conn.last(t).Error)
}

func TestTerminalService_BeforeStart(t *testing.T) {
	service, conn, _ := newTestService(t)

	send(service, "ghost", actionCommand, "ls")
	msg := conn.last(t)
	assert.Equal(t, "ghost", msg.Id)
	assert.Equal(t, term.ErrNotFound.Error(), msg.Error)
}

func TestTerminalService_Terminate(t *testing.T) {
	service, conn, manager := newTestService(t)
	send(service, "t1", actionStart, nil)
	require.Equal(t, 1, manager.Len())

	send(service, "t1", actionTerminate, nil)
	assert.Equal(t, actionTerminate, conn.last(t).Action)
	assert.Zero(t, manager.Len())
	assert.Empty(t, service.terminals)
}

func TestTerminalService_Cleanup(t *testing.T) {
	service, _, manager := newTestService(t)
	send(service, "t1", actionStart, nil)
	send(service, "t2", actionStart, startData{Variant: "quest"})
	require.Equal(t, 2, manager.Len())

	service.Cleanup(nil)

	assert.Zero(t, manager.Len())
	assert.Nil(t, service.terminals)
}
