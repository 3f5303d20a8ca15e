package fs

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"termquest/content"
	term "termquest/terminal"
	ws "termquest/websocket"
)

// mockFileSystem implements FileSystem
type mockFileSystem struct {
	mock.Mock
}

func (m *mockFileSystem) GetRoot(terminal string) ([]*FileSystemEntry, error) {
	args := m.Called(terminal)
	if entries := args.Get(0); entries != nil {
		return entries.([]*FileSystemEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFileSystem) List(terminal, path string, showHidden bool) ([]*FileSystemEntry, error) {
	args := m.Called(terminal, path, showHidden)
	if entries := args.Get(0); entries != nil {
		return entries.([]*FileSystemEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

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

func newTestService(fs FileSystem) (*FSService, *testWSConn) {
	conn := &testWSConn{}
	s := &FSService{FS: fs, SugaredLogger: zap.NewNop().Sugar()}
	s.Register(conn)
	return s, conn
}

func TestFSService_List(t *testing.T) {
	mockFS := new(mockFileSystem)
	s, conn := newTestService(mockFS)

	expected := []*FileSystemEntry{
		{Name: "Documents", Path: "/home/user/Documents", IsDir: true, Size: 4096},
		{Name: "notes.txt", Path: "/home/user/notes.txt", Size: 12},
	}
	mockFS.On("List", "t1", "/home/user", true).Return(expected, nil)

	s.HandleTextMessage("/home/user", actionList, json.RawMessage(`{"terminal":"t1","showHidden":true}`))

	mockFS.AssertExpectations(t)
	require.Len(t, conn.messages, 1)
	msg := conn.messages[0]
	assert.Equal(t, "fs", msg.Service)
	assert.Equal(t, "/home/user", msg.Id)
	assert.Equal(t, actionList, msg.Action)

	var d listData
	require.NoError(t, json.Unmarshal(msg.Data, &d))
	assert.Equal(t, expected, d.Entries)
}

func TestFSService_ListError(t *testing.T) {
	mockFS := new(mockFileSystem)
	s, conn := newTestService(mockFS)
	mockFS.On("List", "t1", "/nope", false).Return(nil, errors.New("no such directory"))

	s.HandleTextMessage("/nope", actionList, json.RawMessage(`{"terminal":"t1"}`))

	require.Len(t, conn.messages, 1)
	assert.Equal(t, "no such directory", conn.messages[0].Error)
}

func TestFSService_GetRoot(t *testing.T) {
	mockFS := new(mockFileSystem)
	s, conn := newTestService(mockFS)
	root := []*FileSystemEntry{{Name: "user", Path: "/home/user", IsDir: true}}
	mockFS.On("GetRoot", "t1").Return(root, nil)

	s.HandleTextMessage("root", actionRoot, json.RawMessage(`{"terminal":"t1"}`))

	require.Len(t, conn.messages, 1)
	var got []*FileSystemEntry
	require.NoError(t, json.Unmarshal(conn.messages[0].Data, &got))
	assert.Equal(t, root, got)
}

func TestFSService_BadPayload(t *testing.T) {
	mockFS := new(mockFileSystem)
	s, conn := newTestService(mockFS)

	s.HandleTextMessage("/", actionList, json.RawMessage(`[`))
	s.HandleTextMessage("/", "rename", nil)

	assert.Empty(t, conn.messages)
	mockFS.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestTerminalFileSystem(t *testing.T) {
	c, err := content.Default()
	require.NoError(t, err)
	manager := term.NewManager(c, term.Options{TTL: time.Minute, Logger: zap.NewNop()})
	sb, err := manager.Create(term.VariantSandbox)
	require.NoError(t, err)
	q, err := manager.Create(term.VariantQuest)
	require.NoError(t, err)

	fs := &TerminalFileSystem{Terminals: manager, SugaredLogger: zap.NewNop().Sugar()}

	root, err := fs.GetRoot(sb.ID)
	require.NoError(t, err)
	require.Len(t, root, 1)
	assert.Equal(t, "/home/user", root[0].Path)

	entries, err := fs.List(sb.ID, "/etc", false)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = fs.List(q.ID, "", false)
	require.NoError(t, err)
	assert.Equal(t, "maison", entries[0].Name)
	assert.True(t, entries[0].IsDir)

	_, err = fs.List("missing", "/", false)
	assert.ErrorIs(t, err, term.ErrNotFound)
}

func TestFSService_Name(t *testing.T) {
	assert.Equal(t, "fs", (&FSService{}).Name())
}
