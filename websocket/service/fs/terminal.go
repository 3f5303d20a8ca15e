package fs

import (
	"fmt"

	"go.uber.org/zap"

	"termquest/logging"
	term "termquest/terminal"
	ws "termquest/websocket"
)

// TerminalLookup finds a live terminal by id.
type TerminalLookup interface {
	Get(id string) (*term.Terminal, bool)
}

// TerminalFileSystem browses the synthetic filesystems of live terminals.
type TerminalFileSystem struct {
	Terminals TerminalLookup
	*zap.SugaredLogger
}

func (f *TerminalFileSystem) terminal(id string) (*term.Terminal, error) {
	t, ok := f.Terminals.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", term.ErrNotFound, id)
	}
	return t, nil
}

func (f *TerminalFileSystem) GetRoot(terminal string) ([]*FileSystemEntry, error) {
	t, err := f.terminal(terminal)
	if err != nil {
		return nil, err
	}
	root, err := t.Root()
	if err != nil {
		f.Errorf("error getting root of terminal %s: %v", terminal, err)
		return nil, err
	}
	return []*FileSystemEntry{&root}, nil
}

func (f *TerminalFileSystem) List(terminal, path string, showHidden bool) ([]*FileSystemEntry, error) {
	t, err := f.terminal(terminal)
	if err != nil {
		return nil, err
	}
	children, err := t.List(path, showHidden)
	if err != nil {
		return nil, err
	}
	entries := make([]*FileSystemEntry, 0, len(children))
	for i := range children {
		entries = append(entries, &children[i])
	}
	return entries, nil
}

func NewTerminalService(terminals TerminalLookup) ws.Service {
	logger := logging.Named("fs")
	return &FSService{
		FS:            &TerminalFileSystem{Terminals: terminals, SugaredLogger: logger},
		SugaredLogger: logger,
	}
}
