// Package terminal owns live interpreter sessions for the network surfaces.
// A Terminal serializes access to its interpreter; the Manager hands out
// terminals by id and drops the idle ones.
package terminal

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"termquest/interpreter"
	"termquest/metrics"
	"termquest/quest"
	"termquest/suggest"
	"termquest/vfs"
)

type Variant string

const (
	VariantSandbox Variant = "sandbox"
	VariantQuest   Variant = "quest"
)

var (
	ErrUnknownVariant = errors.New("unknown terminal variant")
	ErrNotFound       = errors.New("terminal not found")
	ErrNotQuest       = errors.New("terminal is not a quest")
)

// ParseVariant maps a client-supplied name to a Variant. Empty means sandbox.
func ParseVariant(name string) (Variant, error) {
	switch Variant(name) {
	case "", VariantSandbox:
		return VariantSandbox, nil
	case VariantQuest:
		return VariantQuest, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariant, name)
}

// State is a snapshot of a terminal for clients.
type State struct {
	ID          string   `json:"id"`
	Variant     Variant  `json:"variant"`
	Path        string   `json:"path"`
	Location    string   `json:"location,omitempty"`
	SubLocation string   `json:"subLocation,omitempty"`
	Unlocked    []string `json:"unlocked,omitempty"`
	Completed   bool     `json:"completed,omitempty"`
}

type Terminal struct {
	ID      string
	Variant Variant

	it    *interpreter.Interpreter
	quest *quest.Interpreter

	lastActive time.Time
	now        func() time.Time
	*sync.Mutex
}

func newTerminal(id string, variant Variant, it *interpreter.Interpreter, q *quest.Interpreter, now func() time.Time) *Terminal {
	return &Terminal{
		ID:         id,
		Variant:    variant,
		it:         it,
		quest:      q,
		lastActive: now(),
		now:        now,
		Mutex:      &sync.Mutex{},
	}
}

// Execute runs one input line.
func (t *Terminal) Execute(input string) interpreter.Result {
	t.Lock()
	defer t.Unlock()
	t.lastActive = t.now()

	start := time.Now()
	res := t.it.Execute(input)

	outcome := "ok"
	if !res.Valid {
		outcome = string(res.Code)
	}
	metrics.RecordCommand(string(t.Variant), outcome, time.Since(start))
	if res.TreasureUnlocked != "" {
		metrics.RecordUnlock(res.TreasureUnlocked == interpreter.MasterUnlock)
	}
	return res
}

func (t *Terminal) History() []string {
	t.Lock()
	defer t.Unlock()
	return t.it.History()
}

func (t *Terminal) Complete(input string) suggest.Completion {
	t.Lock()
	defer t.Unlock()
	t.lastActive = t.now()
	return t.it.Complete(input)
}

// List returns the entries of dir, resolved from the current directory. An
// empty dir lists the current directory.
func (t *Terminal) List(dir string, showHidden bool) ([]vfs.Entry, error) {
	t.Lock()
	defer t.Unlock()

	backend := t.it.Backend()
	if dir == "" {
		dir = "."
	}
	entry, abs, err := backend.Resolve(dir, t.it.Session().CurrentPath)
	if err != nil {
		return nil, err
	}
	if !entry.IsDir {
		return nil, &vfs.PathError{Path: dir, Segment: entry.Name, Err: vfs.ErrNotDir}
	}
	children, err := backend.ListChildren(abs)
	if err != nil {
		return nil, err
	}
	entries := make([]vfs.Entry, 0, len(children))
	for _, e := range children {
		if !showHidden && e.Hidden() {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Root describes the directory sessions start in.
func (t *Terminal) Root() (vfs.Entry, error) {
	t.Lock()
	defer t.Unlock()
	home := t.it.Backend().Home()
	entry, _, err := t.it.Backend().Resolve(home, home)
	return entry, err
}

func (t *Terminal) SetSubLocation(name string) error {
	if t.quest == nil {
		return ErrNotQuest
	}
	t.Lock()
	defer t.Unlock()
	t.lastActive = t.now()
	return t.quest.SetSubLocation(name)
}

func (t *Terminal) State() State {
	t.Lock()
	defer t.Unlock()

	s := State{ID: t.ID, Variant: t.Variant, Path: t.it.Session().CurrentPath}
	if t.quest != nil {
		s.Location = t.quest.Location()
		s.SubLocation = t.quest.SubLocation()
		s.Unlocked = t.quest.Unlocked()
		s.Completed = t.quest.Completed()
	}
	return s
}

func (t *Terminal) idleSince(now time.Time) time.Duration {
	t.Lock()
	defer t.Unlock()
	return now.Sub(t.lastActive)
}
