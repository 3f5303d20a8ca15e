package quest

import (
	"fmt"
	"strings"

	"termquest/vfs"
)

// Chest is a one-shot gate keyed to a single verb.
type Chest struct {
	Command string   `json:"command" yaml:"command"`
	Grants  []string `json:"grants" yaml:"grants"`
	// Final marks the chest that completes the world.
	Final    bool `json:"final" yaml:"final"`
	Unlocked bool `json:"unlocked" yaml:"unlocked"`
}

// Location is one top-level place of the world. Directories are flat
// sub-location names; Rooms optionally lists the files inside each of them.
type Location struct {
	ID          string              `json:"id" yaml:"id"`
	Name        string              `json:"name" yaml:"name"`
	Description string              `json:"description" yaml:"description"`
	Files       []string            `json:"files" yaml:"files"`
	Directories []string            `json:"directories" yaml:"directories"`
	Rooms       map[string][]string `json:"rooms,omitempty" yaml:"rooms"`
	Chest       *Chest              `json:"chest,omitempty" yaml:"chest"`
}

func (l *Location) clone() *Location {
	c := *l
	c.Files = append([]string(nil), l.Files...)
	c.Directories = append([]string(nil), l.Directories...)
	if l.Rooms != nil {
		c.Rooms = make(map[string][]string, len(l.Rooms))
		for k, v := range l.Rooms {
			c.Rooms[k] = append([]string(nil), v...)
		}
	}
	if l.Chest != nil {
		chest := *l.Chest
		chest.Grants = append([]string(nil), l.Chest.Grants...)
		c.Chest = &chest
	}
	return &c
}

func (l *Location) hasDirectory(name string) bool {
	for _, d := range l.Directories {
		if d == name {
			return true
		}
	}
	return false
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// World is the flat location graph of the quest. Paths are "/<location>",
// "/<location>/<sub-location>" and the files below them. There is nothing
// above a location: "/" does not resolve.
type World struct {
	order      []string
	locations  map[string]*Location
	start      string
	contents   map[string]string
	modifiedAt string
}

// NewWorld copies locs into a world starting at start. contents maps file
// names to their text; listed files without an entry are empty.
func NewWorld(locs []Location, start string, contents map[string]string, modifiedAt string) (*World, error) {
	w := &World{
		locations:  make(map[string]*Location, len(locs)),
		start:      start,
		contents:   make(map[string]string, len(contents)),
		modifiedAt: modifiedAt,
	}
	for i := range locs {
		l := locs[i].clone()
		if l.ID == "" || strings.Contains(l.ID, "/") {
			return nil, fmt.Errorf("quest: invalid location id %q", l.ID)
		}
		if _, dup := w.locations[l.ID]; dup {
			return nil, fmt.Errorf("quest: duplicate location %q", l.ID)
		}
		for room := range l.Rooms {
			if !l.hasDirectory(room) {
				return nil, fmt.Errorf("quest: location %q: room %q is not a sub-location", l.ID, room)
			}
		}
		if l.Chest != nil && l.Chest.Command == "" {
			return nil, fmt.Errorf("quest: location %q: chest has no command", l.ID)
		}
		w.order = append(w.order, l.ID)
		w.locations[l.ID] = l
	}
	if _, ok := w.locations[start]; !ok {
		return nil, fmt.Errorf("quest: start location %q does not exist", start)
	}
	for k, v := range contents {
		w.contents[k] = v
	}
	return w, nil
}

func (w *World) Home() string {
	return "/" + w.start
}

// Location returns the location with the given id.
func (w *World) Location(id string) (*Location, bool) {
	l, ok := w.locations[id]
	return l, ok
}

// Locations returns every location in world order.
func (w *World) Locations() []*Location {
	locs := make([]*Location, 0, len(w.order))
	for _, id := range w.order {
		locs = append(locs, w.locations[id])
	}
	return locs
}

func (w *World) LocationIDs() []string {
	return append([]string(nil), w.order...)
}

// ChestFor finds the chest keyed to verb, preferring the one at loc.
func (w *World) ChestFor(verb, loc string) (*Location, *Chest) {
	if l, ok := w.locations[loc]; ok && l.Chest != nil && l.Chest.Command == verb {
		return l, l.Chest
	}
	for _, id := range w.order {
		l := w.locations[id]
		if l.Chest != nil && l.Chest.Command == verb {
			return l, l.Chest
		}
	}
	return nil, nil
}

// Split breaks a canonical world path into its location and sub-location.
func Split(path string) (loc, sub string) {
	parts := strings.SplitN(strings.Trim(path, "/"), "/", 3)
	loc = parts[0]
	if len(parts) > 1 {
		sub = parts[1]
	}
	return loc, sub
}

func (w *World) Resolve(path, cwd string) (vfs.Entry, string, error) {
	stack, isFile, err := w.walk(path, cwd)
	if err != nil {
		return vfs.Entry{}, "", err
	}
	abs := "/" + strings.Join(stack, "/")
	return w.entry(stack[len(stack)-1], abs, !isFile), abs, nil
}

func (w *World) ListChildren(dir string) ([]vfs.Entry, error) {
	stack, isFile, err := w.walk(dir, "/")
	if err != nil {
		return nil, err
	}
	if isFile {
		return nil, &vfs.PathError{Path: dir, Segment: stack[len(stack)-1], Err: vfs.ErrNotDir}
	}

	l := w.locations[stack[0]]
	abs := "/" + strings.Join(stack, "/")
	var entries []vfs.Entry
	if len(stack) == 1 {
		for _, d := range l.Directories {
			entries = append(entries, w.entry(d, vfs.Join(abs, d), true))
		}
		for _, f := range l.Files {
			entries = append(entries, w.entry(f, vfs.Join(abs, f), false))
		}
		return entries, nil
	}
	for _, f := range l.Rooms[stack[1]] {
		entries = append(entries, w.entry(f, vfs.Join(abs, f), false))
	}
	return entries, nil
}

func (w *World) ReadFile(path, cwd string) (string, error) {
	stack, isFile, err := w.walk(path, cwd)
	if err != nil {
		return "", err
	}
	if !isFile {
		return "", &vfs.PathError{Path: path, Segment: stack[len(stack)-1], Err: vfs.ErrIsDir}
	}
	return w.contents[stack[len(stack)-1]], nil
}

// walk resolves path against cwd. ".." never leaves a location: at the top
// of one it is a resolution failure.
func (w *World) walk(path, cwd string) ([]string, bool, error) {
	orig := path
	var stack []string
	switch {
	case path == "~" || strings.HasPrefix(path, "~/"):
		stack = []string{w.start}
		path = strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/")
	case strings.HasPrefix(path, "/"):
	default:
		loc, sub := Split(cwd)
		if loc != "" {
			stack = append(stack, loc)
		}
		if sub != "" {
			stack = append(stack, sub)
		}
	}

	fail := func(seg string, err error) ([]string, bool, error) {
		return nil, false, &vfs.PathError{Path: orig, Segment: seg, Err: err}
	}

	isFile := false
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || seg == "." {
			continue
		}
		if isFile {
			return fail(stack[len(stack)-1], vfs.ErrNotDir)
		}
		if seg == ".." {
			if len(stack) <= 1 {
				return fail(seg, vfs.ErrNotExist)
			}
			stack = stack[:len(stack)-1]
			continue
		}

		switch len(stack) {
		case 0:
			if _, ok := w.locations[seg]; !ok {
				return fail(seg, vfs.ErrNotExist)
			}
		case 1:
			l, ok := w.locations[stack[0]]
			switch {
			case !ok:
				return fail(stack[0], vfs.ErrNotExist)
			case l.hasDirectory(seg):
			case contains(l.Files, seg):
				isFile = true
			default:
				return fail(seg, vfs.ErrNotExist)
			}
		case 2:
			if !contains(w.locations[stack[0]].Rooms[stack[1]], seg) {
				return fail(seg, vfs.ErrNotExist)
			}
			isFile = true
		default:
			return fail(seg, vfs.ErrNotExist)
		}
		stack = append(stack, seg)
	}

	if len(stack) == 0 {
		return fail("/", vfs.ErrNotExist)
	}
	if isFile && strings.HasSuffix(path, "/") {
		return fail(stack[len(stack)-1], vfs.ErrNotDir)
	}
	return stack, isFile, nil
}

func (w *World) entry(name, abs string, dir bool) vfs.Entry {
	e := vfs.Entry{
		Name:        name,
		Path:        abs,
		IsDir:       dir,
		Permissions: vfs.DefaultPermissions(name, dir),
		ModifiedAt:  w.modifiedAt,
		Links:       1,
	}
	if dir {
		e.Links = 2
		e.Size = vfs.DirSize
		if loc, sub := Split(abs); sub == "" {
			e.Links += len(w.locations[loc].Directories)
		}
	} else {
		e.Size = int64(len(w.contents[name]))
	}
	return e
}
