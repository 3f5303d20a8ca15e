// Package quest layers a location graph and command-unlock progression on
// top of the interpreter. Commands are locked until a chest grants them;
// chests open when their verb is run at their location or when the matching
// ./coffre_<verb>.sh script is executed.
package quest

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"termquest/interpreter"
	"termquest/vfs"
)

const scriptPrefix = "coffre_"

type Config struct {
	Locations []Location
	Start     string
	// Unlocked is the initial allow-list.
	Unlocked []string
	// Contents maps file and script names to their text.
	Contents  map[string]string
	Timestamp string
	User      string

	Help         []interpreter.HelpEntry
	HistoryLimit int
	Logger       *zap.Logger
}

// Interpreter is a quest session. The embedded interpreter runs the commands;
// this type gates them and turns matching ones into unlock events.
type Interpreter struct {
	*interpreter.Interpreter

	world    *World
	unlocked map[string]bool
	// origin is the location a dispatched command started from.
	origin string

	logger *zap.Logger
}

// New builds a quest session over a private copy of cfg's world.
func New(cfg Config) (*Interpreter, error) {
	world, err := NewWorld(cfg.Locations, cfg.Start, cfg.Contents, cfg.Timestamp)
	if err != nil {
		return nil, err
	}

	q := &Interpreter{
		world:    world,
		unlocked: make(map[string]bool, len(cfg.Unlocked)),
		logger:   cfg.Logger,
	}
	if q.logger == nil {
		q.logger = zap.NewNop()
	}
	for _, v := range cfg.Unlocked {
		q.unlocked[v] = true
	}

	r := interpreter.NewRegistry()
	interpreter.RegisterBuiltins(r)
	r.Handle("cd", q.cd)
	r.Register(interpreter.Definition{Name: "help", Handler: q.help, BypassGate: true})

	q.Interpreter, err = interpreter.New(interpreter.Config{
		Backend:      world,
		Registry:     r,
		Help:         cfg.Help,
		User:         cfg.User,
		HistoryLimit: cfg.HistoryLimit,
		Gate:         q,
		Scripts:      q,
		Hook:         q,
		Logger:       cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("quest: %w", err)
	}
	return q, nil
}

func (q *Interpreter) World() *World {
	return q.world
}

// Location returns the id of the current location.
func (q *Interpreter) Location() string {
	loc, _ := Split(q.Session().CurrentPath)
	return loc
}

// SubLocation returns the current sub-location, or "" at a location's top level.
func (q *Interpreter) SubLocation() string {
	_, sub := Split(q.Session().CurrentPath)
	return sub
}

// SetSubLocation moves within the current location without going through
// cd. An empty name returns to the location's top level.
func (q *Interpreter) SetSubLocation(name string) error {
	loc := q.Location()
	if name == "" {
		q.Session().CurrentPath = "/" + loc
		return nil
	}
	l, ok := q.world.Location(loc)
	if !ok || !l.hasDirectory(name) {
		return fmt.Errorf("quest: %q is not a sub-location of %q", name, loc)
	}
	q.Session().CurrentPath = "/" + loc + "/" + name
	return nil
}

// Unlocked returns the allow-list in lexical order.
func (q *Interpreter) Unlocked() []string {
	verbs := make([]string, 0, len(q.unlocked))
	for v := range q.unlocked {
		verbs = append(verbs, v)
	}
	sort.Strings(verbs)
	return verbs
}

// Completed reports whether the final chest has been opened.
func (q *Interpreter) Completed() bool {
	for _, l := range q.world.Locations() {
		if l.Chest != nil && l.Chest.Final && l.Chest.Unlocked {
			return true
		}
	}
	return false
}

func (q *Interpreter) Allowed(verb string) bool {
	return q.unlocked[verb]
}

func (q *Interpreter) Before(cmd interpreter.Command) {
	q.origin = q.Location()
}

// After opens the chest of the location the command started from when the
// command is the chest's verb and it succeeded.
func (q *Interpreter) After(cmd interpreter.Command, res *interpreter.Result) {
	if !res.Valid {
		return
	}
	l, ok := q.world.Location(q.origin)
	if !ok || l.Chest == nil || l.Chest.Unlocked || l.Chest.Command != cmd.Verb {
		return
	}
	q.open(l, res)
}

// RunScript executes ./coffre_<verb>.sh, opening the chest keyed to verb
// regardless of the allow-list.
func (q *Interpreter) RunScript(name string, cmd interpreter.Command, it *interpreter.Interpreter) interpreter.Result {
	file := "./" + name + ".sh"
	verb := strings.TrimPrefix(name, scriptPrefix)
	if verb == name || verb == "" {
		return interpreter.ResolutionError("bash", file, vfs.ErrNotExist)
	}
	l, chest := q.world.ChestFor(verb, q.Location())
	if chest == nil {
		return interpreter.ResolutionError("bash", file, vfs.ErrNotExist)
	}

	res := interpreter.Output(interpreter.SplitLines(q.world.contents[name+".sh"])...)
	if chest.Unlocked {
		res.Output = append(res.Output, fmt.Sprintf("The chest of %s is already open.", l.Name))
		return res
	}
	q.open(l, &res)
	return res
}

func (q *Interpreter) open(l *Location, res *interpreter.Result) {
	l.Chest.Unlocked = true

	if l.Chest.Final {
		for _, v := range q.Registry().Verbs() {
			q.unlocked[v] = true
		}
		res.TreasureUnlocked = interpreter.MasterUnlock
		res.Output = append(res.Output, fmt.Sprintf("The final chest of %s opens. Every command is yours.", l.Name))
		q.logger.Info("quest completed", zap.String("location", l.ID))
		return
	}

	var granted []string
	for _, g := range l.Chest.Grants {
		if !q.unlocked[g] {
			granted = append(granted, g)
			q.unlocked[g] = true
		}
	}
	if len(granted) == 0 {
		granted = l.Chest.Grants
	}
	res.TreasureUnlocked = strings.Join(granted, ",")
	res.Output = append(res.Output, fmt.Sprintf("The chest of %s opens! New commands: %s", l.Name, strings.Join(granted, ", ")))
	q.logger.Info("chest opened",
		zap.String("location", l.ID),
		zap.String("command", l.Chest.Command),
		zap.Strings("granted", granted),
	)
}

// cd moves between sub-locations and travels to other locations by id. A
// sub-location of the current location shadows a location of the same name.
func (q *Interpreter) cd(args []string, it *interpreter.Interpreter) interpreter.Result {
	if len(args) > 1 {
		return interpreter.UsageError("cd: too many arguments")
	}
	target := "~"
	if len(args) == 1 {
		target = args[0]
	}

	s := it.Session()
	announce := false
	if target == "-" {
		if s.PreviousPath == "" {
			return interpreter.UsageError("cd: OLDPWD not set")
		}
		target = s.PreviousPath
		announce = true
	}

	entry, abs, err := q.world.Resolve(target, s.CurrentPath)
	if err != nil {
		if _, ok := q.world.Location(target); !ok {
			return interpreter.ResolutionError("cd", target, err)
		}
		abs = "/" + target
	} else if !entry.IsDir {
		return interpreter.ResolutionError("cd", target, vfs.ErrNotDir)
	}

	from := q.Location()
	s.Chdir(abs)
	to := q.Location()

	var lines []string
	if announce {
		lines = append(lines, abs)
	}
	if to == from {
		return interpreter.Output(lines...)
	}

	l, _ := q.world.Location(to)
	res := interpreter.Output(append(lines, interpreter.SplitLines(l.Description)...)...)
	res.LocationChanged = to
	return res
}

// help prefixes the command reference with the player's progress.
func (q *Interpreter) help(args []string, it *interpreter.Interpreter) interpreter.Result {
	name := q.Location()
	if l, ok := q.world.Location(name); ok && l.Name != "" {
		name = l.Name
	}
	res := interpreter.Help(args, it)
	header := []string{
		"Location: " + name,
		fmt.Sprintf("Unlocked: %d/%d commands", len(it.Permitted()), len(it.Registry().Verbs())),
		"",
	}
	res.Output = append(header, res.Output...)
	return res
}
