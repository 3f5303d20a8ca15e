// Package interpreter runs typed command lines against a synthetic filesystem
// and returns coreutils-flavoured results. Execution is synchronous and
// performs no I/O; an Interpreter must not be used from several goroutines
// at once.
package interpreter

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"termquest/suggest"
	"termquest/vfs"
)

// Gate is an allow-list of verbs. A registered verb the gate refuses fails
// with a gating error instead of running.
type Gate interface {
	Allowed(verb string) bool
}

// ScriptRunner handles "./<name>.sh" invocations ahead of the registry.
type ScriptRunner interface {
	RunScript(name string, cmd Command, it *Interpreter) Result
}

// Hook observes every command that reaches a handler.
type Hook interface {
	Before(cmd Command)
	After(cmd Command, res *Result)
}

// HelpEntry is one line of the command reference.
type HelpEntry struct {
	Command     string `json:"command" yaml:"command"`
	Usage       string `json:"usage" yaml:"usage"`
	Description string `json:"description" yaml:"description"`
}

type Config struct {
	Backend  vfs.Backend
	Registry *Registry
	Help     []HelpEntry
	// User is shown by whoami and as the owner in long listings.
	User         string
	HistoryLimit int

	Gate    Gate
	Scripts ScriptRunner
	Hook    Hook

	Logger *zap.Logger
}

type Interpreter struct {
	backend  vfs.Backend
	registry *Registry
	help     []HelpEntry
	user     string
	session  *Session

	gate    Gate
	scripts ScriptRunner
	hook    Hook

	logger *zap.Logger
}

// New starts an interpreter in the backend's home directory.
func New(cfg Config) (*Interpreter, error) {
	if cfg.Backend == nil {
		return nil, fmt.Errorf("interpreter: backend is required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("interpreter: registry is required")
	}

	it := &Interpreter{
		backend:  cfg.Backend,
		registry: cfg.Registry,
		help:     cfg.Help,
		user:     cfg.User,
		session:  NewSession(cfg.Backend.Home(), cfg.HistoryLimit),
		gate:     cfg.Gate,
		scripts:  cfg.Scripts,
		hook:     cfg.Hook,
		logger:   cfg.Logger,
	}
	if it.user == "" {
		it.user = "user"
	}
	if it.logger == nil {
		it.logger = zap.NewNop()
	}
	return it, nil
}

// Execute runs one raw input line. Blank input is a no-op; every other line
// is recorded in the history whether or not it succeeds.
func (it *Interpreter) Execute(input string) Result {
	line := strings.TrimSpace(input)
	cmd, ok := Parse(line)
	if !ok {
		return Output()
	}

	it.session.record(line)
	res := it.dispatch(cmd)
	if res.Output == nil {
		res.Output = []string{}
	}
	it.session.LastError = res.Error

	it.logger.Debug("command executed",
		zap.String("verb", cmd.Verb),
		zap.Int("args", len(cmd.Args)),
		zap.Bool("valid", res.Valid),
		zap.String("code", string(res.Code)),
		zap.String("cwd", it.session.CurrentPath),
	)
	return res
}

func (it *Interpreter) dispatch(cmd Command) Result {
	if it.scripts != nil {
		if name, ok := cmd.ScriptName(); ok {
			return it.scripts.RunScript(name, cmd, it)
		}
	}

	def, ok := it.registry.Lookup(cmd.Verb)
	// A verb outside the allow-list is gated, registered or not.
	if it.gate != nil && !(ok && def.BypassGate) && !it.gate.Allowed(cmd.Verb) {
		return gated(cmd.Verb)
	}
	if !ok {
		corrections := suggest.Correct(cmd.Verb, it.Permitted())
		return Result{
			Output:     []string{},
			Error:      cmd.Verb + ": command not found",
			Suggestion: suggest.Hint(corrections),
			Code:       CodeUnknown,
		}
	}

	if it.hook != nil {
		it.hook.Before(cmd)
	}
	res := def.Handler(cmd.Args, it)
	if it.hook != nil {
		it.hook.After(cmd, &res)
	}
	return res
}

func gated(verb string) Result {
	return Result{
		Output: []string{},
		Error:  fmt.Sprintf("Command '%s' not available. Find the gate that grants it.", verb),
		Code:   CodeGated,
	}
}

func (it *Interpreter) permitted(def Definition) bool {
	return it.gate == nil || def.BypassGate || it.gate.Allowed(def.Name)
}

// Permitted returns the registered verbs the user may run right now.
func (it *Interpreter) Permitted() []string {
	var verbs []string
	for _, v := range it.registry.Verbs() {
		def, _ := it.registry.Lookup(v)
		if it.permitted(def) {
			verbs = append(verbs, v)
		}
	}
	return verbs
}

// History returns the recorded input lines in order.
func (it *Interpreter) History() []string {
	return it.session.History()
}

// Complete autocompletes a partially typed line from the current directory.
func (it *Interpreter) Complete(input string) suggest.Completion {
	return suggest.Complete(input, completionSource{it})
}

func (it *Interpreter) Session() *Session {
	return it.session
}

func (it *Interpreter) Backend() vfs.Backend {
	return it.backend
}

func (it *Interpreter) Registry() *Registry {
	return it.registry
}

func (it *Interpreter) User() string {
	return it.user
}

type completionSource struct {
	it *Interpreter
}

func (s completionSource) Verbs() []string {
	return s.it.Permitted()
}

func (s completionSource) Candidates() []suggest.Candidate {
	entries, err := s.it.backend.ListChildren(s.it.session.CurrentPath)
	if err != nil {
		return nil
	}
	candidates := make([]suggest.Candidate, 0, len(entries))
	for _, e := range entries {
		candidates = append(candidates, suggest.Candidate{Name: e.Name, Dir: e.IsDir, Executable: e.Executable()})
	}
	return candidates
}

func (s completionSource) Locations() []string {
	if l, ok := s.it.backend.(vfs.LocationLister); ok {
		return l.LocationIDs()
	}
	return nil
}
