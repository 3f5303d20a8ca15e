// Package sandbox builds free-play interpreters over a hierarchical seed tree.
package sandbox

import (
	"fmt"

	"go.uber.org/zap"

	"termquest/interpreter"
	"termquest/vfs"
)

const (
	DefaultHome = "/home/user"
	DefaultUser = "user"
)

type Config struct {
	Root *vfs.Node
	// Home is where sessions start and what ~ expands to.
	Home      string
	User      string
	Timestamp string

	Help         []interpreter.HelpEntry
	HistoryLimit int
	Logger       *zap.Logger
}

// New validates and copies the seed tree and returns an interpreter with the
// builtins and the file-manipulation stubs. Every verb is permitted.
func New(cfg Config) (*interpreter.Interpreter, error) {
	if cfg.Root == nil {
		return nil, fmt.Errorf("sandbox: seed tree is required")
	}
	if cfg.Home == "" {
		cfg.Home = DefaultHome
	}
	if cfg.User == "" {
		cfg.User = DefaultUser
	}

	tree, err := vfs.NewTree(cfg.Root, cfg.Home, cfg.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("sandbox: %w", err)
	}

	r := interpreter.NewRegistry()
	interpreter.RegisterBuiltins(r)
	interpreter.RegisterStubs(r)

	return interpreter.New(interpreter.Config{
		Backend:      tree,
		Registry:     r,
		Help:         cfg.Help,
		User:         cfg.User,
		HistoryLimit: cfg.HistoryLimit,
		Logger:       cfg.Logger,
	})
}
