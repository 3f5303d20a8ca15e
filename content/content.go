// Package content loads the read-only data every session is built from: the
// command reference, the sandbox seed tree and the quest world.
package content

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"termquest/interpreter"
	"termquest/quest"
	"termquest/sandbox"
	"termquest/vfs"
)

//go:embed default.yaml
var defaultYAML []byte

type Content struct {
	Help    []interpreter.HelpEntry `yaml:"help"`
	Sandbox Sandbox                 `yaml:"sandbox"`
	Quest   Quest                   `yaml:"quest"`
}

type Sandbox struct {
	User      string    `yaml:"user"`
	Home      string    `yaml:"home"`
	Timestamp string    `yaml:"timestamp"`
	Root      *vfs.Node `yaml:"root"`
}

type Quest struct {
	User      string            `yaml:"user"`
	Start     string            `yaml:"start"`
	Timestamp string            `yaml:"timestamp"`
	Unlocked  []string          `yaml:"unlocked"`
	Locations []quest.Location  `yaml:"locations"`
	Files     map[string]string `yaml:"files"`
	Scripts   map[string]string `yaml:"scripts"`
}

// Default returns the built-in content.
func Default() (*Content, error) {
	return Parse(defaultYAML)
}

// Load reads a content file, or the built-in content when path is empty.
func Load(path string) (*Content, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a content document.
func Parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate builds one session of each variant, which is the only way seed
// errors surface.
func (c *Content) Validate() error {
	if c.Sandbox.Root == nil {
		return fmt.Errorf("content: sandbox root is missing")
	}
	if _, err := sandbox.New(c.SandboxConfig(0, nil)); err != nil {
		return fmt.Errorf("content: %w", err)
	}
	if _, err := quest.New(c.QuestConfig(0, nil)); err != nil {
		return fmt.Errorf("content: %w", err)
	}
	return nil
}

// SandboxConfig returns a sandbox configuration. The interpreter copies the
// tree, so the content stays untouched.
func (c *Content) SandboxConfig(historyLimit int, logger *zap.Logger) sandbox.Config {
	return sandbox.Config{
		Root:         c.Sandbox.Root,
		Home:         c.Sandbox.Home,
		User:         c.Sandbox.User,
		Timestamp:    c.Sandbox.Timestamp,
		Help:         c.Help,
		HistoryLimit: historyLimit,
		Logger:       logger,
	}
}

// QuestConfig returns a quest configuration. Files and scripts share one
// namespace for cat and script output.
func (c *Content) QuestConfig(historyLimit int, logger *zap.Logger) quest.Config {
	contents := make(map[string]string, len(c.Quest.Files)+len(c.Quest.Scripts))
	for k, v := range c.Quest.Files {
		contents[k] = v
	}
	for k, v := range c.Quest.Scripts {
		contents[k] = v
	}
	return quest.Config{
		Locations:    c.Quest.Locations,
		Start:        c.Quest.Start,
		Unlocked:     c.Quest.Unlocked,
		Contents:     contents,
		Timestamp:    c.Quest.Timestamp,
		User:         c.Quest.User,
		Help:         c.Help,
		HistoryLimit: historyLimit,
		Logger:       logger,
	}
}

// Summary is one row of the world overview.
type Summary struct {
	ID          string
	Name        string
	Files       int
	Directories int
	Chest       string
	Grants      string
}

// Summarize describes the quest world location by location.
func (c *Content) Summarize() []Summary {
	rows := make([]Summary, 0, len(c.Quest.Locations))
	for _, l := range c.Quest.Locations {
		row := Summary{ID: l.ID, Name: l.Name, Files: len(l.Files), Directories: len(l.Directories)}
		if l.Chest != nil {
			row.Chest = l.Chest.Command
			row.Grants = strings.Join(l.Chest.Grants, ", ")
			if l.Chest.Final {
				row.Grants = interpreter.MasterUnlock
			}
		}
		rows = append(rows, row)
	}
	return rows
}
