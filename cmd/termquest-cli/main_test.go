package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termquest/content"
	"termquest/interpreter"
	"termquest/terminal"
	"termquest/vfs"
)

func init() {
	color.NoColor = true
}

func TestCheck(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, check(&buf, ""))

	c, err := content.Default()
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "built-in content is valid")
	assert.Contains(t, out, fmt.Sprintf("sandbox: user user, home /home/user, %d nodes", vfs.CountNodes(c.Sandbox.Root)))
	assert.Contains(t, out, "quest: user adventurer, start village")
	assert.Contains(t, out, "Location")
	assert.Contains(t, out, "chateau")
	assert.Contains(t, out, "master")
}

func TestCheckInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("quest: [\n"), 0o644))

	var buf bytes.Buffer
	assert.Error(t, check(&buf, path))
	assert.Contains(t, buf.String(), "invalid content")
}

func TestCheckCommand(t *testing.T) {
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"check"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "village")
}

func TestRender(t *testing.T) {
	testCases := []struct {
		name     string
		result   interpreter.Result
		expected string
	}{
		{
			name:     "output",
			result:   interpreter.Output("a", "b"),
			expected: "a\nb\n",
		},
		{
			name:     "error with hint",
			result:   interpreter.Result{Error: "pdw: command not found", Suggestion: "Did you mean 'pwd'?"},
			expected: "pdw: command not found\nDid you mean 'pwd'?\n",
		},
		{
			name:     "clear",
			result:   interpreter.Output(interpreter.ClearScreen),
			expected: "\033[H\033[2J",
		},
		{
			name:     "unlock",
			result:   interpreter.Result{Valid: true, TreasureUnlocked: "pwd,cat"},
			expected: "*** Unlocked: pwd,cat ***\n",
		},
		{
			name:     "master",
			result:   interpreter.Result{Valid: true, TreasureUnlocked: interpreter.MasterUnlock},
			expected: "*** Every command is unlocked. Quest complete! ***\n",
		},
		{
			name:     "travel",
			result:   interpreter.Result{Valid: true, LocationChanged: "foret"},
			expected: "[you arrive at foret]\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			render(&buf, tc.result)
			assert.Equal(t, tc.expected, buf.String())
		})
	}
}

func TestPlayerCompletions(t *testing.T) {
	c, err := content.Default()
	require.NoError(t, err)
	p, err := newPlayer(c, terminal.VariantSandbox)
	require.NoError(t, err)

	assert.Equal(t, []string{"pwd"}, p.completions("pw"))
	assert.Equal(t, []string{"cd Documents", "cd Downloads"}, p.completions("cd Do"))
	assert.Equal(t, "user@termquest:/home/user$ ", p.prompt())
}
