package interpreter

import (
	"fmt"

	"termquest/vfs"
)

// ClearScreen is the single output line returned by clear. Callers wipe the
// displayed lines when they see it.
const ClearScreen = "\x1b[2J"

// Code classifies a failed command.
type Code string

const (
	CodeUsage      Code = "usage"
	CodeResolution Code = "resolution"
	CodeGated      Code = "gated"
	CodeUnknown    Code = "unknown"
)

// MasterUnlock is the TreasureUnlocked value announcing that every gate is cleared.
const MasterUnlock = "master"

// Result is what one command line produces.
type Result struct {
	Output     []string `json:"output"`
	Error      string   `json:"error,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	Valid      bool     `json:"commandValid"`
	Code       Code     `json:"code,omitempty"`

	// LocationChanged carries the id of the location the user travelled to.
	LocationChanged string `json:"locationChanged,omitempty"`
	// TreasureUnlocked carries comma-joined command ids granted by a gate, or MasterUnlock.
	TreasureUnlocked string `json:"treasureUnlocked,omitempty"`
}

// Cleared reports whether the caller should wipe its display.
func (r Result) Cleared() bool {
	return len(r.Output) == 1 && r.Output[0] == ClearScreen
}

// Output builds a successful result.
func Output(lines ...string) Result {
	if lines == nil {
		lines = []string{}
	}
	return Result{Output: lines, Valid: true}
}

// UsageError builds a result for a missing or invalid operand.
func UsageError(format string, args ...any) Result {
	return Result{Output: []string{}, Error: fmt.Sprintf(format, args...), Code: CodeUsage}
}

// ResolutionError builds "<verb>: <target>: <reason>" from a vfs error.
func ResolutionError(verb, target string, err error) Result {
	return Result{
		Output: []string{},
		Error:  fmt.Sprintf("%s: %s: %s", verb, target, vfs.Describe(err)),
		Code:   CodeResolution,
	}
}
