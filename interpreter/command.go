package interpreter

import (
	"regexp"
	"strings"
)

// Command is a tokenized input line. Tokens are split on whitespace only;
// quotes and escapes have no special meaning.
type Command struct {
	Verb string
	Args []string
}

// Parse tokenizes a line. ok is false for blank input.
func Parse(line string) (cmd Command, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, false
	}
	return Command{Verb: fields[0], Args: fields[1:]}, true
}

var scriptPattern = regexp.MustCompile(`^\./([^/\s]+)\.sh$`)

// ScriptName returns the script base name ("coffre_ls" for "./coffre_ls.sh")
// of the first token of cmd that invokes a script.
func (c Command) ScriptName() (string, bool) {
	for _, tok := range append([]string{c.Verb}, c.Args...) {
		if m := scriptPattern.FindStringSubmatch(tok); m != nil {
			return m[1], true
		}
	}
	return "", false
}
