package suggest

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Candidate is a name visible from the current directory.
type Candidate struct {
	Name       string
	Dir        bool
	Executable bool
}

// Source provides what completion can offer at the current position.
type Source interface {
	// Verbs returns the verbs the user may run right now.
	Verbs() []string
	// Candidates returns the entries of the current directory.
	Candidates() []Candidate
	// Locations returns extra cd targets reachable from anywhere.
	Locations() []string
}

// Completion is the result of completing a partially typed line. Prefix is the
// token being completed; every candidate starts with it.
type Completion struct {
	Prefix     string   `json:"prefix"`
	Candidates []string `json:"candidates"`
}

const scriptPrefix = "./"

// Complete suggests verbs while the first token is being typed, and
// verb-appropriate arguments afterwards.
func Complete(input string, src Source) Completion {
	line := strings.TrimLeftFunc(input, unicode.IsSpace)
	fields := strings.Fields(line)
	typingNew := line == "" || endsInSpace(line)

	if len(fields) == 0 || (len(fields) == 1 && !typingNew) {
		prefix := ""
		if len(fields) == 1 {
			prefix = fields[0]
		}
		if strings.HasPrefix(prefix, scriptPrefix) {
			return Completion{Prefix: prefix, Candidates: scripts(prefix, src)}
		}
		return Completion{Prefix: prefix, Candidates: filter(src.Verbs(), prefix)}
	}

	prefix := ""
	if !typingNew {
		prefix = fields[len(fields)-1]
	}
	if strings.HasPrefix(prefix, scriptPrefix) {
		return Completion{Prefix: prefix, Candidates: scripts(prefix, src)}
	}

	var names []string
	switch fields[0] {
	case "cd":
		for _, c := range src.Candidates() {
			if c.Dir {
				names = append(names, c.Name)
			}
		}
		names = append(names, src.Locations()...)
	case "ls":
		for _, c := range src.Candidates() {
			if c.Dir {
				names = append(names, c.Name)
			}
		}
	case "cat":
		for _, c := range src.Candidates() {
			if !c.Dir {
				names = append(names, c.Name)
			}
		}
	}
	return Completion{Prefix: prefix, Candidates: filter(names, prefix)}
}

func scripts(prefix string, src Source) []string {
	var names []string
	for _, c := range src.Candidates() {
		if c.Executable {
			names = append(names, scriptPrefix+c.Name)
		}
	}
	return filter(names, prefix)
}

// filter keeps the names starting with prefix, sorted and deduplicated.
func filter(names []string, prefix string) []string {
	seen := make(map[string]bool, len(names))
	result := []string{}
	for _, n := range names {
		if seen[n] || !strings.HasPrefix(n, prefix) {
			continue
		}
		seen[n] = true
		result = append(result, n)
	}
	sort.Strings(result)
	return result
}

// Apply replaces the token being completed with candidate and appends a
// trailing space, the way a shell accepts a completion.
func Apply(input, candidate string) string {
	if input == "" || endsInSpace(input) {
		return input + candidate + " "
	}
	i := strings.LastIndexFunc(input, unicode.IsSpace)
	if i < 0 {
		return candidate + " "
	}
	_, size := utf8.DecodeRuneInString(input[i:])
	return input[:i+size] + candidate + " "
}

func endsInSpace(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsSpace(r)
}
