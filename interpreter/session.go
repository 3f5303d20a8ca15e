package interpreter

// Session is the mutable state of one interpreter instance.
type Session struct {
	CurrentPath  string
	PreviousPath string
	LastError    string

	history []string
	limit   int
}

// NewSession starts in path. A positive limit caps the history, dropping the
// oldest entries first.
func NewSession(path string, limit int) *Session {
	return &Session{
		CurrentPath: path,
		history:     []string{},
		limit:       limit,
	}
}

// Chdir moves to path and remembers where we came from.
func (s *Session) Chdir(path string) {
	s.PreviousPath = s.CurrentPath
	s.CurrentPath = path
}

func (s *Session) record(line string) {
	s.history = append(s.history, line)
	if s.limit > 0 && len(s.history) > s.limit {
		s.history = append([]string(nil), s.history[len(s.history)-s.limit:]...)
	}
}

// History returns a copy of the recorded lines, oldest first.
func (s *Session) History() []string {
	return append([]string{}, s.history...)
}
