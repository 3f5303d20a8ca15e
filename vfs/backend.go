package vfs

import (
	"errors"
	"strings"
)

var (
	ErrNotExist = errors.New("no such file or directory")
	ErrNotDir   = errors.New("not a directory")
	ErrIsDir    = errors.New("is a directory")
)

// PathError records a failed resolution and the path segment that caused it.
type PathError struct {
	Path    string
	Segment string
	Err     error
}

func (e *PathError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// Describe renders a resolution error the way coreutils prints it.
func Describe(err error) string {
	switch {
	case errors.Is(err, ErrNotExist):
		return "No such file or directory"
	case errors.Is(err, ErrNotDir):
		return "Not a directory"
	case errors.Is(err, ErrIsDir):
		return "Is a directory"
	case err == nil:
		return ""
	default:
		return err.Error()
	}
}

// Entry is the display view of a node, shared by every backend.
type Entry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	IsDir       bool   `json:"isDir"`
	Size        int64  `json:"size"`
	Permissions string `json:"permissions"`
	ModifiedAt  string `json:"modTime"`
	Links       int    `json:"links"`
}

// Executable reports whether the entry looks runnable: a shell script or a
// file carrying an execute bit.
func (e Entry) Executable() bool {
	if e.IsDir {
		return false
	}
	if strings.HasSuffix(e.Name, ".sh") {
		return true
	}
	return len(e.Permissions) >= 4 && e.Permissions[3] == 'x'
}

// Hidden reports whether the entry is a dotfile.
func (e Entry) Hidden() bool {
	return strings.HasPrefix(e.Name, ".")
}

// Backend is the directory-listing capability the interpreter runs against.
// Paths returned by Resolve are absolute and canonical.
type Backend interface {
	Home() string
	Resolve(path, cwd string) (Entry, string, error)
	ListChildren(dir string) ([]Entry, error)
	ReadFile(path, cwd string) (string, error)
}

// LocationLister is implemented by backends that expose named places a user
// can jump to directly with cd, in addition to child directories.
type LocationLister interface {
	LocationIDs() []string
}

// Permission strings used when a node does not carry its own.
const (
	DirPermissions        = "drwxr-xr-x"
	FilePermissions       = "-rw-r--r--"
	ExecutablePermissions = "-rwxr-xr-x"
	DirSize               = 4096
)

// DefaultPermissions synthesizes a mode string for a node of the given kind.
func DefaultPermissions(name string, dir bool) string {
	switch {
	case dir:
		return DirPermissions
	case strings.HasSuffix(name, ".sh"):
		return ExecutablePermissions
	default:
		return FilePermissions
	}
}
