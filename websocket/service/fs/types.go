package fs

import "termquest/vfs"

// FileSystemEntry is the listing metadata sent to the explorer.
type FileSystemEntry = vfs.Entry

// FileSystem is the read-only view the explorer browses. Every call names
// the terminal whose filesystem is meant.
type FileSystem interface {
	// GetRoot returns the directory the terminal started in.
	GetRoot(terminal string) ([]*FileSystemEntry, error)

	// List returns the entries at path, resolved from the terminal's current
	// directory. The showHidden flag includes dotfiles.
	List(terminal, path string, showHidden bool) ([]*FileSystemEntry, error)
}
