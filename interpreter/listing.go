package interpreter

import (
	"fmt"
	"strings"

	"termquest/vfs"
)

type listOptions struct {
	long bool
	all  bool
}

func ls(args []string, it *Interpreter) Result {
	var opts listOptions
	var targets []string
	for _, arg := range args {
		if len(arg) < 2 || arg[0] != '-' {
			targets = append(targets, arg)
			continue
		}
		for _, f := range arg[1:] {
			switch f {
			case 'l':
				opts.long = true
			case 'a':
				opts.all = true
			default:
				return UsageError("ls: invalid option -- '%c'", f)
			}
		}
	}
	if len(targets) == 0 {
		targets = []string{"."}
	}

	lines := []string{}
	var failed *Result
	for i, target := range targets {
		entry, abs, err := it.backend.Resolve(target, it.session.CurrentPath)
		if err != nil {
			if failed == nil {
				res := ResolutionError("ls", "cannot access '"+target+"'", err)
				failed = &res
			}
			continue
		}

		var listing []string
		if entry.IsDir {
			entries, err := it.backend.ListChildren(abs)
			if err != nil {
				if failed == nil {
					res := ResolutionError("ls", "cannot access '"+target+"'", err)
					failed = &res
				}
				continue
			}
			listing = renderListing(entries, opts, it.user)
		} else {
			entry.Name = target
			listing = renderListing([]vfs.Entry{entry}, opts, it.user)
		}

		if len(targets) > 1 {
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, target+":")
		}
		lines = append(lines, listing...)
	}

	if failed != nil {
		failed.Output = lines
		return *failed
	}
	return Output(lines...)
}

// OrderEntries drops dotfiles unless all is set and moves directories ahead
// of files, keeping the seed order within each group.
func OrderEntries(entries []vfs.Entry, all bool) []vfs.Entry {
	dirs := make([]vfs.Entry, 0, len(entries))
	var files []vfs.Entry
	for _, e := range entries {
		if !all && e.Hidden() {
			continue
		}
		if e.IsDir {
			dirs = append(dirs, e)
		} else {
			files = append(files, e)
		}
	}
	return append(dirs, files...)
}

func renderListing(entries []vfs.Entry, opts listOptions, owner string) []string {
	ordered := OrderEntries(entries, opts.all)
	if len(ordered) == 0 {
		return nil
	}

	if opts.long {
		lines := make([]string, 0, len(ordered))
		for _, e := range ordered {
			lines = append(lines, LongLine(e, owner))
		}
		return lines
	}

	names := make([]string, 0, len(ordered))
	for _, e := range ordered {
		names = append(names, ShortName(e))
	}
	return []string{strings.Join(names, "  ")}
}

// ShortName is an entry as shown by plain ls: directories end in "/",
// executables in "*".
func ShortName(e vfs.Entry) string {
	switch {
	case e.IsDir:
		return e.Name + "/"
	case e.Executable():
		return e.Name + "*"
	default:
		return e.Name
	}
}

// LongLine renders one ls -l line.
func LongLine(e vfs.Entry, owner string) string {
	return fmt.Sprintf("%s %2d %s %s %6d %s %s", e.Permissions, e.Links, owner, owner, e.Size, e.ModifiedAt, e.Name)
}
