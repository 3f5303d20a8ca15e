package interpreter

import (
	"fmt"
	"strings"

	"termquest/vfs"
)

// RegisterBuiltins installs the verbs shared by every interpreter variant.
func RegisterBuiltins(r *Registry) {
	r.Handle("pwd", pwd)
	r.Handle("ls", ls)
	r.Handle("cd", cd)
	r.Handle("cat", cat)
	r.Handle("echo", echo)
	r.Handle("history", history)
	r.Handle("whoami", whoami)
	r.Register(Definition{Name: "help", Handler: Help, BypassGate: true})
	r.Register(Definition{Name: "clear", Handler: clearScreen, BypassGate: true})
}

func pwd(args []string, it *Interpreter) Result {
	return Output(it.session.CurrentPath)
}

func cd(args []string, it *Interpreter) Result {
	if len(args) > 1 {
		return UsageError("cd: too many arguments")
	}

	target := "~"
	if len(args) == 1 {
		target = args[0]
	}

	announce := false
	if target == "-" {
		if it.session.PreviousPath == "" {
			return UsageError("cd: OLDPWD not set")
		}
		target = it.session.PreviousPath
		announce = true
	}

	entry, abs, err := it.backend.Resolve(target, it.session.CurrentPath)
	if err != nil {
		return ResolutionError("cd", target, err)
	}
	if !entry.IsDir {
		return ResolutionError("cd", target, vfs.ErrNotDir)
	}

	it.session.Chdir(abs)
	if announce {
		return Output(abs)
	}
	return Output()
}

func cat(args []string, it *Interpreter) Result {
	if len(args) == 0 {
		return UsageError("cat: missing operand")
	}

	lines := []string{}
	var failed *Result
	for _, name := range args {
		content, err := it.backend.ReadFile(name, it.session.CurrentPath)
		if err != nil {
			if failed == nil {
				res := ResolutionError("cat", name, err)
				failed = &res
			}
			continue
		}
		lines = append(lines, SplitLines(content)...)
	}

	if failed != nil {
		failed.Output = lines
		return *failed
	}
	return Output(lines...)
}

// SplitLines splits file content into display lines, ignoring the final newline.
func SplitLines(content string) []string {
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

func echo(args []string, it *Interpreter) Result {
	return Output(strings.Join(args, " "))
}

func history(args []string, it *Interpreter) Result {
	lines := make([]string, 0, len(it.session.history))
	for i, line := range it.session.history {
		lines = append(lines, fmt.Sprintf("%d  %s", i+1, line))
	}
	return Output(lines...)
}

func whoami(args []string, it *Interpreter) Result {
	return Output(it.user)
}

func clearScreen(args []string, it *Interpreter) Result {
	return Output(ClearScreen)
}

// Help lists the reference entries of the verbs the user may run, then any
// permitted verb without an entry.
func Help(args []string, it *Interpreter) Result {
	permitted := make(map[string]bool)
	for _, v := range it.Permitted() {
		permitted[v] = true
	}

	lines := []string{"Available commands:"}
	described := make(map[string]bool)
	for _, h := range it.help {
		if !permitted[h.Command] || described[h.Command] {
			continue
		}
		described[h.Command] = true
		usage := h.Usage
		if usage == "" {
			usage = h.Command
		}
		lines = append(lines, fmt.Sprintf("  %-22s %s", usage, h.Description))
	}
	for _, v := range it.Permitted() {
		if !described[v] {
			lines = append(lines, "  "+v)
		}
	}
	return Output(lines...)
}
