package interpreter

import "fmt"

// RegisterStubs installs the file-manipulation verbs of the sandbox. They
// check their operands like coreutils would, then report that nothing was
// changed. The tree is never touched.
func RegisterStubs(r *Registry) {
	r.Handle("mkdir", stub("mkdir", 1, "mkdir: missing operand"))
	r.Handle("touch", stub("touch", 1, "touch: missing file operand"))
	r.Handle("rm", stub("rm", 1, "rm: missing operand"))
	r.Handle("cp", copyStub("cp"))
	r.Handle("mv", copyStub("mv"))
	r.Handle("find", stub("find", 1, "find: missing operand"))
	r.Handle("grep", stub("grep", 1, "Usage: grep [OPTION]... PATTERNS [FILE]..."))
}

// NotImplemented is the informational line a stub prints on success.
func NotImplemented(verb string) string {
	return fmt.Sprintf("%s: not yet implemented in this sandbox, no changes were made", verb)
}

func stub(verb string, minOperands int, missing string) HandlerFunc {
	return func(args []string, it *Interpreter) Result {
		if len(operands(args)) < minOperands {
			return UsageError("%s", missing)
		}
		return Output(NotImplemented(verb))
	}
}

func copyStub(verb string) HandlerFunc {
	return func(args []string, it *Interpreter) Result {
		ops := operands(args)
		switch len(ops) {
		case 0:
			return UsageError("%s: missing file operand", verb)
		case 1:
			return UsageError("%s: missing destination file operand after '%s'", verb, ops[0])
		}
		return Output(NotImplemented(verb))
	}
}

// operands drops option tokens ("-r", "-rf").
func operands(args []string) []string {
	var ops []string
	for _, a := range args {
		if len(a) > 1 && a[0] == '-' {
			continue
		}
		ops = append(ops, a)
	}
	return ops
}
