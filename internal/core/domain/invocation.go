package domain

import "slices"

// InvocationKind distinguishes compile steps from the link step.
type InvocationKind string

const (
	// InvocationCompile turns one source into one object.
	InvocationCompile InvocationKind = "compile"
	// InvocationLink turns every object into the shared library.
	InvocationLink InvocationKind = "link"
)

// Invocation is a single external tool run. It is transient and never persisted.
type Invocation struct {
	Kind   InvocationKind
	Tool   string
	Args   []string
	Inputs []string
	Output string
	Dir    string
}

// Argv returns the full argument vector including the tool.
func (i Invocation) Argv() []string {
	argv := make([]string, 0, len(i.Args)+1)
	argv = append(argv, i.Tool)
	return append(argv, i.Args...)
}

// Clone returns a deep copy of the invocation.
func (i Invocation) Clone() Invocation {
	i.Args = slices.Clone(i.Args)
	i.Inputs = slices.Clone(i.Inputs)
	return i
}

// ProcessResult is the outcome of a finished tool run.
// Output is the combined stdout and stderr stream, verbatim.
type ProcessResult struct {
	ExitCode int
	Output   []byte
}

// Success reports whether the tool exited with status zero.
func (r ProcessResult) Success() bool {
	return r.ExitCode == 0
}

// CompileInvocation builds `<cc> -g -fPIC <extra...> -c <src> -o <obj>`.
func CompileInvocation(cfg *BuildConfig, obj ObjectArtifact) Invocation {
	args := make([]string, 0, len(CompileFlags)+len(cfg.ExtraCompileFlags)+4)
	args = append(args, CompileFlags...)
	args = append(args, cfg.ExtraCompileFlags...)
	args = append(args, "-c", obj.Source, "-o", obj.Path)
	return Invocation{
		Kind:   InvocationCompile,
		Tool:   cfg.Compiler,
		Args:   args,
		Inputs: []string{obj.Source},
		Output: obj.Path,
	}
}

// LinkInvocation builds `<cc> -shared -o <out> <objects...>`.
func LinkInvocation(cfg *BuildConfig, objects []string, out string) Invocation {
	args := make([]string, 0, len(objects)+3)
	args = append(args, LinkFlags...)
	args = append(args, "-o", out)
	args = append(args, objects...)
	return Invocation{
		Kind:   InvocationLink,
		Tool:   cfg.Compiler,
		Args:   args,
		Inputs: slices.Clone(objects),
		Output: out,
	}
}
