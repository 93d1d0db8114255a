package domain

// BuildResult summarises what one build did.
type BuildResult struct {
	Library  string
	Compiled []string
	UpToDate []string
	Linked   bool

	// CompileDatabase is the path of the compilation database, set only once
	// it has been written.
	CompileDatabase string
}

// NothingToDo reports whether the build ran no tool at all.
func (r BuildResult) NothingToDo() bool {
	return len(r.Compiled) == 0 && !r.Linked
}
