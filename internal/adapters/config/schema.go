package config

// Grylafile represents the structure of the gryla.yaml configuration file.
// Every field is optional; unset fields keep their defaults.
type Grylafile struct {
	Version         string   `yaml:"version"`
	Compiler        *string  `yaml:"compiler"`
	CFlags          []string `yaml:"cflags"`
	SourceDir       *string  `yaml:"source_dir"`
	Output          *string  `yaml:"output"`
	Jobs            *int     `yaml:"jobs"`
	Timeout         *string  `yaml:"timeout"`
	KeepGoing       *bool    `yaml:"keep_going"`
	CompileDatabase *string  `yaml:"compile_database"`
	StatePath       *string  `yaml:"state_path"`
}
