// Package commands implements the CLI commands for the gryla build tool.
package commands

import (
	"context"

	"github.com/spf13/cobra"
	"go.trai.ch/gryla/internal/app"
	"go.trai.ch/gryla/internal/build"
	"go.trai.ch/gryla/internal/core/domain"
)

// CLI represents the command line interface for gryla.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	c := &CLI{app: a}

	rootCmd := &cobra.Command{
		Use:           "gryla",
		Short:         "Incremental builder for the gryla shared library",
		Long:          "gryla compiles lib/*.c into position-independent objects and links them into " + domain.DefaultLibraryName + ", rebuilding only what changed.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.String(),
		RunE:          c.runBuild,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Path to the configuration file (default "+domain.ConfigFileName+" if present)")
	flags.String("cc", "", "C compiler driver used to compile and link")
	flags.StringArray("cflags", nil, "Extra compile flag, repeatable")
	flags.String("source-dir", "", "Directory scanned for sources")
	flags.String("output", "", "Path of the shared library to link")
	flags.IntP("jobs", "j", 0, "Number of concurrent compiles")
	flags.Duration("timeout", 0, "Time limit for a single compiler or linker run")
	flags.BoolP("keep-going", "k", false, "Compile every stale source even after a failure")

	c.rootCmd = rootCmd

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newBuildWithCaptureCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// buildOptions reads the persistent flags. Flags left unset keep the values
// from the configuration file and environment.
func buildOptions(cmd *cobra.Command) app.BuildOptions {
	flags := cmd.Flags()
	var opts app.BuildOptions
	opts.ConfigPath, _ = flags.GetString("config")
	opts.Compiler, _ = flags.GetString("cc")
	if flags.Changed("cflags") {
		opts.ExtraCompileFlags, _ = flags.GetStringArray("cflags")
		if opts.ExtraCompileFlags == nil {
			opts.ExtraCompileFlags = []string{}
		}
	}
	opts.SourceDir, _ = flags.GetString("source-dir")
	opts.OutputLibrary, _ = flags.GetString("output")
	opts.Jobs, _ = flags.GetInt("jobs")
	opts.Timeout, _ = flags.GetDuration("timeout")
	opts.KeepGoing, _ = flags.GetBool("keep-going")
	return opts
}
