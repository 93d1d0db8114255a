package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "build",
		Aliases: []string{"lib"},
		Short:   "Compile stale sources and relink the library",
		Args:    cobra.NoArgs,
		RunE:    c.runBuild,
	}
}

func (c *CLI) runBuild(cmd *cobra.Command, _ []string) error {
	_, err := c.app.Build(cmd.Context(), buildOptions(cmd))
	return err
}

func (c *CLI) newBuildWithCaptureCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "build-with-capture",
		Aliases: []string{"bear"},
		Short:   "Build and write a compilation database for editor tooling",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := c.app.BuildWithCapture(cmd.Context(), buildOptions(cmd))
			return err
		},
	}
}

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove object files; the library is kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := c.app.Clean(cmd.Context(), buildOptions(cmd))
			return err
		},
	}
}

func (c *CLI) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Rebuild whenever a source changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Watch(cmd.Context(), buildOptions(cmd))
		},
	}
}
