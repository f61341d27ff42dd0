// Package commands implements the CLI commands for the pixelmill server.
package commands

import (
	"context"

	"github.com/pixelmill/pixelmill/internal/app"
	"github.com/pixelmill/pixelmill/internal/build"
	"github.com/spf13/cobra"
)

// CLI represents the command line interface for pixelmill.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "pixelmill",
		Short:         "An image processing tool server speaking MCP over stdio",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newServeCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	// Running the binary bare starts the server; MCP clients spawn it
	// without arguments.
	rootCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return c.app.Serve(cmd.Context())
	}

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
