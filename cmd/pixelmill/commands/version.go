package commands

import (
	"fmt"

	"github.com/pixelmill/pixelmill/internal/build"
	"github.com/spf13/cobra"
)

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("pixelmill version %s\n", build.Version)
		},
	}
}
