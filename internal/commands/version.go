package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/gaborage/todo-bricks/migration"
)

// NewVersionCommand creates the version command
func NewVersionCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version information for todoctl",
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd, version)
		},
	}

	return cmd
}

func printVersion(cmd *cobra.Command, version string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "todoctl version %s\n", version)
	fmt.Fprintf(out, "Built with %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(out, "Schema checksum: %s\n", migration.Checksum()[:12])
}
