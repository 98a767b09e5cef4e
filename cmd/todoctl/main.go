package main

import (
	"fmt"
	"os"

	"github.com/gaborage/todo-bricks/config"
	"github.com/gaborage/todo-bricks/internal/commands"
)

var version = "dev" // Will be set during build

// exitConfig is EX_CONFIG from sysexits.h.
const exitConfig = 78

func main() {
	if err := commands.NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode separates a missing database configuration from other failures
// so scripts can tell the two apart.
func exitCode(err error) int {
	if config.IsNotConfigured(err) {
		return exitConfig
	}
	return 1
}
