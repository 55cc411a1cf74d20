// Package route implements FIB route management commands for ndnctl.
package route

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for FIB route management.
var Cmd = &cobra.Command{
	Use:   "route",
	Short: "FIB route management",
	Long: `Manage the forwarding information base (FIB) of a running ndnlited.

Examples:
  # List all routes
  ndnctl route list

  # Add a route to face 3
  ndnctl route add /my/prefix 3

  # Remove a route from face 3
  ndnctl route remove /my/prefix 3`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(removeCmd)
}
