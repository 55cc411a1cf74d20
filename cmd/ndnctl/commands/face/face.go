// Package face implements face inspection commands for ndnctl.
package face

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for face inspection.
var Cmd = &cobra.Command{
	Use:   "face",
	Short: "Face inspection",
	Long: `Inspect the face table of a running ndnlited.

Examples:
  ndnctl face list`,
}

func init() {
	Cmd.AddCommand(listCmd)
}
