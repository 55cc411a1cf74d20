// Package schema implements trust schema rule inspection commands for
// ndnctl. Unlike route and face, these commands don't talk to a running
// ndnlited: they parse and evaluate rules locally, the same evaluation
// the daemon runs internally against internal/trustschema.
package schema

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for trust schema rule inspection.
var Cmd = &cobra.Command{
	Use:   "schema",
	Short: "Trust schema rule inspection",
	Long: `Parse and evaluate trust schema rules without needing a running
ndnlited.

Examples:
  ndnctl schema test '(<a>)<data><>' '\0<KEY><><>' /a/data/v1 /a/KEY/op/self`,
}

func init() {
	Cmd.AddCommand(testCmd)
}
