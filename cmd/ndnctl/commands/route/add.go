package route

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ndn-lite/ndnlite-go/cmd/ndnctl/cmdutil"
)

var addCmd = &cobra.Command{
	Use:   "add <name> <face-id>",
	Short: "Add a FIB route",
	Long: `Install a route in the connected ndnlited's FIB, pointing name at
the given face id as a nexthop.

Examples:
  ndnctl route add /my/prefix 3`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	faceID, err := strconv.ParseUint(args[1], 10, 16)
	if err != nil {
		return fmt.Errorf("invalid face id %q: %w", args[1], err)
	}

	if err := cmdutil.GetClient().AddRoute(name, uint16(faceID)); err != nil {
		return fmt.Errorf("add route: %w", err)
	}
	cmdutil.PrintSuccess(fmt.Sprintf("route %s -> face %d added", name, faceID))
	return nil
}
