package route

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ndn-lite/ndnlite-go/cmd/ndnctl/cmdutil"
)

var removeForce bool

var removeCmd = &cobra.Command{
	Use:   "remove <name> <face-id>",
	Short: "Remove a FIB route",
	Long: `Withdraw a route from the connected ndnlited's FIB.

You will be prompted for confirmation unless --force is specified.

Examples:
  ndnctl route remove /my/prefix 3
  ndnctl route remove /my/prefix 3 --force`,
	Args: cobra.ExactArgs(2),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVarP(&removeForce, "force", "f", false, "skip confirmation prompt")
}

func runRemove(cmd *cobra.Command, args []string) error {
	name := args[0]
	faceID, err := strconv.ParseUint(args[1], 10, 16)
	if err != nil {
		return fmt.Errorf("invalid face id %q: %w", args[1], err)
	}

	return cmdutil.RunDeleteWithConfirmation("route", name, removeForce, func() error {
		if err := cmdutil.GetClient().RemoveRoute(name, uint16(faceID)); err != nil {
			return fmt.Errorf("remove route: %w", err)
		}
		return nil
	})
}
