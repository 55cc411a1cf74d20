package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndn-lite/ndnlite-go/cmd/ndnctl/cmdutil"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap <device-id>",
	Short: "Trigger the sign-on exchange for a device",
	Long: `Ask the connected ndnlited to run its sign-on exchange for the
given device id: install the configured trust anchor, derive a channel
key, and request an anchor-signed identity certificate.

This requires the daemon to have been started with a trust anchor and
sign-on prefix configured; it is a no-op otherwise and the server
responds 404.

Examples:
  ndnctl bootstrap device-1`,
	Args: cobra.ExactArgs(1),
	RunE: runBootstrap,
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	deviceID := args[0]
	client := cmdutil.GetClient()
	if err := client.BootstrapDevice(deviceID); err != nil {
		return fmt.Errorf("bootstrap %s: %w", deviceID, err)
	}
	cmdutil.PrintSuccess(fmt.Sprintf("device %q signed on", deviceID))
	return nil
}
