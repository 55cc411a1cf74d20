package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndn-lite/ndnlite-go/cmd/ndnctl/cmdutil"
	"github.com/ndn-lite/ndnlite-go/internal/cli/output"
	"github.com/ndn-lite/ndnlite-go/internal/cli/timeutil"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show forwarder table occupancy",
	Long: `Query the connected ndnlited's /status endpoint and display the
occupancy of its face table, FIB, PIT, and content store.

Examples:
  ndnctl status
  ndnctl status -o json`,
	RunE: runStatus,
}

// forwarderStatus is the display shape of the /status response.
type forwarderStatus struct {
	Server string `json:"server" yaml:"server"`
	Uptime string `json:"uptime" yaml:"uptime"`
	Faces  int    `json:"faces" yaml:"faces"`
	FIB    int    `json:"fib" yaml:"fib"`
	PIT    int    `json:"pit" yaml:"pit"`
	CS     int    `json:"cs" yaml:"cs"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	client := cmdutil.GetClient()
	result := forwarderStatus{Server: serverDisplayName()}

	s, err := client.GetStatus()
	if err != nil {
		result.Error = err.Error()
	} else {
		result.Faces, result.FIB, result.PIT, result.CS = s.Faces, s.FIB, s.PIT, s.CS
		result.Uptime = s.Uptime
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}
	switch format {
	case output.FormatJSON:
		return output.PrintJSON(cmd.OutOrStdout(), result)
	case output.FormatYAML:
		return output.PrintYAML(cmd.OutOrStdout(), result)
	default:
		result.Uptime = timeutil.FormatUptime(result.Uptime)
		printStatusTable(result)
	}
	return nil
}

func serverDisplayName() string {
	if cmdutil.Flags.ServerURL != "" {
		return cmdutil.Flags.ServerURL
	}
	return cmdutil.DefaultServerURL
}

func printStatusTable(s forwarderStatus) {
	fmt.Println()
	fmt.Println("ndnlited status")
	fmt.Println("===============")
	fmt.Println()
	fmt.Printf("  Server: %s\n", s.Server)
	if s.Error != "" {
		fmt.Printf("  Error:  %s\n", s.Error)
		fmt.Println()
		return
	}
	fmt.Printf("  Uptime: %s\n", s.Uptime)
	fmt.Printf("  Faces:  %d\n", s.Faces)
	fmt.Printf("  FIB:    %d\n", s.FIB)
	fmt.Printf("  PIT:    %d\n", s.PIT)
	fmt.Printf("  CS:     %d\n", s.CS)
	fmt.Println()
}
