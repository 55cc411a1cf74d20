package route

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ndn-lite/ndnlite-go/cmd/ndnctl/apiclient"
	"github.com/ndn-lite/ndnlite-go/cmd/ndnctl/cmdutil"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all FIB routes",
	Long: `List all routes currently installed in the connected ndnlited's FIB.

Examples:
  ndnctl route list
  ndnctl route list -o json`,
	RunE: runList,
}

// routeList is a list of FIB entries for table rendering.
type routeList []apiclient.FIBEntry

// Headers implements output.TableRenderer.
func (rl routeList) Headers() []string {
	return []string{"NAME", "NEXTHOPS", "HAS CALLBACK"}
}

// Rows implements output.TableRenderer.
func (rl routeList) Rows() [][]string {
	rows := make([][]string, 0, len(rl))
	for _, e := range rl {
		hops := make([]string, 0, len(e.Nexthops))
		for _, h := range e.Nexthops {
			hops = append(hops, strconv.Itoa(int(h)))
		}
		rows = append(rows, []string{e.Name, strings.Join(hops, ", "), fmt.Sprintf("%t", e.HasCallback)})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	entries, err := cmdutil.GetClient().ListRoutes()
	if err != nil {
		return fmt.Errorf("list routes: %w", err)
	}
	return cmdutil.PrintOutput(os.Stdout, entries, len(entries) == 0, "No routes found.", routeList(entries))
}
