package face

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ndn-lite/ndnlite-go/cmd/ndnctl/apiclient"
	"github.com/ndn-lite/ndnlite-go/cmd/ndnctl/cmdutil"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all faces",
	Long: `List all faces currently registered in the connected ndnlited's
face table.

Examples:
  ndnctl face list
  ndnctl face list -o json`,
	RunE: runList,
}

// faceList is a list of face entries for table rendering.
type faceList []apiclient.FaceEntry

// Headers implements output.TableRenderer.
func (fl faceList) Headers() []string {
	return []string{"ID", "TYPE", "STATE"}
}

// Rows implements output.TableRenderer.
func (fl faceList) Rows() [][]string {
	rows := make([][]string, 0, len(fl))
	for _, f := range fl {
		rows = append(rows, []string{strconv.Itoa(int(f.ID)), f.Type, f.State})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	entries, err := cmdutil.GetClient().ListFaces()
	if err != nil {
		return fmt.Errorf("list faces: %w", err)
	}
	return cmdutil.PrintOutput(os.Stdout, entries, len(entries) == 0, "No faces found.", faceList(entries))
}
