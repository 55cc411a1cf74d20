// Package commands implements the ndnctl CLI commands.
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ndn-lite/ndnlite-go/cmd/ndnctl/cmdutil"
	facecmd "github.com/ndn-lite/ndnlite-go/cmd/ndnctl/commands/face"
	routecmd "github.com/ndn-lite/ndnlite-go/cmd/ndnctl/commands/route"
	schemacmd "github.com/ndn-lite/ndnlite-go/cmd/ndnctl/commands/schema"
)

// Version information injected at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "ndnctl",
	Short: "ndnctl - control client for ndnlited",
	Long: `ndnctl is the command-line client for inspecting and managing a
running ndnlited forwarder through its diagnostics API.

Use this tool to manage FIB routes, inspect faces, and check forwarder
status.

Use "ndnctl [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cmdutil.Flags.ServerURL, _ = cmd.Flags().GetString("server")
		cmdutil.Flags.Output, _ = cmd.Flags().GetString("output")
		cmdutil.Flags.NoColor, _ = cmd.Flags().GetBool("no-color")
		cmdutil.Flags.Verbose, _ = cmd.Flags().GetBool("verbose")
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().String("server", "", "ndnlited diagnostics API URL (default http://127.0.0.1:8756)")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "output format (table|json|yaml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(bootstrapCmd)
	rootCmd.AddCommand(routecmd.Cmd)
	rootCmd.AddCommand(facecmd.Cmd)
	rootCmd.AddCommand(schemacmd.Cmd)
	rootCmd.AddCommand(completionCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// PrintErr prints an error message to stderr.
func PrintErr(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
}

// Exit prints an error and exits with code 1.
func Exit(format string, args ...any) {
	PrintErr(format, args...)
	os.Exit(1)
}
