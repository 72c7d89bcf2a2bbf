package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/agence-immo/agence/internal/version"
	"github.com/spf13/cobra"
)

var versionOutputWriter io.Writer = os.Stdout

// PrintVersion writes the version line.
func PrintVersion() {
	fmt.Fprintf(versionOutputWriter, "agence v%s\n", version.String())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		PrintVersion()
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
