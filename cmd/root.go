package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/msdgwzhy6/dmix/cmd/gen"
)

var rootCmd = &cobra.Command{
	Use:   "dmix",
	Short: "Control an MPD server",
	Long: `dmix talks the MPD protocol, batching commands into
command lists so multi-step operations land in one round trip.`,
}

func init() {
	rootCmd.AddCommand(ServeCmd)
	rootCmd.AddCommand(VersionCmd)
	rootCmd.AddCommand(gen.RootCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
