package cmd

import (
	"github.com/spf13/cobra"

	"github.com/graphtools/graphtools/internal/message"
	"github.com/graphtools/graphtools/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of graphtools",
	Run: func(cmd *cobra.Command, args []string) {
		message.Info(version.FullVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
