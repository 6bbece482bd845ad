package cmd

import (
	"github.com/spf13/cobra"
)

var entraCmd = &cobra.Command{
	Use:   "entra",
	Short: "Microsoft Entra ID commands",
}

func init() {
	rootCmd.AddCommand(entraCmd)
}
