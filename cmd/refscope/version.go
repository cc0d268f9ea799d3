package main

import (
	"fmt"
	"strings"

	"github.com/refscope/refscope"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of refscope",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("refscope version %s\n", strings.TrimSpace(refscope.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
