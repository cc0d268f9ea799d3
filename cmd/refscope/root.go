package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "refscope",
	Short: "refscope tracks the lifetime of reference-counted objects",
	Long: `refscope intercepts the lifecycle operations of a reference-counted
object system and reports creations, reference changes and destructions.

The CLI runs workload scenarios against a built-in fake object system so
the tracker's reporting can be observed end to end: send SIGUSR1 for a
live dump, SIGUSR2 for an added/removed delta dump.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress the banner")
}
