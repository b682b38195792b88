package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "blinkdrone",
	Short: "Blink-controlled drone toy",
	Long:  "blinkdrone flies a virtual drone that climbs every time an OSC blink event arrives from a Muse headband.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(flyCmd)
	rootCmd.AddCommand(blinkCmd)
}
