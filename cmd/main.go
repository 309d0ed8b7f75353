package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pakketpunt",
	Short: "pickup point locator for Circular Shipping",
	Long: `
pakketpunt serves the list of pickup points and their map positions. Addresses
are geocoded once through an external lookup and kept in a persistent cache.
`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, resolveCmd, pointsCmd)
}

// main is the entry point of the application.
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
