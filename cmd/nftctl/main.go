package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var hostURL string
	var rootCmd = &cobra.Command{Use: "nftctl", Short: "accesses the gallery and the mint form of a metamart service"}
	rootCmd.PersistentFlags().StringVar(&hostURL, "host", "http://localhost:3000", "url of the service to access")
	rootCmd.AddCommand(tokensCommand(&hostURL))
	rootCmd.AddCommand(mintCommand(&hostURL))
	rootCmd.AddCommand(refreshCommand(&hostURL))
	rootCmd.AddCommand(mintsCommand(&hostURL))
	rootCmd.AddCommand(watchCommand(&hostURL))
	rootCmd.AddCommand(callCommand(&hostURL))
	rootCmd.AddCommand(sendCommand(&hostURL))
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
