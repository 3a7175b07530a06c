package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// pathsCmd represents the paths command
var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show paths used by the application",
	Example: `  # Show all application paths
  ytnotes paths`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Config directory: %s\n", config.ConfigDir)
		fmt.Printf("Cache directory: %s\n", config.CacheDir)
		fmt.Printf("Captions directory: %s\n", config.TempDir)
		fmt.Printf("Export directory: %s\n", config.ExportDir)
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
}
