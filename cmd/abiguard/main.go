// Package main provides the abiguard CLI for inspecting, diffing, and
// browsing published type layouts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// configFile is set by the --config flag.
	configFile string

	// cfg holds the loaded configuration, initialized on startup.
	cfg *config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "abiguard",
	Short: "abiguard inspects and compares library type layouts",
	Long: `abiguard works with the layout headers that checked libraries publish.
It can dump the shape a library ships, compare two shapes the way the
loader would at load time, and browse a shape's type graph interactively.

Artifacts are given as a .wasm library, a .json shape document, or a
name@version reference into the local shape catalog.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ~/.abiguard/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(catalogCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("abiguard v0.11.0")
	},
}

func initConfig(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	c, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = c
	return nil
}
