package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "note-search",
		Short: "Search and rank notes by title and content",
		Long: `note-search serves an HTTP API for storing notes and ranking them
against a free-text phrase. Exact word matches outrank partial ones and
adjacent matches earn a bonus.

  note-search serve --port 9000 --storage sqlite --data-dir ./notes`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "config file (yaml, toml or json)")
	rootCmd.AddCommand(newServeCmd(v), newVersionCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "note-search %s\n", version)
		},
	}
}
