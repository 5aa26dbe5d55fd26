// Package cmd wires the command line interface for the internship finder.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "finder",
	Short: "Finder - conversational internship assistant",
	Long: `Finder is an LLM-backed assistant that helps users find internships.
It serves a streaming HTTP API: clients POST a chat transcript to /ask and
read the assistant's reply as plain text.

Running finder without a subcommand starts the server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
