package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// nolint: gochecknoglobals
var Version = "master"

const configFlag = "config"

// NewRootCommand builds the urlfeatures command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "urlfeatures",
		Short:         "Derives phishing feature vectors from URLs",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP(configFlag, "c", "", "Path to the configuration file")

	root.AddCommand(NewExtractCommand(), NewRulesCommand())

	return root
}

// Execute runs the command line and terminates the process with a non-zero
// exit code on failure. Called by main.main.
func Execute() {
	root := NewRootCommand()

	if err := root.Execute(); err != nil {
		root.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
