package cmd

import (
	"github.com/spf13/cobra"
)

// NewRulesCommand represents the "rules" command.
func NewRulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Lists the feature columns in output order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := newApp(cmd)
			if err != nil {
				return err
			}

			defer application.Close()

			for _, name := range application.extractor.Rules().Names() {
				if err := writeLine(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}

			return nil
		},
	}
}
