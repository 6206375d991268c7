package cmd

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

const (
	formatFlag   = "format"
	noHeaderFlag = "no-header"

	csvFormat  = "csv"
	jsonFormat = "json"

	// obfuscated IP host imitating a PayPal page
	sampleURL = "http://0x58.0xCC.0xCA.0x62/2/paypal.ca/index.html"
)

var ErrUnsupportedFormat = errors.New("unsupported output format")

// NewExtractCommand represents the "extract" command.
func NewExtractCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "extract [url]",
		Short:   "Prints the feature vector of a URL",
		Example: "urlfeatures extract --format json https://example.com/login",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawURL := sampleURL
			if len(args) == 1 {
				rawURL = args[0]
			}

			return extract(cmd, rawURL)
		},
	}

	cmd.Flags().StringP(formatFlag, "f", csvFormat, "Output format, csv or json")
	cmd.Flags().Bool(noHeaderFlag, false, "Omit the CSV header row")

	return cmd
}

func extract(cmd *cobra.Command, rawURL string) error {
	format, _ := cmd.Flags().GetString(formatFlag)
	noHeader, _ := cmd.Flags().GetBool(noHeaderFlag)

	if format != csvFormat && format != jsonFormat {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	application, err := newApp(cmd)
	if err != nil {
		return err
	}

	defer application.Close()

	vec := application.extractor.Extract(application.context(cmd.Context()), rawURL)

	if format == csvFormat {
		return vec.WriteCSV(cmd.OutOrStdout(), !noHeader)
	}

	raw, err := json.Marshal(vec)
	if err != nil {
		return err
	}

	return writeLine(cmd.OutOrStdout(), string(raw))
}
