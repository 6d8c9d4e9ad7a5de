package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/varfmt/internal/formats"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the format tags fmt= accepts",
	Long: `List the named custom formats a placeholder can request with fmt=.

Any other fmt value is tried as a method name on the value and then as a
printf-style conversion such as %.2f.

Examples:
  varfmt formats
  varfmt formats --format json
  VARFMT_FORMATS_SANITIZE=true varfmt formats`,
	Args: cobra.NoArgs,
	RunE: runFormats,
}

var formatsOutput string

// formatDescriptions documents the registered tags for the listing.
var formatDescriptions = map[string]string{
	formats.HTMLQuote:                  "escape & < > \" as HTML entities",
	formats.URLQuote:                   "percent-encode every byte but letters, digits and _.-~/",
	formats.MultiLine:                  "turn every line break into <br> and a newline",
	formats.CommaNumeric:               "group integer digits with commas",
	formats.WholeDollars:               "dollar sign and the integer part: $1234",
	formats.DollarsAndCents:            "two decimals with a dollar sign: $1234.50",
	formats.DollarsWithCommas:          "whole dollars with grouped digits: $1,234",
	formats.DollarsAndCentsWithCommas:  "dollars and cents with grouped digits: $1,234.50",
	formats.CollectionLength:           "number of items in a collection",
	formats.CollectionLengthWithCommas: "collection length with grouped digits",
	formats.HTMLSanitize:               "strip unsafe markup, keep safe tags (formats.sanitize)",
}

type formatInfo struct {
	Tag         string `json:"tag" yaml:"tag"`
	Description string `json:"description" yaml:"description"`
}

func init() {
	rootCmd.AddCommand(formatsCmd)
	formatsCmd.Flags().StringVarP(&formatsOutput, "format", "f", "table", "output format (table, json, yaml)")
}

func runFormats(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	tags := a.pipeline.Registry().Tags()
	infos := make([]formatInfo, 0, len(tags))
	for _, tag := range tags {
		infos = append(infos, formatInfo{Tag: tag, Description: formatDescriptions[tag]})
	}
	return writeFormats(cmd.OutOrStdout(), infos, formatsOutput)
}

func writeFormats(w io.Writer, infos []formatInfo, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(infos)
	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "TAG\tDESCRIPTION")
		for _, info := range infos {
			fmt.Fprintf(tw, "%s\t%s\n", info.Tag, info.Description)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported format: %s (want table, json or yaml)", format)
	}
}
