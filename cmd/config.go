package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/varfmt/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect varfmt configuration",
	Long: `Inspect varfmt configuration.

Examples:
  varfmt config show                   # Show the resolved configuration
  varfmt config show --format json     # Show it as JSON
  varfmt config validate               # Validate the configuration in effect
  varfmt config validate --file ci.yml # Validate one file on its own`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the configuration after defaults, the configuration file,
VARFMT_ environment variables and command-line flags are applied.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long: `Validate the configuration in effect, or a single file given with --file.
The log level, log format, error policy and debounce window are checked.`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

var (
	configFormat string
	configFile   string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)

	configShowCmd.Flags().StringVarP(&configFormat, "format", "f", "yaml", "output format (yaml, json)")
	configValidateCmd.Flags().StringVar(&configFile, "file", "", "configuration file to validate on its own")
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return writeConfig(cmd.OutOrStdout(), cfg, configFormat)
}

// writeConfig prints cfg. JSON goes through the YAML form so durations read
// as "200ms" in both.
func writeConfig(w io.Writer, cfg *config.Config, format string) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	switch format {
	case "yaml", "":
		_, err = w.Write(out)
		return err
	case "json":
		var tree map[string]any
		if err := yaml.Unmarshal(out, &tree); err != nil {
			return err
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tree)
	default:
		return fmt.Errorf("unsupported format: %s (want yaml or json)", format)
	}
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	source := "current configuration"
	var err error
	if configFile != "" {
		source = configFile
		_, err = config.LoadFile(configFile)
	} else {
		_, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", source, err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", source)
	return err
}
