package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/varfmt/internal/config"
	"github.com/conneroisu/varfmt/internal/logging"
	"github.com/conneroisu/varfmt/internal/variable"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "varfmt",
	Short: "Render template variables with declarative formatting directives",
	Long: `varfmt renders named or computed values into text according to the
formatting attributes of a variable placeholder: numeric and currency
formats, HTML and URL escaping, case transforms, null substitution and
word-aware truncation.

Quick Start:
  varfmt format --value 1234567 fmt=comma-numeric
  varfmt render page.html --data data.yml
  varfmt formats

Placeholders:
  <!--#var title upper size=20-->
  <dtml-var expr="price * qty" fmt=dollars-and-cents>`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .varfmt.yml, can also use VARFMT_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
}

// flagKeys maps flags to the configuration keys they override.
var flagKeys = map[string]string{
	"log-level":    config.KeyLogLevel,
	"log-format":   config.KeyLogFormat,
	"on-error":     config.KeyOnError,
	"error-marker": config.KeyErrorMarker,
}

// bindFlags binds the flags cmd knows to their configuration keys.
func bindFlags(cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// initConfig reads the configuration file and enables VARFMT_ environment
// overrides before any command runs.
func initConfig(cmd *cobra.Command, _ []string) error {
	if err := bindFlags(cmd); err != nil {
		return err
	}
	used, err := config.Init(cfgFile)
	if err != nil {
		return err
	}
	if used != "" {
		logger, err := newLogger(cmd)
		if err == nil {
			logger.Debug(cmd.Context(), "using config file", "path", used)
		}
	}
	return nil
}

// app is what every rendering command needs: the loaded configuration, a
// logger, and a pipeline wired to both.
type app struct {
	cfg      *config.Config
	logger   logging.Logger
	pipeline *variable.Pipeline
}

func loadApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := cfg.Logger(cmd.ErrOrStderr())

	registry, err := cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("failed to build format registry: %w", err)
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		pipeline: variable.NewPipeline(variable.WithRegistry(registry), variable.WithLogger(logger)),
	}, nil
}

func newLogger(cmd *cobra.Command) (logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return cfg.Logger(cmd.ErrOrStderr()), nil
}
