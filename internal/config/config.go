// Package config loads varfmt settings using Viper from .varfmt.yml,
// environment variables with the VARFMT_ prefix, and command-line flags.
//
// It covers logging, the document error policy, optional format
// extensions, and the watch debounce window.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/conneroisu/varfmt/internal/document"
	"github.com/conneroisu/varfmt/internal/formats"
	"github.com/conneroisu/varfmt/internal/logging"
)

// Configuration keys.
const (
	KeyLogLevel    = "logging.level"
	KeyLogFormat   = "logging.format"
	KeyOnError     = "render.on_error"
	KeyErrorMarker = "render.error_marker"
	KeySanitize    = "formats.sanitize"
	KeyDebounce    = "watch.debounce"
)

// EnvPrefix prefixes environment overrides: render.on_error is read from
// VARFMT_RENDER_ON_ERROR.
const EnvPrefix = "VARFMT"

var envKeyReplacer = strings.NewReplacer(".", "_")

// Init points the global Viper instance at its config file and enables
// environment overrides. The file is, in order of precedence, cfgFile,
// $VARFMT_CONFIG_FILE, or .varfmt.yml in the working directory. A missing
// default file is not an error. Init returns the file actually read.
func Init(cfgFile string) (string, error) {
	if cfgFile == "" {
		cfgFile = os.Getenv(EnvPrefix + "_CONFIG_FILE")
	}
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".varfmt")
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(envKeyReplacer)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading config: %w", err)
	}
	return viper.ConfigFileUsed(), nil
}

type Config struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Render  RenderConfig  `mapstructure:"render" yaml:"render"`
	Formats FormatsConfig `mapstructure:"formats" yaml:"formats"`
	Watch   WatchConfig   `mapstructure:"watch" yaml:"watch"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type RenderConfig struct {
	OnError     string `mapstructure:"on_error" yaml:"on_error"`
	ErrorMarker string `mapstructure:"error_marker" yaml:"error_marker"`
}

type FormatsConfig struct {
	Sanitize bool `mapstructure:"sanitize" yaml:"sanitize"`
}

type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Render:  RenderConfig{OnError: string(document.PolicyAbort), ErrorMarker: document.DefaultErrorMarker},
		Watch:   WatchConfig{Debounce: 200 * time.Millisecond},
	}
}

// SetDefaults registers every key with its default on the global Viper
// instance. Registered keys are also resolved from VARFMT_ variables.
func SetDefaults() {
	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyLogLevel, d.Logging.Level)
	v.SetDefault(KeyLogFormat, d.Logging.Format)
	v.SetDefault(KeyOnError, d.Render.OnError)
	v.SetDefault(KeyErrorMarker, d.Render.ErrorMarker)
	v.SetDefault(KeySanitize, d.Formats.Sanitize)
	v.SetDefault(KeyDebounce, d.Watch.Debounce)
}

// Load reads the global Viper state into a validated Config.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads v into a validated Config, registering defaults on v first.
func LoadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Unmarshal skips values that only exist as environment variables.
	config.Logging.Level = v.GetString(KeyLogLevel)
	config.Logging.Format = v.GetString(KeyLogFormat)
	config.Render.OnError = v.GetString(KeyOnError)
	config.Render.ErrorMarker = v.GetString(KeyErrorMarker)
	config.Formats.Sanitize = v.GetBool(KeySanitize)
	config.Watch.Debounce = v.GetDuration(KeyDebounce)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

// LoadFile reads and validates a single configuration file, ignoring the
// environment and flags.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return LoadFrom(v)
}

// validateConfig validates configuration values
func validateConfig(config *Config) error {
	if err := validateLoggingConfig(&config.Logging); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	if _, err := document.ParsePolicy(config.Render.OnError); err != nil {
		return fmt.Errorf("render config: %w", err)
	}

	if config.Watch.Debounce < 0 {
		return fmt.Errorf("watch config: debounce %s must not be negative", config.Watch.Debounce)
	}

	return nil
}

func validateLoggingConfig(config *LoggingConfig) error {
	if _, err := logging.ParseLevel(config.Level); err != nil {
		return err
	}
	switch strings.ToLower(config.Format) {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", config.Format)
	}
}

// Logger builds the logger described by the logging section.
func (c *Config) Logger(out io.Writer) *logging.VarLogger {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	lc := logging.DefaultConfig()
	lc.Level = level
	lc.Format = strings.ToLower(c.Logging.Format)
	lc.Component = "varfmt"
	if out != nil {
		lc.Output = out
	}
	return logging.NewLogger(lc)
}

// Registry builds the format registry, adding html-sanitize when enabled.
func (c *Config) Registry() (*formats.Registry, error) {
	if c.Formats.Sanitize {
		return formats.New(formats.SanitizeEntry())
	}
	return formats.Default(), nil
}

// DocumentOptions returns the error policy and marker as document options.
func (c *Config) DocumentOptions() []document.Option {
	policy, err := document.ParsePolicy(c.Render.OnError)
	if err != nil {
		policy = document.PolicyAbort
	}
	return []document.Option{
		document.WithErrorPolicy(policy),
		document.WithErrorMarker(c.Render.ErrorMarker),
	}
}
