package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/varfmt/internal/version"
)

var (
	versionFormat   string
	versionShort    bool
	versionDetailed bool
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display the version, commit, build time, Go version and platform of
this varfmt binary.

Examples:
  varfmt version               # Show version and platform
  varfmt version --short       # Show the version only
  varfmt version --format json # Output as JSON`,
	Args: cobra.NoArgs,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "output format (text, json, yaml)")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "show short version only")
	versionCmd.Flags().BoolVar(&versionDetailed, "detailed", false, "also show build type")
}

func runVersionCommand(cmd *cobra.Command, _ []string) error {
	return writeVersion(cmd.OutOrStdout(), version.Get())
}

func writeVersion(w io.Writer, info version.Info) error {
	switch versionFormat {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(info)
	case "text":
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json, yaml)", versionFormat)
	}

	if versionShort {
		_, err := fmt.Fprintln(w, info.Short())
		return err
	}

	fmt.Fprintln(w, info.Detailed())
	if versionDetailed {
		buildType := "development"
		if info.IsRelease() {
			buildType = "release"
		}
		fmt.Fprintln(w, "Build type: "+buildType)
	}
	return nil
}
