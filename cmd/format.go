package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conneroisu/varfmt/internal/binding"
	"github.com/conneroisu/varfmt/internal/params"
	"github.com/conneroisu/varfmt/internal/variable"
)

// valueName is the name --value is bound to.
const valueName = "value"

var formatCmd = &cobra.Command{
	Use:   "format [attributes...]",
	Short: "Format a single value",
	Long: `Format a single value with the attributes of a variable placeholder.

The attributes are written exactly as inside a placeholder. When they name
no variable and no expression, the value given with --value is formatted.

Examples:
  varfmt format --value 100000.5 fmt=dollars-and-cents-with-commas
  varfmt format --value "blah blah blah blah" size=10
  varfmt format --value 0 null=n/a
  varfmt format --set price=2.5 --set qty=4 'expr="price * qty"' fmt=dollars-and-cents
  varfmt format --data user.yml user.name capitalize
  varfmt format --value 3.14159 --base .2f`,
	RunE: runFormat,
}

var (
	formatValue string
	formatRaw   bool
	formatBase  string
	formatData  []string
	formatSets  []string
)

func init() {
	rootCmd.AddCommand(formatCmd)

	formatCmd.Flags().StringVarP(&formatValue, "value", "v", "", "value to format, parsed as a YAML scalar")
	formatCmd.Flags().BoolVar(&formatRaw, "raw", false, "keep --value as a string instead of parsing it")
	formatCmd.Flags().StringVarP(&formatBase, "base", "b", variable.DefaultBaseFormat, "final printf-style conversion, without the leading %")
	formatCmd.Flags().StringArrayVarP(&formatData, "data", "d", nil, "YAML or JSON data file (repeatable)")
	formatCmd.Flags().StringArrayVar(&formatSets, "set", nil, "bind key=value (repeatable)")
}

func runFormat(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	attrs, err := params.ParseAttributes(strings.Join(args, " "))
	if err != nil {
		return err
	}
	if !hasIdentifier(attrs) {
		attrs = append([]params.Attr{{Key: params.KeyName, Value: valueName, HasValue: true}}, attrs...)
	}

	ref, err := variable.Compile(attrs, formatBase)
	if err != nil {
		return err
	}

	ctx, err := loadBindings(formatData, formatSets)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("value") {
		var v any = formatValue
		if !formatRaw {
			v = parseScalar(formatValue)
		}
		ctx = binding.Chain(binding.Map{valueName: v}, ctx)
	}

	out, err := a.pipeline.Render(ref, ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

func hasIdentifier(attrs []params.Attr) bool {
	for _, a := range attrs {
		if a.Key == params.KeyName || a.Key == params.KeyExpr {
			return true
		}
	}
	return false
}
