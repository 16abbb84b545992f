package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-filterx/internal/filterx"
)

var asKV bool

var fmtCmd = &cobra.Command{
	Use:   "fmt [json]",
	Short: "Reformat a JSON value through the filterx builtins",
	Long: `Parse the given JSON text into a filterx object and print it back,
either as canonical JSON (format_json) or as key/value pairs
(format_kv).

Examples:
  filterx fmt '{"foo":"bar"}'
  filterx fmt --kv '{"foo":"bar","baz":"qu ux"}'`,
	Args: cobra.ExactArgs(1),
	RunE: runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	fmtCmd.Flags().BoolVar(&asKV, "kv", false, "format as key/value pairs instead of JSON")
}

func runFmt(_ *cobra.Command, args []string) error {
	parseArgs, err := filterx.NewFunctionArgs([]*filterx.FunctionArg{
		filterx.NewFunctionArg("", filterx.NewLiteral(filterx.NewString(args[0]))),
	})
	if err != nil {
		return err
	}
	parse, err := filterx.NewFunctionCall("parse_json", parseArgs)
	if err != nil {
		return err
	}

	formatName := "format_json"
	if asKV {
		formatName = "format_kv"
	}
	formatArgs, err := filterx.NewFunctionArgs([]*filterx.FunctionArg{
		filterx.NewFunctionArg("", parse),
	})
	if err != nil {
		parse.Free()
		return err
	}
	format, err := filterx.NewFunctionCall(formatName, formatArgs)
	if err != nil {
		parse.Free()
		return err
	}
	defer format.Free()

	ctx := filterx.NewEvalContext()
	defer ctx.Close()

	result, err := filterx.Eval(format, ctx)
	if err != nil {
		return err
	}
	defer result.Unref()

	text, _ := result.Repr()
	fmt.Println(text)
	return nil
}
