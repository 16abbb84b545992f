package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-filterx/internal/filterx"
)

var (
	recordFile  string
	compareMode string
	showRecord  bool
)

var evalCmd = &cobra.Command{
	Use:   "eval [expression]",
	Short: "Evaluate a filter expression against a JSON record",
	Long: `Evaluate a single comparison expression against a log record read
from a JSON file. The expression has the form

  $field OP value

where OP is one of ==, !=, <, >, <=, >=. Record fields are addressed with a
leading $; the value side is parsed as an integer, double, boolean, null
or string literal.

Examples:
  filterx eval --record msg.json '$status == 404'
  filterx eval --record msg.json --mode string '$level != info'`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVarP(&recordFile, "record", "r", "", "JSON file with the log record (required)")
	evalCmd.Flags().StringVar(&compareMode, "mode", "type-aware", "comparison mode: numeric, string, type-aware, type-value")
	evalCmd.Flags().BoolVar(&showRecord, "show-record", false, "print the record after evaluation")
	_ = evalCmd.MarkFlagRequired("record")
}

func runEval(_ *cobra.Command, args []string) error {
	msg, err := loadRecord(recordFile)
	if err != nil {
		return fmt.Errorf("failed to load record: %w", err)
	}

	expr, err := buildComparison(args[0])
	if err != nil {
		return err
	}
	defer expr.Free()

	ctx := filterx.NewEvalContext(msg)
	defer ctx.Close()

	result, err := filterx.Eval(expr, ctx)
	if err != nil {
		return err
	}
	defer result.Unref()

	repr, _ := result.Repr()
	fmt.Println(repr)

	if showRecord {
		rendered, err := renderRecord(msg)
		if err != nil {
			return err
		}
		fmt.Println(rendered)
	}
	return nil
}

// buildComparison turns "$field OP value" into a comparison tree.
func buildComparison(input string) (filterx.Expr, error) {
	parts := strings.SplitN(input, " ", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("expression must have the form: $field OP value")
	}
	lhsName, opText, valueText := parts[0], parts[1], strings.TrimSpace(parts[2])

	if !strings.HasPrefix(lhsName, "$") {
		return nil, fmt.Errorf("left hand side must be a record field ($name)")
	}

	operator, err := parseOperator(opText)
	if err != nil {
		return nil, err
	}
	mode, err := parseMode(compareMode)
	if err != nil {
		return nil, err
	}

	lhs := filterx.NewVariable(lhsName)
	rhs := filterx.NewLiteral(parseLiteral(valueText))
	return filterx.NewComparison(lhs, rhs, operator|mode), nil
}

func parseOperator(text string) (int, error) {
	switch text {
	case "==":
		return filterx.CmpEQ, nil
	case "!=":
		return filterx.CmpNE, nil
	case "<":
		return filterx.CmpLT, nil
	case ">":
		return filterx.CmpGT, nil
	case "<=":
		return filterx.CmpEQ | filterx.CmpLT, nil
	case ">=":
		return filterx.CmpEQ | filterx.CmpGT, nil
	}
	return 0, fmt.Errorf("unknown operator %q", text)
}

func parseMode(text string) (int, error) {
	switch text {
	case "numeric":
		return filterx.CmpNumBased, nil
	case "string":
		return filterx.CmpStringBased, nil
	case "type-aware":
		return filterx.CmpTypeAware, nil
	case "type-value":
		return filterx.CmpTypeAndValueBased, nil
	}
	return 0, fmt.Errorf("unknown comparison mode %q", text)
}

func parseLiteral(text string) *filterx.Object {
	switch text {
	case "null":
		return filterx.NewNull()
	case "true":
		return filterx.NewBoolean(true)
	case "false":
		return filterx.NewBoolean(false)
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return filterx.NewInteger(i)
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return filterx.NewDouble(f)
	}
	return filterx.NewString(strings.Trim(text, `"'`))
}
