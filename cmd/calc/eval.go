package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"imperilator/internal/calculator"
	"imperilator/internal/measure"
)

var strict bool

var errorTimeout = measure.NewToken(measure.PadControl, measure.KeyErrorTimeout)

// evalCmd feeds a keystroke script to a calculator session.
var evalCmd = &cobra.Command{
	Use:   "eval <keystrokes>...",
	Short: "Run a keystroke script and print the result",
	Long: `Run a keystroke script through a calculator session.

Rejected keystrokes are reported and skipped unless --strict is set. After
a rejection the error is left to time out, as if the user paused before
the next keystroke. The expression is evaluated at the end when the script
does not finish with "=".

Examples:
  calc eval f1 i6 + i8 i1/4 =
  calc eval s3 + s4 x s2
  calc eval --strict i5 x i10`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tokens, err := parseKeys(strings.Join(args, " "))
		if err != nil {
			return err
		}

		logger := zap.NewNop()
		if verbose {
			if logger, err = zap.NewDevelopment(); err != nil {
				return err
			}
			defer logger.Sync()
		}

		s := calculator.NewSession("cli",
			calculator.WithLogger(logger),
			calculator.WithDenominator(denominator),
			calculator.WithHistorySize(historySize),
		)
		defer s.Close()

		return runScript(cmd.OutOrStdout(), s, tokens, strict)
	},
}

func init() {
	evalCmd.Flags().BoolVar(&strict, "strict", false, "Stop at the first rejected keystroke")
	rootCmd.AddCommand(evalCmd)
}

// runScript submits tokens to s and prints the outcome to w.
func runScript(w io.Writer, s *calculator.Session, tokens []measure.InputToken, strict bool) error {
	errorf := color.New(color.FgRed).FprintfFunc()

	var err error
	for i, tok := range tokens {
		if _, err = s.Submit(tok); err != nil {
			if strict {
				return fmt.Errorf("keystroke %d (%s): %w", i+1, tok, err)
			}
			errorf(w, "  ! %s: %v\n", tok, err)
			s.Submit(errorTimeout)
		}
	}

	if n := len(tokens); n == 0 || !isEquals(tokens[n-1]) {
		if _, err = s.RequestEvaluation(); err != nil {
			errorf(w, "  ! %v\n", err)
		}
	}
	if err != nil {
		return err
	}

	snap := s.Snapshot()
	if len(snap.History) > 0 {
		fmt.Fprint(w, color.CyanString("History:\n"))
		for _, h := range snap.History {
			fmt.Fprintf(w, "  %s = %s\n", h.Expression, h.Result)
		}
	}
	fmt.Fprintf(w, "%s %s\n", color.GreenString("Result:"), snap.Expression)
	return nil
}

func isEquals(tok measure.InputToken) bool {
	return tok.IsOperator() && measure.Operator(tok.Key) == measure.OpEquals
}
