package main

import (
	"log"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	denominator int
	historySize int
	noColor     bool
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "calc",
	Short: "Imperial measurement calculator",
	Long: `Calc drives the feet/inches/scalar calculator from the terminal.

Keystrokes are written as words separated by spaces:

  f<digits>   feet pad digits, e.g. f12
  f<n>/<d>    feet pad fraction, e.g. f3/4
  i<digits>   inches pad digits, e.g. i6
  i<n>/<d>    inches pad fraction, e.g. i1/2
  s<number>   scalar pad digits and decimal point, e.g. s2.5
  + - x /     operators (* is accepted for x)
  =           evaluate
  bs          backspace
  clear       clear the expression`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVar(&denominator, "denominator", 16, "Inches fraction denominator (8, 16 or 32)")
	rootCmd.PersistentFlags().IntVar(&historySize, "history", 4, "Number of calculations kept in history")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log session activity to stderr")
}
