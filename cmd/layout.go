package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/surveystream/brfssfit/internal/layout"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "List known survey-year field layouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, code := range layout.YearCodes() {
			e, _ := layout.Lookup(code)
			fmt.Printf("- %d (generation %s): genhlth@%d, bmi@%d-%d, income@%d-%d, education@%d\n",
				layout.Year(code), layout.GenerationFor(code),
				e.GenHealth, e.BMI.Start, e.BMI.End, e.Income.Start, e.Income.End, e.Education)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(layoutCmd)
}
