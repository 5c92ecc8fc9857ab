package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/surveystream/brfssfit/internal/fit"
	"github.com/surveystream/brfssfit/internal/utils"
)

var (
	fitMinYear     int
	fitReportEvery int
	fitOutputPath  string
	fitQuiet       bool
)

var fitCmd = &cobra.Command{
	Use:   "fit [dir]",
	Short: "Stream survey archives and fit the health regression",
	Long: `Fit walks a directory of zipped yearly survey archives, decodes each
fixed-width respondent record, and folds every valid observation into an
online least-squares fit of health ~ income + education + bmi. Intermediate
coefficient estimates are printed as the stream progresses; the final report
carries the coefficients and adjusted R².`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) == 1 {
			dir = args[0]
		} else if cfg != nil {
			dir = cfg.DataDir
		}
		if dir == "" {
			return fmt.Errorf("no data directory: pass one as an argument or set data_dir in config")
		}

		opt := fit.DefaultOptions()
		if cfg != nil {
			if cfg.MinYear > 0 {
				opt.MinYear = cfg.MinYear
			}
			if cfg.ReportEvery > 0 {
				opt.ReportEvery = cfg.ReportEvery
			}
		}
		if cmd.Flags().Changed("min-year") {
			opt.MinYear = fitMinYear
		}
		if cmd.Flags().Changed("report-every") {
			opt.ReportEvery = fitReportEvery
		}
		opt.Quiet = fitQuiet

		sum, err := fit.Run(dir, opt, os.Stdout)
		if err != nil {
			return err
		}

		fmt.Print(sum.Table())
		if !fitQuiet {
			fmt.Printf("✓ Fit %s: %d files processed, %d skipped; %d records unreadable, %d rejected\n",
				sum.RunID, sum.FilesProcessed, sum.FilesSkipped, sum.RecordsSkipped, sum.Rejected)
		}
		if debug {
			fmt.Printf("residual variance: %v\n", sum.ResidualVar)
		}

		if fitOutputPath != "" {
			if err := utils.EnsureDir(filepath.Dir(fitOutputPath)); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			report := fmt.Sprintf("run: %s\n%s", sum.RunID, sum.Table())
			if err := utils.SafeWriteFile(fitOutputPath, []byte(report)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			if !fitQuiet {
				fmt.Printf("✓ Wrote fit report to %s\n", fitOutputPath)
			}
		}
		return nil
	},
}

func init() {
	fitCmd.Flags().IntVar(&fitMinYear, "min-year", 2011, "skip archives from survey years before this")
	fitCmd.Flags().IntVar(&fitReportEvery, "report-every", 10000, "accepted observations between intermediate reports (0 disables)")
	fitCmd.Flags().StringVarP(&fitOutputPath, "output", "o", "", "also write the final report to this file")
	fitCmd.Flags().BoolVarP(&fitQuiet, "quiet", "q", false, "suppress progress and skip warnings")
	rootCmd.AddCommand(fitCmd)
}
