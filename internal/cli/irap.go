package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/roadwatch/internal/irap"
)

// IRAPOptions holds flags for the irap command.
type IRAPOptions struct {
	*RootOptions

	Investment    float64
	AnnualSavings float64
	Years         int
	DiscountRate  float64
}

// IRAPResult is the JSON payload of the irap command.
type IRAPResult struct {
	Report      *irap.Report     `json:"report,omitempty"`
	CostBenefit irap.CostBenefit `json:"costBenefit"`
	Skipped     []string         `json:"skipped,omitempty"`
}

// NewIRAPCommand creates the irap command.
func NewIRAPCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IRAPOptions{RootOptions: rootOpts}
	defaults := irap.DefaultParams()

	cmd := &cobra.Command{
		Use:   "irap [segments]",
		Short: "Star-rate road segments and evaluate the upgrade programme",
		Long: `Rate road segments with the iRAP star scheme and run a cost-benefit
evaluation.

Each segment record carries startKm, endKm, and either a measured starRating
or the eight design factors, plus an optional crashRate. The investment and
annual savings default to the segment totals; without a segment file they
default to the regional programme estimate.

Examples:
  roadwatch irap segments.yaml
  roadwatch irap --discount-rate 0.07 --years 15 segments.yaml
  roadwatch irap --investment 8000000 --annual-savings 1500000 --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runIRAP(opts, path, cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.Investment, "investment", defaults.Investment, "total investment in riyals (default: segment cost total)")
	cmd.Flags().Float64Var(&opts.AnnualSavings, "annual-savings", defaults.AnnualSavings, "yearly savings in riyals (default: segment savings total)")
	cmd.Flags().IntVar(&opts.Years, "years", defaults.Years, "evaluation horizon in years")
	cmd.Flags().Float64Var(&opts.DiscountRate, "discount-rate", defaults.DiscountRate, "yearly discount rate for NPV")

	return cmd
}

func runIRAP(opts *IRAPOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	params := irap.Params{
		Investment:    opts.Investment,
		AnnualSavings: opts.AnnualSavings,
		Years:         opts.Years,
		DiscountRate:  opts.DiscountRate,
	}

	var result IRAPResult
	if path != "" {
		recs, err := loadDataset(formatter, path)
		if err != nil {
			return err
		}
		segments, skipped := irap.SegmentsFromRecords(recs)
		for _, s := range skipped {
			result.Skipped = append(result.Skipped, "segment "+s.String())
		}
		if len(segments) == 0 {
			return formatter.Fail(ExitCommandError, CodeDataset, fmt.Sprintf("no usable segments in %s", path), nil)
		}
		report := irap.Analyze(segments)
		result.Report = &report
		if !cmd.Flags().Changed("investment") {
			params.Investment = report.TotalCost
		}
		if !cmd.Flags().Changed("annual-savings") {
			params.AnnualSavings = report.TotalSavings
		}
	}

	cb, err := irap.Evaluate(params)
	if err != nil {
		return formatter.Fail(ExitCommandError, CodeUsage, "invalid cost-benefit parameters", err)
	}
	result.CostBenefit = cb
	opts.logger().Debug("irap evaluated",
		zap.Float64("investment", cb.TotalInvestment),
		zap.Float64("npv", cb.NetPresentValue),
		zap.Int("skipped", len(result.Skipped)),
	)

	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	if result.Report != nil {
		writeIRAPReport(formatter.Writer, *result.Report)
	}
	fmt.Fprintf(formatter.Writer, "✓ Investment %.0f, annual savings %.0f\n", cb.TotalInvestment, cb.AnnualSavings)
	fmt.Fprintf(formatter.Writer, "  payback %.1f years, ROI %.0f%%, NPV %.0f, benefit/cost %.2f\n",
		cb.PaybackPeriod, cb.ROI, cb.NetPresentValue, cb.BenefitCostRatio)
	for _, s := range result.Skipped {
		formatter.VerboseLog("skipped %s", s)
	}
	if len(result.Skipped) > 0 && !formatter.Verbose {
		fmt.Fprintf(formatter.GetErrWriter(), "%d record(s) skipped (use --verbose for details)\n", len(result.Skipped))
	}
	return nil
}

func writeIRAPReport(w io.Writer, report irap.Report) {
	for _, a := range report.Segments {
		fmt.Fprintf(w, "%s km %.1f-%.1f %d★ %s cost %.0f savings %.0f\n",
			a.ID, a.StartKm, a.EndKm, a.Stars, a.Band, a.EstimatedCost, a.PotentialSavings)
	}
	fmt.Fprintf(w, "✓ %d segment(s), %.1f km, overall %d★ (%s)\n",
		len(report.Segments), report.TotalLengthKm, report.Overall.Stars, report.Overall.Category)
}
