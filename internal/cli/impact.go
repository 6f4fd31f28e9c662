package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/roadwatch/internal/impact"
)

// ImpactOptions holds flags for the impact command.
type ImpactOptions struct {
	*RootOptions

	Project string
}

// ImpactResult is the JSON payload of the impact command.
type ImpactResult struct {
	Projects []impact.Comparison `json:"projects"`
	Skipped  []string            `json:"skipped,omitempty"`
}

// NewImpactCommand creates the impact command.
func NewImpactCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImpactOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "impact <projects>",
		Short: "Compare safety indicators before and after projects",
		Long: `Compare the indicators of each project before and after it ran.

Each project record carries beforeData and afterData objects of numeric
readings (accidents, fatalities, trafficFlow, satisfactionRate, ...).
Improvements are signed so that positive always means better.

Examples:
  roadwatch impact projects.json
  roadwatch impact --project 2 --format json projects.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImpact(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Project, "project", "p", "", "only compare the project with this id")

	return cmd
}

func runImpact(opts *ImpactOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	recs, err := loadDataset(formatter, path)
	if err != nil {
		return err
	}
	projects, skipped := impact.ProjectsFromRecords(recs)

	result := ImpactResult{Projects: []impact.Comparison{}}
	for _, s := range skipped {
		result.Skipped = append(result.Skipped, "project "+s.String())
	}
	for _, p := range projects {
		if opts.Project != "" && p.ID != opts.Project {
			continue
		}
		result.Projects = append(result.Projects, impact.Compare(p))
	}
	if opts.Project != "" && len(result.Projects) == 0 {
		return formatter.Fail(ExitCommandError, CodeUsage, fmt.Sprintf("no project with id %q", opts.Project), nil)
	}
	opts.logger().Debug("impact compared",
		zap.Int("projects", len(result.Projects)),
		zap.Int("skipped", len(result.Skipped)),
	)

	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	for _, c := range result.Projects {
		writeComparison(formatter.Writer, c)
	}
	for _, s := range result.Skipped {
		formatter.VerboseLog("skipped %s", s)
	}
	if len(result.Skipped) > 0 && !formatter.Verbose {
		fmt.Fprintf(formatter.GetErrWriter(), "%d record(s) skipped (use --verbose for details)\n", len(result.Skipped))
	}
	return nil
}

func writeComparison(w io.Writer, c impact.Comparison) {
	fmt.Fprintf(w, "✓ %s %s: cost saving %.1f%%\n", c.ID, c.Title, c.CostSaving)
	for _, ch := range c.Changes {
		mark := "-"
		if ch.Improved() {
			mark = "+"
		}
		fmt.Fprintf(w, "  %s %-16s %g → %g (%+.1f%%)\n", mark, ch.Key, ch.Before, ch.After, ch.Improvement)
	}
}
