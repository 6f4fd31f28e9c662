package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/roadwatch/internal/filter"
	"github.com/roach88/roadwatch/internal/heatmap"
	"github.com/roach88/roadwatch/internal/record"
)

// HeatmapOptions holds flags for the heatmap command.
type HeatmapOptions struct {
	*RootOptions
	source sourceOptions

	Analysis string
	Hazards  string // hazard dataset file
	Now      string
	Gradient string
	Radius   int
	Blur     int
}

// HeatmapResult is the JSON payload of the heatmap command.
type HeatmapResult struct {
	heatmap.Layer
	Skipped []string `json:"skipped,omitempty"`
}

// NewHeatmapCommand creates the heatmap command.
func NewHeatmapCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HeatmapOptions{RootOptions: rootOpts}
	defaults := heatmap.DefaultSettings()

	analyses := make([]string, 0, 4)
	for _, a := range heatmap.Analyses() {
		analyses = append(analyses, string(a.Type))
	}

	cmd := &cobra.Command{
		Use:   "heatmap [dataset]",
		Short: "Generate heatmap weights from incident records",
		Long: `Generate weighted heatmap points from incident records.

Records can be narrowed first with a filter set and --where values, the same
way the filter command does. Hazard points (blackspots with a riskScore) are
added for the risk_assessment analysis only.

Examples:
  roadwatch heatmap --analysis severity_weighted accidents.json
  roadwatch heatmap --analysis risk_assessment --hazards blackspots.yaml accidents.json
  roadwatch heatmap --analysis temporal_analysis --now 2024-06-01 --preset accidents -w governorate=albaha accidents.json
  roadwatch heatmap --db roadwatch.db -c accidents --gradient warm --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runHeatmap(cmd.Context(), opts, path, cmd)
		},
	}

	opts.source.bindFilterSet(cmd, rootOpts)
	opts.source.bindStore(cmd, rootOpts)
	cmd.Flags().StringVarP(&opts.Analysis, "analysis", "a", string(heatmap.CrashDensity), "analysis type ("+strings.Join(analyses, "|")+"); unknown types fall back to crash_density")
	cmd.Flags().StringVar(&opts.Hazards, "hazards", "", "hazard dataset for risk_assessment")
	cmd.Flags().StringVar(&opts.Now, "now", "", "reference time for temporal_analysis (default: current time)")
	cmd.Flags().StringVar(&opts.Gradient, "gradient", "classic", "gradient preset ("+strings.Join(heatmap.GradientPresetNames(), "|")+")")
	cmd.Flags().IntVar(&opts.Radius, "radius", defaults.Radius, "point radius in pixels")
	cmd.Flags().IntVar(&opts.Blur, "blur", defaults.Blur, "blur in pixels")

	return cmd
}

func runHeatmap(ctx context.Context, opts *HeatmapOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	analysis := heatmap.AnalysisType(opts.Analysis)
	if !analysis.Valid() {
		opts.logger().Warn("unknown analysis, using crash_density",
			zap.String("analysis", opts.Analysis),
		)
		analysis = analysis.Normalize()
	}
	settings := heatmap.DefaultSettings()
	gradient, ok := heatmap.GradientPreset(opts.Gradient)
	if !ok {
		return formatter.Fail(ExitCommandError, CodeUsage, fmt.Sprintf("unknown gradient %q", opts.Gradient), nil)
	}
	settings.Gradient = gradient
	settings.Radius = opts.Radius
	settings.Blur = opts.Blur
	if err := settings.Validate(); err != nil {
		return formatter.Fail(ExitCommandError, CodeUsage, "invalid heatmap settings", err)
	}
	now, err := parseNow(formatter, opts.Now)
	if err != nil {
		return err
	}

	recs, err := heatmapRecords(ctx, opts, path, formatter)
	if err != nil {
		return err
	}

	var hazardRecs []record.Object
	if opts.Hazards != "" {
		if hazardRecs, err = loadDataset(formatter, opts.Hazards); err != nil {
			return err
		}
	}

	incidents, skipped := heatmap.IncidentsFromRecords(recs)
	hazards, skippedHazards := heatmap.HazardsFromRecords(hazardRecs)
	layer := heatmap.BuildLayer(incidents, hazards, analysis, settings, now)

	result := HeatmapResult{Layer: layer}
	for _, s := range skipped {
		result.Skipped = append(result.Skipped, "incident "+s.String())
	}
	for _, s := range skippedHazards {
		result.Skipped = append(result.Skipped, "hazard "+s.String())
	}
	opts.logger().Debug("heatmap generated",
		zap.String("analysis", string(layer.Analysis)),
		zap.Int("points", layer.Stats.TotalPoints),
		zap.Int("skipped", len(result.Skipped)),
	)

	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	fmt.Fprint(formatter.Writer, layer.Table())
	for _, s := range result.Skipped {
		formatter.VerboseLog("skipped %s", s)
	}
	if len(result.Skipped) > 0 && !formatter.Verbose {
		fmt.Fprintf(formatter.GetErrWriter(), "%d record(s) skipped (use --verbose for details)\n", len(result.Skipped))
	}
	return nil
}

// heatmapRecords reads the incident records and narrows them when a filter
// set or --where value is given.
func heatmapRecords(ctx context.Context, opts *HeatmapOptions, path string, formatter *OutputFormatter) ([]record.Object, error) {
	src := &opts.source
	if path == "" && src.Collection == "" {
		return nil, formatter.Fail(ExitCommandError, CodeUsage, "a dataset file or --collection is required", nil)
	}
	if path != "" && src.Collection != "" {
		return nil, formatter.Fail(ExitCommandError, CodeUsage, "a dataset file and --collection are mutually exclusive", nil)
	}

	var (
		descs []filter.Descriptor
		state filter.State
	)
	if src.wantsFilterSet() {
		fs, err := src.filterSet(formatter)
		if err != nil {
			return nil, err
		}
		descs = fs.Filters
		if state, err = src.applyWhere(formatter, descs, filter.Initialize(descs)); err != nil {
			return nil, err
		}
	}

	if path != "" {
		recs, err := loadDataset(formatter, path)
		if err != nil {
			return nil, err
		}
		return filter.Apply(recs, descs, state), nil
	}

	st, err := src.openStore(formatter, opts.RootOptions)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	recs, err := st.Records(ctx, src.Collection, descs, state)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, CodeStore, "failed to read collection", err)
	}
	return recs, nil
}
