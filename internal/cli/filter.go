package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/roadwatch/internal/filter"
	"github.com/roach88/roadwatch/internal/record"
	"github.com/roach88/roadwatch/internal/store"
)

// FilterOptions holds flags for the filter command.
type FilterOptions struct {
	*RootOptions
	source sourceOptions

	Snapshot bool   // print the export snapshot
	Save     bool   // store the snapshot in --db
	Restore  string // stored snapshot to start from
	Now      string // snapshot timestamp

	// IDs overrides the snapshot ID generator (for testing).
	IDs store.IDGenerator
}

// ActiveFilterView is one active filter in command output.
type ActiveFilterView struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Display string `json:"display"`
	Value   any    `json:"value"`
}

// FilterResult is the payload of the filter command.
type FilterResult struct {
	FilterSet  string             `json:"filterSet"`
	Total      int                `json:"total"`
	Count      int                `json:"count"`
	Active     []ActiveFilterView `json:"active"`
	Records    []any              `json:"records"`
	Snapshot   *filter.Snapshot   `json:"snapshot,omitempty"`
	SnapshotID string             `json:"snapshotId,omitempty"`
}

// NewFilterCommand creates the filter command.
func NewFilterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FilterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "filter [dataset]",
		Short: "Apply a filter set to records",
		Long: `Apply filter values to a dataset file or a stored collection.

Filter values use the same text encodings as the dashboard: ranges as
"min-max", date ranges as "start - end", multiselect choices separated
by commas, "all" for the select default.

Examples:
  roadwatch filter --preset accidents -w severity=خطير accidents.json
  roadwatch filter --preset accidents -w vehiclesInvolved=2-3 -w governorate=albaha,qilwah accidents.yaml
  roadwatch filter --db roadwatch.db -c accidents --preset accidents -w weather=ضبابي --save
  roadwatch filter --db roadwatch.db -c accidents --preset accidents --restore <snapshot-id>
  roadwatch filter --catalog ./catalog --set roads -w surface=gravel roads.json --snapshot`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runFilter(cmd.Context(), opts, path, cmd)
		},
	}

	opts.source.bindFilterSet(cmd, rootOpts)
	opts.source.bindStore(cmd, rootOpts)
	cmd.Flags().BoolVar(&opts.Snapshot, "snapshot", false, "print the filter snapshot")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "save the filter snapshot to the store")
	cmd.Flags().StringVar(&opts.Restore, "restore", "", "start from a stored snapshot")
	cmd.Flags().StringVar(&opts.Now, "now", "", "snapshot timestamp (default: current time)")

	return cmd
}

func runFilter(ctx context.Context, opts *FilterOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)
	src := &opts.source

	fromStore := path == ""
	if fromStore && src.Collection == "" {
		return formatter.Fail(ExitCommandError, CodeUsage, "a dataset file or --collection is required", nil)
	}
	if !fromStore && src.Collection != "" {
		return formatter.Fail(ExitCommandError, CodeUsage, "a dataset file and --collection are mutually exclusive", nil)
	}
	if (opts.Save || opts.Restore != "") && !fromStore {
		return formatter.Fail(ExitCommandError, CodeUsage, "--save and --restore need --collection", nil)
	}

	fs, err := src.filterSet(formatter)
	if err != nil {
		return err
	}
	now, err := parseNow(formatter, opts.Now)
	if err != nil {
		return err
	}

	var st *store.Store
	if fromStore {
		var storeOpts []store.Option
		if opts.IDs != nil {
			storeOpts = append(storeOpts, store.WithIDGenerator(opts.IDs))
		}
		st, err = src.openStore(formatter, opts.RootOptions, storeOpts...)
		if err != nil {
			return err
		}
		defer st.Close()
	}

	state := filter.Initialize(fs.Filters)
	if opts.Restore != "" {
		saved, err := st.Snapshot(ctx, opts.Restore)
		if err != nil {
			if errors.Is(err, store.ErrSnapshotNotFound) {
				return formatter.Fail(ExitCommandError, CodeStore, fmt.Sprintf("snapshot %s not found", opts.Restore), nil)
			}
			return formatter.Fail(ExitCommandError, CodeStore, "failed to read snapshot", err)
		}
		state, err = saved.Snapshot.State(fs.Filters)
		if err != nil {
			return formatter.Fail(ExitCommandError, CodeFilter, "snapshot does not fit the filter set", err)
		}
		formatter.VerboseLog("Restored %d filter(s) from snapshot %s", len(saved.Snapshot.Filters), opts.Restore)
	}
	state, err = src.applyWhere(formatter, fs.Filters, state)
	if err != nil {
		return err
	}

	var all, matched []record.Object
	if fromStore {
		if all, err = st.AllRecords(ctx, src.Collection); err != nil {
			return formatter.Fail(ExitCommandError, CodeStore, "failed to read collection", err)
		}
		if matched, err = st.Records(ctx, src.Collection, fs.Filters, state); err != nil {
			return formatter.Fail(ExitCommandError, CodeStore, "failed to filter collection", err)
		}
	} else {
		if all, err = loadDataset(formatter, path); err != nil {
			return err
		}
		matched = filter.Apply(all, fs.Filters, state)
	}

	result := FilterResult{
		FilterSet: fs.Name,
		Total:     len(all),
		Count:     len(matched),
		Active:    activeViews(filter.ActiveFilters(state, fs.Filters)),
		Records:   make([]any, len(matched)),
	}
	for i, rec := range matched {
		result.Records[i] = record.ToAny(rec)
	}

	if opts.Snapshot || opts.Save {
		snap := filter.NewSnapshot(state, fs.Filters, len(matched), now)
		result.Snapshot = &snap
	}
	if opts.Save {
		id, err := st.SaveSnapshot(ctx, src.Collection, *result.Snapshot)
		if err != nil {
			return formatter.Fail(ExitCommandError, CodeStore, "failed to save snapshot", err)
		}
		result.SnapshotID = id
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}
	return outputFilterText(formatter, opts, result, matched)
}

func activeViews(active []filter.ActiveFilter) []ActiveFilterView {
	views := make([]ActiveFilterView, len(active))
	for i, af := range active {
		views[i] = ActiveFilterView{
			Key:     af.Key,
			Label:   af.Label,
			Display: af.DisplayValue,
			Value:   filter.Encode(af.Value),
		}
	}
	return views
}

// outputFilterText prints the summary, the active filters and then either
// the snapshot or one canonical JSON line per record.
func outputFilterText(formatter *OutputFormatter, opts *FilterOptions, result FilterResult, matched []record.Object) error {
	w := formatter.Writer
	fmt.Fprintf(w, "✓ %d of %d records (%s)\n", result.Count, result.Total, result.FilterSet)
	for _, af := range result.Active {
		fmt.Fprintf(w, "  %s: %s\n", af.Label, af.Display)
	}
	if result.SnapshotID != "" {
		fmt.Fprintf(w, "snapshot saved: %s\n", result.SnapshotID)
	}

	if opts.Snapshot {
		data, err := result.Snapshot.MarshalIndent()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\n", result.Snapshot.FileName())
		fmt.Fprintf(w, "%s\n", data)
		return nil
	}

	for _, rec := range matched {
		line, err := record.MarshalCanonical(rec)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\n", line)
	}
	return nil
}
