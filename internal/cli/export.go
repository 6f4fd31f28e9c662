package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/roadwatch/internal/dataset"
	"github.com/roach88/roadwatch/internal/filter"
	"github.com/roach88/roadwatch/internal/record"
	"github.com/roach88/roadwatch/internal/store"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	source sourceOptions

	Out       string // output file; stdout when empty
	As        string // dataset format when writing to stdout
	List      bool   // list collections
	Snapshots bool   // list the collection's snapshots
}

// ExportResult is the payload of the export command when it writes a file.
type ExportResult struct {
	Collection string `json:"collection"`
	Records    int    `json:"records"`
	Path       string `json:"path"`
	Format     string `json:"format"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored records, snapshots or collections",
		Long: `Export the records of a stored collection as a dataset file.

Records can be narrowed with a filter set and --where values first. Without
--out the dataset is written to stdout in the --as format.

Examples:
  roadwatch export --db roadwatch.db -c accidents --out accidents.yaml
  roadwatch export --db roadwatch.db -c accidents --preset accidents -w severity=مميت
  roadwatch export --db roadwatch.db -c accidents --snapshots
  roadwatch export --db roadwatch.db --list`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), opts, cmd)
		},
	}

	opts.source.bindFilterSet(cmd, rootOpts)
	opts.source.bindStore(cmd, rootOpts)
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output dataset file (.json, .yaml, .yml)")
	cmd.Flags().StringVar(&opts.As, "as", string(dataset.FormatJSON), "dataset format for stdout (json|yaml)")
	cmd.Flags().BoolVar(&opts.List, "list", false, "list stored collections")
	cmd.Flags().BoolVar(&opts.Snapshots, "snapshots", false, "list the collection's saved filter snapshots")

	return cmd
}

func runExport(ctx context.Context, opts *ExportOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)
	src := &opts.source

	if !opts.List && src.Collection == "" {
		return formatter.Fail(ExitCommandError, CodeUsage, "--collection is required", nil)
	}

	format := dataset.Format(opts.As)
	if opts.Out != "" {
		var err error
		if format, err = dataset.FormatFromPath(opts.Out); err != nil {
			return formatter.Fail(ExitCommandError, CodeUsage, "unsupported output file", err)
		}
	} else if format != dataset.FormatJSON && format != dataset.FormatYAML {
		return formatter.Fail(ExitCommandError, CodeUsage, fmt.Sprintf("--as must be json or yaml, got %q", opts.As), nil)
	}

	st, err := src.openStore(formatter, opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	switch {
	case opts.List:
		return exportCollections(ctx, st, formatter)
	case opts.Snapshots:
		return exportSnapshots(ctx, st, src.Collection, formatter)
	}

	var (
		descs []filter.Descriptor
		state filter.State
	)
	if src.wantsFilterSet() {
		fs, err := src.filterSet(formatter)
		if err != nil {
			return err
		}
		descs = fs.Filters
		if state, err = src.applyWhere(formatter, descs, filter.Initialize(descs)); err != nil {
			return err
		}
	}

	recs, err := st.Records(ctx, src.Collection, descs, state)
	if err != nil {
		return formatter.Fail(ExitCommandError, CodeStore, "failed to read collection", err)
	}

	if opts.Out == "" {
		return writeDataset(formatter, recs, format)
	}

	var buf bytes.Buffer
	if err := dataset.Write(&buf, recs, format); err != nil {
		return formatter.Fail(ExitCommandError, CodeDataset, "failed to encode dataset", err)
	}
	if err := os.WriteFile(opts.Out, buf.Bytes(), 0o644); err != nil {
		return formatter.Fail(ExitCommandError, CodeDataset, "failed to write dataset", err)
	}

	result := ExportResult{
		Collection: src.Collection,
		Records:    len(recs),
		Path:       opts.Out,
		Format:     string(format),
	}
	if formatter.IsJSON() {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Exported %d record(s) from %s to %s\n", result.Records, result.Collection, result.Path)
	return nil
}

// writeDataset writes recs to stdout. JSON mode wraps them in a response.
func writeDataset(formatter *OutputFormatter, recs []record.Object, format dataset.Format) error {
	if formatter.IsJSON() {
		items := make([]any, len(recs))
		for i, rec := range recs {
			items[i] = record.ToAny(rec)
		}
		return formatter.Success(items)
	}
	if err := dataset.Write(formatter.Writer, recs, format); err != nil {
		return formatter.Fail(ExitCommandError, CodeDataset, "failed to encode dataset", err)
	}
	return nil
}

func exportCollections(ctx context.Context, st *store.Store, formatter *OutputFormatter) error {
	collections, err := st.Collections(ctx)
	if err != nil {
		return formatter.Fail(ExitCommandError, CodeStore, "failed to list collections", err)
	}
	if formatter.IsJSON() {
		return formatter.Success(collections)
	}
	if len(collections) == 0 {
		fmt.Fprintln(formatter.Writer, "No collections.")
		return nil
	}
	for _, c := range collections {
		fmt.Fprintf(formatter.Writer, "%s\t%d\n", c.Name, c.Records)
	}
	return nil
}

func exportSnapshots(ctx context.Context, st *store.Store, collection string, formatter *OutputFormatter) error {
	snapshots, err := st.Snapshots(ctx, collection)
	if err != nil {
		return formatter.Fail(ExitCommandError, CodeStore, "failed to list snapshots", err)
	}
	if formatter.IsJSON() {
		return formatter.Success(snapshots)
	}
	if len(snapshots) == 0 {
		fmt.Fprintf(formatter.Writer, "No snapshots for %s.\n", collection)
		return nil
	}
	for _, s := range snapshots {
		fmt.Fprintf(formatter.Writer, "%s\t%s\t%d filter(s)\t%d record(s)\n",
			s.ID, s.Snapshot.FileName(), len(s.Snapshot.Filters), s.Snapshot.ResultCount)
	}
	return nil
}
