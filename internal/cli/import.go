package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	source  sourceOptions
	Replace bool
}

// ImportResult is the payload of the import command.
type ImportResult struct {
	Collection string `json:"collection"`
	Read       int    `json:"read"`
	Imported   int    `json:"imported"`
	Replaced   int    `json:"replaced,omitempty"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <dataset>",
		Short: "Import a dataset file into the store",
		Long: `Import the records of a JSON or YAML dataset into a stored collection.

Records are deduplicated by content, so importing the same file twice adds
nothing. The collection defaults to the file name without extension.

Examples:
  roadwatch import --db roadwatch.db accidents.json
  roadwatch import --db roadwatch.db -c blackspots --replace blackspots.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), opts, args[0], cmd)
		},
	}

	opts.source.bindStore(cmd, rootOpts)
	cmd.Flags().BoolVar(&opts.Replace, "replace", false, "delete the collection's records first")

	return cmd
}

func runImport(ctx context.Context, opts *ImportOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	collection := opts.source.Collection
	if collection == "" {
		collection = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	recs, err := loadDataset(formatter, path)
	if err != nil {
		return err
	}

	st, err := opts.source.openStore(formatter, opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	result := ImportResult{Collection: collection, Read: len(recs)}
	if opts.Replace {
		if result.Replaced, err = st.DeleteCollection(ctx, collection); err != nil {
			return formatter.Fail(ExitCommandError, CodeStore, "failed to clear collection", err)
		}
	}
	if result.Imported, err = st.ImportRecords(ctx, collection, recs); err != nil {
		return formatter.Fail(ExitCommandError, CodeStore, "failed to import records", err)
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Imported %d of %d record(s) into %s\n", result.Imported, result.Read, result.Collection)
	if opts.Replace {
		fmt.Fprintf(formatter.Writer, "  replaced %d record(s)\n", result.Replaced)
	}
	return nil
}
