package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/roadwatch/internal/catalog"
	"github.com/roach88/roadwatch/internal/dataset"
	"github.com/roach88/roadwatch/internal/filter"
	"github.com/roach88/roadwatch/internal/record"
	"github.com/roach88/roadwatch/internal/store"
)

// sourceOptions are the flags shared by commands that read records through
// a filter set.
type sourceOptions struct {
	Preset     string
	Catalog    string
	FilterSet  string
	Where      []string
	DB         string
	Collection string
}

func (s *sourceOptions) bindFilterSet(cmd *cobra.Command, rootOpts *RootOptions) {
	cmd.Flags().StringVar(&s.Preset, "preset", "", fmt.Sprintf("built-in filter set (%s)", strings.Join(catalog.PresetNames(), "|")))
	cmd.Flags().StringVar(&s.Catalog, "catalog", rootOpts.Config.CatalogDir, "CUE catalog directory (env ROADWATCH_CATALOG)")
	cmd.Flags().StringVar(&s.FilterSet, "set", "", "filter set name within --catalog")
	cmd.Flags().StringArrayVarP(&s.Where, "where", "w", nil, "filter value as key=value (repeatable)")
}

func (s *sourceOptions) bindStore(cmd *cobra.Command, rootOpts *RootOptions) {
	cmd.Flags().StringVar(&s.DB, "db", rootOpts.Config.DBPath, "path to SQLite database (env ROADWATCH_DB)")
	cmd.Flags().StringVarP(&s.Collection, "collection", "c", "", "stored collection to read")
}

// wantsFilterSet reports whether any flag asks for filtering.
func (s *sourceOptions) wantsFilterSet() bool {
	return s.Preset != "" || s.FilterSet != "" || len(s.Where) > 0
}

// filterSet resolves --preset, or --catalog with --set. Failures are
// reported through formatter.
func (s *sourceOptions) filterSet(formatter *OutputFormatter) (*catalog.FilterSet, error) {
	reg := catalog.NewRegistry()

	if s.Preset != "" {
		if s.FilterSet != "" {
			return nil, formatter.Fail(ExitCommandError, CodeUsage, "--set is only valid with --catalog", nil)
		}
		fs, err := catalog.Preset(s.Preset, reg)
		if err != nil {
			return nil, formatter.Fail(ExitCommandError, CodeUsage, "failed to load preset", err)
		}
		return fs, nil
	}

	if s.Catalog == "" {
		return nil, formatter.Fail(ExitCommandError, CodeUsage, "one of --preset or --catalog is required", nil)
	}
	if s.FilterSet == "" {
		return nil, formatter.Fail(ExitCommandError, CodeUsage, "--set is required with --catalog", nil)
	}

	loaded, errs := catalog.Load(s.Catalog, catalog.LoadModeFailFast, reg)
	if len(errs) > 0 {
		var loadErr *catalog.LoadError
		if errors.As(errs[0], &loadErr) {
			return nil, formatter.Fail(ExitCommandError, loadErr.Code, "failed to load catalog", loadErr)
		}
		return nil, formatter.Fail(ExitCommandError, catalog.ErrCodeGeneric, "failed to load catalog", errs[0])
	}
	fs, ok := loaded.FilterSet(s.FilterSet)
	if !ok {
		return nil, formatter.Fail(ExitCommandError, CodeUsage,
			fmt.Sprintf("catalog %s has no filter set %q", s.Catalog, s.FilterSet), nil)
	}
	return fs, nil
}

// applyWhere parses the --where flags into state, in flag order.
func (s *sourceOptions) applyWhere(formatter *OutputFormatter, descs []filter.Descriptor, state filter.State) (filter.State, error) {
	for _, raw := range s.Where {
		key, value, ok := strings.Cut(raw, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, formatter.Fail(ExitCommandError, CodeFilter, fmt.Sprintf("--where %q: expected key=value", raw), nil)
		}
		key = strings.TrimSpace(key)
		d, found := filter.Find(descs, key)
		if !found {
			return nil, formatter.Fail(ExitCommandError, CodeFilter, fmt.Sprintf("unknown filter %q", key), nil)
		}
		v, err := filter.ParseValue(d.Kind, value)
		if err != nil {
			return nil, formatter.Fail(ExitCommandError, CodeFilter, fmt.Sprintf("filter %s", key), err)
		}
		state = filter.UpdateField(state, key, v)
	}
	return state, nil
}

// openStore opens --db. The caller closes it.
func (s *sourceOptions) openStore(formatter *OutputFormatter, rootOpts *RootOptions, opts ...store.Option) (*store.Store, error) {
	if s.DB == "" {
		return nil, formatter.Fail(ExitCommandError, CodeUsage, "--db is required", nil)
	}
	opts = append([]store.Option{store.WithLogger(rootOpts.logger())}, opts...)
	st, err := store.Open(s.DB, opts...)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, CodeStore, "failed to open store", err)
	}
	return st, nil
}

// loadDataset reads a dataset file.
func loadDataset(formatter *OutputFormatter, path string) ([]record.Object, error) {
	recs, err := dataset.LoadFile(path)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, CodeDataset, "failed to load dataset", err)
	}
	formatter.VerboseLog("Loaded %d record(s) from %s", len(recs), path)
	return recs, nil
}

// parseNow parses --now, defaulting to the current time.
func parseNow(formatter *OutputFormatter, raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	t, ok := record.ParseTime(raw)
	if !ok {
		return time.Time{}, formatter.Fail(ExitCommandError, CodeUsage, fmt.Sprintf("--now: cannot parse %q", raw), nil)
	}
	return t, nil
}
