package cli

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"
	"github.com/spf13/cobra"

	"github.com/roach88/roadwatch/internal/catalog"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool                      `json:"valid"`
	FilterSets []string                  `json:"filterSets,omitempty"`
	Errors     []catalog.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <catalog-dir>",
		Short: "Validate a CUE filter catalog",
		Long: `Validate the filter sets of a CUE catalog directory.

Checks the catalog against the schema, compiles every filter set and
reports authoring problems (duplicate keys, select filters without options,
defaults the filter type cannot use). Warnings do not fail validation.

Exit codes:
  0 - Catalog valid
  1 - Validation findings
  2 - Catalog could not be loaded`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, catalogDir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loadResult, loadErrors := catalog.Load(catalogDir, catalog.LoadModeCollectAll, catalog.NewRegistry())

	// Directory not found, no files, unparseable CUE
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *catalog.LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputValidateError(formatter, loadErr.Code, loadErr.Message)
		}
		return outputValidateError(formatter, catalog.ErrCodeGeneric, loadErrors[0].Error())
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, catalogDir)

	var findings []catalog.ValidationError
	for _, err := range loadErrors {
		findings = append(findings, loadFinding(err))
	}

	names := make([]string, 0, len(loadResult.FilterSets))
	for i := range loadResult.FilterSets {
		fs := &loadResult.FilterSets[i]
		names = append(names, fs.Name)
		formatter.VerboseLog("Validating filter set %s (%d filters)", fs.Name, len(fs.Filters))
		findings = append(findings, catalog.Validate(fs)...)
	}

	result := ValidationResult{
		Valid:      !catalog.HasErrors(findings),
		FilterSets: names,
		Errors:     findings,
	}
	if !result.Valid {
		return outputValidationErrors(formatter, result)
	}
	return outputValidateSuccess(formatter, result)
}

// loadFinding turns a load or compile error into a validation finding.
func loadFinding(err error) catalog.ValidationError {
	var loadErr *catalog.LoadError
	if errors.As(err, &loadErr) {
		return catalog.ValidationError{
			Field:   "load",
			Message: loadErr.Message,
			Code:    loadErr.Code,
			Line:    lineOf(loadErr.Pos),
		}
	}
	return catalog.ValidationError{Field: "load", Message: err.Error(), Code: catalog.ErrCodeGeneric}
}

func lineOf(pos token.Pos) int {
	if pos.IsValid() {
		return pos.Line()
	}
	return 0
}

// outputValidateSuccess outputs successful validation results, including
// any warnings.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Catalog valid (%d filter set(s))\n", len(result.FilterSets))
	for _, w := range result.Errors {
		fmt.Fprintf(formatter.Writer, "  warning %s\n", w.Error())
	}
	return nil
}

// outputValidateError outputs a single load error.
func outputValidateError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// The catalog could not be read at all: command error, not a finding.
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs the findings of an invalid catalog.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	var first catalog.ValidationError
	count := 0
	for _, f := range result.Errors {
		if f.Warning {
			continue
		}
		if count == 0 {
			first = f
		}
		count++
	}
	exitErr := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", count))

	if formatter.IsJSON() {
		if err := formatter.Respond(CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    first.Code,
				Message: first.Message,
			},
		}); err != nil {
			return err
		}
		return exitErr
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, f := range result.Errors {
		if f.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", f.Line)
		}
		severity := ""
		if f.Warning {
			severity = " (warning)"
		}
		fmt.Fprintf(formatter.Writer, "  %s%s: %s: %s\n\n", f.Code, severity, f.Field, f.Message)
	}
	return exitErr
}
