// Package querysql compiles active filters into parameterized SQLite
// queries over the record store.
//
// The SQL narrows the candidate set; it never decides membership on its
// own. Every row the filter engine would keep is returned, and the caller
// runs filter.Apply over the rows to get the exact result. Kinds whose
// semantics SQLite cannot reproduce (text search with Unicode case folding,
// calendar dates, custom predicates) are not pushed down at all.
package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/roadwatch/internal/filter"
)

// DefaultTable is the record table created by the store schema.
const DefaultTable = "records"

// SQLCompiler compiles filter conditions to parameterized SQL for SQLite.
//
// All queries include ORDER BY id ASC, which is import order, so results
// come back in the order filter.Apply would keep them.
// All values are parameterized, never interpolated.
type SQLCompiler struct {
	// Table is the record table name. It is interpolated, so it must be a
	// trusted identifier.
	Table string
}

// NewSQLCompiler creates a compiler for DefaultTable.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{Table: DefaultTable}
}

// Compile returns a query selecting id and body of the candidate records
// of collection under state. Returns (sql, params, error).
func (c *SQLCompiler) Compile(collection string, descs []filter.Descriptor, state filter.State) (string, []any, error) {
	if collection == "" {
		return "", nil, fmt.Errorf("cannot compile query without a collection")
	}

	clauses := []string{"collection = ?"}
	params := []any{collection}
	for _, cond := range filter.Conditions(descs, state) {
		clause, clauseParams, ok := c.compileCondition(cond)
		if !ok {
			continue
		}
		clauses = append(clauses, clause)
		params = append(params, clauseParams...)
	}

	sql := fmt.Sprintf("SELECT id, body FROM %s WHERE %s ORDER BY %s",
		c.Table,
		strings.Join(clauses, " AND "),
		stableOrderKey())
	return sql, params, nil
}

// PushedDown reports which descriptor keys of state Compile translates
// into SQL, in descriptor order.
func (c *SQLCompiler) PushedDown(descs []filter.Descriptor, state filter.State) []string {
	var keys []string
	for _, cond := range filter.Conditions(descs, state) {
		if _, _, ok := c.compileCondition(cond); ok {
			keys = append(keys, cond.Descriptor.Key)
		}
	}
	return keys
}

// stableOrderKey returns the ORDER BY clause. Every query includes it.
func stableOrderKey() string {
	return "id ASC"
}

// compileCondition translates one condition. The boolean is false when the
// condition stays in memory.
//
// Text-typed JSON values always pass numeric clauses: the engine parses
// numeric strings with Go rules that SQLite's CAST does not match exactly.
// A condition no record can satisfy compiles to a false constant.
func (c *SQLCompiler) compileCondition(cond filter.Condition) (string, []any, bool) {
	if cond.Never {
		return "0", nil, true
	}

	path, ok := JSONPath(cond.Descriptor.Key)
	if !ok {
		return "", nil, false
	}

	switch cond.Descriptor.Kind {
	case filter.KindSelect:
		return "json_extract(body, ?) = ?", []any{path, cond.Text}, true

	case filter.KindMultiselect:
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cond.Choices)), ", ")
		params := []any{path, path}
		for _, choice := range cond.Choices {
			params = append(params, choice)
		}
		return fmt.Sprintf("(json_type(body, ?) = 'array' OR json_extract(body, ?) IN (%s))", placeholders), params, true

	case filter.KindNumber:
		return "(json_type(body, ?) = 'text' OR CAST(json_extract(body, ?) AS REAL) = ?)",
			[]any{path, path, cond.Number}, true

	case filter.KindRange:
		return "(json_type(body, ?) = 'text' OR CAST(json_extract(body, ?) AS REAL) BETWEEN ? AND ?)",
			[]any{path, path, *cond.Range.Min, *cond.Range.Max}, true

	default:
		return "", nil, false
	}
}

// JSONPath converts a record dot path into a quoted SQLite JSON path, so
// "location.city" becomes `$."location"."city"`. Paths with empty segments
// or double quotes cannot be expressed and report false.
func JSONPath(key string) (string, bool) {
	if key == "" {
		return "", false
	}
	var b strings.Builder
	b.WriteByte('$')
	for _, segment := range strings.Split(key, ".") {
		if segment == "" || strings.ContainsAny(segment, `"\`) {
			return "", false
		}
		b.WriteString(`."`)
		b.WriteString(segment)
		b.WriteByte('"')
	}
	return b.String(), true
}
