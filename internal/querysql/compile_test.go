package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/roadwatch/internal/filter"
)

func accidentDescriptors() []filter.Descriptor {
	return []filter.Descriptor{
		{Key: "search", Kind: filter.KindSearch, SearchFields: []string{"location", "cause"}},
		{Key: "severity", Kind: filter.KindSelect, Default: filter.Text("all")},
		{Key: "governorate", Kind: filter.KindMultiselect},
		{Key: "date", Kind: filter.KindDateRange},
		{Key: "fatalities", Kind: filter.KindNumber},
		{Key: "vehiclesInvolved", Kind: filter.KindRange},
		{Key: "night", Kind: filter.KindBoolean},
		{Key: "minFatalities", Kind: filter.KindCustom, Custom: filter.AtLeast("fatalities")},
	}
}

func TestCompile_NoActiveFilters(t *testing.T) {
	compiler := NewSQLCompiler()
	descs := accidentDescriptors()

	sql, params, err := compiler.Compile("accidents", descs, filter.Initialize(descs))
	require.NoError(t, err)

	assert.Equal(t, "SELECT id, body FROM records WHERE collection = ? ORDER BY id ASC", sql)
	assert.Equal(t, []any{"accidents"}, params)
}

func TestCompile_Select(t *testing.T) {
	compiler := NewSQLCompiler()
	descs := accidentDescriptors()
	state := filter.UpdateField(filter.Initialize(descs), "severity", filter.Text("خطير"))

	sql, params, err := compiler.Compile("accidents", descs, state)
	require.NoError(t, err)

	assert.Contains(t, sql, "WHERE collection = ? AND json_extract(body, ?) = ?")
	assert.NotContains(t, sql, "خطير") // Value NOT in SQL
	assert.Equal(t, []any{"accidents", `$."severity"`, "خطير"}, params)
}

func TestCompile_Multiselect(t *testing.T) {
	compiler := NewSQLCompiler()
	descs := accidentDescriptors()
	state := filter.UpdateField(filter.Initialize(descs), "governorate", filter.Choices{"albaha", "aqiq"})

	sql, params, err := compiler.Compile("accidents", descs, state)
	require.NoError(t, err)

	assert.Contains(t, sql, "(json_type(body, ?) = 'array' OR json_extract(body, ?) IN (?, ?))")
	assert.Equal(t, []any{"accidents", `$."governorate"`, `$."governorate"`, "albaha", "aqiq"}, params)
}

func TestCompile_NumberAndRange(t *testing.T) {
	compiler := NewSQLCompiler()
	descs := accidentDescriptors()
	state := filter.Initialize(descs)
	state = filter.UpdateField(state, "fatalities", filter.Text("1"))
	state = filter.UpdateField(state, "vehiclesInvolved", filter.Text("2-3"))

	sql, params, err := compiler.Compile("accidents", descs, state)
	require.NoError(t, err)

	assert.Contains(t, sql, "CAST(json_extract(body, ?) AS REAL) = ?")
	assert.Contains(t, sql, "CAST(json_extract(body, ?) AS REAL) BETWEEN ? AND ?")
	assert.Equal(t, []any{
		"accidents",
		`$."fatalities"`, `$."fatalities"`, 1.0,
		`$."vehiclesInvolved"`, `$."vehiclesInvolved"`, 2.0, 3.0,
	}, params)
}

func TestCompile_InMemoryKindsNotPushedDown(t *testing.T) {
	compiler := NewSQLCompiler()
	descs := accidentDescriptors()
	state := filter.Initialize(descs)
	state = filter.UpdateField(state, "search", filter.Text("طريق"))
	state = filter.UpdateField(state, "date", filter.Text("2024-01-01 - 2024-01-31"))
	state = filter.UpdateField(state, "night", filter.Flag(true))
	state = filter.UpdateField(state, "minFatalities", filter.Text("1"))

	sql, params, err := compiler.Compile("accidents", descs, state)
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, body FROM records WHERE collection = ? ORDER BY id ASC", sql)
	assert.Equal(t, []any{"accidents"}, params)
	assert.Empty(t, compiler.PushedDown(descs, state))
}

func TestCompile_IncompleteRangeNotPushedDown(t *testing.T) {
	compiler := NewSQLCompiler()
	descs := accidentDescriptors()
	state := filter.UpdateField(filter.Initialize(descs), "vehiclesInvolved", filter.Text("2-"))

	sql, _, err := compiler.Compile("accidents", descs, state)
	require.NoError(t, err)
	assert.NotContains(t, sql, "BETWEEN")
}

func TestCompile_NonNumericValueMatchesNothing(t *testing.T) {
	compiler := NewSQLCompiler()
	descs := accidentDescriptors()
	state := filter.Initialize(descs)
	state = filter.UpdateField(state, "fatalities", filter.Text("abc"))
	state = filter.UpdateField(state, "vehiclesInvolved", filter.Text("abc-3"))

	sql, params, err := compiler.Compile("accidents", descs, state)
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, body FROM records WHERE collection = ? AND 0 AND 0 ORDER BY id ASC", sql)
	assert.Equal(t, []any{"accidents"}, params)
	assert.Equal(t, []string{"fatalities", "vehiclesInvolved"}, compiler.PushedDown(descs, state))
}

func TestCompile_OrderByMandatory(t *testing.T) {
	compiler := NewSQLCompiler()
	descs := accidentDescriptors()

	states := []filter.State{
		filter.Initialize(descs),
		filter.UpdateField(filter.Initialize(descs), "severity", filter.Text("مميت")),
		filter.UpdateField(filter.Initialize(descs), "vehiclesInvolved", filter.NewRange(1, 2)),
	}
	for _, state := range states {
		sql, _, err := compiler.Compile("accidents", descs, state)
		require.NoError(t, err)
		assert.Contains(t, sql, "ORDER BY id ASC")
	}
}

func TestCompile_NoStringInterpolation(t *testing.T) {
	compiler := NewSQLCompiler()
	descs := accidentDescriptors()

	dangerousValue := "'; DROP TABLE records; --"
	state := filter.UpdateField(filter.Initialize(descs), "severity", filter.Text(dangerousValue))

	sql, params, err := compiler.Compile("accidents", descs, state)
	require.NoError(t, err)

	assert.NotContains(t, sql, dangerousValue,
		"Value MUST NOT be interpolated into SQL (SQL injection risk)")
	assert.Contains(t, params, dangerousValue)
}

func TestCompile_RequiresCollection(t *testing.T) {
	_, _, err := NewSQLCompiler().Compile("", nil, nil)
	assert.Error(t, err)
}

func TestCompile_PushedDown(t *testing.T) {
	compiler := NewSQLCompiler()
	descs := accidentDescriptors()
	state := filter.Initialize(descs)
	state = filter.UpdateField(state, "vehiclesInvolved", filter.Text("1-2"))
	state = filter.UpdateField(state, "search", filter.Text("x"))
	state = filter.UpdateField(state, "severity", filter.Text("بسيط"))

	assert.Equal(t, []string{"severity", "vehiclesInvolved"}, compiler.PushedDown(descs, state))
}

func TestJSONPath(t *testing.T) {
	tests := []struct {
		key  string
		want string
		ok   bool
	}{
		{"severity", `$."severity"`, true},
		{"location.city", `$."location"."city"`, true},
		{"weird key.x-y", `$."weird key"."x-y"`, true},
		{"", "", false},
		{"a..b", "", false},
		{`say"hi`, "", false},
	}
	for _, tt := range tests {
		got, ok := JSONPath(tt.key)
		assert.Equal(t, tt.ok, ok, tt.key)
		assert.Equal(t, tt.want, got, tt.key)
	}
}
