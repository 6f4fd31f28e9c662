package record

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAny(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  Value
	}{
		{"nil", nil, Null{}},
		{"string", "حادث", String("حادث")},
		{"bool", true, Bool(true)},
		{"int", 3, Number(3)},
		{"int64", int64(-7), Number(-7)},
		{"uint64", uint64(9), Number(9)},
		{"float64", 2.5, Number(2.5)},
		{"json number", json.Number("12.25"), Number(12.25)},
		{"string slice", []string{"a", "b"}, List{String("a"), String("b")}},
		{"nested", map[string]any{
			"location": map[string]any{"city": "الباحة"},
			"tags":     []any{"x", 1},
		}, Object{
			"location": Object{"city": String("الباحة")},
			"tags":     List{String("x"), Number(1)},
		}},
		{"yaml map", map[any]any{"a": 1, 2: "b"}, Object{"a": Number(1), "2": String("b")}},
		{"already value", String("v"), String("v")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.input)
			require.NoError(t, err)
			assert.True(t, Equal(tt.want, got), "want %s, got %s", Describe(tt.want), Describe(got))
		})
	}
}

func TestFromAnyRejectsUnsupported(t *testing.T) {
	_, err := FromAny(struct{}{})
	require.Error(t, err)

	_, err = FromAny([]any{1, make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "array[1]")
}

func TestDecodeObjects(t *testing.T) {
	recs, err := DecodeObjects([]byte(`[{"id":1,"severity":"خطير"},{"id":2,"location":{"city":"بلجرشي"}}]`))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, Number(1), recs[0]["id"])
	assert.Equal(t, String("خطير"), recs[0]["severity"])

	_, err = DecodeObjects([]byte(`{"id":1}`))
	assert.Error(t, err)

	_, err = DecodeObjects([]byte(`[1,2]`))
	assert.Error(t, err)
}

func TestObjectJSONRoundTrip(t *testing.T) {
	var obj Object
	require.NoError(t, json.Unmarshal([]byte(`{"b":[1,"x",null],"a":true}`), &obj))

	out, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":true,"b":[1,"x",null]}`, string(out))
	assert.Equal(t, `{"a":true,"b":[1,"x",null]}`, string(out))
}

func TestObjectClone(t *testing.T) {
	orig := Object{"loc": Object{"city": String("a")}, "tags": List{String("x")}}
	clone := orig.Clone()
	clone["loc"].(Object)["city"] = String("b")
	clone["tags"].(List)[0] = String("y")

	assert.Equal(t, String("a"), orig["loc"].(Object)["city"])
	assert.Equal(t, String("x"), orig["tags"].(List)[0])
}

func TestLookup(t *testing.T) {
	rec := Object{
		"id":       Number(1),
		"location": Object{"city": String("الباحة"), "zone": Null{}},
		"name":     String("x"),
	}

	v, ok := Lookup(rec, "location.city")
	require.True(t, ok)
	assert.Equal(t, String("الباحة"), v)

	v, ok = Lookup(rec, "location.zone")
	assert.True(t, ok)
	assert.Equal(t, Null{}, v)
	assert.False(t, Present(v, ok))

	_, ok = Lookup(rec, "location.missing")
	assert.False(t, ok)

	_, ok = Lookup(rec, "name.first")
	assert.False(t, ok, "traversal through a string must not match")

	_, ok = Lookup(rec, "")
	assert.False(t, ok)

	_, ok = Lookup(nil, "id")
	assert.False(t, ok)
}

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want string
		ok   bool
	}{
		{"string", String("Road"), "Road", true},
		{"integer", Number(10), "10", true},
		{"fraction", Number(1.5), "1.5", true},
		{"bool", Bool(false), "false", true},
		{"list", List{String("a"), Number(2)}, "a,2", true},
		{"null", Null{}, "", false},
		{"nil", nil, "", false},
		{"object", Object{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Text(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToNumber(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want float64
		ok   bool
	}{
		{"number", Number(4.5), 4.5, true},
		{"numeric string", String(" 12 "), 12, true},
		{"negative string", String("-3.5"), -3.5, true},
		{"empty string", String(""), 0, false},
		{"word", String("abc"), 0, false},
		{"infinite string", String("Inf"), 0, false},
		{"nan number", Number(math.NaN()), 0, false},
		{"true", Bool(true), 1, true},
		{"false", Bool(false), 0, true},
		{"null", Null{}, 0, false},
		{"list", List{Number(1)}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToNumber(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTruthy(t *testing.T) {
	assert.False(t, Truthy(nil))
	assert.False(t, Truthy(Null{}))
	assert.False(t, Truthy(String("")))
	assert.False(t, Truthy(Number(0)))
	assert.False(t, Truthy(Number(math.NaN())))
	assert.False(t, Truthy(Bool(false)))

	assert.True(t, Truthy(String("false")))
	assert.True(t, Truthy(Number(-1)))
	assert.True(t, Truthy(Bool(true)))
	assert.True(t, Truthy(List{}))
	assert.True(t, Truthy(Object{}))
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"2024/03/05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"2024-03-05T10:30:00", time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)},
		{"2024-03-05 10:30", time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)},
		{"2024-03-05T10:30:00Z", time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTime(tt.in)
			require.True(t, ok)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}

	withZone, ok := ParseTime("2024-03-05T10:30:00+03:00")
	require.True(t, ok)
	assert.True(t, time.Date(2024, 3, 5, 7, 30, 0, 0, time.UTC).Equal(withZone))

	for _, bad := range []string{"", "   ", "yesterday", "2024-13-45"} {
		_, ok := ParseTime(bad)
		assert.False(t, ok, bad)
	}
}

func TestToTime(t *testing.T) {
	got, ok := ToTime(Number(0))
	require.True(t, ok)
	assert.True(t, time.Unix(0, 0).Equal(got))

	_, ok = ToTime(Bool(true))
	assert.False(t, ok)
	_, ok = ToTime(Null{})
	assert.False(t, ok)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(nil, nil))
	assert.True(t, Equal(Null{}, Null{}))
	assert.False(t, Equal(String("1"), Number(1)))
	assert.False(t, Equal(List{Number(1)}, List{Number(1), Number(2)}))
	assert.False(t, Equal(Object{"a": Number(1)}, Object{"b": Number(1)}))
}

func TestStrings(t *testing.T) {
	assert.Equal(t, []string{"a", "c"}, Strings(List{String("a"), Number(2), String("c")}))
	assert.Nil(t, Strings(String("a")))
}
