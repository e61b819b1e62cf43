package differ

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mcncl/eventdiff/internal/models"
	"github.com/mcncl/eventdiff/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	nestedLeft = `{"a":"b","timestamp":"2021-01-01T00:00:00Z",
		"b":{"c":{"d":true,"e":5,"f":9,"h":{"i":true,"j":false}}}}`
	nestedRight = `{"a":"b","timestamp":"2021-01-01T00:00:00Z",
		"b":{"c":{"d":true,"e":6,"g":0,"h":{"i":false,"k":false}}}}`
)

func mustParse(t testing.TB, s string) models.JSONObject {
	t.Helper()
	obj, err := parser.ParseRecord(s)
	require.NoError(t, err)
	return obj
}

func branch(children map[string]models.DiffNode) models.DiffNode {
	return models.Branch(children)
}

func TestCompare_NestedModification(t *testing.T) {
	left := mustParse(t, nestedLeft)
	right := mustParse(t, nestedRight)

	leftOnly, rightOnly, both := Compare(left, right)

	expectedLeft := branch(map[string]models.DiffNode{
		"b": branch(map[string]models.DiffNode{
			"c": branch(map[string]models.DiffNode{
				"f": models.Empty(),
				"h": branch(map[string]models.DiffNode{
					"j": models.Empty(),
				}),
			}),
		}),
	})
	expectedRight := branch(map[string]models.DiffNode{
		"b": branch(map[string]models.DiffNode{
			"c": branch(map[string]models.DiffNode{
				"g": models.Empty(),
				"h": branch(map[string]models.DiffNode{
					"k": models.Empty(),
				}),
			}),
		}),
	})
	expectedBoth := branch(map[string]models.DiffNode{
		"b": branch(map[string]models.DiffNode{
			"c": branch(map[string]models.DiffNode{
				"e": models.Leaf(json.Number("5"), json.Number("6")),
				"h": branch(map[string]models.DiffNode{
					"i": models.Leaf(true, false),
				}),
			}),
		}),
	})

	if diff := cmp.Diff(expectedLeft, leftOnly); diff != "" {
		t.Errorf("left-only tree mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(expectedRight, rightOnly); diff != "" {
		t.Errorf("right-only tree mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(expectedBoth, both); diff != "" {
		t.Errorf("keys-in-both tree mismatch (-want +got):\n%s", diff)
	}

	assert.ElementsMatch(t, []string{"b.c.f", "b.c.h.j"}, KeyPaths(leftOnly, ""))
	assert.ElementsMatch(t, []string{"b.c.g", "b.c.h.k"}, KeyPaths(rightOnly, ""))
	assert.ElementsMatch(t, []string{"b.c.e", "b.c.h.i"}, KeyPaths(both, ""))
}

func TestCompare_IdenticalObjects(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{name: "empty object", json: `{}`},
		{name: "nested", json: nestedLeft},
		{name: "arrays and nulls", json: `{"a":[1,{"b":[null,true]}],"c":null,"d":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Parse twice so the two sides share no maps.
			l, r, u := Compare(mustParse(t, tt.json), mustParse(t, tt.json))
			assert.True(t, l.IsEmpty())
			assert.True(t, r.IsEmpty())
			assert.True(t, u.IsEmpty())
			assert.True(t, New().Mismatch(mustParse(t, tt.json), mustParse(t, tt.json)).IsEmpty())
		})
	}
}

func TestCompare_Symmetry(t *testing.T) {
	inputs := [][2]string{
		{nestedLeft, nestedRight},
		{`{"a":1,"b":{"c":[1,2]}}`, `{"b":{"c":[2,1],"d":{}},"e":null}`},
		{`{"x":{"y":1}}`, `{"x":2}`},
	}

	for i, in := range inputs {
		t.Run(fmt.Sprintf("pair %d", i), func(t *testing.T) {
			a, b := mustParse(t, in[0]), mustParse(t, in[1])

			l1, r1, u1 := Compare(a, b)
			l2, r2, u2 := Compare(b, a)

			if diff := cmp.Diff(l1, r2); diff != "" {
				t.Errorf("left-only of (a,b) != right-only of (b,a):\n%s", diff)
			}
			if diff := cmp.Diff(r1, l2); diff != "" {
				t.Errorf("right-only of (a,b) != left-only of (b,a):\n%s", diff)
			}
			assert.ElementsMatch(t, KeyPaths(u1, ""), KeyPaths(u2, ""))
		})
	}
}

func TestCompare_TypeMismatchIsLeaf(t *testing.T) {
	left := mustParse(t, `{"a":{"b":1},"c":[1],"d":"1"}`)
	right := mustParse(t, `{"a":5,"c":{"0":1},"d":1}`)

	leftOnly, rightOnly, both := Compare(left, right)

	assert.True(t, leftOnly.IsEmpty(), "no recursion into a/b when right side is a scalar")
	assert.True(t, rightOnly.IsEmpty())
	require.Equal(t, models.NodeBranch, both.Kind)
	assert.Equal(t, models.Leaf(models.JSONObject{"b": json.Number("1")}, json.Number("5")), both.Children["a"])
	assert.Equal(t, models.NodeLeaf, both.Children["c"].Kind)
	assert.Equal(t, models.Leaf("1", json.Number("1")), both.Children["d"])
}

func TestCompare_ArraysAreOpaque(t *testing.T) {
	left := mustParse(t, `{"list":[{"a":1},{"b":2}]}`)
	right := mustParse(t, `{"list":[{"a":1},{"b":3}]}`)

	leftOnly, rightOnly, both := Compare(left, right)

	assert.True(t, leftOnly.IsEmpty())
	assert.True(t, rightOnly.IsEmpty())
	assert.Equal(t, []string{"list"}, KeyPaths(both, ""))
}

func TestCompare_EmptySubObjectsCollapse(t *testing.T) {
	left := mustParse(t, `{"a":{"b":{"c":1}},"x":1}`)
	right := mustParse(t, `{"a":{"b":{"c":1}},"x":2}`)

	leftOnly, rightOnly, both := Compare(left, right)

	assert.True(t, leftOnly.IsEmpty())
	assert.True(t, rightOnly.IsEmpty())
	require.Equal(t, models.NodeBranch, both.Kind)
	_, hasA := both.Children["a"]
	assert.False(t, hasA, "an unchanged sub-object must not appear as an empty branch")
	assertNoEmptyBranch(t, both)
}

func TestCompare_NoEmptyBranches(t *testing.T) {
	left := mustParse(t, nestedLeft)
	right := mustParse(t, nestedRight)

	l, r, u := Compare(left, right)
	for _, n := range []models.DiffNode{l, r, u} {
		assertNoEmptyBranch(t, n)
	}
}

func assertNoEmptyBranch(t *testing.T, n models.DiffNode) {
	t.Helper()
	if n.Kind != models.NodeBranch {
		return
	}
	assert.NotEmpty(t, n.Children)
	for _, c := range n.Children {
		assertNoEmptyBranch(t, c)
	}
}

func TestCompare_IgnoredPaths(t *testing.T) {
	left := mustParse(t, `{"meta":{"request_id":"a","host":"x"},"trace":1,"v":1}`)
	right := mustParse(t, `{"meta":{"request_id":"b","host":"y"},"span":2,"v":1}`)

	d := New(WithIgnoredPaths("meta.request_id", " trace ", "span", ""))
	leftOnly, rightOnly, both := d.Compare(left, right)

	assert.True(t, leftOnly.IsEmpty())
	assert.True(t, rightOnly.IsEmpty())
	assert.Equal(t, []string{"meta.host"}, KeyPaths(both, ""))
	assert.ElementsMatch(t, []string{"meta.request_id", "trace", "span"}, d.IgnoredPaths())
}

func TestCompare_IgnoredPathMatchesDottedKey(t *testing.T) {
	// Key paths join keys with dots, so a key containing a dot shares its
	// path with the nested key of the same spelling.
	left := mustParse(t, `{"a.b":1,"a":{"b":1,"c":1}}`)
	right := mustParse(t, `{"a.b":2,"a":{"b":2,"c":2}}`)

	_, _, both := New(WithIgnoredPaths("a.b")).Compare(left, right)
	assert.Equal(t, []string{"a.c"}, KeyPaths(both, ""))
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name     string
		a, b     models.JSONValue
		expected bool
	}{
		{name: "same number", a: json.Number("5"), b: json.Number("5"), expected: true},
		{name: "int and float spelling", a: json.Number("5"), b: json.Number("5.0"), expected: false},
		{name: "int and exponent", a: json.Number("100"), b: json.Number("1e2"), expected: false},
		{name: "float spellings", a: json.Number("1e2"), b: json.Number("100.0"), expected: true},
		{name: "float trailing zeros", a: json.Number("12.5"), b: json.Number("12.50"), expected: true},
		{name: "negative integers", a: json.Number("-7"), b: json.Number("-7"), expected: true},
		{name: "equal big integers", a: json.Number("123456789012345678901234567890"), b: json.Number("123456789012345678901234567890"), expected: true},
		{name: "different numbers", a: json.Number("5"), b: json.Number("6"), expected: false},
		{name: "big integers", a: json.Number("12345678901234567890"), b: json.Number("12345678901234567891"), expected: false},
		{name: "number vs string", a: json.Number("1"), b: "1", expected: false},
		{name: "null vs null", a: nil, b: nil, expected: true},
		{name: "null vs false", a: nil, b: false, expected: false},
		{name: "array order matters", a: models.JSONArray{"a", "b"}, b: models.JSONArray{"b", "a"}, expected: false},
		{name: "array length", a: models.JSONArray{"a"}, b: models.JSONArray{"a", "a"}, expected: false},
		{
			name:     "object key order does not matter",
			a:        models.JSONObject{"x": json.Number("1"), "y": models.JSONArray{true}},
			b:        models.JSONObject{"y": models.JSONArray{true}, "x": json.Number("1")},
			expected: true,
		},
		{
			name:     "object key sets differ",
			a:        models.JSONObject{"x": nil},
			b:        models.JSONObject{"y": nil},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Equal(tt.a, tt.b))
			assert.Equal(t, tt.expected, Equal(tt.b, tt.a))
		})
	}
}

func TestCompare_IntegerAgainstFloat(t *testing.T) {
	left := mustParse(t, `{"b":{"c":{"e":5,"r":0.5}}}`)
	right := mustParse(t, `{"b":{"c":{"e":5.0,"r":5e-1}}}`)

	leftOnly, rightOnly, both := Compare(left, right)

	assert.True(t, leftOnly.IsEmpty())
	assert.True(t, rightOnly.IsEmpty())
	assert.Equal(t, []string{"b.c.e"}, KeyPaths(both, ""))

	leaf := both.Children["b"].Children["c"].Children["e"]
	assert.Equal(t, models.NodeLeaf, leaf.Kind)
	assert.Equal(t, json.Number("5"), leaf.Left)
	assert.Equal(t, json.Number("5.0"), leaf.Right)
}

// generateNestedJSON creates a deeply nested object for benchmarking
func generateNestedJSON(depth, width int, salt int) map[string]interface{} {
	if depth <= 0 {
		return map[string]interface{}{
			"leaf_value": "data",
			"count":      salt,
			"enabled":    salt%2 == 0,
		}
	}

	result := make(map[string]interface{})
	for i := 0; i < width; i++ {
		key := fmt.Sprintf("nested_%d_%d", depth, i)
		result[key] = generateNestedJSON(depth-1, width, salt+i)
	}
	return result
}

func BenchmarkCompare(b *testing.B) {
	lb, err := json.Marshal(generateNestedJSON(4, 5, 0))
	require.NoError(b, err)
	rb, err := json.Marshal(generateNestedJSON(4, 5, 1))
	require.NoError(b, err)

	left := mustParse(b, string(lb))
	right := mustParse(b, string(rb))
	d := New()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Compare(left, right)
	}
}
