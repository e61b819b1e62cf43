package differ

import (
	"encoding/json"
	"math/big"
	"strconv"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/mcncl/eventdiff/internal/models"
)

// numberComparer compares JSON numbers the way they were written. An
// integer (no fraction or exponent) never equals a float, so 5 and 5.0
// differ. Integers compare exactly; floats compare by float64 value, so
// 1e2 equals 100.0.
var numberComparer = cmp.Comparer(func(a, b json.Number) bool {
	if a == b {
		return true
	}
	x, xInt := integer(a)
	y, yInt := integer(b)
	if xInt != yInt {
		return false
	}
	if xInt {
		return x.Cmp(y) == 0
	}
	fx, errX := strconv.ParseFloat(string(a), 64)
	fy, errY := strconv.ParseFloat(string(b), 64)
	return errX == nil && errY == nil && fx == fy
})

func integer(n json.Number) (*big.Int, bool) {
	if strings.ContainsAny(string(n), ".eE") {
		return nil, false
	}
	return new(big.Int).SetString(string(n), 10)
}

// Equal reports whether two JSON values are deep-equal. Objects match on
// key set and values regardless of order, arrays element by element.
func Equal(a, b models.JSONValue) bool {
	return cmp.Equal(a, b, numberComparer)
}

// Option configures a Differ.
type Option func(*Differ)

// WithIgnoredPaths excludes dotted key paths (such as "meta.request_id")
// from every tree the Differ builds.
func WithIgnoredPaths(paths ...string) Option {
	return func(d *Differ) {
		for _, p := range paths {
			p = strings.Trim(strings.TrimSpace(p), ".")
			if p != "" {
				d.ignored[p] = struct{}{}
			}
		}
	}
}

// Differ compares JSON objects and builds their diff trees.
type Differ struct {
	ignored map[string]struct{}
}

// New creates a Differ.
func New(opts ...Option) *Differ {
	d := &Differ{ignored: make(map[string]struct{})}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Compare diffs two objects with a default Differ.
func Compare(left, right models.JSONObject) (leftOnly, rightOnly, both models.DiffNode) {
	return New().Compare(left, right)
}

// Compare returns the keys found only in left, the keys found only in right
// and the keys whose values differ. Recursion happens only when both values
// of a key are objects; any other pair that is not deep-equal becomes a Leaf.
func (d *Differ) Compare(left, right models.JSONObject) (leftOnly, rightOnly, both models.DiffNode) {
	return d.compare(left, right, "")
}

// Mismatch runs Compare and bundles the result for a temporally aligned pair.
func (d *Differ) Mismatch(left, right models.JSONObject) models.Mismatch {
	l, r, u := d.Compare(left, right)
	return models.NewMismatch(l, r, u, nil)
}

func (d *Differ) compare(left, right models.JSONObject, prefix string) (models.DiffNode, models.DiffNode, models.DiffNode) {
	leftOnly := make(map[string]models.DiffNode)
	rightOnly := make(map[string]models.DiffNode)
	both := make(map[string]models.DiffNode)

	for key, lv := range left {
		path := join(prefix, key)
		if d.isIgnored(path) {
			continue
		}

		rv, ok := right[key]
		if !ok {
			leftOnly[key] = models.Empty()
			continue
		}

		lo, lok := lv.(models.JSONObject)
		ro, rok := rv.(models.JSONObject)
		if lok && rok {
			subLeft, subRight, subBoth := d.compare(lo, ro, path)
			if !subLeft.IsEmpty() {
				leftOnly[key] = subLeft
			}
			if !subRight.IsEmpty() {
				rightOnly[key] = subRight
			}
			if !subBoth.IsEmpty() {
				both[key] = subBoth
			}
			continue
		}

		if !Equal(lv, rv) {
			both[key] = models.Leaf(lv, rv)
		}
	}

	for key := range right {
		if _, ok := left[key]; ok {
			continue
		}
		if d.isIgnored(join(prefix, key)) {
			continue
		}
		rightOnly[key] = models.Empty()
	}

	return models.Branch(leftOnly), models.Branch(rightOnly), models.Branch(both)
}

func (d *Differ) isIgnored(path string) bool {
	if len(d.ignored) == 0 {
		return false
	}
	_, ok := d.ignored[path]
	return ok
}

// IgnoredPaths returns the configured ignored paths
func (d *Differ) IgnoredPaths() []string {
	paths := make([]string, 0, len(d.ignored))
	for p := range d.ignored {
		paths = append(paths, p)
	}
	return paths
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
