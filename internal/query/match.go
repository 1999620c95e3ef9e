package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ToDocs converts typed documents into their stored BSON shape so in-memory
// stores can evaluate the same queries the Mongo driver would.
func ToDocs[T any](items []T) ([]bson.M, error) {
	out := make([]bson.M, 0, len(items))
	for _, it := range items {
		raw, err := bson.Marshal(it)
		if err != nil {
			return nil, fmt.Errorf("marshal document: %w", err)
		}
		var m bson.M
		if err := bson.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("unmarshal document: %w", err)
		}
		out = append(out, Normalize(m))
	}
	return out, nil
}

// Normalize rewrites nested documents as bson.M so results render as JSON
// objects regardless of how the driver decoded them.
func Normalize(m bson.M) bson.M {
	for k, v := range m {
		m[k] = normalizeValue(v)
	}
	return m
}

func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case bson.M:
		return Normalize(t)
	case bson.D:
		return Normalize(t.Map())
	case bson.A:
		for i := range t {
			t[i] = normalizeValue(t[i])
		}
		return t
	}
	return v
}

// Apply evaluates q over docs and returns the requested page and the total
// number of matches.
func Apply(docs []bson.M, q Query) ([]bson.M, int64) {
	matched := make([]bson.M, 0, len(docs))
	for _, d := range docs {
		if Match(d, q.Filter) {
			matched = append(matched, d)
		}
	}
	if len(q.Sort) > 0 {
		sort.SliceStable(matched, func(i, j int) bool {
			for _, e := range q.Sort {
				a, _ := lookup(matched[i], e.Key)
				b, _ := lookup(matched[j], e.Key)
				c := order(a, b)
				if c == 0 {
					continue
				}
				if dir, _ := e.Value.(int); dir < 0 {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}
	total := int64(len(matched))

	start := q.Skip()
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}
	page := matched[start:end]

	if len(q.Select) > 0 {
		projected := make([]bson.M, 0, len(page))
		for _, d := range page {
			projected = append(projected, project(d, q.Select))
		}
		page = projected
	}
	return page, total
}

// Match reports whether doc satisfies filter. Supported operators mirror
// the ones Parse produces.
func Match(doc bson.M, filter bson.M) bool {
	for field, cond := range filter {
		val, found := lookup(doc, field)
		ops, isOps := cond.(bson.M)
		if !isOps {
			if !found || !equalAny(val, cond) {
				return false
			}
			continue
		}
		for op, arg := range ops {
			if !matchOp(val, found, op, arg) {
				return false
			}
		}
	}
	return true
}

func matchOp(val interface{}, found bool, op string, arg interface{}) bool {
	switch op {
	case "$ne":
		return !found || !equalAny(val, arg)
	case "$in":
		list, _ := arg.(bson.A)
		if !found {
			return false
		}
		for _, it := range list {
			if equalAny(val, it) {
				return true
			}
		}
		return false
	}
	if !found {
		return false
	}
	return anyElem(val, func(v interface{}) bool {
		c, ok := compare(v, arg)
		if !ok {
			return false
		}
		switch op {
		case "$gt":
			return c > 0
		case "$gte":
			return c >= 0
		case "$lt":
			return c < 0
		case "$lte":
			return c <= 0
		}
		return false
	})
}

// equalAny applies array semantics: an array field equals a scalar when any
// element does.
func equalAny(val, want interface{}) bool {
	return anyElem(val, func(v interface{}) bool {
		c, ok := compare(v, want)
		return ok && c == 0
	})
}

func anyElem(val interface{}, fn func(interface{}) bool) bool {
	if arr, ok := val.(bson.A); ok {
		for _, v := range arr {
			if fn(v) {
				return true
			}
		}
		return false
	}
	return fn(val)
}

func lookup(doc bson.M, path string) (interface{}, bool) {
	var cur interface{} = doc
	for _, part := range strings.Split(path, ".") {
		switch m := cur.(type) {
		case bson.M:
			v, ok := m[part]
			if !ok {
				return nil, false
			}
			cur = v
		case bson.A:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(m) {
				return nil, false
			}
			cur = m[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

func project(doc bson.M, fields []string) bson.M {
	out := bson.M{}
	if id, ok := doc["_id"]; ok {
		out["_id"] = id
	}
	for _, f := range fields {
		v, ok := lookup(doc, f)
		if !ok {
			continue
		}
		parts := strings.Split(f, ".")
		cur := out
		for _, p := range parts[:len(parts)-1] {
			next, ok := cur[p].(bson.M)
			if !ok {
				next = bson.M{}
				cur[p] = next
			}
			cur = next
		}
		cur[parts[len(parts)-1]] = v
	}
	return out
}

// compare orders two scalars of compatible types. ok is false when the
// types cannot be compared.
func compare(a, b interface{}) (int, bool) {
	if fa, ok := number(a); ok {
		if fb, ok := number(b); ok {
			return cmpFloat(fa, fb), true
		}
		return 0, false
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		if av == bv {
			return 0, true
		}
		if !av {
			return -1, true
		}
		return 1, true
	case primitive.DateTime:
		switch bv := b.(type) {
		case primitive.DateTime:
			return cmpFloat(float64(av), float64(bv)), true
		case string:
			t, err := time.Parse(time.RFC3339, bv)
			if err != nil {
				return 0, false
			}
			return cmpFloat(float64(av), float64(primitive.NewDateTimeFromTime(t))), true
		}
	}
	return 0, false
}

// order is a total order for sorting: missing and incomparable values sort
// first, as in Mongo where null is the lowest type.
func order(a, b interface{}) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	if c, ok := compare(a, b); ok {
		return c
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// ApplySet applies a $set document to v through its BSON form, so memory
// stores update fields exactly as named in the Mongo update.
func ApplySet[T any](v *T, set bson.M) error {
	raw, err := bson.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}
	m = Normalize(m)
	for path, val := range set {
		parts := strings.Split(path, ".")
		cur := m
		for _, p := range parts[:len(parts)-1] {
			next, ok := cur[p].(bson.M)
			if !ok {
				next = bson.M{}
				cur[p] = next
			}
			cur = next
		}
		cur[parts[len(parts)-1]] = val
	}
	if raw, err = bson.Marshal(m); err != nil {
		return fmt.Errorf("marshal update: %w", err)
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("decode update: %w", err)
	}
	*v = out
	return nil
}
