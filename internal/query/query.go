// Package query turns list query parameters (filters, select, sort, page,
// limit) into a store query and a paginated result.
package query

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultPage  int64 = 1
	DefaultLimit int64 = 25
	MaxLimit     int64 = 100
	DefaultSort        = "-createdAt"
)

var reserved = map[string]bool{"select": true, "sort": true, "page": true, "limit": true}

var operatorKey = regexp.MustCompile(`^(.+)\[(gt|gte|lt|lte|in|ne)\]$`)

// Query is a parsed list request.
type Query struct {
	Filter bson.M
	Select []string
	Sort   bson.D
	Page   int64
	Limit  int64
}

// Parse builds a Query from raw URL parameters.
// `averageCost[lte]=10000` becomes {"averageCost": {"$lte": 10000}}.
func Parse(values url.Values) Query {
	q := Query{
		Filter: bson.M{},
		Page:   positive(values.Get("page"), DefaultPage),
		Limit:  positive(values.Get("limit"), DefaultLimit),
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	// Keeps Skip and Page*Limit within int64.
	if maxPage := math.MaxInt64 / q.Limit; q.Page > maxPage {
		q.Page = maxPage
	}

	for key, vals := range values {
		if reserved[key] || len(vals) == 0 || !plainField(key) {
			continue
		}
		raw := vals[0]
		if m := operatorKey.FindStringSubmatch(key); m != nil {
			field, op := m[1], m[2]
			var v interface{}
			if op == "in" {
				v = coerceList(raw)
			} else {
				v = coerce(raw)
			}
			cond, ok := q.Filter[field].(bson.M)
			if !ok {
				cond = bson.M{}
				q.Filter[field] = cond
			}
			cond["$"+op] = v
			continue
		}
		if _, exists := q.Filter[key]; !exists {
			q.Filter[key] = coerce(raw)
		}
	}

	if sel := values.Get("select"); sel != "" {
		for _, f := range splitFields(sel) {
			if plainField(f) {
				q.Select = append(q.Select, f)
			}
		}
	}

	sortSpec := values.Get("sort")
	if sortSpec == "" {
		sortSpec = DefaultSort
	}
	for _, f := range splitFields(sortSpec) {
		dir := 1
		if strings.HasPrefix(f, "-") {
			dir = -1
			f = strings.TrimPrefix(f, "-")
		}
		if f != "" && plainField(f) {
			q.Sort = append(q.Sort, bson.E{Key: f, Value: dir})
		}
	}
	return q
}

// Skip is the number of documents before the requested page.
// It saturates rather than overflowing for out-of-range pages.
func (q Query) Skip() int64 {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt64/q.Limit {
		return math.MaxInt64
	}
	return (q.Page - 1) * q.Limit
}

// FindOptions renders the projection, sort and paging for the Mongo driver.
func (q Query) FindOptions() *options.FindOptions {
	opts := options.Find().SetSkip(q.Skip()).SetLimit(q.Limit)
	if len(q.Sort) > 0 {
		opts.SetSort(q.Sort)
	}
	if len(q.Select) > 0 {
		proj := bson.D{}
		for _, f := range q.Select {
			proj = append(proj, bson.E{Key: f, Value: 1})
		}
		opts.SetProjection(proj)
	}
	return opts
}

// plainField rejects names carrying Mongo operators such as $where or a.$b.
// Only the bracketed operator suffix may introduce one.
func plainField(name string) bool {
	return !strings.Contains(name, "$")
}

func positive(raw string, def int64) int64 {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func splitFields(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// coerce turns canonical numbers and booleans into typed values. Strings that
// only look numeric (leading zeros, "+1") stay strings so zip codes match.
func coerce(raw string) interface{} {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil && strconv.FormatInt(i, 10) == raw {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && strconv.FormatFloat(f, 'f', -1, 64) == raw {
		return f
	}
	return raw
}

func coerceList(raw string) bson.A {
	out := bson.A{}
	for _, p := range strings.Split(raw, ",") {
		out = append(out, coerce(strings.TrimSpace(p)))
	}
	return out
}
