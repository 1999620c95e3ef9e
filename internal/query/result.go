package query

import (
	"go.mongodb.org/mongo-driver/bson"
)

type PageRef struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
}

type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// Result is the precomputed list payload echoed by list handlers.
type Result struct {
	Success    bool       `json:"success"`
	Count      int        `json:"count"`
	Pagination Pagination `json:"pagination"`
	Data       []bson.M   `json:"data"`
}

// NewResult wraps one page of data; total is the number of documents
// matching the filter across all pages.
func NewResult(q Query, data []bson.M, total int64) Result {
	if data == nil {
		data = []bson.M{}
	}
	r := Result{Success: true, Count: len(data), Data: data}
	if q.Skip() < total-q.Limit {
		r.Pagination.Next = &PageRef{Page: q.Page + 1, Limit: q.Limit}
	}
	if q.Page > 1 {
		r.Pagination.Prev = &PageRef{Page: q.Page - 1, Limit: q.Limit}
	}
	return r
}
