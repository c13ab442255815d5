package models

import (
	"math"
	"net/url"
	"strconv"
	"time"
)

// Allowed page sizes for list queries. Anything else is rejected before a
// request is issued.
const (
	LimitSmall  = 10
	LimitMedium = 25
	LimitLarge  = 100
)

// List targets layered on top of the generic filters for the logged-user
// endpoint.
const (
	TargetMonthly = "monthly"
	TargetPending = "pending"
)

// StatusAll disables status filtering; it is equivalent to omitting the
// filter entirely.
const StatusAll = "all"

// Query is the uniform shape of a "list orders" request: 1-indexed page, a
// bounded limit, an optional status token, an inclusive day-boundary date
// window in millisecond epochs, free-text search and an optional target.
type Query struct {
	Page   int    `json:"page" validate:"required,min=1"`
	Limit  int    `json:"limit" validate:"required,oneof=10 25 100"`
	Status string `json:"status,omitempty" validate:"omitempty,oneof=all pending assigned accepted completed rejected deleted"`
	Start  int64  `json:"start,omitempty" validate:"omitempty,gt=0"`
	End    int64  `json:"end,omitempty" validate:"omitempty,gtefield=Start"`
	Search string `json:"search,omitempty"`
	Target string `json:"target,omitempty" validate:"omitempty,oneof=monthly pending"`
}

// Values encodes the query as URL parameters, omitting unset filters. A
// status of "all" is dropped: it means "no filter" on the wire too.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	if q.Status != "" && q.Status != StatusAll {
		v.Set("status", q.Status)
	}
	if q.Start > 0 {
		v.Set("start", strconv.FormatInt(q.Start, 10))
	}
	if q.End > 0 {
		v.Set("end", strconv.FormatInt(q.End, 10))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Target != "" {
		v.Set("target", q.Target)
	}
	return v
}

// SetDayRange widens the given instants to whole local days: start becomes
// local midnight and end becomes 23:59:59.999, both as millisecond epochs.
func (q *Query) SetDayRange(from, to time.Time) {
	q.Start = StartOfDayMillis(from)
	q.End = EndOfDayMillis(to)
}

// StartOfDayMillis returns local midnight of t's day in epoch milliseconds.
func StartOfDayMillis(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).UnixMilli()
}

// EndOfDayMillis returns 23:59:59.999 of t's day in epoch milliseconds.
func EndOfDayMillis(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location()).UnixMilli()
}

// Page is the uniform shape returned by every list query.
type Page[T any] struct {
	Content    []T `json:"content"`
	ItemsCount int `json:"itemsCount"`
	PageCount  int `json:"pageCount"`
}

// NewPage builds a page and computes pageCount = ceil(itemsCount/limit).
func NewPage[T any](content []T, itemsCount, limit int) Page[T] {
	pageCount := 0
	if limit > 0 {
		pageCount = int(math.Ceil(float64(itemsCount) / float64(limit)))
	}
	if content == nil {
		content = []T{}
	}
	return Page[T]{Content: content, ItemsCount: itemsCount, PageCount: pageCount}
}

// APIResponse is the envelope shared by every endpoint. A response with
// Success set to false must be treated as a failure regardless of payload
// shape.
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}
