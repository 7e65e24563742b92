// Package search normalizes untrusted list queries into safe pagination,
// sort and filter parameters, and derives page metadata for results.
package search

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 15

	// maxIndex bounds page and perPage so offsets never overflow.
	maxIndex = math.MaxInt32
)

// Raw is the untrusted input of a list query. Each field may hold nil, a
// string, any Go number, json.Number, a bool, or anything decoded from JSON.
type Raw struct {
	Page     any
	PerPage  any
	Sort     any
	SortDir  any
	FilterBy any
}

// FromQuery builds Raw from URL query values. Absent keys stay nil.
func FromQuery(q url.Values) Raw {
	get := func(key string) any {
		if !q.Has(key) {
			return nil
		}
		return q.Get(key)
	}
	return Raw{
		Page:     get("page"),
		PerPage:  get("perPage"),
		Sort:     get("sort"),
		SortDir:  get("sortDir"),
		FilterBy: get("filterBy"),
	}
}

// Params is a normalized query. Page and PerPage are always positive.
// Sort and FilterBy are empty when absent; SortDir is empty exactly when
// Sort is empty.
type Params struct {
	Page     int
	PerPage  int
	Sort     string
	SortDir  Direction
	FilterBy string
}

// NewParams coerces every field of raw independently. It never fails:
// anything unusable falls back to the field default.
func NewParams(raw Raw) Params {
	p := Params{
		Page:     positiveInt(raw.Page, DefaultPage),
		PerPage:  positiveInt(raw.PerPage, DefaultPerPage),
		Sort:     scalarString(raw.Sort),
		FilterBy: scalarString(raw.FilterBy),
	}
	if p.Sort != "" {
		p.SortDir = direction(raw.SortDir)
	}
	return p
}

// Offset is the number of items skipped before the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Order is a resolved sort field and direction.
type Order struct {
	Field string
	Dir   Direction
}

// Order resolves the requested sort against the sortable fields, returning
// fallback when no sort was requested or the field is not sortable.
func (p Params) Order(sortable []string, fallback Order) Order {
	if p.Sort == "" || !slices.Contains(sortable, p.Sort) {
		return fallback
	}
	return Order{Field: p.Sort, Dir: p.SortDir}
}

func positiveInt(v any, def int) int {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case float32:
		f = float64(n)
	case float64:
		f = n
	case json.Number:
		return positiveInt(string(n), def)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return def
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return def
		}
		f = parsed
	default:
		// nil, bool, maps, slices
		return def
	}

	if math.IsNaN(f) || f <= 0 || f > maxIndex || f != math.Trunc(f) {
		return def
	}
	return int(f)
}

func scalarString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(s)
	default:
		return ""
	}
}

func direction(v any) Direction {
	switch Direction(strings.ToLower(scalarString(v))) {
	case Desc:
		return Desc
	default:
		return Asc
	}
}
