package search

import (
	"cmp"
	"slices"
	"strings"
)

// Result is one page of a query plus metadata derived from it.
type Result[T any] struct {
	Items       []T
	Total       int
	CurrentPage int
	PerPage     int
	LastPage    int
	Sort        string
	SortDir     Direction
	FilterBy    string
}

// NewResult builds a page result. LastPage is always derived from total and
// perPage, and is 0 for an empty result set.
func NewResult[T any](items []T, total int, p Params) Result[T] {
	if items == nil {
		items = []T{}
	}
	return Result[T]{
		Items:       items,
		Total:       total,
		CurrentPage: p.Page,
		PerPage:     p.PerPage,
		LastPage:    LastPage(total, p.PerPage),
		Sort:        p.Sort,
		SortDir:     p.SortDir,
		FilterBy:    p.FilterBy,
	}
}

// LastPage is ceil(total / perPage).
func LastPage(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// Map converts the items of r, keeping its metadata.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	items := make([]U, len(r.Items))
	for i, item := range r.Items {
		items[i] = fn(item)
	}
	return Result[U]{
		Items:       items,
		Total:       r.Total,
		CurrentPage: r.CurrentPage,
		PerPage:     r.PerPage,
		LastPage:    r.LastPage,
		Sort:        r.Sort,
		SortDir:     r.SortDir,
		FilterBy:    r.FilterBy,
	}
}

// Contains keeps items whose field case-insensitively contains filter.
// An empty filter returns items unchanged.
func Contains[T any](items []T, filter string, field func(T) string) []T {
	if filter == "" {
		return items
	}
	needle := strings.ToLower(filter)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(field(item)), needle) {
			out = append(out, item)
		}
	}
	return out
}

// Comparators maps sortable field names to ascending comparisons.
type Comparators[T any] map[string]func(a, b T) int

// Fields lists the sortable field names.
func (c Comparators[T]) Fields() []string {
	fields := make([]string, 0, len(c))
	for f := range c {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	return fields
}

// Sort orders items in place by o using a stable sort, so equal keys keep
// their input order. Unknown fields leave items untouched.
func Sort[T any](items []T, o Order, cmps Comparators[T]) {
	compare, ok := cmps[o.Field]
	if !ok {
		return
	}
	if o.Dir == Desc {
		slices.SortStableFunc(items, func(a, b T) int { return compare(b, a) })
		return
	}
	slices.SortStableFunc(items, compare)
}

// Paginate returns the slice [(page-1)*perPage, page*perPage) of items,
// clamped to the bounds of items.
func Paginate[T any](items []T, p Params) []T {
	start := min(p.Offset(), len(items))
	end := min(start+p.PerPage, len(items))
	return items[start:end]
}

// CompareStrings orders strings byte-wise.
func CompareStrings(a, b string) int {
	return cmp.Compare(a, b)
}
