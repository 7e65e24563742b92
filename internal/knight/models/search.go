package models

import (
	"strings"

	"knights/pkg/search"
)

// FilterHeroes restricts a listing to heroified knights.
const FilterHeroes = "heroes"

// SortableFields are the fields a listing may be ordered by.
var SortableFields = []string{"name", "createdAt"}

// DefaultOrder applies when no sort, or an unsortable field, is requested.
var DefaultOrder = search.Order{Field: "createdAt", Dir: search.Desc}

// SearchParams is a normalized knight listing query. HeroesOnly is
// independent of FilterBy, which always matches on name.
type SearchParams struct {
	search.Params
	HeroesOnly bool
}

// NewSearchParams normalizes raw and reads the heroes-only flag from filter.
func NewSearchParams(raw search.Raw, filter string) SearchParams {
	return SearchParams{
		Params:     search.NewParams(raw),
		HeroesOnly: strings.EqualFold(strings.TrimSpace(filter), FilterHeroes),
	}
}

// Order resolves the effective ordering for a backend.
func (p SearchParams) Order() search.Order {
	return p.Params.Order(SortableFields, DefaultOrder)
}

// SearchResult is one page of knights.
type SearchResult = search.Result[*Knight]
