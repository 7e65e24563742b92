package handler

import (
	"time"

	"knights/internal/knight/models"
	"knights/pkg/search"
)

// KnightResponse is the full knight presenter.
type KnightResponse struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Nickname     string              `json:"nickname"`
	Birthday     string              `json:"birthday"`
	Weapons      []models.Weapon     `json:"weapons"`
	Attributes   models.Attributes   `json:"attributes"`
	KeyAttribute models.AttributeKey `json:"keyAttribute"`
	Age          int                 `json:"age"`
	Attack       int                 `json:"attack"`
	Experience   int                 `json:"experience"`
	HeroifiedAt  *time.Time          `json:"heroifiedAt,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    *time.Time          `json:"updatedAt,omitempty"`
}

// KnightSummaryResponse is the compact projection: a weapon count instead
// of the list, no attribute scores.
type KnightSummaryResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Nickname    string     `json:"nickname"`
	Age         int        `json:"age"`
	Weapons     int        `json:"weapons"`
	Attack      int        `json:"attack"`
	Experience  int        `json:"experience"`
	HeroifiedAt *time.Time `json:"heroifiedAt,omitempty"`
}

// ListResponse is the paginated collection envelope.
type ListResponse struct {
	Data []any        `json:"data"`
	Meta PageResponse `json:"meta"`
}

type PageResponse struct {
	Total       int `json:"total"`
	CurrentPage int `json:"currentPage"`
	PerPage     int `json:"perPage"`
	LastPage    int `json:"lastPage"`
}

func FromKnight(k *models.Knight) *KnightResponse {
	return &KnightResponse{
		ID:           k.ID().String(),
		Name:         k.Name(),
		Nickname:     k.Nickname(),
		Birthday:     k.Birthday().Format(models.DateLayout),
		Weapons:      k.Weapons(),
		Attributes:   k.Attributes(),
		KeyAttribute: k.KeyAttribute(),
		Age:          k.Age(),
		Attack:       k.Attack(),
		Experience:   k.Experience(),
		HeroifiedAt:  k.HeroifiedAt(),
		CreatedAt:    k.CreatedAt(),
		UpdatedAt:    k.UpdatedAt(),
	}
}

func FromKnightSummary(k *models.Knight) *KnightSummaryResponse {
	return &KnightSummaryResponse{
		ID:          k.ID().String(),
		Name:        k.Name(),
		Nickname:    k.Nickname(),
		Age:         k.Age(),
		Weapons:     len(k.Weapons()),
		Attack:      k.Attack(),
		Experience:  k.Experience(),
		HeroifiedAt: k.HeroifiedAt(),
	}
}

func present(k *models.Knight, v view) any {
	if v == viewSummary {
		return FromKnightSummary(k)
	}
	return FromKnight(k)
}

// FromResult converts a search page into the collection envelope.
func FromResult(res models.SearchResult, v view) *ListResponse {
	data := search.Map(res, func(k *models.Knight) any { return present(k, v) })
	return &ListResponse{
		Data: data.Items,
		Meta: PageResponse{
			Total:       res.Total,
			CurrentPage: res.CurrentPage,
			PerPage:     res.PerPage,
			LastPage:    res.LastPage,
		},
	}
}
