package handler

import (
	"net/http"
	"strings"
	"time"

	"knights/internal/knight/models"
	"knights/internal/knight/service"
	dErrors "knights/pkg/domain-errors"
	"knights/pkg/platform/httputil"
)

// CreateKnightRequest is the HTTP request body for POST /v1/knights.
// Missing fields are reported by the service; Validate only parses.
// Numeric and boolean values are pointers so an absent key stays nil.
type CreateKnightRequest struct {
	Name         string                  `json:"name"`
	Nickname     string                  `json:"nickname"`
	Birthday     string                  `json:"birthday"`
	Weapons      []WeaponRequest         `json:"weapons"`
	Attributes   *models.AttributesDraft `json:"attributes"`
	KeyAttribute string                  `json:"keyAttribute"`

	parsedBirthday time.Time
}

type WeaponRequest struct {
	Name     string `json:"name"`
	Mod      *int   `json:"mod"`
	Attr     string `json:"attr"`
	Equipped *bool  `json:"equipped"`
}

// Validate trims input and parses the birthday.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CreateKnightRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	sanitize(r)
	for i := range r.Weapons {
		sanitize(&r.Weapons[i])
	}

	if r.Birthday != "" {
		b, err := parseBirthday(r.Birthday)
		if err != nil {
			return err
		}
		r.parsedBirthday = b
	}
	return nil
}

// ToInput converts the request into the service input.
func (r *CreateKnightRequest) ToInput() service.CreateInput {
	var weapons []models.WeaponDraft
	if len(r.Weapons) > 0 {
		weapons = make([]models.WeaponDraft, len(r.Weapons))
		for i, w := range r.Weapons {
			weapons[i] = models.WeaponDraft{
				Name:     w.Name,
				Mod:      w.Mod,
				Attr:     models.AttributeKey(w.Attr),
				Equipped: w.Equipped,
			}
		}
	}
	return service.CreateInput{
		Name:         r.Name,
		Nickname:     r.Nickname,
		Birthday:     r.parsedBirthday,
		Weapons:      weapons,
		Attributes:   r.Attributes,
		KeyAttribute: models.AttributeKey(r.KeyAttribute),
	}
}

// UpdateKnightRequest is the HTTP request body for PUT /v1/knights/{id}.
type UpdateKnightRequest struct {
	Nickname string `json:"nickname"`
}

func (r *UpdateKnightRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	sanitize(r)
	return nil
}

// parseBirthday accepts a calendar date or a full RFC 3339 timestamp.
func parseBirthday(s string) (time.Time, error) {
	if t, err := time.Parse(models.DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, dErrors.New(dErrors.CodeInvalidInput, "birthday must be a date in YYYY-MM-DD format")
}

// view selects the presenter projection.
type view string

const (
	viewFull    view = "full"
	viewSummary view = "summary"
)

func viewFrom(r *http.Request) view {
	if strings.EqualFold(strings.TrimSpace(r.URL.Query().Get("view")), string(viewSummary)) {
		return viewSummary
	}
	return viewFull
}

func statusOf(err error) int {
	de, ok := dErrors.As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	return httputil.StatusFor(de.Code)
}
