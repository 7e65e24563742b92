package models

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"time"

	"knights/pkg/domain"
)

// DateLayout is the wire format of a birthday.
const DateLayout = "2006-01-02"

const (
	experienceMinAge = 7
	experienceBase   = 22
	experienceExp    = 1.45
)

// KnightProps is the persisted state of a knight, and the draft passed to
// NewKnight. Zero Birthday and nil Attributes mean absent.
type KnightProps struct {
	Name         string
	Nickname     string
	Birthday     time.Time
	Weapons      []Weapon
	Attributes   *Attributes
	KeyAttribute AttributeKey
	HeroifiedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

func (p KnightProps) clone() KnightProps {
	out := p
	out.Weapons = slices.Clone(p.Weapons)
	if p.Attributes != nil {
		attrs := *p.Attributes
		out.Attributes = &attrs
	}
	out.HeroifiedAt = cloneTime(p.HeroifiedAt)
	out.UpdatedAt = cloneTime(p.UpdatedAt)
	return out
}

// Knight is the aggregate root.
//
// Invariants:
//   - props always satisfy KnightValidator
//   - the id and CreatedAt never change
//   - HeroifiedAt, once set, is only replaced by another Heroify call, which
//     callers guard against
//   - Age, Attack and Experience are computed once at construction
type Knight struct {
	domain.Entity[domain.KnightID]
	props KnightProps

	age        int
	attack     int
	experience int
}

// NewKnight validates props and builds a knight. A nil id generates a new
// one; a zero CreatedAt defaults to now. Derived attributes are computed
// relative to now.
func NewKnight(id domain.KnightID, props KnightProps, now time.Time) (*Knight, error) {
	if err := Validate(&props); err != nil {
		return nil, err
	}
	if id.IsNil() {
		id = domain.NewKnightID()
	}

	props = props.clone()
	props.Birthday = dateOf(props.Birthday)
	if props.CreatedAt.IsZero() {
		props.CreatedAt = now
	}

	attack, err := Attack(*props.Attributes, props.KeyAttribute, props.Weapons)
	if err != nil {
		return nil, fmt.Errorf("compute attack: %w", err)
	}
	age := AgeAt(props.Birthday, now)

	return &Knight{
		Entity:     domain.NewEntity(id),
		props:      props,
		age:        age,
		attack:     attack,
		experience: Experience(age),
	}, nil
}

// UpdateNickname re-validates the whole record with nickname substituted.
// On failure the knight is left untouched.
func (k *Knight) UpdateNickname(nickname string, now time.Time) error {
	draft := k.props.clone()
	draft.Nickname = nickname
	if err := Validate(&draft); err != nil {
		return err
	}
	k.props.Nickname = nickname
	k.props.UpdatedAt = &now
	return nil
}

// Heroify marks the knight as a hero. It does not guard against repeated
// promotion; callers check IsHero first.
func (k *Knight) Heroify(now time.Time) {
	heroifiedAt := now
	updatedAt := now
	k.props.HeroifiedAt = &heroifiedAt
	k.props.UpdatedAt = &updatedAt
}

func (k *Knight) IsHero() bool {
	return k.props.HeroifiedAt != nil
}

func (k *Knight) Name() string               { return k.props.Name }
func (k *Knight) Nickname() string           { return k.props.Nickname }
func (k *Knight) Birthday() time.Time        { return k.props.Birthday }
func (k *Knight) Weapons() []Weapon          { return slices.Clone(k.props.Weapons) }
func (k *Knight) Attributes() Attributes     { return *k.props.Attributes }
func (k *Knight) KeyAttribute() AttributeKey { return k.props.KeyAttribute }
func (k *Knight) HeroifiedAt() *time.Time    { return cloneTime(k.props.HeroifiedAt) }
func (k *Knight) CreatedAt() time.Time       { return k.props.CreatedAt }
func (k *Knight) UpdatedAt() *time.Time      { return cloneTime(k.props.UpdatedAt) }
func (k *Knight) Age() int                   { return k.age }
func (k *Knight) Attack() int                { return k.attack }
func (k *Knight) Experience() int            { return k.experience }

// Props returns a copy of the persisted state.
func (k *Knight) Props() KnightProps {
	return k.props.clone()
}

// Clone returns a deep copy that shares nothing with k.
func (k *Knight) Clone() *Knight {
	c := *k
	c.props = k.props.clone()
	return &c
}

// ToMap flattens the id, persisted and derived fields into one map. Optional
// timestamps are present only when set.
func (k *Knight) ToMap() map[string]any {
	props := map[string]any{
		"name":         k.props.Name,
		"nickname":     k.props.Nickname,
		"birthday":     k.props.Birthday.Format(DateLayout),
		"weapons":      k.Weapons(),
		"attributes":   k.Attributes(),
		"keyAttribute": k.props.KeyAttribute,
		"age":          k.age,
		"attack":       k.attack,
		"experience":   k.experience,
		"createdAt":    k.props.CreatedAt,
	}
	if k.props.HeroifiedAt != nil {
		props["heroifiedAt"] = *k.props.HeroifiedAt
	}
	if k.props.UpdatedAt != nil {
		props["updatedAt"] = *k.props.UpdatedAt
	}
	return k.Flatten(props)
}

func (k *Knight) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.ToMap())
}

// AgeAt counts whole years between birthday and now by calendar month and
// day, so a birthday later this year has not been reached yet.
func AgeAt(birthday, now time.Time) int {
	b := dateOf(birthday)
	n := now.UTC()
	years := n.Year() - b.Year()
	if n.Month() < b.Month() || (n.Month() == b.Month() && n.Day() < b.Day()) {
		years--
	}
	return years
}

// Experience is 0 below age 7, else floor((age-7) * 22^1.45).
func Experience(age int) int {
	if age < experienceMinAge {
		return 0
	}
	return int(math.Floor(float64(age-experienceMinAge) * math.Pow(experienceBase, experienceExp)))
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
