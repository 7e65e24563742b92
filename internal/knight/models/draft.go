package models

import (
	"fmt"
	"time"

	dErrors "knights/pkg/domain-errors"
)

// AttributesDraft is an attribute block as decoded from untrusted input.
// A nil score was absent from the payload.
type AttributesDraft struct {
	Strength     *int `json:"strength" yaml:"strength"`
	Dexterity    *int `json:"dexterity" yaml:"dexterity"`
	Constitution *int `json:"constitution" yaml:"constitution"`
	Intelligence *int `json:"intelligence" yaml:"intelligence"`
	Wisdom       *int `json:"wisdom" yaml:"wisdom"`
	Charisma     *int `json:"charisma" yaml:"charisma"`
}

func (a *AttributesDraft) score(key AttributeKey) *int {
	switch key {
	case Strength:
		return a.Strength
	case Dexterity:
		return a.Dexterity
	case Constitution:
		return a.Constitution
	case Intelligence:
		return a.Intelligence
	case Wisdom:
		return a.Wisdom
	case Charisma:
		return a.Charisma
	default:
		return nil
	}
}

// Empty reports whether no score was supplied.
func (a *AttributesDraft) Empty() bool {
	for _, key := range AttributeKeys {
		if a.score(key) != nil {
			return false
		}
	}
	return true
}

// Attributes resolves the draft. Absent scores read as zero.
func (a *AttributesDraft) Attributes() *Attributes {
	if a == nil {
		return nil
	}
	return &Attributes{
		Strength:     deref(a.Strength),
		Dexterity:    deref(a.Dexterity),
		Constitution: deref(a.Constitution),
		Intelligence: deref(a.Intelligence),
		Wisdom:       deref(a.Wisdom),
		Charisma:     deref(a.Charisma),
	}
}

// WeaponDraft is a weapon as decoded from untrusted input.
type WeaponDraft struct {
	Name     string       `json:"name" yaml:"name"`
	Mod      *int         `json:"mod" yaml:"mod"`
	Attr     AttributeKey `json:"attr" yaml:"attr"`
	Equipped *bool        `json:"equipped" yaml:"equipped"`
}

// Weapon resolves the draft. An absent mod reads as zero and an absent
// equipped flag as false.
func (w WeaponDraft) Weapon() Weapon {
	return Weapon{
		Name:     w.Name,
		Mod:      deref(w.Mod),
		Attr:     w.Attr,
		Equipped: deref(w.Equipped),
	}
}

// KnightDraft is the create payload before presence and range checks.
type KnightDraft struct {
	Name         string
	Nickname     string
	Birthday     time.Time
	Weapons      []WeaponDraft
	Attributes   *AttributesDraft
	KeyAttribute AttributeKey
}

// Props resolves the draft into entity props.
func (d KnightDraft) Props() KnightProps {
	var weapons []Weapon
	if len(d.Weapons) > 0 {
		weapons = make([]Weapon, len(d.Weapons))
		for i, w := range d.Weapons {
			weapons[i] = w.Weapon()
		}
	}
	return KnightProps{
		Name:         d.Name,
		Nickname:     d.Nickname,
		Birthday:     d.Birthday,
		Weapons:      weapons,
		Attributes:   d.Attributes.Attributes(),
		KeyAttribute: d.KeyAttribute,
	}
}

// DraftOf turns trusted props back into a fully populated draft.
func DraftOf(p KnightProps) KnightDraft {
	d := KnightDraft{
		Name:         p.Name,
		Nickname:     p.Nickname,
		Birthday:     p.Birthday,
		KeyAttribute: p.KeyAttribute,
	}
	if len(p.Weapons) > 0 {
		d.Weapons = make([]WeaponDraft, len(p.Weapons))
		for i, w := range p.Weapons {
			d.Weapons[i] = WeaponDraft{Name: w.Name, Mod: ptr(w.Mod), Attr: w.Attr, Equipped: ptr(w.Equipped)}
		}
	}
	if a := p.Attributes; a != nil {
		d.Attributes = &AttributesDraft{
			Strength:     ptr(a.Strength),
			Dexterity:    ptr(a.Dexterity),
			Constitution: ptr(a.Constitution),
			Intelligence: ptr(a.Intelligence),
			Wisdom:       ptr(a.Wisdom),
			Charisma:     ptr(a.Charisma),
		}
	}
	return d
}

// ValidateDraft runs every entity rule on the resolved draft and adds a
// violation for each score, mod or equipped flag the payload left out.
func (v *KnightValidator) ValidateDraft(d *KnightDraft) bool {
	if d == nil {
		d = &KnightDraft{}
	}
	props := d.Props()
	v.Validate(&props)

	for i, w := range d.Weapons {
		prefix := fmt.Sprintf("weapons[%d]", i)
		v.Check(w.Mod != nil, prefix+".mod", "is required")
		v.Check(w.Equipped != nil, prefix+".equipped", "is required")
	}
	if d.Attributes != nil {
		v.Check(!d.Attributes.Empty(), "attributes", "must not be empty")
		for _, key := range AttributeKeys {
			v.Check(d.Attributes.score(key) != nil, "attributes."+string(key), "is required")
		}
	}
	return v.Valid()
}

// ValidateDraft runs a fresh validator over d and returns a validation
// error carrying every violation, or nil.
func ValidateDraft(d *KnightDraft) error {
	v := NewKnightValidator()
	if v.ValidateDraft(d) {
		return nil
	}
	return dErrors.NewValidation(v.Errors())
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func ptr[T any](v T) *T {
	return &v
}
