package models

import (
	"fmt"

	dErrors "knights/pkg/domain-errors"
	"knights/pkg/validation"
)

const (
	maxNameLen         = 255
	maxKeyAttributeLen = 12
)

// KnightValidator checks a draft against every knight rule and keeps all
// violations from the last run.
type KnightValidator struct {
	validation.Checker
}

func NewKnightValidator() *KnightValidator {
	return &KnightValidator{}
}

// Validate reports whether props satisfies every rule. A nil draft is
// validated as an empty one. Violations are available from Errors.
func (v *KnightValidator) Validate(props *KnightProps) bool {
	v.Reset()
	if props == nil {
		props = &KnightProps{}
	}

	v.String("name", props.Name, maxNameLen)
	v.String("nickname", props.Nickname, maxNameLen)
	v.Check(!props.Birthday.IsZero(), "birthday", "is required")
	v.validateWeapons(props.Weapons)
	v.validateAttributes(props.Attributes)
	v.validateKeyAttribute(props.KeyAttribute)

	if props.HeroifiedAt != nil && props.HeroifiedAt.IsZero() {
		v.Add("heroifiedAt", "must be a valid timestamp when set")
	}
	if props.UpdatedAt != nil && props.UpdatedAt.IsZero() {
		v.Add("updatedAt", "must be a valid timestamp when set")
	}

	return v.Valid()
}

func (v *KnightValidator) validateWeapons(weapons []Weapon) {
	if len(weapons) == 0 {
		v.Add("weapons", "must not be empty")
		return
	}
	for i, w := range weapons {
		prefix := fmt.Sprintf("weapons[%d]", i)
		v.String(prefix+".name", w.Name, maxNameLen)
		validation.OneOf(&v.Checker, prefix+".attr", w.Attr, AttributeKeys)
	}
	if _, ok := EquippedWeapon(weapons); !ok {
		v.Add("weapons", "must contain an equipped weapon")
	}
}

func (v *KnightValidator) validateAttributes(attrs *Attributes) {
	if attrs == nil {
		v.Add("attributes", "is required")
		return
	}
	for _, key := range AttributeKeys {
		score, _ := attrs.Score(key)
		v.IntRange("attributes."+string(key), score, MinScore, MaxScore)
	}
}

func (v *KnightValidator) validateKeyAttribute(key AttributeKey) {
	if key == "" {
		v.Add("keyAttribute", "must not be empty")
		return
	}
	v.Check(len(key) <= maxKeyAttributeLen, "keyAttribute", fmt.Sprintf("must be at most %d characters", maxKeyAttributeLen))
	validation.OneOf(&v.Checker, "keyAttribute", key, AttributeKeys)
}

// Validate runs a fresh validator and returns a validation error carrying
// every violation, or nil.
func Validate(props *KnightProps) error {
	v := NewKnightValidator()
	if v.Validate(props) {
		return nil
	}
	return dErrors.NewValidation(v.Errors())
}
