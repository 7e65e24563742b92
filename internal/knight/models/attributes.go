package models

import (
	"errors"
	"fmt"
)

// AttributeKey names one of the six ability scores.
type AttributeKey string

const (
	Strength     AttributeKey = "strength"
	Dexterity    AttributeKey = "dexterity"
	Constitution AttributeKey = "constitution"
	Intelligence AttributeKey = "intelligence"
	Wisdom       AttributeKey = "wisdom"
	Charisma     AttributeKey = "charisma"
)

// AttributeKeys lists every key in canonical order.
var AttributeKeys = []AttributeKey{Strength, Dexterity, Constitution, Intelligence, Wisdom, Charisma}

const (
	MinScore = 0
	MaxScore = 20

	baseAttack = 10
)

// ErrNoEquippedWeapon is returned when attack is computed for a knight
// without an equipped weapon.
var ErrNoEquippedWeapon = errors.New("knight has no equipped weapon")

// Attributes holds the six ability scores, each in [0,20].
type Attributes struct {
	Strength     int `json:"strength" yaml:"strength"`
	Dexterity    int `json:"dexterity" yaml:"dexterity"`
	Constitution int `json:"constitution" yaml:"constitution"`
	Intelligence int `json:"intelligence" yaml:"intelligence"`
	Wisdom       int `json:"wisdom" yaml:"wisdom"`
	Charisma     int `json:"charisma" yaml:"charisma"`
}

// Score returns the value for key.
func (a Attributes) Score(key AttributeKey) (int, bool) {
	switch key {
	case Strength:
		return a.Strength, true
	case Dexterity:
		return a.Dexterity, true
	case Constitution:
		return a.Constitution, true
	case Intelligence:
		return a.Intelligence, true
	case Wisdom:
		return a.Wisdom, true
	case Charisma:
		return a.Charisma, true
	default:
		return 0, false
	}
}

// Weapon is an item a knight carries. Mod is added to attack when equipped.
type Weapon struct {
	Name     string       `json:"name" yaml:"name"`
	Mod      int          `json:"mod" yaml:"mod"`
	Attr     AttributeKey `json:"attr" yaml:"attr"`
	Equipped bool         `json:"equipped" yaml:"equipped"`
}

// tier maps an inclusive score range to an attack modifier.
type tier struct {
	min, max, mod int
}

var attackTiers = []tier{
	{min: 0, max: 8, mod: -2},
	{min: 9, max: 10, mod: -1},
	{min: 11, max: 12, mod: 0},
	{min: 13, max: 15, mod: 1},
	{min: 16, max: 18, mod: 2},
	{min: 19, max: 20, mod: 3},
}

// AttributeModifier returns the attack modifier of the first tier containing score.
func AttributeModifier(score int) (int, bool) {
	for _, t := range attackTiers {
		if score >= t.min && score <= t.max {
			return t.mod, true
		}
	}
	return 0, false
}

// EquippedWeapon returns the first weapon flagged as equipped.
func EquippedWeapon(weapons []Weapon) (Weapon, bool) {
	for _, w := range weapons {
		if w.Equipped {
			return w, true
		}
	}
	return Weapon{}, false
}

// Attack is 10 + the tier modifier of the key attribute + the equipped weapon's mod.
func Attack(attrs Attributes, key AttributeKey, weapons []Weapon) (int, error) {
	score, ok := attrs.Score(key)
	if !ok {
		return 0, fmt.Errorf("unknown key attribute %q", key)
	}
	mod, ok := AttributeModifier(score)
	if !ok {
		return 0, fmt.Errorf("%s score %d is out of range", key, score)
	}
	weapon, ok := EquippedWeapon(weapons)
	if !ok {
		return 0, ErrNoEquippedWeapon
	}
	return baseAttack + mod + weapon.Mod, nil
}
