// Package store holds seeding helpers shared by the knight backends.
package store

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"knights/internal/knight/models"
	"knights/pkg/domain"
)

// Inserter is the part of a knight store seeding needs.
type Inserter interface {
	Insert(ctx context.Context, k *models.Knight) error
}

var seedNames = []string{
	"Arthur", "Lancelot", "Gawain", "Percival", "Galahad",
	"Tristan", "Bedivere", "Kay", "Gareth", "Lamorak",
}

var seedWeapons = []models.Weapon{
	{Name: "longsword", Mod: 3, Attr: models.Strength},
	{Name: "spear", Mod: 2, Attr: models.Dexterity},
	{Name: "mace", Mod: 2, Attr: models.Constitution},
	{Name: "dagger", Mod: 1, Attr: models.Dexterity},
}

// GenerateKnights builds n valid knights. createdAt values are one second
// apart and the last one equals now, so newest-first order is the reverse of
// the returned slice.
func GenerateKnights(n int, now time.Time) ([]*models.Knight, error) {
	out := make([]*models.Knight, 0, n)
	for i := 0; i < n; i++ {
		name := seedNames[i%len(seedNames)]
		equipped := i % len(seedWeapons)
		weapons := make([]models.Weapon, 0, 2)
		for j := 0; j < 2; j++ {
			w := seedWeapons[(equipped+j)%len(seedWeapons)]
			w.Equipped = j == 0
			weapons = append(weapons, w)
		}
		score := func(k int) int { return (i*7 + k*5) % (models.MaxScore + 1) }

		props := models.KnightProps{
			Name:     name,
			Nickname: fmt.Sprintf("%s-%d", strings.ToLower(name), i+1),
			Birthday: now.AddDate(-(18 + i%30), -(i % 12), -(i % 28)),
			Weapons:  weapons,
			Attributes: &models.Attributes{
				Strength:     score(0),
				Dexterity:    score(1),
				Constitution: score(2),
				Intelligence: score(3),
				Wisdom:       score(4),
				Charisma:     score(5),
			},
			KeyAttribute: models.AttributeKeys[i%len(models.AttributeKeys)],
			CreatedAt:    now.Add(-time.Duration(n-1-i) * time.Second),
		}
		k, err := models.NewKnight(domain.KnightID{}, props, now)
		if err != nil {
			return nil, fmt.Errorf("generate knight %d: %w", i, err)
		}
		out = append(out, k)
	}
	return out, nil
}

// Fixture is one knight in a YAML fixture file. Dates are YYYY-MM-DD and
// timestamps RFC 3339; an empty id is generated.
type Fixture struct {
	ID           string                  `yaml:"id"`
	Name         string                  `yaml:"name"`
	Nickname     string                  `yaml:"nickname"`
	Birthday     string                  `yaml:"birthday"`
	Weapons      []models.WeaponDraft    `yaml:"weapons"`
	Attributes   *models.AttributesDraft `yaml:"attributes"`
	KeyAttribute string                  `yaml:"keyAttribute"`
	HeroifiedAt  string                  `yaml:"heroifiedAt"`
	CreatedAt    string                  `yaml:"createdAt"`
}

type fixtureFile struct {
	Knights []Fixture `yaml:"knights"`
}

// LoadFixtures decodes a fixture file and validates every knight in it.
func LoadFixtures(r io.Reader, now time.Time) ([]*models.Knight, error) {
	var file fixtureFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}

	out := make([]*models.Knight, 0, len(file.Knights))
	for i, f := range file.Knights {
		k, err := f.toKnight(now)
		if err != nil {
			return nil, fmt.Errorf("fixture %d (%s): %w", i, f.Nickname, err)
		}
		out = append(out, k)
	}
	return out, nil
}

func (f Fixture) toKnight(now time.Time) (*models.Knight, error) {
	var id domain.KnightID
	if f.ID != "" {
		parsed, err := domain.ParseKnightID(f.ID)
		if err != nil {
			return nil, err
		}
		id = parsed
	}

	draft := models.KnightDraft{
		Name:         f.Name,
		Nickname:     f.Nickname,
		Weapons:      f.Weapons,
		Attributes:   f.Attributes,
		KeyAttribute: models.AttributeKey(f.KeyAttribute),
	}
	if f.Birthday != "" {
		b, err := time.Parse(models.DateLayout, f.Birthday)
		if err != nil {
			return nil, fmt.Errorf("birthday: %w", err)
		}
		draft.Birthday = b
	}
	if err := models.ValidateDraft(&draft); err != nil {
		return nil, err
	}

	props := draft.Props()
	if f.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339, f.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("createdAt: %w", err)
		}
		props.CreatedAt = t
	}
	if f.HeroifiedAt != "" {
		t, err := time.Parse(time.RFC3339, f.HeroifiedAt)
		if err != nil {
			return nil, fmt.Errorf("heroifiedAt: %w", err)
		}
		props.HeroifiedAt = &t
		props.UpdatedAt = &t
	}
	return models.NewKnight(id, props, now)
}

// Seed inserts knights in order and stops at the first failure. It returns
// how many were inserted.
func Seed(ctx context.Context, dst Inserter, knights []*models.Knight) (int, error) {
	for i, k := range knights {
		if err := dst.Insert(ctx, k); err != nil {
			return i, fmt.Errorf("seed knight %s: %w", k.Nickname(), err)
		}
	}
	return len(knights), nil
}
