// Package knighttest builds valid knight drafts for tests.
package knighttest

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"knights/internal/knight/models"
	"knights/pkg/domain"
)

// Now is the fixed clock used across knight tests.
var Now = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

var seq atomic.Int64

// Option adjusts a draft.
type Option func(p *models.KnightProps)

// Props returns a valid draft with a unique nickname.
func Props(opts ...Option) models.KnightProps {
	n := seq.Add(1)
	p := models.KnightProps{
		Name:     "Percival",
		Nickname: fmt.Sprintf("percy-%d", n),
		Birthday: time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC),
		Weapons: []models.Weapon{
			{Name: "sword", Mod: 3, Attr: models.Strength, Equipped: true},
			{Name: "dagger", Mod: 1, Attr: models.Dexterity, Equipped: false},
		},
		Attributes: &models.Attributes{
			Strength:     14,
			Dexterity:    10,
			Constitution: 12,
			Intelligence: 9,
			Wisdom:       11,
			Charisma:     8,
		},
		KeyAttribute: models.Strength,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func WithName(name string) Option {
	return func(p *models.KnightProps) { p.Name = name }
}

func WithNickname(nickname string) Option {
	return func(p *models.KnightProps) { p.Nickname = nickname }
}

func WithBirthday(b time.Time) Option {
	return func(p *models.KnightProps) { p.Birthday = b }
}

func WithCreatedAt(t time.Time) Option {
	return func(p *models.KnightProps) { p.CreatedAt = t }
}

func WithHeroifiedAt(t time.Time) Option {
	return func(p *models.KnightProps) {
		p.HeroifiedAt = &t
		p.UpdatedAt = &t
	}
}

// Draft returns Props as a fully populated create payload.
func Draft(opts ...Option) models.KnightDraft {
	return models.DraftOf(Props(opts...))
}

// New builds a knight from Props, failing the test on error.
func New(t testing.TB, opts ...Option) *models.Knight {
	t.Helper()
	k, err := models.NewKnight(domain.KnightID{}, Props(opts...), Now)
	if err != nil {
		t.Fatalf("build knight: %v", err)
	}
	return k
}
