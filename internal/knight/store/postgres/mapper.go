package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"knights/internal/knight/models"
	"knights/pkg/domain"
	"knights/pkg/platform/sentinel"
)

// record is one row of the knights table.
type record struct {
	ID           string
	Name         string
	Nickname     string
	Birthday     time.Time
	Weapons      []byte
	Attributes   []byte
	KeyAttribute string
	HeroifiedAt  sql.NullTime
	CreatedAt    time.Time
	UpdatedAt    sql.NullTime
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (record, error) {
	var r record
	err := row.Scan(
		&r.ID,
		&r.Name,
		&r.Nickname,
		&r.Birthday,
		&r.Weapons,
		&r.Attributes,
		&r.KeyAttribute,
		&r.HeroifiedAt,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}

func toRecord(k *models.Knight) (record, error) {
	weapons, err := json.Marshal(k.Weapons())
	if err != nil {
		return record{}, fmt.Errorf("encode weapons: %w", err)
	}
	attributes, err := json.Marshal(k.Attributes())
	if err != nil {
		return record{}, fmt.Errorf("encode attributes: %w", err)
	}
	return record{
		ID:           k.ID().String(),
		Name:         k.Name(),
		Nickname:     k.Nickname(),
		Birthday:     k.Birthday(),
		Weapons:      weapons,
		Attributes:   attributes,
		KeyAttribute: string(k.KeyAttribute()),
		HeroifiedAt:  nullTime(k.HeroifiedAt()),
		CreatedAt:    k.CreatedAt(),
		UpdatedAt:    nullTime(k.UpdatedAt()),
	}, nil
}

// toKnight rebuilds a knight from a row, re-running entity validation.
// Rows that no longer satisfy it fail with sentinel.ErrLoadFailed so corrupt
// storage is never reported as bad caller input.
func toKnight(r record, now time.Time) (*models.Knight, error) {
	id, err := domain.ParseKnightID(r.ID)
	if err != nil {
		return nil, fmt.Errorf("knight %q: %w: %s", r.ID, sentinel.ErrLoadFailed, err.Error())
	}

	var weapons []models.Weapon
	if err := json.Unmarshal(r.Weapons, &weapons); err != nil {
		return nil, fmt.Errorf("knight %s weapons: %w: %s", r.ID, sentinel.ErrLoadFailed, err.Error())
	}
	var attributes models.Attributes
	if err := json.Unmarshal(r.Attributes, &attributes); err != nil {
		return nil, fmt.Errorf("knight %s attributes: %w: %s", r.ID, sentinel.ErrLoadFailed, err.Error())
	}

	props := models.KnightProps{
		Name:         r.Name,
		Nickname:     r.Nickname,
		Birthday:     r.Birthday,
		Weapons:      weapons,
		Attributes:   &attributes,
		KeyAttribute: models.AttributeKey(r.KeyAttribute),
		HeroifiedAt:  timePtr(r.HeroifiedAt),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    timePtr(r.UpdatedAt),
	}
	k, err := models.NewKnight(id, props, now)
	if err != nil {
		return nil, fmt.Errorf("knight %s: %w: %s", r.ID, sentinel.ErrLoadFailed, err.Error())
	}
	return k, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
