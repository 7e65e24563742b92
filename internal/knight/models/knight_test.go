package models_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knights/internal/knight/models"
	"knights/internal/knight/models/knighttest"
	"knights/pkg/domain"
	dErrors "knights/pkg/domain-errors"
	"knights/pkg/search"
	"knights/pkg/testutil"
)

func TestNewKnight(t *testing.T) {
	testutil.Given(t, "a valid draft without id or createdAt", func(t *testing.T) {
		props := knighttest.Props(knighttest.WithNickname("lancelot"))

		k, err := models.NewKnight(domain.KnightID{}, props, knighttest.Now)
		require.NoError(t, err)

		testutil.Then(t, "an id and createdAt are assigned", func(t *testing.T) {
			assert.False(t, k.ID().IsNil())
			assert.Equal(t, knighttest.Now, k.CreatedAt())
			assert.Nil(t, k.HeroifiedAt())
			assert.Nil(t, k.UpdatedAt())
		})

		testutil.Then(t, "derived attributes are computed", func(t *testing.T) {
			assert.Equal(t, 34, k.Age())
			// 10 + tier(14)=+1 + sword mod 3
			assert.Equal(t, 14, k.Attack())
			assert.Equal(t, 2387, k.Experience())
		})
	})

	testutil.Given(t, "a birthday carrying a time of day", func(t *testing.T) {
		b := time.Date(1990, time.June, 16, 1, 30, 0, 0, time.FixedZone("CEST", 2*60*60))
		k := knighttest.New(t, knighttest.WithBirthday(b))

		testutil.Then(t, "only the calendar date is kept", func(t *testing.T) {
			assert.Equal(t, time.Date(1990, time.June, 16, 0, 0, 0, 0, time.UTC), k.Birthday())
			assert.Equal(t, 33, k.Age())
		})
	})

	testutil.Given(t, "a supplied id", func(t *testing.T) {
		id := domain.MustParseKnightID("507f1f77bcf86cd799439011")
		k, err := models.NewKnight(id, knighttest.Props(), knighttest.Now)
		require.NoError(t, err)
		assert.Equal(t, id, k.ID())
	})

	testutil.Given(t, "the caller keeps mutating the draft", func(t *testing.T) {
		props := knighttest.Props()
		k, err := models.NewKnight(domain.KnightID{}, props, knighttest.Now)
		require.NoError(t, err)

		props.Weapons[0].Name = "spoon"
		props.Attributes.Strength = 1

		assert.Equal(t, "sword", k.Weapons()[0].Name)
		assert.Equal(t, 14, k.Attributes().Strength)
	})
}

func TestNewKnightValidation(t *testing.T) {
	t.Run("nil draft reports every required field", func(t *testing.T) {
		v := models.NewKnightValidator()

		assert.False(t, v.Validate(nil))
		errs := v.Errors()
		for _, field := range []string{"name", "nickname", "birthday", "weapons", "attributes", "keyAttribute"} {
			assert.Contains(t, errs, field)
		}
	})

	t.Run("all violations are reported at once", func(t *testing.T) {
		props := knighttest.Props()
		props.Name = strings.Repeat("x", 256)
		props.Nickname = ""
		props.Attributes.Wisdom = 21
		props.Attributes.Charisma = -1
		props.KeyAttribute = "luckluckluckluck"
		props.Weapons = []models.Weapon{{Name: "", Attr: "luck"}}

		_, err := models.NewKnight(domain.KnightID{}, props, knighttest.Now)
		require.Error(t, err)
		require.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

		de, ok := dErrors.As(err)
		require.True(t, ok)
		assert.Equal(t, []string{"must be at most 255 characters"}, de.Fields["name"])
		assert.Equal(t, []string{"must not be empty"}, de.Fields["nickname"])
		assert.Equal(t, []string{"must be between 0 and 20"}, de.Fields["attributes.wisdom"])
		assert.Equal(t, []string{"must be between 0 and 20"}, de.Fields["attributes.charisma"])
		assert.Len(t, de.Fields["keyAttribute"], 2)
		assert.Equal(t, []string{"must not be empty"}, de.Fields["weapons[0].name"])
		assert.Len(t, de.Fields["weapons[0].attr"], 1)
		assert.Equal(t, []string{"must contain an equipped weapon"}, de.Fields["weapons"])
	})

	t.Run("empty weapons", func(t *testing.T) {
		props := knighttest.Props()
		props.Weapons = nil

		_, err := models.NewKnight(domain.KnightID{}, props, knighttest.Now)
		de, ok := dErrors.As(err)
		require.True(t, ok)
		assert.Equal(t, []string{"must not be empty"}, de.Fields["weapons"])
	})
}

func TestUpdateNickname(t *testing.T) {
	k := knighttest.New(t, knighttest.WithNickname("galahad"))
	later := knighttest.Now.Add(time.Hour)

	t.Run("invalid nickname leaves state untouched", func(t *testing.T) {
		err := k.UpdateNickname(strings.Repeat("n", 256), later)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Equal(t, "galahad", k.Nickname())
		assert.Nil(t, k.UpdatedAt())
	})

	t.Run("valid nickname updates nickname and updatedAt", func(t *testing.T) {
		require.NoError(t, k.UpdateNickname("the pure", later))
		assert.Equal(t, "the pure", k.Nickname())
		require.NotNil(t, k.UpdatedAt())
		assert.Equal(t, later, *k.UpdatedAt())
		assert.Equal(t, knighttest.Now, k.CreatedAt())
	})
}

func TestHeroify(t *testing.T) {
	k := knighttest.New(t)
	later := knighttest.Now.Add(24 * time.Hour)

	k.Heroify(later)

	assert.True(t, k.IsHero())
	require.NotNil(t, k.HeroifiedAt())
	assert.Equal(t, later, *k.HeroifiedAt())
	assert.Equal(t, later, *k.UpdatedAt())
}

func TestClone(t *testing.T) {
	k := knighttest.New(t)
	c := k.Clone()

	c.Heroify(knighttest.Now)
	require.NoError(t, c.UpdateNickname("other", knighttest.Now))

	assert.False(t, k.IsHero())
	assert.NotEqual(t, "other", k.Nickname())
	assert.Equal(t, k.ID(), c.ID())
}

func TestAgeAt(t *testing.T) {
	now := time.Date(2024, time.June, 15, 23, 0, 0, 0, time.UTC)
	cases := []struct {
		birthday time.Time
		want     int
	}{
		{time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC), 34},
		{time.Date(1990, time.June, 16, 0, 0, 0, 0, time.UTC), 33},
		{time.Date(1990, time.July, 1, 0, 0, 0, 0, time.UTC), 33},
		{time.Date(1990, time.May, 30, 0, 0, 0, 0, time.UTC), 34},
		{time.Date(2020, time.February, 29, 0, 0, 0, 0, time.UTC), 4},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, models.AgeAt(tc.birthday, now), tc.birthday.Format(models.DateLayout))
	}
}

func TestExperience(t *testing.T) {
	cases := map[int]int{-3: 0, 0: 0, 6: 0, 7: 0, 8: 88, 9: 176, 20: 1149}
	for age, want := range cases {
		assert.Equal(t, want, models.Experience(age), "age %d", age)
	}
	for age := 0; age < 120; age++ {
		assert.GreaterOrEqual(t, models.Experience(age), 0)
	}
}

func TestAttack(t *testing.T) {
	weapons := []models.Weapon{
		{Name: "bow", Mod: 2, Attr: models.Dexterity},
		{Name: "axe", Mod: 4, Attr: models.Strength, Equipped: true},
		{Name: "spear", Mod: 9, Attr: models.Strength, Equipped: true},
	}
	tiers := map[int]int{0: -2, 8: -2, 9: -1, 10: -1, 11: 0, 12: 0, 13: 1, 15: 1, 16: 2, 18: 2, 19: 3, 20: 3}
	for score, mod := range tiers {
		attack, err := models.Attack(models.Attributes{Wisdom: score}, models.Wisdom, weapons)
		require.NoError(t, err)
		assert.Equal(t, 10+mod+4, attack, "score %d", score)
	}

	_, err := models.Attack(models.Attributes{}, models.Wisdom, weapons[:1])
	assert.ErrorIs(t, err, models.ErrNoEquippedWeapon)

	_, err = models.Attack(models.Attributes{Wisdom: 21}, models.Wisdom, weapons)
	assert.Error(t, err)
}

func TestToMap(t *testing.T) {
	id := domain.MustParseKnightID("507f1f77bcf86cd799439011")
	k, err := models.NewKnight(id, knighttest.Props(knighttest.WithNickname("bors")), knighttest.Now)
	require.NoError(t, err)

	m := k.ToMap()
	assert.Equal(t, "507f1f77bcf86cd799439011", m["id"])
	assert.Equal(t, "bors", m["nickname"])
	assert.Equal(t, "1990-06-15", m["birthday"])
	assert.Equal(t, 14, m["attack"])
	assert.NotContains(t, m, "heroifiedAt")
	assert.NotContains(t, m, "updatedAt")

	k.Heroify(knighttest.Now)
	m = k.ToMap()
	assert.Contains(t, m, "heroifiedAt")
	assert.Contains(t, m, "updatedAt")

	b, err := json.Marshal(k)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "507f1f77bcf86cd799439011", decoded["id"])
	assert.Equal(t, "strength", decoded["keyAttribute"])
}

func TestNewSearchParams(t *testing.T) {
	p := models.NewSearchParams(search.Raw{Sort: "price", SortDir: "desc"}, " Heroes ")
	assert.True(t, p.HeroesOnly)
	assert.Equal(t, models.DefaultOrder, p.Order())

	p = models.NewSearchParams(search.Raw{Sort: "name", SortDir: "desc"}, "villains")
	assert.False(t, p.HeroesOnly)
	assert.Equal(t, "name", p.Order().Field)
}
