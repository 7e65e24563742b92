package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "knights/pkg/domain-errors"
)

func TestChecker(t *testing.T) {
	t.Run("zero value is valid", func(t *testing.T) {
		var c Checker
		assert.True(t, c.Valid())
		assert.Nil(t, c.Errors())
		assert.NoError(t, c.Err())
	})

	t.Run("accumulates every violation in order", func(t *testing.T) {
		var c Checker
		c.String("name", "", 255)
		c.String("nickname", strings.Repeat("x", 256), 255)
		c.IntRange("strength", 21, 0, 20)
		c.Add("strength", "is suspicious")
		OneOf(&c, "keyAttribute", "luck", []string{"strength", "wisdom"})

		require.False(t, c.Valid())
		errs := c.Errors()
		assert.Equal(t, []string{"must not be empty"}, errs["name"])
		assert.Equal(t, []string{"must be at most 255 characters"}, errs["nickname"])
		assert.Equal(t, []string{"must be between 0 and 20", "is suspicious"}, errs["strength"])
		assert.Equal(t, []string{"must be one of [strength wisdom]"}, errs["keyAttribute"])

		err := c.Err()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		de, ok := dErrors.As(err)
		require.True(t, ok)
		assert.Len(t, de.Fields, 4)
	})

	t.Run("length counts runes", func(t *testing.T) {
		var c Checker
		c.String("name", strings.Repeat("é", 255), 255)
		assert.True(t, c.Valid())
	})

	t.Run("reset clears violations", func(t *testing.T) {
		var c Checker
		c.Add("name", "bad")
		c.Reset()
		assert.True(t, c.Valid())
	})
}
